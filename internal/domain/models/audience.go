// internal/domain/models/audience.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Audience is the targeting set embedded in an announcement, chat, or
// event. It has no identity of its own; it lives and dies with its
// parent document.
//
// EntireTeam and IsMultiTeam widen resolution scope beyond the explicit
// user/group lists: EntireTeam pulls in the whole team roster, and
// IsMultiTeam consults every team in scope instead of just the caller's
// current one.
type Audience struct {
	Users       []primitive.ObjectID `bson:"users" json:"users"`
	Groups      []primitive.ObjectID `bson:"groups" json:"groups"`
	EntireTeam  bool                 `bson:"entire_team,omitempty" json:"entire_team,omitempty"`
	IsMultiTeam bool                 `bson:"is_multi_team,omitempty" json:"is_multi_team,omitempty"`
}

// IsZero reports whether the audience targets nothing at all.
func (a Audience) IsZero() bool {
	return len(a.Users) == 0 && len(a.Groups) == 0 && !a.EntireTeam
}

// HasUser reports whether the user id is listed explicitly.
func (a Audience) HasUser(userID primitive.ObjectID) bool {
	for _, id := range a.Users {
		if id == userID {
			return true
		}
	}
	return false
}
