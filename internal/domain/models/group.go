// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is an ad-hoc named collection of users and nested groups.
//
// NOTE:
//   - The group graph is expected to be acyclic, but the resolver must
//     not assume it is: traversal carries a visited set and a repeated
//     id is skipped, never an error.
type Group struct {
	ID     primitive.ObjectID   `bson:"_id" json:"id"`
	Name   string               `bson:"name,omitempty" json:"name,omitempty"`
	Users  []primitive.ObjectID `bson:"users" json:"users"`
	Groups []primitive.ObjectID `bson:"groups" json:"groups"`
	TeamID primitive.ObjectID   `bson:"team_id,omitempty" json:"team_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ContainsUser reports direct (non-transitive) membership.
func (g Group) ContainsUser(userID primitive.ObjectID) bool {
	for _, id := range g.Users {
		if id == userID {
			return true
		}
	}
	return false
}
