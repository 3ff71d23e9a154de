// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered team member.
//
// NOTE:
//   - Users are created by the registration flow and are read-only to
//     the audience/attendance core.
//   - A user can belong to several teams; each TeamMembership carries
//     the subdivisions the user is part of within that team and whether
//     the user leads it.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName   string             `bson:"firstname" json:"firstname"`
	LastName    string             `bson:"lastname" json:"lastname"`
	Email       string             `bson:"email" json:"email"`
	Password    string             `bson:"password,omitempty" json:"-"` // bcrypt hash
	IsAdmin     bool               `bson:"is_admin" json:"is_admin"`
	Teams       []TeamMembership   `bson:"teams" json:"teams"`
	CurrentTeam primitive.ObjectID `bson:"current_team,omitempty" json:"current_team,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// TeamMembership records a user's place within one team.
type TeamMembership struct {
	TeamID         primitive.ObjectID   `bson:"team_id" json:"team_id"`
	SubdivisionIDs []primitive.ObjectID `bson:"subdivision_ids,omitempty" json:"subdivision_ids,omitempty"`
	Leader         bool                 `bson:"leader" json:"leader"`
}

// FullName returns the user's display name.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// InTeam reports whether the user belongs to the given team.
func (u User) InTeam(teamID primitive.ObjectID) bool {
	for _, m := range u.Teams {
		if m.TeamID == teamID {
			return true
		}
	}
	return false
}

// TeamIDs lists every team the user belongs to.
func (u User) TeamIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(u.Teams))
	for _, m := range u.Teams {
		ids = append(ids, m.TeamID)
	}
	return ids
}

// SubdivisionIDs lists the user's subdivisions across all teams.
func (u User) SubdivisionIDs() []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, m := range u.Teams {
		ids = append(ids, m.SubdivisionIDs...)
	}
	return ids
}
