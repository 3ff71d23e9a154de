// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team is the top level of the membership hierarchy.
type Team struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Name   string             `bson:"name" json:"name"`
	Number int                `bson:"number,omitempty" json:"number,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Subdivision is a named slice of a team (a build group, a committee).
// Users record subdivision membership on their TeamMembership entries.
type Subdivision struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Name   string             `bson:"name" json:"name"`
	TeamID primitive.ObjectID `bson:"team_id" json:"team_id"`
}
