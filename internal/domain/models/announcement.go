// internal/domain/models/announcement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement is a broadcast post targeted at an audience.
type Announcement struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Content   string             `bson:"content" json:"content"` // sanitized HTML
	Audience  Audience           `bson:"audience" json:"audience"`
	TeamID    primitive.ObjectID `bson:"team_id" json:"team_id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}
