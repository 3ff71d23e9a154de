// internal/domain/models/chat.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat is a conversation scoped to an audience. Two-person chats have
// no name or creator and exactly two audience users; group chats have a
// creator who may edit the audience.
type Chat struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name,omitempty" json:"name,omitempty"`
	Creator     primitive.ObjectID `bson:"creator,omitempty" json:"creator,omitempty"`
	Audience    Audience           `bson:"audience" json:"audience"`
	IsTwoPeople bool               `bson:"is_two_people" json:"is_two_people"`
	Messages    []Message          `bson:"messages,omitempty" json:"messages,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Message is one chat message, embedded newest-first on the chat.
type Message struct {
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Content   string             `bson:"content" json:"content"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// MaxChatNameLength caps group chat names (19 characters, historical).
const MaxChatNameLength = 19
