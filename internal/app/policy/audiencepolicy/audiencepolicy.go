// internal/app/policy/audiencepolicy/audiencepolicy.go
package audiencepolicy

import (
	"github.com/morteam/server/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CanEditAudience reports whether the user may add or remove members on
// an entity's audience: the entity's creator always can, as can an
// admin. Everyone else gets a permission error at the feature layer.
func CanEditAudience(u models.User, creator primitive.ObjectID) bool {
	return u.ID == creator || u.HasCapability(models.Admin())
}

// CanDeleteAnnouncement reports whether the user may remove an
// announcement: its author, or an admin.
func CanDeleteAnnouncement(u models.User, a models.Announcement) bool {
	return u.ID == a.Author || u.HasCapability(models.Admin())
}

// CanDeleteChat reports whether the user may delete a chat. Members of
// two-person chats may always drop them; group chats fall to the
// creator or an admin.
func CanDeleteChat(u models.User, chat models.Chat) bool {
	if chat.IsTwoPeople {
		return chat.Audience.HasUser(u.ID)
	}
	return u.ID == chat.Creator || u.HasCapability(models.Admin())
}

// CanManageEvents reports whether the user may create events, take
// attendance, and excuse absences for the team.
func CanManageEvents(u models.User, teamID primitive.ObjectID) bool {
	return u.HasCapability(models.Leader(teamID))
}
