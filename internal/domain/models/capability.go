// internal/domain/models/capability.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Capability is a single grant a user may hold. Admin is global;
// Leader is scoped to one team.
type Capability struct {
	kind   capabilityKind
	teamID primitive.ObjectID
}

type capabilityKind int

const (
	capAdmin capabilityKind = iota
	capLeader
)

// Admin returns the global admin capability.
func Admin() Capability {
	return Capability{kind: capAdmin}
}

// Leader returns the leader capability for the given team.
func Leader(teamID primitive.ObjectID) Capability {
	return Capability{kind: capLeader, teamID: teamID}
}

// HasCapability is the single authorization predicate for user grants.
// Admins implicitly hold every capability.
func (u User) HasCapability(c Capability) bool {
	if u.IsAdmin {
		return true
	}
	switch c.kind {
	case capAdmin:
		return false
	case capLeader:
		for _, m := range u.Teams {
			if m.TeamID == c.teamID && m.Leader {
				return true
			}
		}
	}
	return false
}
