// Package policy decides which authenticated identities may perform which
// operations. Identities are passed explicitly into the services; nothing
// here depends on the HTTP framework.
package policy

import "strings"

// Capability names as they appear in route declarations.
const (
	Admin     = "admin"
	Moderator = "moderator"
	Analyst   = "analyst"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID      uint
	Email       string
	Role        string
	IsAdmin     bool
	IsModerator bool
	IsAnalyst   bool
}

// Has reports whether the identity holds capability. The legacy role string
// is honoured as an alias for the matching flag. No capability implies
// another.
func (i *Identity) Has(capability string) bool {
	if i == nil {
		return false
	}
	switch strings.ToLower(capability) {
	case Admin:
		return i.IsAdmin || strings.EqualFold(i.Role, Admin)
	case Moderator:
		return i.IsModerator || strings.EqualFold(i.Role, Moderator)
	case Analyst:
		return i.IsAnalyst || strings.EqualFold(i.Role, Analyst)
	}
	return false
}

// Allows grants access when identity holds any of the required
// capabilities. A nil identity is always denied. An empty requirement
// admits any authenticated identity.
func Allows(identity *Identity, required ...string) bool {
	if identity == nil {
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, capability := range required {
		if identity.Has(capability) {
			return true
		}
	}
	return false
}
