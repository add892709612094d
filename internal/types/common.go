package types

import "github.com/gofrs/uuid"

// HTTP Header Constants
const (
	HeaderUID           = "uid"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
)

// Authentication Constants
const (
	BearerPrefix = "Bearer "
	// ClaimKey is the JWT claim holding the user context
	ClaimKey = "claim"
	// UserCtxName is the fiber locals key for the authenticated UserContext
	UserCtxName = "user"
)

// Roles
const (
	UserRole   = "user"
	AuthorRole = "author"
	AdminRole  = "admin"
)

// UserContext is the caller identity taken from a verified token
type UserContext struct {
	UserID   uuid.UUID `json:"uid"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

// IsAdmin reports whether the caller holds the admin role
func (u UserContext) IsAdmin() bool {
	return u.Role == AdminRole
}

// HasRole reports whether the caller holds any of roles
func (u UserContext) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
