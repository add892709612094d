package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserContext_Roles(t *testing.T) {
	admin := UserContext{Username: "root", Role: AdminRole}
	author := UserContext{Username: "herbert", Role: AuthorRole}

	assert.True(t, admin.IsAdmin())
	assert.False(t, author.IsAdmin())
	assert.True(t, author.HasRole(AdminRole, AuthorRole))
	assert.False(t, author.HasRole(UserRole))
	assert.False(t, UserContext{}.HasRole())
}
