package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicyTable() *PolicyTable {
	return NewPolicyTable(
		PublicRoute("/swagger-ui/*"),
		PublicRoute("/api/auth/login"),
		RoleRoute("/api/admin/*", RoleAdmin),
		AuthenticatedRoute("/api/tasks/*"),
		AuthenticatedRoute("/api/tasks"),
	)
}

func TestPolicyTable_Lookup(t *testing.T) {
	table := testPolicyTable()

	tests := []struct {
		name    string
		path    string
		matched bool
		pattern string
	}{
		{"exact match", "/api/auth/login", true, "/api/auth/login"},
		{"wildcard matches the prefix itself", "/swagger-ui", true, "/swagger-ui/*"},
		{"wildcard matches sub-paths", "/swagger-ui/index.html", true, "/swagger-ui/*"},
		{"wildcard does not match sibling prefixes", "/swagger-uisneaky", false, ""},
		{"admin sub-path", "/api/admin/users", true, "/api/admin/*"},
		{"no match", "/api/other", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, ok := table.Lookup(tt.path)
			assert.Equal(t, tt.matched, ok)
			if tt.matched {
				assert.Equal(t, tt.pattern, policy.Pattern)
			}
		})
	}
}

func TestPolicyTable_Evaluate(t *testing.T) {
	table := testPolicyTable()

	user := &Identity{UserID: "u1", Username: "alice", Roles: []string{RoleUser}}
	admin := &Identity{UserID: "u2", Username: "root", Roles: []string{RoleUser, RoleAdmin}}

	t.Run("public route allows anonymous", func(t *testing.T) {
		assert.NoError(t, table.Evaluate("/api/auth/login", nil))
	})

	t.Run("authenticated route rejects anonymous", func(t *testing.T) {
		err := table.Evaluate("/api/tasks", nil)
		assert.ErrorIs(t, err, ErrAuthenticationMissing)
	})

	t.Run("authenticated route allows any identity", func(t *testing.T) {
		assert.NoError(t, table.Evaluate("/api/tasks/123", user))
	})

	t.Run("role route without identity is an authentication failure", func(t *testing.T) {
		err := table.Evaluate("/api/admin/users", nil)
		assert.ErrorIs(t, err, ErrAuthenticationMissing)
	})

	t.Run("role route with identity lacking the role is an authorization failure", func(t *testing.T) {
		err := table.Evaluate("/api/admin/users", user)
		assert.ErrorIs(t, err, ErrInsufficientRole)
	})

	t.Run("role route allows the role holder", func(t *testing.T) {
		assert.NoError(t, table.Evaluate("/api/admin/users", admin))
	})

	t.Run("unmatched paths require authentication", func(t *testing.T) {
		err := table.Evaluate("/api/unmapped", nil)
		require.ErrorIs(t, err, ErrAuthenticationMissing)

		assert.NoError(t, table.Evaluate("/api/unmapped", user))
	})
}

func TestIdentity_HasRole(t *testing.T) {
	t.Run("nil identity has no roles", func(t *testing.T) {
		var identity *Identity
		assert.False(t, identity.HasRole(RoleUser))
	})

	t.Run("membership", func(t *testing.T) {
		identity := &Identity{Roles: []string{RoleUser}}
		assert.True(t, identity.HasRole(RoleUser))
		assert.False(t, identity.HasRole(RoleAdmin))
	})
}
