package auth

import "slices"

// Role names assigned to principals. Every registered user carries RoleUser;
// RoleAdmin is granted by promotion and the role set never shrinks.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// Identity is the per-request materialization of a validated token: the
// resolved principal and its current role set. It is created by the
// Authenticator, read by the guards and the services, and discarded when the
// request completes. It must never be cached or shared across requests.
type Identity struct {
	UserID   string
	Username string
	Email    string
	Roles    []string
}

func (i *Identity) GetPrincipalID() string {
	return i.UserID
}

func (i *Identity) GetPrincipalRoles() []string {
	return i.Roles
}

func (i *Identity) HasRole(name string) bool {
	return i != nil && slices.Contains(i.Roles, name)
}
