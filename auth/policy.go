package auth

import (
	"errors"
	"strings"
)

// Guard failures. The API layer translates these into 401 and 403.
var (
	ErrAuthenticationMissing = errors.New("authentication required")
	ErrInsufficientRole      = errors.New("insufficient role")
)

// Access is the authorization requirement of a route.
type Access int

const (
	// AccessPublic routes proceed regardless of identity.
	AccessPublic Access = iota
	// AccessAuthenticated routes require any authenticated identity.
	AccessAuthenticated
	// AccessRole routes additionally require a named role.
	AccessRole
)

// Policy binds a route pattern to an access requirement. A pattern ending in
// "/*" matches the path itself and all sub-paths; any other pattern matches
// exactly.
type Policy struct {
	Pattern string
	Access  Access
	Role    string
}

func PublicRoute(pattern string) Policy {
	return Policy{Pattern: pattern, Access: AccessPublic}
}

func AuthenticatedRoute(pattern string) Policy {
	return Policy{Pattern: pattern, Access: AccessAuthenticated}
}

func RoleRoute(pattern string, role string) Policy {
	return Policy{Pattern: pattern, Access: AccessRole, Role: role}
}

// PolicyTable is the static route-to-policy map evaluated before handler
// dispatch. Policies are matched in declaration order, first match wins, so
// more specific patterns must be declared before broader ones. Paths with no
// matching policy require authentication.
type PolicyTable struct {
	policies []Policy
}

func NewPolicyTable(policies ...Policy) *PolicyTable {
	return &PolicyTable{policies: policies}
}

// Lookup returns the first policy matching the path.
func (t *PolicyTable) Lookup(path string) (Policy, bool) {
	for _, policy := range t.policies {
		if matchPattern(policy.Pattern, path) {
			return policy, true
		}
	}
	return Policy{}, false
}

// Evaluate decides whether a request for path may proceed with the given
// identity. A nil identity is an unauthenticated request. The distinction
// between the two failures matters at the boundary: a missing identity is an
// authentication failure, a present identity lacking the role is an
// authorization failure.
func (t *PolicyTable) Evaluate(path string, identity *Identity) error {
	policy, ok := t.Lookup(path)
	if !ok {
		policy = AuthenticatedRoute(path)
	}

	switch policy.Access {
	case AccessPublic:
		return nil
	case AccessAuthenticated, AccessRole:
		if identity == nil {
			return ErrAuthenticationMissing
		}
		if policy.Access == AccessRole && !identity.HasRole(policy.Role) {
			return ErrInsufficientRole
		}
		return nil
	default:
		return ErrAuthenticationMissing
	}
}

func matchPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return path == pattern
}
