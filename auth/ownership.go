package auth

// Decision is the outcome of an ownership check.
type Decision int

const (
	Denied Decision = iota
	Allowed
)

// Authorize decides whether the identity owns the resource with the given
// owner id. Pure predicate: role membership is never consulted, ownership is
// the sole criterion. Callers collapse Denied into a not-found outcome so the
// denial never reveals whether the resource exists under another owner.
func Authorize(identity *Identity, ownerID string) Decision {
	if identity == nil || identity.UserID == "" || ownerID == "" {
		return Denied
	}
	if identity.UserID != ownerID {
		return Denied
	}
	return Allowed
}
