package rest

// Principal is an authenticated caller attached to the request context.
type Principal interface {
	GetPrincipalID() string
	GetPrincipalRoles() []string
}

// Authorizer establishes the identity for a request. A nil Principal with a
// nil error means the request proceeds unauthenticated; route guards decide
// downstream whether that is acceptable.
type Authorizer func(*EndpointContext) (Principal, error)

// RouteGuard decides whether a request may proceed to its handler, based on
// the request path and the established Principal. It runs after the
// Authorizer and before the handler.
type RouteGuard func(*EndpointContext) error
