package api

import (
	"errors"

	"github.com/taskhub/taskhub-rest/auth"
	"github.com/taskhub/taskhub-rest/http_errors"
	"github.com/taskhub/taskhub-rest/rest"
)

// NewPolicyTable declares the route policies. First match wins, so the
// specific public routes come before the broader authenticated prefixes.
func NewPolicyTable() *auth.PolicyTable {
	return auth.NewPolicyTable(
		auth.PublicRoute("/swagger-ui/*"),
		auth.PublicRoute("/api-docs/*"),
		auth.PublicRoute("/webjars/*"),
		auth.PublicRoute("/api/auth/register"),
		auth.PublicRoute("/api/auth/login"),
		auth.AuthenticatedRoute("/api/auth/me"),
		auth.RoleRoute("/api/admin/*", auth.RoleAdmin),
		auth.AuthenticatedRoute("/api/tasks/*"),
		auth.AuthenticatedRoute("/api/tasks"),
	)
}

// NewAuthorizer adapts the authenticator to the application hook. A request
// with no usable token yields a nil principal, not an error; only principal
// store failures propagate, and those become a 500.
func NewAuthorizer(authenticator *auth.Authenticator) rest.Authorizer {
	return func(ctx *rest.EndpointContext) (rest.Principal, error) {
		identity, err := authenticator.Authenticate(ctx.Context(), ctx.Path(), ctx.AuthorizationHeader())
		if err != nil {
			return nil, http_errors.InternalServerError("Internal Server Error")
		}
		if identity == nil {
			return nil, nil
		}
		return identity, nil
	}
}

// NewRouteGuard adapts the policy table to the application hook, translating
// the two guard failures into their HTTP statuses.
func NewRouteGuard(table *auth.PolicyTable) rest.RouteGuard {
	return func(ctx *rest.EndpointContext) error {
		err := table.Evaluate(ctx.Path(), identityFrom(ctx))
		switch {
		case err == nil:
			return nil
		case errors.Is(err, auth.ErrAuthenticationMissing):
			return http_errors.UnauthorizedError("Authentication required")
		case errors.Is(err, auth.ErrInsufficientRole):
			return http_errors.ForbiddenError("Access denied")
		default:
			return err
		}
	}
}

// identityFrom recovers the full identity attached by the authorizer. Nil for
// unauthenticated requests.
func identityFrom(ctx *rest.EndpointContext) *auth.Identity {
	if ctx.Principal == nil {
		return nil
	}
	identity, ok := ctx.Principal.(*auth.Identity)
	if !ok {
		return nil
	}
	return identity
}
