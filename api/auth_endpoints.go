package api

import (
	"net/http"
	"time"

	"github.com/taskhub/taskhub-rest/rest"
	"github.com/taskhub/taskhub-rest/services"
)

func AuthEndpoints(authService *services.AuthService) []*rest.Endpoint {
	return []*rest.Endpoint{
		{
			Name:       "register",
			Method:     rest.MethodPOST,
			Path:       "/auth/register",
			ActionType: rest.ActionTypeRegister,
			Model:      "User",
			BodyParams: func() rest.Validable {
				return &RegisterRequest{}
			},
			Handler: func(ctx *rest.EndpointContext) error {
				body := ctx.ParsedBody.(*RegisterRequest)

				user, err := authService.Register(ctx.Context(), body.Username, body.Email, body.Password)
				if err != nil {
					return err
				}

				return ctx.RespondAndLog(newUserResponse(user), user.Id.Hex(), rest.ResponseTypeJSON, http.StatusCreated)
			},
		},
		{
			Name:       "login",
			Method:     rest.MethodPOST,
			Path:       "/auth/login",
			ActionType: rest.ActionTypeLogin,
			Model:      "User",
			BodyParams: func() rest.Validable {
				return &LoginRequest{}
			},
			RateLimiter: func(ctx *rest.EndpointContext) rest.RateLimit {
				return rest.RateLimit{Max: 10, Window: time.Minute}
			},
			Handler: func(ctx *rest.EndpointContext) error {
				body := ctx.ParsedBody.(*LoginRequest)

				token, user, err := authService.Login(ctx.Context(), body.UsernameOrEmail, body.Password)
				if err != nil {
					return err
				}

				response := LoginResponse{
					Token:    token,
					Type:     "Bearer",
					Id:       user.Id.Hex(),
					Username: user.Username,
					Email:    user.Email,
					Roles:    user.Roles,
				}

				return ctx.RespondAndLog(response, user.Id.Hex(), rest.ResponseTypeJSON)
			},
		},
		{
			Name:          "current_user",
			Method:        rest.MethodGET,
			Path:          "/auth/me",
			ActionType:    rest.ActionTypeRead,
			Model:         "User",
			AuditDisabled: true,
			Handler: func(ctx *rest.EndpointContext) error {
				user, err := authService.CurrentUser(ctx.Context(), identityFrom(ctx))
				if err != nil {
					return err
				}

				return ctx.JSON(newUserResponse(user))
			},
		},
	}
}
