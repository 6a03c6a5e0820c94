package api

import (
	"net/http"

	"github.com/taskhub/taskhub-rest/rest"
	"github.com/taskhub/taskhub-rest/services"
)

func AdminEndpoints(userService *services.UserService) []*rest.Endpoint {
	return []*rest.Endpoint{
		{
			Name:          "admin_list_users",
			Method:        rest.MethodGET,
			Path:          "/admin/users",
			ActionType:    rest.ActionTypeRead,
			Model:         "User",
			AuditDisabled: true,
			Accepts: []rest.Param{
				rest.NewQueryParam("limit", rest.QueryParamTypeInt),
				rest.NewQueryParam("skip", rest.QueryParamTypeInt),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				users, err := userService.List(ctx.Context(), ctx.QueryInt("limit", 50), ctx.QueryInt("skip", 0))
				if err != nil {
					return err
				}

				return ctx.JSON(newUserResponses(users))
			},
		},
		{
			Name:       "admin_promote_user",
			Method:     rest.MethodPOST,
			Path:       "/admin/users/:id/promote",
			ActionType: rest.ActionTypeUpdate,
			Model:      "User",
			Accepts: []rest.Param{
				rest.NewPathParam("id", rest.PathParamTypeObjectID, true),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				user, err := userService.Promote(ctx.Context(), ctx.PathParam("id"))
				if err != nil {
					return err
				}

				return ctx.RespondAndLog(newUserResponse(user), user.Id.Hex(), rest.ResponseTypeJSON)
			},
		},
		{
			Name:       "admin_delete_user",
			Method:     rest.MethodDELETE,
			Path:       "/admin/users/:id",
			ActionType: rest.ActionTypeDelete,
			Model:      "User",
			Accepts: []rest.Param{
				rest.NewPathParam("id", rest.PathParamTypeObjectID, true),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				id := ctx.PathParam("id")
				if err := userService.Delete(ctx.Context(), id); err != nil {
					return err
				}

				return ctx.RespondAndLog(nil, id, rest.ResponseTypeNoContent, http.StatusNoContent)
			},
		},
	}
}
