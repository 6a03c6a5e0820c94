package api

import (
	"net/http"

	"github.com/taskhub/taskhub-rest/models"
	"github.com/taskhub/taskhub-rest/rest"
	"github.com/taskhub/taskhub-rest/services"
)

func TaskEndpoints(taskService *services.TaskService) []*rest.Endpoint {
	return []*rest.Endpoint{
		{
			Name:       "create_task",
			Method:     rest.MethodPOST,
			Path:       "/tasks",
			ActionType: rest.ActionTypeCreate,
			Model:      "Task",
			BodyParams: func() rest.Validable {
				return &TaskCreateRequest{}
			},
			Handler: func(ctx *rest.EndpointContext) error {
				body := ctx.ParsedBody.(*TaskCreateRequest)

				task, err := taskService.Create(ctx.Context(), identityFrom(ctx), body.Title, body.Description, models.TaskStatus(body.Status))
				if err != nil {
					return err
				}

				return ctx.RespondAndLog(newTaskResponse(task), task.Id.Hex(), rest.ResponseTypeJSON, http.StatusCreated)
			},
		},
		{
			Name:          "list_tasks",
			Method:        rest.MethodGET,
			Path:          "/tasks",
			ActionType:    rest.ActionTypeRead,
			Model:         "Task",
			AuditDisabled: true,
			Accepts: []rest.Param{
				rest.NewQueryParam("status", rest.QueryParamTypeString),
				rest.NewQueryParam("search", rest.QueryParamTypeString),
				rest.NewQueryParam("limit", rest.QueryParamTypeInt),
				rest.NewQueryParam("skip", rest.QueryParamTypeInt),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				opts := services.TaskListOptions{
					Status: ctx.QueryString("status"),
					Search: ctx.QueryString("search"),
					Limit:  ctx.QueryInt("limit", 50),
					Skip:   ctx.QueryInt("skip", 0),
				}

				tasks, err := taskService.List(ctx.Context(), identityFrom(ctx), opts)
				if err != nil {
					return err
				}

				return ctx.JSON(newTaskResponses(tasks))
			},
		},
		{
			Name:          "task_counts",
			Method:        rest.MethodGET,
			Path:          "/tasks/counts",
			ActionType:    rest.ActionTypeRead,
			Model:         "Task",
			AuditDisabled: true,
			Handler: func(ctx *rest.EndpointContext) error {
				counts, err := taskService.CountByStatus(ctx.Context(), identityFrom(ctx))
				if err != nil {
					return err
				}

				return ctx.JSON(StatusCounts{
					Pending:    counts[models.TaskStatusPending],
					InProgress: counts[models.TaskStatusInProgress],
					Completed:  counts[models.TaskStatusCompleted],
				})
			},
		},
		{
			Name:          "get_task",
			Method:        rest.MethodGET,
			Path:          "/tasks/:id",
			ActionType:    rest.ActionTypeRead,
			Model:         "Task",
			AuditDisabled: true,
			Accepts: []rest.Param{
				rest.NewPathParam("id", rest.PathParamTypeString, true),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				task, err := taskService.Get(ctx.Context(), identityFrom(ctx), ctx.PathParam("id"))
				if err != nil {
					return err
				}

				return ctx.JSON(newTaskResponse(task))
			},
		},
		{
			Name:       "update_task",
			Method:     rest.MethodPUT,
			Path:       "/tasks/:id",
			ActionType: rest.ActionTypeUpdate,
			Model:      "Task",
			Accepts: []rest.Param{
				rest.NewPathParam("id", rest.PathParamTypeString, true),
			},
			BodyParams: func() rest.Validable {
				return &TaskUpdateRequest{}
			},
			Handler: func(ctx *rest.EndpointContext) error {
				body := ctx.ParsedBody.(*TaskUpdateRequest)

				update := services.TaskUpdate{
					Title:       body.Title,
					Description: body.Description,
				}
				if body.Status != nil {
					status := models.TaskStatus(*body.Status)
					update.Status = &status
				}

				task, err := taskService.Update(ctx.Context(), identityFrom(ctx), ctx.PathParam("id"), update)
				if err != nil {
					return err
				}

				return ctx.RespondAndLog(newTaskResponse(task), task.Id.Hex(), rest.ResponseTypeJSON)
			},
		},
		{
			Name:       "delete_task",
			Method:     rest.MethodDELETE,
			Path:       "/tasks/:id",
			ActionType: rest.ActionTypeDelete,
			Model:      "Task",
			Accepts: []rest.Param{
				rest.NewPathParam("id", rest.PathParamTypeString, true),
			},
			Handler: func(ctx *rest.EndpointContext) error {
				id := ctx.PathParam("id")
				if err := taskService.Delete(ctx.Context(), identityFrom(ctx), id); err != nil {
					return err
				}

				return ctx.RespondAndLog(nil, id, rest.ResponseTypeNoContent, http.StatusNoContent)
			},
		},
	}
}
