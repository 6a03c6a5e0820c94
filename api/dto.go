// Package api wires the HTTP surface: request and response shapes, the route
// policy table and the endpoint definitions.
package api

import (
	"time"

	"github.com/taskhub/taskhub-rest/http_errors"
	"github.com/taskhub/taskhub-rest/models"
	"github.com/taskhub/taskhub-rest/rest"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30" normalize:"trim,lowercase" sanitize:"alphanumeric"`
	Email    string `json:"email" validate:"required,email" normalize:"trim,lowercase"`
	Password string `json:"password" validate:"required,min=8,max=72"`
} // @name RegisterRequest

func (r *RegisterRequest) Validate(ctx *rest.EndpointContext) error {
	return nil
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required" normalize:"trim,lowercase"`
	Password        string `json:"password" validate:"required"`
} // @name LoginRequest

func (r *LoginRequest) Validate(ctx *rest.EndpointContext) error {
	return nil
}

type TaskCreateRequest struct {
	Title       string `json:"title" validate:"required,max=120" normalize:"trim" sanitize:"html"`
	Description string `json:"description" validate:"omitempty,max=2000" normalize:"trim" sanitize:"html"`
	Status      string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
} // @name TaskCreateRequest

func (r *TaskCreateRequest) Validate(ctx *rest.EndpointContext) error {
	return nil
}

type TaskUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=120" normalize:"trim" sanitize:"html"`
	Description *string `json:"description" validate:"omitempty,max=2000" normalize:"trim" sanitize:"html"`
	Status      *string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
} // @name TaskUpdateRequest

func (r *TaskUpdateRequest) Validate(ctx *rest.EndpointContext) error {
	if r.Title == nil && r.Description == nil && r.Status == nil {
		return http_errors.BadRequestError("No fields to update")
	}
	return nil
}

type LoginResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	Id       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
} // @name LoginResponse

type UserResponse struct {
	Id       string    `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Roles    []string  `json:"roles"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
} // @name UserResponse

type TaskResponse struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	UserId      string    `json:"userId"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
} // @name TaskResponse

type StatusCounts struct {
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
} // @name StatusCountsResponse

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		Id:       user.Id.Hex(),
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.Roles,
		Created:  user.Created,
		Modified: user.Modified,
	}
}

func newTaskResponse(task *models.Task) TaskResponse {
	return TaskResponse{
		Id:          task.Id.Hex(),
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		UserId:      task.UserId.Hex(),
		Created:     task.Created,
		Modified:    task.Modified,
	}
}

func newTaskResponses(tasks []models.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, newTaskResponse(&tasks[i]))
	}
	return responses
}

func newUserResponses(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, newUserResponse(&users[i]))
	}
	return responses
}
