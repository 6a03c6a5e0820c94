package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/taskhub/taskhub-rest/auth"
	"github.com/taskhub/taskhub-rest/database"
	"github.com/taskhub/taskhub-rest/http_errors"
	"github.com/taskhub/taskhub-rest/models"
)

const taskNotFoundMessage = "Task not found"

// TaskListOptions narrows and pages a task listing. All fields are optional.
type TaskListOptions struct {
	Status string
	Search string
	Limit  int64
	Skip   int64
}

// TaskUpdate carries the mutable task fields. Nil pointers leave the field
// untouched; ownership is never among them.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
}

// TaskService enforces per-resource ownership on every single-task operation.
// The owner id is folded into the same query that looks the task up, so a
// task owned by someone else and a task that does not exist are the same
// outcome: not found.
type TaskService struct {
	tasks database.Repository[models.Task]
}

func NewTaskService(tasks database.Repository[models.Task]) *TaskService {
	return &TaskService{tasks: tasks}
}

// ownerScoped builds the composite lookup filter: the task id and the
// caller's principal id in one query.
func (svc *TaskService) ownerScoped(taskID string, identity *auth.Identity) (*database.FilterBuilder, error) {
	if identity == nil {
		return nil, http_errors.NotFoundError(taskNotFoundMessage)
	}

	taskObjectId, err := bson.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, http_errors.NotFoundError(taskNotFoundMessage)
	}

	ownerObjectId, err := bson.ObjectIDFromHex(identity.UserID)
	if err != nil {
		return nil, http_errors.NotFoundError(taskNotFoundMessage)
	}

	return database.NewFilter().WithWhere(
		database.NewWhere().
			Eq("_id", taskObjectId).
			Eq("userId", ownerObjectId),
	), nil
}

// assertOwnership re-checks the returned document against the caller. The
// query already scoped by owner; this guards against a filter regression ever
// leaking someone else's task.
func assertOwnership(identity *auth.Identity, task *models.Task) error {
	if auth.Authorize(identity, task.UserId.Hex()) != auth.Allowed {
		return http_errors.NotFoundError(taskNotFoundMessage)
	}
	return nil
}

// Create inserts a task owned by the caller. The owner comes from the
// authenticated identity, never from the request body.
func (svc *TaskService) Create(ctx context.Context, identity *auth.Identity, title, description string, status models.TaskStatus) (*models.Task, error) {
	if identity == nil {
		return nil, http_errors.UnauthorizedError("Authentication required")
	}

	ownerObjectId, err := bson.ObjectIDFromHex(identity.UserID)
	if err != nil {
		return nil, http_errors.UnauthorizedError("Authentication required")
	}

	if status != "" && !status.IsValid() {
		return nil, http_errors.BadRequestError("Invalid task status")
	}

	task := models.Task{
		Title:       title,
		Description: description,
		Status:      status,
		UserId:      ownerObjectId,
	}

	return svc.tasks.Create(ctx, task)
}

// Get returns the caller's task or a not-found error.
func (svc *TaskService) Get(ctx context.Context, identity *auth.Identity, taskID string) (*models.Task, error) {
	filter, err := svc.ownerScoped(taskID, identity)
	if err != nil {
		return nil, err
	}

	task, err := svc.tasks.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, http_errors.NotFoundError(taskNotFoundMessage)
	}
	if err := assertOwnership(identity, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update mutates the caller's task and returns the updated document.
func (svc *TaskService) Update(ctx context.Context, identity *auth.Identity, taskID string, update TaskUpdate) (*models.Task, error) {
	filter, err := svc.ownerScoped(taskID, identity)
	if err != nil {
		return nil, err
	}

	fields := bson.M{}
	if update.Title != nil {
		fields["title"] = *update.Title
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Status != nil {
		if !update.Status.IsValid() {
			return nil, http_errors.BadRequestError("Invalid task status")
		}
		fields["status"] = *update.Status
	}
	if len(fields) == 0 {
		return nil, http_errors.BadRequestError("No fields to update")
	}

	task, err := svc.tasks.FindOneAndUpdate(ctx, filter, fields)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, http_errors.NotFoundError(taskNotFoundMessage)
	}
	if err := assertOwnership(identity, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the caller's task. A task owned by someone else deletes
// nothing and reports not found.
func (svc *TaskService) Delete(ctx context.Context, identity *auth.Identity, taskID string) error {
	filter, err := svc.ownerScoped(taskID, identity)
	if err != nil {
		return err
	}

	if err := svc.tasks.DeleteOne(ctx, filter); err != nil {
		var response *http_errors.ErrorResponse
		if errors.As(err, &response) && response.Code == 404 {
			return http_errors.NotFoundError(taskNotFoundMessage)
		}
		return err
	}
	return nil
}

// List returns the caller's tasks, optionally filtered by status and a
// case-insensitive title search, newest first.
func (svc *TaskService) List(ctx context.Context, identity *auth.Identity, opts TaskListOptions) ([]models.Task, error) {
	if identity == nil {
		return nil, http_errors.UnauthorizedError("Authentication required")
	}

	ownerObjectId, err := bson.ObjectIDFromHex(identity.UserID)
	if err != nil {
		return nil, http_errors.UnauthorizedError("Authentication required")
	}

	where := database.NewWhere().Eq("userId", ownerObjectId)

	if opts.Status != "" {
		status := models.TaskStatus(opts.Status)
		if !status.IsValid() {
			return nil, http_errors.BadRequestError("Invalid task status")
		}
		where.Eq("status", status)
	}

	if opts.Search != "" {
		where.Like("title", escapeRegex(opts.Search), "i")
	}

	filter := database.NewFilter().WithWhere(where).OrderByDesc("created")
	if opts.Limit > 0 {
		filter.Limit(opts.Limit)
	}
	if opts.Skip > 0 {
		filter.Skip(opts.Skip)
	}

	return svc.tasks.Find(ctx, filter)
}

// CountByStatus returns the caller's task totals per status.
func (svc *TaskService) CountByStatus(ctx context.Context, identity *auth.Identity) (map[models.TaskStatus]int64, error) {
	if identity == nil {
		return nil, http_errors.UnauthorizedError("Authentication required")
	}

	ownerObjectId, err := bson.ObjectIDFromHex(identity.UserID)
	if err != nil {
		return nil, http_errors.UnauthorizedError("Authentication required")
	}

	counts := map[models.TaskStatus]int64{}
	for _, status := range []models.TaskStatus{
		models.TaskStatusPending,
		models.TaskStatusInProgress,
		models.TaskStatusCompleted,
	} {
		filter := database.NewFilter().WithWhere(
			database.NewWhere().
				Eq("userId", ownerObjectId).
				Eq("status", status),
		)
		count, err := svc.tasks.Count(ctx, filter)
		if err != nil {
			return nil, err
		}
		counts[status] = count
	}

	return counts, nil
}
