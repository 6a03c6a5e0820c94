package api

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/taskhub/taskhub-rest/database"
	"github.com/taskhub/taskhub-rest/http_errors"
	"github.com/taskhub/taskhub-rest/models"
)

// memoryTaskRepo is an in-memory stand-in for the mongo task repository. It
// interprets the handful of query shapes the services build.
type memoryTaskRepo struct {
	mu    sync.Mutex
	tasks map[bson.ObjectID]models.Task
}

func newMemoryTaskRepo() *memoryTaskRepo {
	return &memoryTaskRepo{tasks: map[bson.ObjectID]models.Task{}}
}

func (r *memoryTaskRepo) matches(query bson.M, task models.Task) bool {
	for key, value := range query {
		switch key {
		case "_id":
			if value != task.Id {
				return false
			}
		case "userId":
			if value != task.UserId {
				return false
			}
		case "status":
			if value != task.Status {
				return false
			}
		}
	}
	return true
}

func (r *memoryTaskRepo) GetConnector() database.Connector { return nil }

func (r *memoryTaskRepo) Find(_ context.Context, filter *database.FilterBuilder) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query, err := filter.Query()
	if err != nil {
		return nil, err
	}

	var result []models.Task
	for _, task := range r.tasks {
		if r.matches(query, task) {
			result = append(result, task)
		}
	}
	return result, nil
}

func (r *memoryTaskRepo) FindOne(_ context.Context, filter *database.FilterBuilder) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query, err := filter.Query()
	if err != nil {
		return nil, err
	}

	for _, task := range r.tasks {
		if r.matches(query, task) {
			found := task
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memoryTaskRepo) FindById(_ context.Context, id any, _ *database.FilterBuilder) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectId, ok := id.(bson.ObjectID)
	if !ok {
		return nil, nil
	}
	if task, exists := r.tasks[objectId]; exists {
		found := task
		return &found, nil
	}
	return nil, nil
}

func (r *memoryTaskRepo) Insert(_ context.Context, doc models.Task) (any, error) {
	created, err := r.Create(context.Background(), doc)
	if err != nil {
		return nil, err
	}
	return created.Id, nil
}

func (r *memoryTaskRepo) Create(_ context.Context, doc models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := doc.BeforeCreate(); err != nil {
		return nil, err
	}
	doc.Id = bson.NewObjectID()
	r.tasks[doc.Id] = doc
	return &doc, nil
}

func (r *memoryTaskRepo) UpdateOne(context.Context, *database.FilterBuilder, any) error { return nil }

func (r *memoryTaskRepo) UpdateById(context.Context, any, any) error { return nil }

func (r *memoryTaskRepo) FindOneAndUpdate(_ context.Context, filter *database.FilterBuilder, update any) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query, err := filter.Query()
	if err != nil {
		return nil, err
	}

	fields, ok := update.(bson.M)
	if !ok {
		return nil, nil
	}

	for id, task := range r.tasks {
		if !r.matches(query, task) {
			continue
		}
		if title, ok := fields["title"].(string); ok {
			task.Title = title
		}
		if description, ok := fields["description"].(string); ok {
			task.Description = description
		}
		if status, ok := fields["status"].(models.TaskStatus); ok {
			task.Status = status
		}
		r.tasks[id] = task
		found := task
		return &found, nil
	}
	return nil, nil
}

func (r *memoryTaskRepo) Count(_ context.Context, filter *database.FilterBuilder) (int64, error) {
	tasks, err := r.Find(context.Background(), filter)
	if err != nil {
		return 0, err
	}
	return int64(len(tasks)), nil
}

func (r *memoryTaskRepo) Exists(_ context.Context, id any) (bool, error) {
	task, err := r.FindById(context.Background(), id, nil)
	return task != nil, err
}

func (r *memoryTaskRepo) DeleteOne(_ context.Context, filter *database.FilterBuilder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query, err := filter.Query()
	if err != nil {
		return err
	}

	for id, task := range r.tasks {
		if r.matches(query, task) {
			delete(r.tasks, id)
			return nil
		}
	}
	return http_errors.NotFoundErrorWithCode("NO_DOCUMENTS_DELETED", "no documents matched the filter")
}

func (r *memoryTaskRepo) DeleteById(_ context.Context, id any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if objectId, ok := id.(bson.ObjectID); ok {
		delete(r.tasks, objectId)
	}
	return nil
}

func (r *memoryTaskRepo) DeleteMany(_ context.Context, filter *database.FilterBuilder) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query, err := filter.Query()
	if err != nil {
		return 0, err
	}

	var deleted int64
	for id, task := range r.tasks {
		if r.matches(query, task) {
			delete(r.tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

// memoryUserRepo is an in-memory stand-in for the mongo user repository.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[bson.ObjectID]models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[bson.ObjectID]models.User{}}
}

func (r *memoryUserRepo) matches(query bson.M, user models.User) bool {
	for key, value := range query {
		switch key {
		case "_id":
			if value != user.Id {
				return false
			}
		case "username":
			if value != user.Username {
				return false
			}
		case "email":
			if value != user.Email {
				return false
			}
		case "$or":
			clauses, ok := value.([]bson.M)
			if !ok {
				return false
			}
			anyMatch := false
			for _, clause := range clauses {
				if r.matches(clause, user) {
					anyMatch = true
					break
				}
			}
			if !anyMatch {
				return false
			}
		}
	}
	return true
}

func (r *memoryUserRepo) GetConnector() database.Connector { return nil }

func (r *memoryUserRepo) Find(_ context.Context, filter *database.FilterBuilder) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query, err := filter.Query()
	if err != nil {
		return nil, err
	}

	var result []models.User
	for _, user := range r.users {
		if r.matches(query, user) {
			result = append(result, user)
		}
	}
	return result, nil
}

func (r *memoryUserRepo) FindOne(_ context.Context, filter *database.FilterBuilder) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query, err := filter.Query()
	if err != nil {
		return nil, err
	}

	for _, user := range r.users {
		if r.matches(query, user) {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) FindById(_ context.Context, id any, _ *database.FilterBuilder) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectId, ok := id.(bson.ObjectID)
	if !ok {
		return nil, nil
	}
	if user, exists := r.users[objectId]; exists {
		found := user
		return &found, nil
	}
	return nil, nil
}

func (r *memoryUserRepo) Insert(_ context.Context, doc models.User) (any, error) {
	created, err := r.Create(context.Background(), doc)
	if err != nil {
		return nil, err
	}
	return created.Id, nil
}

func (r *memoryUserRepo) Create(_ context.Context, doc models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc.Id = bson.NewObjectID()
	r.users[doc.Id] = doc
	return &doc, nil
}

func (r *memoryUserRepo) UpdateOne(context.Context, *database.FilterBuilder, any) error { return nil }

func (r *memoryUserRepo) UpdateById(context.Context, any, any) error { return nil }

func (r *memoryUserRepo) FindOneAndUpdate(_ context.Context, filter *database.FilterBuilder, update any) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query, err := filter.Query()
	if err != nil {
		return nil, err
	}

	fields, ok := update.(bson.M)
	if !ok {
		return nil, nil
	}

	for id, user := range r.users {
		if !r.matches(query, user) {
			continue
		}
		if addToSet, ok := fields["$addToSet"].(bson.M); ok {
			if role, ok := addToSet["roles"].(string); ok {
				hasRole := false
				for _, existing := range user.Roles {
					if existing == role {
						hasRole = true
						break
					}
				}
				if !hasRole {
					user.Roles = append(user.Roles, role)
				}
			}
		}
		r.users[id] = user
		found := user
		return &found, nil
	}
	return nil, nil
}

func (r *memoryUserRepo) Count(_ context.Context, filter *database.FilterBuilder) (int64, error) {
	users, err := r.Find(context.Background(), filter)
	if err != nil {
		return 0, err
	}
	return int64(len(users)), nil
}

func (r *memoryUserRepo) Exists(_ context.Context, id any) (bool, error) {
	user, err := r.FindById(context.Background(), id, nil)
	return user != nil, err
}

func (r *memoryUserRepo) DeleteOne(_ context.Context, filter *database.FilterBuilder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query, err := filter.Query()
	if err != nil {
		return err
	}

	for id, user := range r.users {
		if r.matches(query, user) {
			delete(r.users, id)
			return nil
		}
	}
	return http_errors.NotFoundErrorWithCode("NO_DOCUMENTS_DELETED", "no documents matched the filter")
}

func (r *memoryUserRepo) DeleteById(_ context.Context, id any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if objectId, ok := id.(bson.ObjectID); ok {
		delete(r.users, objectId)
	}
	return nil
}

func (r *memoryUserRepo) DeleteMany(_ context.Context, filter *database.FilterBuilder) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query, err := filter.Query()
	if err != nil {
		return 0, err
	}

	var deleted int64
	for id, user := range r.users {
		if r.matches(query, user) {
			delete(r.users, id)
			deleted++
		}
	}
	return deleted, nil
}
