// Package services implements the application operations on top of the
// repositories. Services take and return model types; HTTP concerns stay in
// the api package.
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/taskhub/taskhub-rest/auth"
	"github.com/taskhub/taskhub-rest/database"
	"github.com/taskhub/taskhub-rest/http_errors"
	"github.com/taskhub/taskhub-rest/models"
)

type UserService struct {
	users database.Repository[models.User]
	tasks database.Repository[models.Task]
}

func NewUserService(users database.Repository[models.User], tasks database.Repository[models.Task]) *UserService {
	return &UserService{
		users: users,
		tasks: tasks,
	}
}

// FindByUsernameOrEmail resolves a user by either identifier in a single
// query. Returns (nil, nil) when there is no match.
func (svc *UserService) FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	filter := database.NewFilter().WithWhere(
		database.NewWhere().Or(
			database.NewWhere().Eq("username", usernameOrEmail),
			database.NewWhere().Eq("email", usernameOrEmail),
		),
	)

	return svc.users.FindOne(ctx, filter)
}

func (svc *UserService) FindById(ctx context.Context, id string) (*models.User, error) {
	objectId, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, http_errors.NotFoundError("User not found")
	}

	return svc.users.FindById(ctx, objectId, nil)
}

func (svc *UserService) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	filter := database.NewFilter().WithWhere(database.NewWhere().Eq("username", username))
	count, err := svc.users.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (svc *UserService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	filter := database.NewFilter().WithWhere(database.NewWhere().Eq("email", email))
	count, err := svc.users.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all users ordered by creation time.
func (svc *UserService) List(ctx context.Context, limit, skip int64) ([]models.User, error) {
	filter := database.NewFilter().OrderByAsc("created")
	if limit > 0 {
		filter.Limit(limit)
	}
	if skip > 0 {
		filter.Skip(skip)
	}
	return svc.users.Find(ctx, filter)
}

// Promote grants the admin role. $addToSet keeps the role set free of
// duplicates, so promoting an admin again is a no-op.
func (svc *UserService) Promote(ctx context.Context, id string) (*models.User, error) {
	objectId, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, http_errors.NotFoundError("User not found")
	}

	filter := database.NewFilter().WithWhere(database.NewWhere().Eq("_id", objectId))
	update := bson.M{"$addToSet": bson.M{"roles": auth.RoleAdmin}}

	user, err := svc.users.FindOneAndUpdate(ctx, filter, update)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, http_errors.NotFoundError("User not found")
	}
	return user, nil
}

// Delete removes a user and all tasks the user owns. Tasks go first so a
// failure midway never leaves orphaned tasks behind a deleted owner.
func (svc *UserService) Delete(ctx context.Context, id string) error {
	objectId, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return http_errors.NotFoundError("User not found")
	}

	exists, err := svc.users.Exists(ctx, objectId)
	if err != nil {
		return err
	}
	if !exists {
		return http_errors.NotFoundError("User not found")
	}

	taskFilter := database.NewFilter().WithWhere(database.NewWhere().Eq("userId", objectId))
	if _, err := svc.tasks.DeleteMany(ctx, taskFilter); err != nil {
		return err
	}

	return svc.users.DeleteById(ctx, objectId)
}

// FindIdentityBySubject resolves the request identity for a validated token
// subject. Returns (nil, nil) when the subject no longer maps to a user.
func (svc *UserService) FindIdentityBySubject(ctx context.Context, subject string) (*auth.Identity, error) {
	filter := database.NewFilter().WithWhere(database.NewWhere().Eq("username", subject))
	user, err := svc.users.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return user.Identity(), nil
}
