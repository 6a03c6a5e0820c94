package services

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskhub/taskhub-rest/auth"
	"github.com/taskhub/taskhub-rest/database"
	"github.com/taskhub/taskhub-rest/http_errors"
	"github.com/taskhub/taskhub-rest/models"
)

// invalidCredentialsMessage is shared by every login failure so the response
// never reveals whether the account exists.
const invalidCredentialsMessage = "Invalid username or password"

type AuthService struct {
	users *UserService
	repo  database.Repository[models.User]
	codec *auth.Codec
	now   func() time.Time
}

func NewAuthService(users *UserService, repo database.Repository[models.User], codec *auth.Codec) *AuthService {
	return &AuthService{
		users: users,
		repo:  repo,
		codec: codec,
		now:   time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (svc *AuthService) WithClock(now func() time.Time) *AuthService {
	svc.now = now
	return svc
}

// Register creates a user with the default role and a bcrypt password hash.
// Username and email are checked up front for a friendly conflict message;
// the unique indexes remain the real guarantee under concurrency.
func (svc *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	taken, err := svc.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, http_errors.ConflictError("Username is already taken")
	}

	taken, err = svc.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, http_errors.ConflictError("Email is already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Roles:    []string{auth.RoleUser},
	}

	return svc.repo.Create(ctx, user)
}

// Login verifies the credentials and issues a bearer token. Unknown account
// and wrong password are indistinguishable in the returned error.
func (svc *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (string, *models.User, error) {
	user, err := svc.users.FindByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, http_errors.UnauthorizedError(invalidCredentialsMessage)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, http_errors.UnauthorizedError(invalidCredentialsMessage)
	}

	token, err := svc.codec.Issue(user.Username, svc.now())
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// CurrentUser loads the full user document for an authenticated principal.
func (svc *AuthService) CurrentUser(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	if identity == nil {
		return nil, http_errors.UnauthorizedError("Authentication required")
	}

	user, err := svc.users.FindById(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, http_errors.UnauthorizedError("Authentication required")
	}
	return user, nil
}
