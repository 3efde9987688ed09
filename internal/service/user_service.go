package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cultural-map/internal/auth"
	"cultural-map/internal/model"
	"cultural-map/pkg/apierror"
)

// dummyPasswordHash is compared against when the username does not exist, so
// a login attempt costs one bcrypt verification either way and response
// timing does not reveal whether the account exists.
const dummyPasswordHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

type userStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	UpdateEmail(ctx context.Context, userID int64, email string) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

type UserService struct {
	users  userStore
	tokens *auth.TokenProvider
}

func NewUserService(users userStore, tokens *auth.TokenProvider) *UserService {
	return &UserService{users: users, tokens: tokens}
}

// Register creates a credential record. The role is one of CONSUMER,
// PRODUCER or ADMIN (default CONSUMER) and is stored with the ROLE_ prefix.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (model.UserProfile, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = "CONSUMER"
	}
	if role != "CONSUMER" && role != "PRODUCER" && role != "ADMIN" {
		return model.UserProfile{}, apierror.New("BAD_REQUEST", "invalid role: must be CONSUMER, PRODUCER or ADMIN", role, http.StatusBadRequest)
	}

	usernameTaken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return model.UserProfile{}, err
	}
	if usernameTaken {
		return model.UserProfile{}, apierror.New("ALREADY_EXISTS", "username already exists", username, http.StatusConflict)
	}

	emailTaken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.UserProfile{}, err
	}
	if emailTaken {
		return model.UserProfile{}, apierror.New("ALREADY_EXISTS", "email already exists", email, http.StatusConflict)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return model.UserProfile{}, err
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         "ROLE_" + role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.UserProfile{}, err
	}

	return profileOf(user), nil
}

// Login verifies credentials and issues a token. An unknown username and a
// wrong password produce the same generic failure.
func (s *UserService) Login(ctx context.Context, username string, password string) (model.LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if isNotFound(err) {
			auth.CheckPassword(password, dummyPasswordHash)
			return model.LoginResponse{}, apierror.New("UNAUTHORIZED", "invalid credentials", "", http.StatusUnauthorized)
		}
		return model.LoginResponse{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return model.LoginResponse{}, apierror.New("UNAUTHORIZED", "invalid credentials", "", http.StatusUnauthorized)
	}

	token, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		return model.LoginResponse{}, err
	}

	return model.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.Lifetime().Seconds()),
	}, nil
}

func (s *UserService) Profile(ctx context.Context, username string) (model.UserProfile, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return model.UserProfile{}, err
	}
	return profileOf(user), nil
}

// UpdateEmail changes the caller's email after checking the address is not
// used by another account.
func (s *UserService) UpdateEmail(ctx context.Context, username string, email string) (model.UserProfile, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return model.UserProfile{}, err
	}

	email = strings.TrimSpace(email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !isNotFound(err) {
		return model.UserProfile{}, err
	}
	if err == nil && existing.ID != user.ID {
		return model.UserProfile{}, apierror.New("ALREADY_EXISTS", "email is already in use by another account", "", http.StatusConflict)
	}

	if err := s.users.UpdateEmail(ctx, user.ID, email); err != nil {
		return model.UserProfile{}, err
	}

	user.Email = email
	return profileOf(user), nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, username string, currentPassword string, newPassword string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(currentPassword, user.PasswordHash) {
		return apierror.New("BAD_REQUEST", "incorrect current password", "", http.StatusBadRequest)
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, user.ID, hash)
}

func profileOf(user model.User) model.UserProfile {
	return model.UserProfile{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    auth.SplitRoles(user.Role),
	}
}

// hashPassword hashes and maps the bcrypt length limit to a client error.
// Request validation already caps passwords at 72 bytes; this covers callers
// that reach the service without it.
func hashPassword(password string) (string, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apierror.New("BAD_REQUEST", "password must be at most 72 bytes", "", http.StatusBadRequest)
		}
		return "", err
	}
	return hash, nil
}

func isNotFound(err error) bool {
	var apiErr *apierror.APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusNotFound
}
