// Package service implements signup, login and token verification.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ncobase/socialhub/core/user/data/repository"
	"github.com/ncobase/socialhub/core/user/structs"
	"github.com/ncobase/socialhub/crypto"
	"github.com/ncobase/socialhub/ecode"
	"github.com/ncobase/socialhub/logging/logger"
	"github.com/ncobase/socialhub/security/jwt"
	"github.com/ncobase/socialhub/validation/validator"

	"github.com/google/uuid"
)

var (
	ErrMissingFields      = ecode.Validation("All fields are required")
	ErrUserExists         = ecode.Duplicate("User already exists")
	ErrInvalidCredentials = ecode.Validation("invalid email or password")
	ErrUnauthorized       = ecode.Unauthenticated("Unauthorized")
)

// LoginResult is returned by Login.
type LoginResult struct {
	User  *structs.Limited `json:"user"`
	Token string           `json:"token"`
}

// Service handles authentication operations.
type Service struct {
	repo       repository.UserRepository
	tokens     *jwt.TokenManager
	logger     *logger.Logger
	bcryptCost int
}

// NewService creates a new auth service. bcryptCost falls back to
// crypto.DefaultCost when zero.
func NewService(logger *logger.Logger, repo repository.UserRepository, tokens *jwt.TokenManager, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = crypto.DefaultCost
	}
	return &Service{repo: repo, tokens: tokens, logger: logger, bcryptCost: bcryptCost}
}

// Signup creates a public account and returns an access token for it.
func (s *Service) Signup(ctx context.Context, req *structs.SignupRequest) (string, error) {
	req.UserName = strings.TrimSpace(req.UserName)
	req.Email = strings.TrimSpace(req.Email)
	if validator.HasTag(req, "required") {
		return "", ErrMissingFields
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return "", ecode.Validation(firstMessage(errs))
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return "", ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error(ctx, "Failed to check email", "error", err)
		return "", ecode.Internal("failed to sign up", err)
	}

	hash, err := crypto.HashPassword(ctx, req.Password, s.bcryptCost)
	if err != nil {
		return "", ecode.Internal("failed to hash password", err)
	}

	user := structs.NewUser(uuid.NewString(), req.UserName, req.Email, hash, req.Bio)
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", ErrUserExists
		}
		s.logger.Error(ctx, "Failed to create user", "error", err)
		return "", ecode.Internal("failed to sign up", err)
	}

	token, err := s.issue(user)
	if err != nil {
		s.logger.Error(ctx, "Failed to issue token", "error", err, "user_id", user.ID)
		return "", ecode.Internal("failed to issue token", err)
	}

	s.logger.Info(ctx, "User signed up", "user_id", user.ID)
	return token, nil
}

// Login verifies the credentials and returns the user with a fresh token.
// Unknown email and wrong password fail the same way.
func (s *Service) Login(ctx context.Context, req *structs.LoginRequest) (*LoginResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if validator.HasTag(req, "required") {
		return nil, ErrMissingFields
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error(ctx, "Failed to load user", "error", err)
		return nil, ecode.Internal("failed to log in", err)
	}
	if !crypto.ComparePassword(user.Password, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issue(user)
	if err != nil {
		s.logger.Error(ctx, "Failed to issue token", "error", err, "user_id", user.ID)
		return nil, ecode.Internal("failed to issue token", err)
	}

	s.logger.Info(ctx, "User logged in", "user_id", user.ID)
	return &LoginResult{User: user.Limited(), Token: token}, nil
}

// Authenticate resolves a bearer token to the id of an existing user.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}
	claims, err := s.tokens.DecodeToken(token)
	if err != nil {
		s.logger.Debug(ctx, "Token rejected", "error", err)
		return "", ErrUnauthorized
	}

	userID := jwt.GetUserIDFromToken(claims)
	if userID == "" {
		return "", ErrUnauthorized
	}

	exists, err := s.repo.Exists(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "Failed to check token user", "error", err, "user_id", userID)
		return "", ecode.Internal("failed to authenticate", err)
	}
	if !exists {
		return "", ErrUnauthorized
	}
	return userID, nil
}

func (s *Service) issue(u *structs.User) (string, error) {
	return s.tokens.GenerateAccessToken(uuid.NewString(), jwt.Payload{
		UserID:   u.ID,
		Email:    u.Email,
		UserName: u.UserName,
	})
}

func firstMessage(errs map[string]string) string {
	for _, field := range []string{"userName", "email", "password", "bio"} {
		if msg, ok := errs[field]; ok {
			return msg
		}
	}
	for _, msg := range errs {
		return msg
	}
	return ecode.FieldIsInvalid()
}
