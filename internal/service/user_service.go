package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/vinealms/vinea-backend/internal/model"
	"github.com/vinealms/vinea-backend/internal/repository"
)

// ErrEmailTaken is returned when a signup reuses an existing email.
var ErrEmailTaken = errors.New("email already registered")

// UserService handles account registration and login.
type UserService struct {
	userRepo *repository.UserRepository
	auth     *AuthService
	log      zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, auth *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		auth:     auth,
		log:      log.With().Str("component", "user_service").Logger(),
	}
}

// Signup registers a learner account and returns the user with a token.
func (s *UserService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, string, error) {
	exists, err := s.userRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, "", ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      false,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.auth.GenerateToken(user.ID, user.Name, user.IsAdmin)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	s.log.Info().Int("user_id", user.ID).Msg("Account created")
	return user, token, nil
}

// Login authenticates by email and password and returns the user with a
// token. Admin accounts receive an admin token.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := s.auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(user.ID, user.Name, user.IsAdmin)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// GetByID retrieves a user account.
func (s *UserService) GetByID(ctx context.Context, id int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
