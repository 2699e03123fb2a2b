package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/cohorttools/cohort-tools-api/internal/crypto"
	"github.com/cohorttools/cohort-tools-api/internal/model"
	"github.com/cohorttools/cohort-tools-api/internal/repository"
)

// AuthService handles signup, login and user lookup.
type AuthService struct {
	users  repository.UserStore
	hasher *crypto.Hasher
	tokens *crypto.TokenManager

	decoyOnce sync.Once
	decoyHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserStore, hasher *crypto.Hasher, tokens *crypto.TokenManager) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Signup validates req, hashes the password and stores the new user. The
// plaintext password is not kept past this call.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (model.UserResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return model.UserResponse{}, asValidationError(err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user := &model.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.UserResponse{}, ErrEmailTaken
		}
		return model.UserResponse{}, err
	}

	slog.Info("user signed up", "user_id", user.ID)
	return model.NewUserResponse(*user), nil
}

// Login checks the credentials and issues a bearer token for the user.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	req.Email = model.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return model.LoginResponse{}, asValidationError(err)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Spend the same hashing cost as a real comparison.
			s.hasher.Verify(req.Password, s.decoy())
			return model.LoginResponse{}, ErrInvalidCredentials
		}
		return model.LoginResponse{}, err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return model.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.LoginResponse{}, err
	}

	return model.LoginResponse{Token: token}, nil
}

// GetUser returns the public view of the user with the given id.
func (s *AuthService) GetUser(ctx context.Context, id string) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, err
	}

	return model.NewUserResponse(*user), nil
}

func (s *AuthService) decoy() string {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash("decoy-password")
		if err != nil {
			slog.Warn("decoy hash failed", "error", err)
			return
		}
		s.decoyHash = hash
	})
	return s.decoyHash
}
