package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"memo-api/src/domain"
	"memo-api/src/service"
)

// RegisterRequest represents input for registering a user
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginRequest represents input for logging in
type LoginRequest struct {
	Email    string
	Password string
}

// AuthResult is a user together with a freshly issued access token
type AuthResult struct {
	User  *domain.PublicUser `json:"user"`
	Token string             `json:"token"`
}

// UserUsecase defines the interface for account operations
type UserUsecase interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	CountUsers(ctx context.Context) (int, error)
	ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error)
}

type userUsecase struct {
	userRepo domain.UserRepository
	hasher   service.PasswordHasher
	tokens   service.JWTService
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(userRepo domain.UserRepository, hasher service.PasswordHasher, tokens service.JWTService) UserUsecase {
	return &userUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Register creates a local account and issues an access token
func (u *userUsecase) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, &domain.ValidationError{Message: "All fields are required"}
	}

	role := domain.RoleUser
	if req.Role != "" {
		role = domain.Role(req.Role)
		if !role.IsValid() {
			return nil, &domain.ValidationError{Field: "role", Message: "Invalid role"}
		}
	}

	email := strings.ToLower(req.Email)
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	hash, err := u.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.Create(ctx, &domain.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, err
	}

	return u.authResult(user)
}

// Login verifies credentials and issues an access token
func (u *userUsecase) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, &domain.ValidationError{Message: "Email and password are required"}
	}

	user, err := u.userRepo.FindByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		return nil, err
	}

	if !u.hasher.Compare(user.PasswordHash, req.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return u.authResult(user)
}

// GetUser retrieves a user by ID
func (u *userUsecase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, &domain.ValidationError{Field: "userId", Message: "User ID is required"}
	}
	return u.userRepo.FindByID(ctx, id)
}

// CountUsers counts all users
func (u *userUsecase) CountUsers(ctx context.Context) (int, error) {
	return u.userRepo.Count(ctx)
}

// ListUsers retrieves users with the given role, defaulting to plain users
func (u *userUsecase) ListUsers(ctx context.Context, role domain.Role) ([]domain.User, error) {
	if role == "" {
		role = domain.RoleUser
	}
	users, err := u.userRepo.FindByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (u *userUsecase) authResult(user *domain.User) (*AuthResult, error) {
	token, err := u.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &AuthResult{
		User:  user.ToPublic(),
		Token: token,
	}, nil
}
