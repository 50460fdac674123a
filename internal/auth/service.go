package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopworks/storefront-backend/internal/users"
	pkgauth "github.com/shopworks/storefront-backend/pkg/auth"
	"github.com/shopworks/storefront-backend/pkg/auth/session"
	"github.com/shopworks/storefront-backend/pkg/config"
	"github.com/shopworks/storefront-backend/pkg/db"
	"github.com/shopworks/storefront-backend/pkg/db/models"
	pkgerrors "github.com/shopworks/storefront-backend/pkg/errors"
	"github.com/shopworks/storefront-backend/pkg/security"
)

// SessionStore persists server-side session markers keyed by token jti.
type SessionStore interface {
	Create(ctx context.Context, accessID string) error
	Revoke(ctx context.Context, accessID string) error
}

var _ SessionStore = (*session.Manager)(nil)

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	UserRepo *users.Repository
	Sessions SessionStore
	JWT      config.JWTConfig
	Password config.PasswordConfig
}

// Service exposes account registration and session management.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (SessionDTO, error)
	Login(ctx context.Context, input LoginInput) (SessionDTO, error)
	Logout(ctx context.Context, accessID string) error
	GetProfile(ctx context.Context, userID uuid.UUID) (UserDTO, error)
}

type service struct {
	userRepo *users.Repository
	sessions SessionStore
	jwt      config.JWTConfig
	password config.PasswordConfig
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session manager is required")
	}
	return &service{
		userRepo: params.UserRepo,
		sessions: params.Sessions,
		jwt:      params.JWT,
		password: params.Password,
		now:      time.Now,
	}, nil
}

// Register creates the account and immediately opens a session.
func (s *service) Register(ctx context.Context, input RegisterInput) (SessionDTO, error) {
	email := users.NormalizeEmail(input.Email)

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking email")
	}

	hash, err := security.HashPassword(s.password, input.Password)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
	}
	if input.Phone != "" {
		phone := input.Phone
		user.Phone = &phone
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "users_email_key") {
			return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating user")
	}

	return s.openSession(ctx, user)
}

// Login verifies credentials and opens a session.
func (s *service) Login(ctx context.Context, input LoginInput) (SessionDTO, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}
	if !user.IsActive {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is disabled")
	}

	ok, err := security.VerifyPassword(user.PasswordHash, input.Password)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	now := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording login")
	}
	user.LastLoginAt = &now

	return s.openSession(ctx, user)
}

// Logout revokes the session tied to the token's jti.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if accessID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

// GetProfile returns the public projection of the authenticated user.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}
	return toUserDTO(user), nil
}

func (s *service) openSession(ctx context.Context, user *models.User) (SessionDTO, error) {
	now := s.now()
	jti := uuid.NewString()

	token, err := pkgauth.MintAccessToken(s.jwt, now, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		JTI:    jti,
	})
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	if err := s.sessions.Create(ctx, jti); err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing session")
	}

	return SessionDTO{
		AccessToken: token,
		ExpiresAt:   now.Add(time.Duration(s.jwt.ExpirationMinutes) * time.Minute),
		User:        toUserDTO(user),
	}, nil
}

func toUserDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
