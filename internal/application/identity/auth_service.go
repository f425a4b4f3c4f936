package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartstore/backend/internal/domain/identity"
	"github.com/smartstore/backend/internal/domain/shared"
	"github.com/smartstore/backend/internal/infrastructure/auth"
)

// AuthService handles registration and authentication
type AuthService struct {
	users  identity.UserRepository
	tokens *auth.JWTService
	logger *zap.Logger
}

// NewAuthService creates an authentication service
func NewAuthService(users identity.UserRepository, tokens *auth.JWTService, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Register creates a customer account
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if err := s.checkTaken(ctx, req); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(req.Username, req.Email, req.Mobile, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	resp := toUserResponse(user)
	return &resp, nil
}

// Login authenticates a user and issues an access token. The identifier
// may be a username or a registered mobile number.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if errors.Is(err, shared.ErrNotFound) {
		user, err = s.users.FindByMobile(ctx, req.Username)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		s.logger.Warn("invalid password attempt", zap.String("username", req.Username))
		return nil, invalidCredentials()
	}

	user.RecordLogin()
	if err := s.users.Save(ctx, user); err != nil {
		s.logger.Error("failed to stamp last login", zap.Error(err))
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(user),
	}, nil
}

// Profile returns the account for an authenticated user
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *AuthService) checkTaken(ctx context.Context, req RegisterRequest) error {
	if _, err := s.users.FindByUsername(ctx, req.Username); err == nil {
		return shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return shared.NewDomainError("ALREADY_EXISTS", "Email is already registered")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	if _, err := s.users.FindByMobile(ctx, req.Mobile); err == nil {
		return shared.NewDomainError("ALREADY_EXISTS", "Mobile number is already registered")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return nil
}

func invalidCredentials() error {
	return shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
}

func toUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Mobile:      u.Mobile,
		Role:        string(u.Role),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
