package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/buildingops/maintenance-service/internal/auth"
	"github.com/buildingops/maintenance-service/internal/domain"
	"github.com/buildingops/maintenance-service/internal/repository"
	apperrors "github.com/buildingops/maintenance-service/pkg/util"
)

// AuthService handles registration and login.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Tokens     *auth.TokenManager
	BcryptCost int
	Logger     *zap.Logger
}

// RegisterInput describes a new account.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
	Role     domain.Role
}

// AuthResult carries a signed token and its owner.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// NewAuthService constructs the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokens:     deps.Tokens,
		bcryptCost: deps.BcryptCost,
		logger:     logger,
	}
}

// Register creates an account. Usernames and emails are unique; the default
// role is TENANT.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	details := map[string]any{}
	if strings.TrimSpace(input.Username) == "" {
		details["username"] = "required"
	}
	if strings.TrimSpace(input.Email) == "" || !strings.Contains(input.Email, "@") {
		details["email"] = "invalid"
	}
	if strings.TrimSpace(input.FullName) == "" {
		details["full_name"] = "required"
	}
	if len(input.Password) < 8 {
		details["password"] = "must be at least 8 characters"
	}
	if input.Role != "" && !domain.ValidRole(input.Role) {
		details["role"] = "invalid"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid registration fields", details)
	}

	if err := s.checkUnique(ctx, input.Username, input.Email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleTenant
	}
	user := &domain.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Login verifies credentials and issues a token. Deactivated accounts are
// refused even with a correct password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if !user.Active {
		return nil, apperrors.NewForbidden("account deactivated")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// GetUser fetches one account.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListTechnicians returns active accounts holding the TECHNICIAN role, the
// candidate pool for assignment.
func (s *AuthService) ListTechnicians(ctx context.Context) ([]domain.User, error) {
	technicians, err := s.users.ListByRole(ctx, domain.RoleTechnician, true)
	return technicians, apperrors.MapError(err)
}

// SetUserActive toggles account activation.
func (s *AuthService) SetUserActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Active = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.logger.Info("user activation changed", zap.String("user_id", id), zap.Bool("active", active))
	return user, nil
}

func (s *AuthService) checkUnique(ctx context.Context, username, email string) error {
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return apperrors.NewConflict("username already in use", map[string]any{"username": username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}
	if _, err := s.users.GetByEmail(ctx, strings.ToLower(email)); err == nil {
		return apperrors.NewConflict("email already in use", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}
	return nil
}
