package auth

import (
	"context"
	"errors"
	"time"

	autherrors "go-hrm/internal/devapi/auth/errors"
	"go-hrm/internal/rbac"
	"go-hrm/internal/shared/contextutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	SignIn(ctx context.Context, email, password string) (SignInResponse, error)
	GetMe(ctx context.Context, userID string) (*UserResponse, error)
	Seed(ctx context.Context, users []SeedUser) error
}

type service struct {
	repo      Repository
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, secret string, accessTTL time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		repo:      repo,
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) SignIn(ctx context.Context, email, password string) (SignInResponse, error) {
	logger := contextutil.GetLogger(ctx, s.logger)

	// 1. Ambil user
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("sign-in lookup failed", zap.Error(err))
		}
		return SignInResponse{}, autherrors.ErrInvalidCredentials
	}

	// 2. Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return SignInResponse{}, autherrors.ErrInvalidCredentials
	}

	// 3. Generate token
	token, err := s.generateToken(user.ID.String(), user.Role)
	if err != nil {
		logger.Error("sign token failed", zap.Error(err))
		return SignInResponse{}, autherrors.ErrTokenGenerationFailed
	}

	logger.Info("user signed in", zap.String("user_id", user.ID.String()))
	return SignInResponse{AccessToken: token, User: toUserResponse(user)}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := toUserResponse(u)
	return &resp, nil
}

// Seed creates the given users unless a user with the same email exists.
func (s *service) Seed(ctx context.Context, users []SeedUser) error {
	for _, su := range users {
		_, err := s.repo.GetByEmail(ctx, su.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		role := rbac.ParseRole(su.Role)
		if !role.Valid() {
			role = rbac.RoleEmployee
		}
		user := &User{
			ID:       uuid.New(),
			Name:     su.Name,
			Email:    su.Email,
			Password: string(hashed),
			Role:     role.String(),
			IsActive: true,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			return err
		}
		s.logger.Info("seeded user", zap.String("email", su.Email), zap.String("role", user.Role))
	}
	return nil
}

func (s *service) generateToken(userID, role string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(s.accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
