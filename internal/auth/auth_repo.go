package auth

import (
	"context"
	"strings"

	"go-hrm/internal/apiclient"
	autherrors "go-hrm/internal/auth/errors"

	"go.uber.org/zap"
)

const (
	pathSignIn = "/auth/signin"
	pathMe     = "/auth/me"
)

//go:generate mockgen -source=auth_repo.go -destination=mock/auth_repo_mock.go -package=mock
type Repository interface {
	SignIn(ctx context.Context, req SignInRequest) (SignInResponse, error)
	Me(ctx context.Context) (UserResponse, error)
}

type repository struct {
	client *apiclient.Client
	logger *zap.Logger
}

func NewRepository(client *apiclient.Client, logger ...*zap.Logger) Repository {
	l := zap.L().Named("auth.repository")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.repository")
	}
	return &repository{client: client, logger: l}
}

func (r *repository) SignIn(ctx context.Context, req SignInRequest) (SignInResponse, error) {
	var wire signInWire
	// sign-in is public: a 401 here means bad credentials, not an expired session
	if err := r.client.Post(ctx, pathSignIn, req, &wire, apiclient.Public()); err != nil {
		r.logger.Warn("sign in failed", zap.String("email", req.Email), zap.Error(err))
		return SignInResponse{}, err
	}

	token := strings.TrimSpace(wire.token())
	if token == "" {
		r.logger.Error("sign in response without token", zap.String("email", req.Email))
		return SignInResponse{}, autherrors.ErrUnexpectedSignIn
	}

	return SignInResponse{AccessToken: token, User: wire.user()}, nil
}

func (r *repository) Me(ctx context.Context) (UserResponse, error) {
	var wire meWire
	if err := r.client.Get(ctx, pathMe, &wire); err != nil {
		r.logger.Warn("get profile failed", zap.Error(err))
		return UserResponse{}, err
	}

	user := wire.user()
	if user.ID == "" && user.Email == "" {
		r.logger.Error("profile response without user")
		return UserResponse{}, autherrors.ErrUnexpectedProfile
	}
	return user, nil
}
