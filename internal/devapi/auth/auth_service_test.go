package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hrm/internal/devapi/auth"
	autherrors "go-hrm/internal/devapi/auth/errors"
	authMock "go-hrm/internal/devapi/auth/mock"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func TestService_SignIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := authMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, testSecret, time.Hour)
	ctx := context.Background()

	password := "password123"
	pw, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)

	userID := uuid.New()
	mockUser := &auth.User{
		ID:       userID,
		Name:     "Admin",
		Email:    "admin@hrm.local",
		Password: string(pw),
		Role:     "Admin",
	}

	t.Run("Success SignIn", func(t *testing.T) {
		mockRepo.EXPECT().
			GetByEmail(ctx, mockUser.Email).
			Return(mockUser, nil)

		resp, err := service.SignIn(ctx, mockUser.Email, password)

		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, userID.String(), resp.User.ID)
		assert.Equal(t, "Admin", resp.User.Role)

		token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (interface{}, error) {
			return []byte(testSecret), nil
		})
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, userID.String(), claims["user_id"])
		assert.Equal(t, "Admin", claims["role"])
	})

	t.Run("Wrong Password", func(t *testing.T) {
		mockRepo.EXPECT().
			GetByEmail(ctx, mockUser.Email).
			Return(mockUser, nil)

		_, err := service.SignIn(ctx, mockUser.Email, "wrongpass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("Unknown Email", func(t *testing.T) {
		mockRepo.EXPECT().
			GetByEmail(ctx, "bad").
			Return(nil, gorm.ErrRecordNotFound)

		_, err := service.SignIn(ctx, "bad", "x")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestService_GetMe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := authMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, testSecret, time.Hour)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		id := uuid.New()
		mockRepo.EXPECT().
			GetByID(ctx, id).
			Return(&auth.User{ID: id, Name: "Budi", Email: "budi@hrm.local", Role: "Employee"}, nil)

		resp, err := service.GetMe(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, "Budi", resp.Name)
		assert.Equal(t, "Employee", resp.Role)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		_, err := service.GetMe(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("User Deleted", func(t *testing.T) {
		id := uuid.New()
		mockRepo.EXPECT().GetByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.GetMe(ctx, id.String())
		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}

func TestService_Seed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := authMock.NewMockRepository(ctrl)
	service := auth.NewService(mockRepo, testSecret, time.Hour)
	ctx := context.Background()

	users := []auth.SeedUser{
		{Name: "Admin", Email: "admin@hrm.local", Password: "password123", Role: "ADMIN"},
		{Name: "Employee", Email: "employee@hrm.local", Password: "password123", Role: "unknown"},
	}

	t.Run("Creates Missing Users", func(t *testing.T) {
		var created []*auth.User
		mockRepo.EXPECT().GetByEmail(ctx, "admin@hrm.local").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.EXPECT().GetByEmail(ctx, "employee@hrm.local").Return(nil, gorm.ErrRecordNotFound)
		mockRepo.EXPECT().Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, u *auth.User) error {
				created = append(created, u)
				return nil
			}).Times(2)

		require.NoError(t, service.Seed(ctx, users))
		require.Len(t, created, 2)
		assert.Equal(t, "Admin", created[0].Role)
		assert.Equal(t, "Employee", created[1].Role)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created[0].Password), []byte("password123")))
	})

	t.Run("Skips Existing Users", func(t *testing.T) {
		mockRepo.EXPECT().GetByEmail(ctx, gomock.Any()).Return(&auth.User{}, nil).Times(2)

		assert.NoError(t, service.Seed(ctx, users))
	})

	t.Run("Lookup Error", func(t *testing.T) {
		dbErr := errors.New("connection refused")
		mockRepo.EXPECT().GetByEmail(ctx, "admin@hrm.local").Return(nil, dbErr)

		assert.ErrorIs(t, service.Seed(ctx, users), dbErr)
	})
}
