package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/app/repositories"
	"github.com/rsharma-dev/inventra/app/services"
	"github.com/rsharma-dev/inventra/pkg/apperr"
	"github.com/rsharma-dev/inventra/pkg/auth"
)

func TestRegisterLoginRoundTrip(t *testing.T) {
	svc := services.NewAuthService(repositories.NewMemoryUserRepository())
	ctx := context.Background()

	res, err := svc.Register(ctx, services.RegisterInput{
		Name:     "Ravi Kumar",
		Email:    "ravi@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.NotEmpty(t, res.Token)
	assert.NotEqual(t, "secret123", res.User.Password, "password must be hashed")

	claims, err := auth.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.Hex(), claims.UserID)
	assert.Equal(t, "Ravi Kumar", claims.Name)

	login, err := svc.Login(ctx, services.LoginInput{Email: "ravi@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := services.NewAuthService(repositories.NewMemoryUserRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, services.RegisterInput{Name: "A", Email: "dup@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, services.RegisterInput{Name: "B", Email: "dup@example.com", Password: "other456"})
	assert.ErrorIs(t, err, apperr.ErrEmailTaken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := services.NewAuthService(repositories.NewMemoryUserRepository())
	ctx := context.Background()

	_, err := svc.Register(ctx, services.RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, services.LoginInput{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	// Unknown email returns the same error as a wrong password.
	_, err = svc.Login(ctx, services.LoginInput{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestUserJSONNeverLeaksPassword(t *testing.T) {
	svc := services.NewAuthService(repositories.NewMemoryUserRepository())

	res, err := svc.Register(context.Background(), services.RegisterInput{
		Name: "Priya", Email: "priya@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	data, err := json.Marshal(res.User)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "password")
	assert.NotContains(t, string(data), res.User.Password)
}

func TestUserServiceStatsAndRole(t *testing.T) {
	users := repositories.NewMemoryUserRepository()
	authSvc := services.NewAuthService(users)
	userSvc := services.NewUserService(users)
	ctx := context.Background()

	a, err := authSvc.Register(ctx, services.RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, err = authSvc.Register(ctx, services.RegisterInput{Name: "B", Email: "b@example.com", Password: "secret123"})
	require.NoError(t, err)

	promoted, err := userSvc.UpdateRole(ctx, a.User.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	stats, err := userSvc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Len(t, stats.ByRole, 2)
	assert.Len(t, stats.Recent, 2)

	require.NoError(t, userSvc.Delete(ctx, a.User.ID))
	err = userSvc.Delete(ctx, a.User.ID)
	assert.True(t, apperr.IsNotFound(err))
}
