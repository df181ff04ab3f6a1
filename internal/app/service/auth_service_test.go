package service

import (
	"context"
	"testing"
	"time"

	"github.com/reviewboost/reviewboost-backend/internal/app/model"
	"github.com/reviewboost/reviewboost-backend/internal/app/repository"
	"github.com/reviewboost/reviewboost-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB := db.SetupTestDB(t)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	require.NoError(t, db.SeedPlans(testDB))

	userRepo := repository.NewUserRepository(testDB)
	planRepo := repository.NewPlanRepository(testDB)
	svc := NewAuthService(userRepo, planRepo, "test-secret", 15*time.Minute, 24*time.Hour)
	return svc, testDB
}

func TestAuthService_Register(t *testing.T) {
	svc, testDB := setupAuthTest(t)

	user, tokens, err := svc.Register("owner@example.com", "password123", "Owner")
	require.NoError(t, err)
	require.NotNil(t, tokens)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	assert.Equal(t, "owner@example.com", user.Email)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)

	// new accounts start on the free tier
	require.NotNil(t, user.PlanID)
	var plan model.Plan
	require.NoError(t, testDB.First(&plan, *user.PlanID).Error)
	assert.Equal(t, model.PlanFree, plan.Code)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, _, err := svc.Register("owner@example.com", "password123", "Owner")
	require.NoError(t, err)

	_, _, err = svc.Register("owner@example.com", "different456", "Impostor")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := setupAuthTest(t)

	registered, _, err := svc.Register("owner@example.com", "password123", "Owner")
	require.NoError(t, err)

	user, tokens, err := svc.Login("owner@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, _, err := svc.Register("owner@example.com", "password123", "Owner")
	require.NoError(t, err)

	_, _, err = svc.Login("owner@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, _, err := svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Logout_WithoutRedis(t *testing.T) {
	svc, _ := setupAuthTest(t)

	// blacklisting is best-effort; without Redis logout must still succeed
	assert.NoError(t, svc.Logout(context.Background(), "some-token"))
}

func TestAuthService_UpdateProfile(t *testing.T) {
	svc, _ := setupAuthTest(t)

	user, _, err := svc.Register("owner@example.com", "password123", "Owner")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(user.ID, "Renamed Owner")
	require.NoError(t, err)
	assert.Equal(t, "Renamed Owner", updated.Name)

	// empty name keeps the current one
	updated, err = svc.UpdateProfile(user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Renamed Owner", updated.Name)
}

func TestAuthService_GetUserByID_NotFound(t *testing.T) {
	svc, _ := setupAuthTest(t)

	_, err := svc.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
