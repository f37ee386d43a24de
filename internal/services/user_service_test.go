package services

import (
	"fmt"
	"testing"

	"github.com/animehub/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestUser(t *testing.T, db *gorm.DB, username string, isAdult bool) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		Email:       fmt.Sprintf("%s@example.com", username),
		Password:    "not-a-real-hash",
		DisplayName: username,
		IsActive:    true,
		IsAdult:     isAdult,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestGetUserByUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	created := createTestUser(t, db, "sakura", false)

	user, err := svc.GetUserByUsername("sakura")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.GetUserByUsername("nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUserAdultFlag(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user := createTestUser(t, db, "kenji", false)

	require.NoError(t, svc.UpdateUserAdult(user.ID, true))

	reloaded, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsAdult)

	assert.ErrorIs(t, svc.UpdateUserAdult(uuid.New(), true), ErrNotFound)
}

func TestUpdateUserActive(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user := createTestUser(t, db, "hana", true)

	require.NoError(t, svc.UpdateUserActive(user.ID, false))

	reloaded, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
}

func TestUpdateDisplayName(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	user := createTestUser(t, db, "yuki", true)

	require.NoError(t, svc.UpdateDisplayName(user.ID, "Yuki S."))

	reloaded, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yuki S.", reloaded.DisplayName)

	assert.ErrorIs(t, svc.UpdateDisplayName(uuid.New(), "x"), ErrNotFound)
}
