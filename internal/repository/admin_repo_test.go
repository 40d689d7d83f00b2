package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/freecyberhawk/hakobot/internal/model"
	"github.com/freecyberhawk/hakobot/internal/testutil"
)

func TestAdminRepository_GetByTelegramID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAdminRepository(db)
	created := testutil.TestAdmin(t, db, testutil.WithTelegramID(42), testutil.WithSudo())

	found, err := repo.GetByTelegramID(42)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.True(t, found.IsSudo)
	assert.Equal(t, int64(2000), found.HakobotGbFee)
}

func TestAdminRepository_Create_KeepsZeroFee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAdminRepository(db)
	telegramID := int64(77)
	admin := &model.Admin{Username: "free_admin", HashedPassword: "x", TelegramID: &telegramID}
	require.NoError(t, repo.Create(admin))
	assert.NotZero(t, admin.ID)
	assert.False(t, admin.CreatedAt.IsZero())

	found, err := repo.GetByUsername("free_admin")
	require.NoError(t, err)
	assert.Zero(t, found.HakobotGbFee)
	assert.Zero(t, found.HakobotBalance)
}

func TestAdminRepository_GetByTelegramID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAdminRepository(db)

	_, err := repo.GetByTelegramID(99999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestAdminRepository_Exists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAdminRepository(db)
	testutil.TestAdmin(t, db, testutil.WithAdminUsername("hako1"), testutil.WithTelegramID(7))

	exists, err := repo.ExistsByUsername("hako1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername("nobody")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByTelegramID(7)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAdminRepository_ListAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAdminRepository(db)
	for i := 0; i < 5; i++ {
		testutil.TestAdmin(t, db)
	}

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	admins, err := repo.List(2, 2)
	require.NoError(t, err)
	require.Len(t, admins, 2)
	assert.Less(t, admins[0].ID, admins[1].ID)
}

func TestAdminRepository_AddBalance(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewAdminRepository(db)
	admin := testutil.TestAdmin(t, db, testutil.WithBalance(1000))

	require.NoError(t, repo.AddBalance(admin.ID, 500))
	require.NoError(t, repo.AddBalance(admin.ID, -200))

	found, err := repo.GetByID(admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1300), found.HakobotBalance)

	err = repo.AddBalance(99999, 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
