package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freecyberhawk/hakobot/internal/testutil"
)

func TestUserService_Page(t *testing.T) {
	s, db, cleanup := setupServices(t)
	defer cleanup()

	sudo := testutil.TestAdmin(t, db, testutil.WithSudo())
	reseller := testutil.TestAdmin(t, db)
	testutil.TestUsers(t, db, reseller.ID, 52)
	testutil.TestUser(t, db, sudo.ID, testutil.WithUsername("sudo_own"))

	page, err := s.user.Page(reseller, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(52), page.Total)
	assert.Equal(t, 1, page.Page)
	require.Len(t, page.Users, 11)
	assert.Equal(t, "bulk_051", page.Users[0].Username)

	page, err = s.user.Page(reseller, 5)
	require.NoError(t, err)
	assert.Len(t, page.Users, 8)

	page, err = s.user.Page(sudo, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(53), page.Total)

	count, err := s.user.Count(reseller)
	require.NoError(t, err)
	assert.Equal(t, int64(52), count)

	// a sudo admin sees everyone but owns only its own users
	count, err = s.user.CountOwned(sudo.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUserService_Search(t *testing.T) {
	s, db, cleanup := setupServices(t)
	defer cleanup()

	admin := testutil.TestAdmin(t, db)
	testutil.TestUser(t, db, admin.ID, testutil.WithUsername("ali_phone"))
	testutil.TestUser(t, db, admin.ID, testutil.WithUsername("sara"), testutil.WithNote("Ali's tablet"))
	testutil.TestUser(t, db, admin.ID, testutil.WithUsername("reza"))

	page, err := s.user.Search(admin, "ALI", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Users, 2)
}

func TestUserService_Detail(t *testing.T) {
	s, db, cleanup := setupServices(t)
	defer cleanup()

	owner := testutil.TestAdmin(t, db)
	stranger := testutil.TestAdmin(t, db)
	sudo := testutil.TestAdmin(t, db, testutil.WithSudo())
	testutil.TestUser(t, db, owner.ID, testutil.WithUsername("mine"))

	user, err := s.user.Detail(owner, "mine")
	require.NoError(t, err)
	assert.Equal(t, "mine", user.Username)

	_, err = s.user.Detail(stranger, "mine")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.user.Detail(sudo, "mine")
	assert.NoError(t, err)
}
