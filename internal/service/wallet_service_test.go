package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freecyberhawk/hakobot/internal/model"
	"github.com/freecyberhawk/hakobot/internal/testutil"
)

func TestWalletService_Deposit(t *testing.T) {
	s, db, cleanup := setupServices(t)
	defer cleanup()

	testutil.TestAdmin(t, db, testutil.WithTelegramID(321), testutil.WithBalance(1000))

	admin, payment, err := s.wallet.Deposit(321, 50000)
	require.NoError(t, err)
	assert.Equal(t, int64(51000), admin.HakobotBalance)
	assert.Equal(t, model.PaymentDeposit, payment.PaymentType)
	assert.Equal(t, int64(50000), payment.Amount)

	reloaded, err := s.admin.GetByTelegramID(321)
	require.NoError(t, err)
	assert.Equal(t, int64(51000), reloaded.HakobotBalance)
}

func TestWalletService_Deposit_Errors(t *testing.T) {
	s, db, cleanup := setupServices(t)
	defer cleanup()

	testutil.TestAdmin(t, db, testutil.WithTelegramID(321))

	_, _, err := s.wallet.Deposit(321, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = s.wallet.Deposit(999, 10)
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestWalletService_WithdrawAndTransactions(t *testing.T) {
	s, db, cleanup := setupServices(t)
	defer cleanup()

	admin := testutil.TestAdmin(t, db, testutil.WithTelegramID(5), testutil.WithBalance(100000))

	_, _, err := s.wallet.Deposit(5, 20000)
	require.NoError(t, err)
	_, err = s.wallet.Withdraw(admin.ID, 12200)
	require.NoError(t, err)

	_, err = s.wallet.Withdraw(admin.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = s.wallet.Withdraw(404, 1)
	assert.ErrorIs(t, err, ErrAdminNotFound)

	txs, err := s.wallet.Transactions(admin.ID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, model.PaymentWithdraw, txs[0].PaymentType)

	reloaded, err := s.admin.GetByTelegramID(5)
	require.NoError(t, err)
	assert.Equal(t, int64(107800), reloaded.HakobotBalance)
}
