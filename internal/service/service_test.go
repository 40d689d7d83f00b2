package service

import (
	"testing"

	"gorm.io/gorm"

	"github.com/freecyberhawk/hakobot/config"
	"github.com/freecyberhawk/hakobot/internal/repository"
	"github.com/freecyberhawk/hakobot/internal/testutil"
)

type services struct {
	admin  *AdminService
	wallet *WalletService
	user   *UserService
}

func testConfig() *config.Config {
	return &config.Config{
		Bot: config.BotConfig{PageSize: 11, TransactionsShow: 10},
	}
}

func setupServices(t *testing.T) (*services, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := testConfig()

	adminRepo := repository.NewAdminRepository(db)
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	systemRepo := repository.NewSystemRepository(db)

	s := &services{
		admin:  NewAdminService(adminRepo, userRepo, systemRepo, cfg),
		wallet: NewWalletService(adminRepo, paymentRepo, cfg),
		user:   NewUserService(userRepo, cfg),
	}

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return s, db, cleanup
}
