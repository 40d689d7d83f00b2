package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/freecyberhawk/hakobot/config"
	"github.com/freecyberhawk/hakobot/internal/model"
	"github.com/freecyberhawk/hakobot/internal/repository"
)

type WalletService struct {
	adminRepo   *repository.AdminRepository
	paymentRepo *repository.PaymentRepository
	cfg         *config.Config
}

func NewWalletService(adminRepo *repository.AdminRepository, paymentRepo *repository.PaymentRepository, cfg *config.Config) *WalletService {
	return &WalletService{
		adminRepo:   adminRepo,
		paymentRepo: paymentRepo,
		cfg:         cfg,
	}
}

// Deposit credits an approved top-up to the admin linked to telegramID.
func (s *WalletService) Deposit(telegramID, amount int64) (*model.Admin, *model.Payment, error) {
	if amount <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	admin, err := s.adminRepo.GetByTelegramID(telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAdminNotFound
		}
		return nil, nil, err
	}

	payment, err := s.paymentRepo.Record(admin.ID, amount, model.PaymentDeposit)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAdminNotFound
		}
		return nil, nil, err
	}

	admin.HakobotBalance += amount
	return admin, payment, nil
}

// Withdraw debits the wallet. Balances may go negative; the panel operator settles.
func (s *WalletService) Withdraw(adminID, amount int64) (*model.Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	payment, err := s.paymentRepo.Record(adminID, amount, model.PaymentWithdraw)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return payment, nil
}

// Transactions returns the newest ledger rows for adminID.
func (s *WalletService) Transactions(adminID int64) ([]*model.Payment, error) {
	limit := s.cfg.Bot.TransactionsShow
	if limit <= 0 {
		limit = 10
	}
	return s.paymentRepo.ListByAdmin(adminID, limit)
}
