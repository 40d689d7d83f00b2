package repository

import (
	"gorm.io/gorm"

	"github.com/freecyberhawk/hakobot/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

// ListByAdmin returns the newest payments first.
func (r *PaymentRepository) ListByAdmin(adminID int64, limit int) ([]*model.Payment, error) {
	var payments []*model.Payment
	query := r.db.Where("admin_id = ?", adminID).Order("timestamp DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// Record appends a ledger row and moves the admin balance in one transaction.
func (r *PaymentRepository) Record(adminID, amount int64, typ model.PaymentType) (*model.Payment, error) {
	payment := &model.Payment{
		AdminID:     adminID,
		Amount:      amount,
		PaymentType: typ,
	}

	delta := amount
	if typ == model.PaymentWithdraw {
		delta = -amount
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := NewAdminRepository(tx).AddBalance(adminID, delta); err != nil {
			return err
		}
		return tx.Create(payment).Error
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}
