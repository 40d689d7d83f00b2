package model

import (
	"time"
)

type PaymentType string

const (
	PaymentDeposit  PaymentType = "deposit"
	PaymentWithdraw PaymentType = "withdraw"
)

// Payment is an append-only wallet ledger row.
type Payment struct {
	ID          int64       `gorm:"primaryKey" json:"id"`
	AdminID     int64       `gorm:"not null;index" json:"admin_id"`
	Amount      int64       `gorm:"not null" json:"amount"`
	PaymentType PaymentType `gorm:"size:10;not null" json:"payment_type"`
	Timestamp   time.Time   `gorm:"not null;autoCreateTime" json:"timestamp"`
}

func (Payment) TableName() string {
	return "payments"
}
