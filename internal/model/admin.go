package model

import (
	"time"
)

type Admin struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"size:34;uniqueIndex;not null" json:"username"`
	HashedPassword string    `gorm:"size:128;not null" json:"-"`
	IsSudo         bool      `gorm:"not null;default:false" json:"is_sudo"`
	TelegramID     *int64    `gorm:"index" json:"telegram_id,omitempty"`
	HakobotBalance int64     `gorm:"column:hakobot_balance;not null;default:0" json:"hakobot_balance"`
	HakobotGbFee   int64     `gorm:"column:hakobot_gb_fee;not null;default:2000" json:"hakobot_gb_fee"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Admin) TableName() string {
	return "admins"
}
