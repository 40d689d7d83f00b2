package model

import (
	"time"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
	UserStatusLimited  UserStatus = "limited"
	UserStatusExpired  UserStatus = "expired"
	UserStatusOnHold   UserStatus = "on_hold"
)

// Valid reports whether s is one of the statuses the panel writes.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusDisabled, UserStatusLimited, UserStatusExpired, UserStatusOnHold:
		return true
	}
	return false
}

type ResetStrategy string

const (
	ResetNone  ResetStrategy = "no_reset"
	ResetDay   ResetStrategy = "day"
	ResetWeek  ResetStrategy = "week"
	ResetMonth ResetStrategy = "month"
	ResetYear  ResetStrategy = "year"
)

// User is a subscription account. The panel backend owns its lifecycle.
type User struct {
	ID                     int64         `gorm:"primaryKey" json:"id"`
	Username               string        `gorm:"size:34;uniqueIndex;not null" json:"username"`
	Status                 UserStatus    `gorm:"size:20;not null;default:active;index" json:"status"`
	UsedTraffic            int64         `gorm:"not null;default:0" json:"used_traffic"`
	DataLimit              *int64        `json:"data_limit,omitempty"`
	DataLimitResetStrategy ResetStrategy `gorm:"size:20;not null;default:no_reset" json:"data_limit_reset_strategy"`
	Expire                 *int64        `json:"expire,omitempty"` // unix seconds
	AdminID                *int64        `gorm:"index" json:"admin_id,omitempty"`
	Note                   string        `gorm:"size:500" json:"note"`
	SubUpdatedAt           *time.Time    `json:"sub_updated_at,omitempty"`
	OnlineAt               *time.Time    `json:"online_at,omitempty"`
	CreatedAt              time.Time     `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
