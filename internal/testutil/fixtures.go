package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/freecyberhawk/hakobot/internal/model"
)

var seq int64

func next() int64 {
	return atomic.AddInt64(&seq, 1)
}

// TestAdmin creates a non-sudo admin with a telegram id.
func TestAdmin(t *testing.T, db *gorm.DB, opts ...func(*model.Admin)) *model.Admin {
	t.Helper()

	n := next()
	telegramID := 500000 + n
	admin := &model.Admin{
		Username:       fmt.Sprintf("admin_%d", n),
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuvwxyz123456", // bcrypt hash placeholder
		TelegramID:     &telegramID,
		HakobotBalance: 0,
		HakobotGbFee:   2000,
	}

	for _, opt := range opts {
		opt(admin)
	}

	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}

	return admin
}

func WithAdminUsername(username string) func(*model.Admin) {
	return func(a *model.Admin) {
		a.Username = username
	}
}

func WithTelegramID(id int64) func(*model.Admin) {
	return func(a *model.Admin) {
		a.TelegramID = &id
	}
}

func WithSudo() func(*model.Admin) {
	return func(a *model.Admin) {
		a.IsSudo = true
	}
}

func WithBalance(balance int64) func(*model.Admin) {
	return func(a *model.Admin) {
		a.HakobotBalance = balance
	}
}

// TestUser creates an active user owned by adminID.
func TestUser(t *testing.T, db *gorm.DB, adminID int64, opts ...func(*model.User)) *model.User {
	t.Helper()

	user := &model.User{
		Username:               fmt.Sprintf("user_%d", next()),
		Status:                 model.UserStatusActive,
		DataLimitResetStrategy: model.ResetNone,
		AdminID:                &adminID,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

func WithStatus(status model.UserStatus) func(*model.User) {
	return func(u *model.User) {
		u.Status = status
	}
}

func WithNote(note string) func(*model.User) {
	return func(u *model.User) {
		u.Note = note
	}
}

func WithResetStrategy(strategy model.ResetStrategy) func(*model.User) {
	return func(u *model.User) {
		u.DataLimitResetStrategy = strategy
	}
}

func WithUsedTraffic(bytes int64) func(*model.User) {
	return func(u *model.User) {
		u.UsedTraffic = bytes
	}
}

func WithCreatedAt(at time.Time) func(*model.User) {
	return func(u *model.User) {
		u.CreatedAt = at
	}
}

// TestUsers creates n users for adminID with strictly increasing created_at.
func TestUsers(t *testing.T, db *gorm.DB, adminID int64, n int) []*model.User {
	t.Helper()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	users := make([]*model.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, TestUser(t, db, adminID,
			WithUsername(fmt.Sprintf("bulk_%03d", i)),
			WithCreatedAt(base.Add(time.Duration(i)*time.Minute)),
		))
	}
	return users
}
