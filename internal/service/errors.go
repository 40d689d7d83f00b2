package service

import "errors"

var (
	ErrAdminNotFound   = errors.New("admin not found")
	ErrAdminExists     = errors.New("admin username already taken")
	ErrTelegramIDTaken = errors.New("telegram id already linked to an admin")
	ErrDraftIncomplete = errors.New("admin draft is not complete")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidAmount   = errors.New("amount must be positive")
)
