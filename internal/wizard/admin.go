package wizard

import (
	"fmt"
	"regexp"
)

type AdminStep int

const (
	StepUsername AdminStep = iota + 1
	StepChatID
	StepBalance
	StepFee
	StepReview
)

const MinUsernameLength = 5

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.@-]{5,34}$`)

// AdminDraft collects a new admin one prompt at a time.
type AdminDraft struct {
	Step       AdminStep `json:"step"`
	Username   string    `json:"username,omitempty"`
	TelegramID int64     `json:"telegram_id,omitempty"`
	Balance    int64     `json:"balance,omitempty"`
	GbFee      int64     `json:"gb_fee,omitempty"`
}

func NewAdminDraft() *AdminDraft {
	return &AdminDraft{Step: StepUsername}
}

// Ready reports whether every field is filled and the draft awaits confirmation.
func (d *AdminDraft) Ready() bool {
	return d.Step == StepReview
}

// Text feeds the answer to the current prompt.
func (d *AdminDraft) Text(text string) error {
	switch d.Step {
	case StepUsername:
		if !usernamePattern.MatchString(text) {
			return fmt.Errorf("%w: username %q", ErrInvalidInput, text)
		}
		d.Username = text
		d.Step = StepChatID
	case StepChatID:
		n, ok := ParseNumber(text)
		if !ok || n == 0 {
			return fmt.Errorf("%w: chat id %q", ErrInvalidInput, text)
		}
		d.TelegramID = n
		d.Step = StepBalance
	case StepBalance:
		n, ok := ParseNumber(text)
		if !ok {
			return fmt.Errorf("%w: balance %q", ErrInvalidInput, text)
		}
		d.Balance = n
		d.Step = StepFee
	case StepFee:
		n, ok := ParseNumber(text)
		if !ok {
			return fmt.Errorf("%w: fee %q", ErrInvalidInput, text)
		}
		d.GbFee = n
		d.Step = StepReview
	default:
		return ErrWrongState
	}
	return nil
}
