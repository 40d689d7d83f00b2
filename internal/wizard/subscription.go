package wizard

import (
	"fmt"

	"github.com/freecyberhawk/hakobot/internal/model"
)

type SubscriptionState string

const (
	StateIdle                   SubscriptionState = "idle"
	StateAwaitingCustomDuration SubscriptionState = "awaiting_custom_duration"
	StateDurationChosen         SubscriptionState = "duration_chosen"
	StateAwaitingCustomSize     SubscriptionState = "awaiting_custom_size"
	StateSizeChosen             SubscriptionState = "size_chosen"
	StateConfirmed              SubscriptionState = "confirmed"
)

// Values carried by the duration, size and confirm buttons.
const (
	OptionCustom = "x"
	OptionBack   = "back"
	OptionOK     = "ok"
)

var (
	PresetDurations = []int{1, 3, 6}
	PresetSizes     = []int{30, 50, 80}
)

// Limits bounds the custom duration and size a caller may type.
type Limits struct {
	MaxMonths int `json:"max_months"`
	MaxGB     int `json:"max_gb"`
}

var DefaultLimits = Limits{MaxMonths: 12, MaxGB: 200}

// Subscription tracks the purchase flow: duration, then size, then confirm.
type Subscription struct {
	State  SubscriptionState `json:"state"`
	Months int               `json:"months,omitempty"`
	SizeGB int               `json:"size_gb,omitempty"`
	Limits Limits            `json:"limits"`
}

func NewSubscription(lim Limits) *Subscription {
	return &Subscription{State: StateIdle, Limits: lim}
}

// AwaitingText reports whether the next free-text message belongs to this flow.
func (s *Subscription) AwaitingText() bool {
	return s.State == StateAwaitingCustomDuration || s.State == StateAwaitingCustomSize
}

// ChooseDuration handles a duration button. The duration menu is on screen in
// idle, after a back from the size menu, and while a custom value is pending.
func (s *Subscription) ChooseDuration(v string) error {
	switch s.State {
	case StateIdle, StateAwaitingCustomDuration, StateDurationChosen:
	default:
		return ErrWrongState
	}

	if v == OptionCustom {
		s.State = StateAwaitingCustomDuration
		return nil
	}
	n, ok := preset(v, PresetDurations)
	if !ok {
		return fmt.Errorf("%w: duration %q", ErrInvalidInput, v)
	}
	s.Months = n
	s.SizeGB = 0
	s.State = StateDurationChosen
	return nil
}

// ChooseSize handles a size button; back returns to the duration menu.
func (s *Subscription) ChooseSize(v string) error {
	switch s.State {
	case StateDurationChosen, StateAwaitingCustomSize, StateSizeChosen:
	default:
		return ErrWrongState
	}

	switch v {
	case OptionBack:
		s.SizeGB = 0
		s.State = StateIdle
		return nil
	case OptionCustom:
		s.State = StateAwaitingCustomSize
		return nil
	}
	n, ok := preset(v, PresetSizes)
	if !ok {
		return fmt.Errorf("%w: size %q", ErrInvalidInput, v)
	}
	s.SizeGB = n
	s.State = StateSizeChosen
	return nil
}

// Text handles a typed custom duration (months) or size (GB).
func (s *Subscription) Text(text string) error {
	switch s.State {
	case StateAwaitingCustomDuration:
		n, ok := ParseNumber(text)
		if !ok || n < 1 || n > int64(s.Limits.MaxMonths) {
			return fmt.Errorf("%w: months %q", ErrInvalidInput, text)
		}
		s.Months = int(n)
		s.SizeGB = 0
		s.State = StateDurationChosen
		return nil
	case StateAwaitingCustomSize:
		n, ok := ParseNumber(text)
		if !ok || n < 1 || n > int64(s.Limits.MaxGB) {
			return fmt.Errorf("%w: size %q", ErrInvalidInput, text)
		}
		s.SizeGB = int(n)
		s.State = StateSizeChosen
		return nil
	}
	return ErrWrongState
}

// Confirm handles the final screen: ok finishes, back reopens the size menu.
func (s *Subscription) Confirm(v string) error {
	if s.State != StateSizeChosen {
		return ErrWrongState
	}
	switch v {
	case OptionOK:
		s.State = StateConfirmed
		return nil
	case OptionBack:
		s.State = StateDurationChosen
		return nil
	}
	return fmt.Errorf("%w: confirm %q", ErrInvalidInput, v)
}

// Order returns the selection priced at price. Valid once a size is chosen.
func (s *Subscription) Order(price int64) model.SubscriptionOrder {
	return model.SubscriptionOrder{Months: s.Months, SizeGB: s.SizeGB, Price: price}
}

func preset(v string, allowed []int) (int, bool) {
	n, ok := ParseNumber(v)
	if !ok {
		return 0, false
	}
	for _, a := range allowed {
		if int64(a) == n {
			return a, true
		}
	}
	return 0, false
}
