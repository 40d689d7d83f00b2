package middleware

import (
	"errors"

	"go.uber.org/zap"

	"github.com/freecyberhawk/hakobot/internal/model"
	"github.com/freecyberhawk/hakobot/internal/service"
)

// Level is the privilege an action needs.
type Level int

const (
	LevelAdmin Level = iota
	LevelSuperuser
)

type Reason int

const (
	ReasonNone Reason = iota
	ReasonUnauthorized
	ReasonNotSuperuser
	ReasonLookupFailed
)

// Message is the refusal shown to the caller.
func (r Reason) Message() string {
	switch r {
	case ReasonUnauthorized:
		return "🚫 دسترسی غیرمجاز: شما ادمین نیستید."
	case ReasonNotSuperuser:
		return "🚫 فقط سوپر یوزرها اجازه دارند."
	case ReasonLookupFailed:
		return "⚠️ خطایی در بررسی دسترسی رخ داد."
	}
	return ""
}

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnauthorized:
		return "unauthorized"
	case ReasonNotSuperuser:
		return "not_superuser"
	case ReasonLookupFailed:
		return "lookup_failed"
	}
	return "unknown"
}

// Decision is the outcome of a gate check. Admin is set whenever the caller was found.
type Decision struct {
	Allowed bool
	Reason  Reason
	Admin   *model.Admin
}

// AdminLookup resolves a chat identity. Absent callers yield service.ErrAdminNotFound.
type AdminLookup interface {
	GetByTelegramID(telegramID int64) (*model.Admin, error)
}

type Gate struct {
	lookup    AdminLookup
	allowlist map[int64]struct{}
	log       *zap.Logger
}

// NewGate builds a gate. A non-empty allowlist refuses everyone not on it
// before the database is consulted.
func NewGate(lookup AdminLookup, allowlist []int64, log *zap.Logger) *Gate {
	g := &Gate{lookup: lookup, log: log}
	if len(allowlist) > 0 {
		g.allowlist = make(map[int64]struct{}, len(allowlist))
		for _, id := range allowlist {
			g.allowlist[id] = struct{}{}
		}
	}
	return g
}

func (g *Gate) Check(telegramID int64, level Level) Decision {
	if g.allowlist != nil {
		if _, ok := g.allowlist[telegramID]; !ok {
			return Decision{Reason: ReasonUnauthorized}
		}
	}

	admin, err := g.lookup.GetByTelegramID(telegramID)
	if err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			return Decision{Reason: ReasonUnauthorized}
		}
		g.log.Error("admin lookup failed", zap.Int64("telegram_id", telegramID), zap.Error(err))
		return Decision{Reason: ReasonLookupFailed}
	}

	if level == LevelSuperuser && !admin.IsSudo {
		return Decision{Reason: ReasonNotSuperuser, Admin: admin}
	}

	return Decision{Allowed: true, Admin: admin}
}
