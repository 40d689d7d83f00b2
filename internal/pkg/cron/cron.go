// Package cron sends the daily panel report to the super admins.
package cron

import (
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/freecyberhawk/hakobot/internal/pkg/textfmt"
	"github.com/freecyberhawk/hakobot/internal/service"
)

type StatsSource interface {
	Stats() (*service.PanelStats, error)
}

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Service struct {
	stats      StatsSource
	sender     Sender
	recipients []int64
	hour       int
	log        *zap.Logger
	now        func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewService reports at hour o'clock Tehran time to every recipient.
func NewService(stats StatsSource, sender Sender, recipients []int64, hour int, log *zap.Logger) *Service {
	return &Service{
		stats:      stats,
		sender:     sender,
		recipients: recipients,
		hour:       hour,
		log:        log,
		now:        time.Now,
		stopChan:   make(chan struct{}),
	}
}

func (s *Service) Start() {
	go s.runDailyReport()
	s.log.Info("daily report scheduled", zap.Int("hour", s.hour), zap.Int("recipients", len(s.recipients)))
}

// Stop is safe to call more than once.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// nextRun returns the first time at hour:00 in loc strictly after now.
func nextRun(now time.Time, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *Service) runDailyReport() {
	timer := time.NewTimer(time.Until(nextRun(s.now(), s.hour, textfmt.Tehran)))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			if err := s.RunNow(); err != nil {
				s.log.Error("daily report failed", zap.Error(err))
			}
			timer.Reset(time.Until(nextRun(s.now(), s.hour, textfmt.Tehran)))
		}
	}
}

// RunNow sends the report immediately. Every recipient is tried; the
// failures are combined.
func (s *Service) RunNow() error {
	stats, err := s.stats.Stats()
	if err != nil {
		return fmt.Errorf("failed to collect stats: %w", err)
	}

	text := reportText(s.now(), stats)
	var errs error
	for _, chatID := range s.recipients {
		if _, err := s.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}
	return errs
}

func reportText(now time.Time, st *service.PanelStats) string {
	return fmt.Sprintf(
		"📊 گزارش روزانه %s\n\n"+
			"👮 ادمین ها: %s\n"+
			"👥 کاربران: %s (فعال: %s)\n"+
			"💎 ترافیک کل: %s گیگابایت\n",
		textfmt.JalaliDate(now.In(textfmt.Tehran)),
		textfmt.Thousands(st.Admins),
		textfmt.Thousands(st.Users), textfmt.Thousands(st.ActiveUsers),
		textfmt.GB(st.TrafficBytes),
	)
}
