package bot

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/freecyberhawk/hakobot/config"
	"github.com/freecyberhawk/hakobot/internal/bot/middleware"
	"github.com/freecyberhawk/hakobot/internal/pkg/review"
	"github.com/freecyberhawk/hakobot/internal/service"
	"github.com/freecyberhawk/hakobot/internal/session"
	"github.com/freecyberhawk/hakobot/internal/wizard"
)

// Sender is the part of *tgbotapi.BotAPI the handlers talk to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// UpdateSource delivers long polling updates.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Services struct {
	Admin  *service.AdminService
	Wallet *service.WalletService
	User   *service.UserService
	// Reviews defaults to an in-process ledger when nil.
	Reviews review.Ledger
}

const callbackBurst = 3

type Bot struct {
	sender   Sender
	gate     *middleware.Gate
	throttle *middleware.Throttle
	store    session.Store
	svc      Services
	cfg      *config.Config
	log      *zap.Logger
	now      func() time.Time

	// chat id -> *sync.Mutex, never evicted. Messages take the lock only after
	// the gate admits them, so strangers never add entries.
	chatLocks sync.Map
}

func New(
	sender Sender,
	gate *middleware.Gate,
	store session.Store,
	svc Services,
	cfg *config.Config,
	log *zap.Logger,
) *Bot {
	if svc.Reviews == nil {
		svc.Reviews = review.NewMemoryLedger(review.DefaultTTL)
	}
	return &Bot{
		sender:   sender,
		gate:     gate,
		throttle: middleware.NewThrottle(cfg.Bot.CallbackInterval, callbackBurst),
		store:    store,
		svc:      svc,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

func (b *Bot) limits() wizard.Limits {
	lim := wizard.Limits{MaxMonths: b.cfg.Subscription.MaxMonths, MaxGB: b.cfg.Subscription.MaxGB}
	if lim.MaxMonths < 1 {
		lim.MaxMonths = wizard.DefaultLimits.MaxMonths
	}
	if lim.MaxGB < 1 {
		lim.MaxGB = wizard.DefaultLimits.MaxGB
	}
	return lim
}

func (b *Bot) pageSize() int {
	if b.cfg.Bot.PageSize < 1 {
		return 11
	}
	return b.cfg.Bot.PageSize
}

// lockChat serializes updates for one chat so session load and save never interleave.
func (b *Bot) lockChat(chatID int64) func() {
	v, _ := b.chatLocks.LoadOrStore(chatID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// SetCommands registers the slash commands shown in the Telegram client menu.
func (b *Bot) SetCommands() error {
	_, err := b.sender.Request(tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "شروع مجدد"},
		tgbotapi.BotCommand{Command: "create_subscription", Description: "ساخت اشتراک"},
	))
	return err
}

// HandleUpdate routes one update to its handler.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	default:
		b.log.Debug("ignoring update", zap.Int("update_id", update.UpdateID))
	}
}

// Poll reads updates until ctx is cancelled. Updates are handled one at a time
// in arrival order.
func (b *Bot) Poll(ctx context.Context, src UpdateSource, timeout int) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeout
	updates := src.GetUpdatesChan(u)

	b.log.Info("polling for updates", zap.Int("timeout", timeout))
	for {
		select {
		case <-ctx.Done():
			src.StopReceivingUpdates()
			b.log.Info("polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}
