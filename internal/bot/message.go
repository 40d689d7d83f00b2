package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/freecyberhawk/hakobot/internal/bot/keyboard"
	"github.com/freecyberhawk/hakobot/internal/bot/middleware"
	"github.com/freecyberhawk/hakobot/internal/pkg/review"
	"github.com/freecyberhawk/hakobot/internal/service"
	"github.com/freecyberhawk/hakobot/internal/wizard"
)

var errNoReviewChat = errors.New("no review chat configured")

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		b.log.Debug("dropping message without sender", zap.Int("message_id", msg.MessageID))
		return
	}
	chatID := msg.Chat.ID

	decision := b.gate.Check(msg.From.ID, middleware.LevelAdmin)
	if !decision.Allowed {
		b.log.Info("access refused",
			zap.Int64("telegram_id", msg.From.ID),
			zap.String("reason", decision.Reason.String()),
		)
		if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, decision.Reason.Message())); err != nil {
			b.log.Warn("failed to send refusal", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		return
	}

	unlock := b.lockChat(chatID)
	defer unlock()

	state, err := b.store.Load(ctx, chatID)
	if err != nil {
		b.log.Error("failed to load session", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}

	r := &request{
		ctx:    ctx,
		chatID: chatID,
		from:   msg.From,
		admin:  decision.Admin,
		state:  state,
	}

	action := "text"
	switch {
	case msg.IsCommand():
		action = "/" + msg.Command()
		err = b.handleCommand(r, msg.Command())
	case len(msg.Photo) > 0:
		action = "photo"
		err = b.handleReceipt(r, msg.Photo)
	case msg.Text != "":
		err = b.handleText(r, strings.TrimSpace(msg.Text))
	default:
		b.log.Debug("ignoring message without text", zap.Int64("chat_id", chatID))
		return
	}

	if err != nil {
		b.fail(r, action, err)
		return
	}
	b.save(r, action)
}

func (b *Bot) handleCommand(r *request, command string) error {
	switch command {
	case "start":
		return b.showWelcome(r)
	case "create_subscription":
		return b.startSubscription(r)
	}
	b.log.Debug("unknown command", zap.Int64("chat_id", r.chatID), zap.String("command", command))
	return nil
}

// handleText gives a running wizard the first claim on free text, then the
// menu buttons, then a pending admin search, then falls back to a user search.
func (b *Bot) handleText(r *request, text string) error {
	if d := r.state.ActiveAdminDraft(); d != nil && !d.Ready() {
		return b.adminDraftText(r, d, text)
	}
	if s := r.state.ActiveSubscription(); s != nil && s.AwaitingText() {
		return b.subscriptionText(r, s, text)
	}
	if t := r.state.ActiveTopUp(); t != nil && t.AwaitingAmount {
		return b.topUpAmount(r, text)
	}

	switch text {
	case keyboard.ButtonCreateSubscription:
		return b.startSubscription(r)
	case keyboard.ButtonManageUsers:
		return b.showUserList(r)
	case keyboard.ButtonMyWallet:
		return b.showWallet(r)
	case keyboard.ButtonManageAdmins:
		if !b.requireSuperuser(r) {
			return nil
		}
		return b.showAdminStats(r)
	}
	if r.state.SearchingAdmin() {
		if !b.requireSuperuser(r) {
			r.state.Cancel()
			return nil
		}
		return b.searchAdmin(r, text)
	}
	return b.searchUsers(r, text)
}

// requireSuperuser re-checks the caller at superuser level and sends the refusal.
func (b *Bot) requireSuperuser(r *request) bool {
	decision := b.gate.Check(r.from.ID, middleware.LevelSuperuser)
	if decision.Allowed {
		return true
	}
	b.log.Info("access refused",
		zap.Int64("telegram_id", r.from.ID),
		zap.String("reason", decision.Reason.String()),
	)
	if r.callback != nil {
		b.alert(r.callback, decision.Reason.Message())
		return false
	}
	if err := b.reply(r, decision.Reason.Message(), nil); err != nil {
		b.log.Warn("failed to send refusal", zap.Int64("chat_id", r.chatID), zap.Error(err))
	}
	return false
}

func (b *Bot) showWelcome(r *request) error {
	users, err := b.svc.User.Count(r.admin)
	if err != nil {
		return err
	}
	text := b.mark(welcomeText(b.now(), users, r.admin.HakobotBalance))
	return b.sendAndStore(r, text, keyboard.MainMenu(r.admin.IsSudo))
}

func (b *Bot) startSubscription(r *request) error {
	r.state.StartSubscription(b.limits())
	return b.reply(r, b.mark(textChooseDuration), keyboard.Durations())
}

func (b *Bot) subscriptionText(r *request, s *wizard.Subscription, text string) error {
	wasDuration := s.State == wizard.StateAwaitingCustomDuration
	if err := s.Text(text); err != nil {
		if !errors.Is(err, wizard.ErrInvalidInput) {
			return err
		}
		if wasDuration {
			return b.reply(r, textMonthsOnly, nil)
		}
		return b.reply(r, textGBOnly, nil)
	}

	if wasDuration {
		return b.reply(r, b.mark(textChooseSize), keyboard.Sizes())
	}
	return b.reply(r, b.mark(orderText(s.Order(b.cfg.Subscription.FlatPrice))), keyboard.FinalConfirm())
}

var adminPrompts = map[wizard.AdminStep]string{
	wizard.StepUsername: textAdminUsername,
	wizard.StepChatID:   textAdminChatID,
	wizard.StepBalance:  textAdminBalance,
	wizard.StepFee:      textAdminFee,
}

func (b *Bot) adminDraftText(r *request, d *wizard.AdminDraft, text string) error {
	if err := d.Text(text); err != nil {
		if !errors.Is(err, wizard.ErrInvalidInput) {
			return err
		}
		return b.sendAndStore(r, textAdminInvalid+"\n"+adminPrompts[d.Step], keyboard.Cancel())
	}

	if d.Ready() {
		return b.sendAndStore(r, b.mark(draftSummary(d)), keyboard.ConfirmCreateAdmin())
	}
	return b.sendAndStore(r, adminPrompts[d.Step], keyboard.Cancel())
}

func (b *Bot) topUpAmount(r *request, text string) error {
	t := r.state.ActiveTopUp()
	n, ok := wizard.ParseNumber(text)
	if !ok || n <= 0 {
		return b.reply(r, textTopUpInvalid, keyboard.Cancel())
	}
	t.Amount = n
	t.AwaitingAmount = false
	t.AwaitingReceipt = true
	return b.reply(r, receiptPrompt(n), keyboard.Cancel())
}

func (b *Bot) showUserList(r *request) error {
	page, err := b.svc.User.Page(r.admin, 1)
	if err != nil {
		return err
	}
	p := keyboard.Paginate(page.Page, b.pageSize(), page.Total)
	return b.reply(r, b.mark(textChooseUser), keyboard.UserList(page.Users, p))
}

// searchUsers shows the first page of matches without paging controls; the
// page buttons belong to the unfiltered list.
func (b *Bot) searchUsers(r *request, query string) error {
	page, err := b.svc.User.Search(r.admin, query, 1)
	if err != nil {
		return err
	}
	text := searchText(query, len(page.Users), page.Total)
	if page.Total == 0 {
		return b.reply(r, text, nil)
	}
	single := keyboard.Paginate(1, b.pageSize(), int64(len(page.Users)))
	return b.reply(r, text, keyboard.UserList(page.Users, single))
}

func (b *Bot) showWallet(r *request) error {
	return b.reply(r, b.mark(walletText(r.admin)), keyboard.Wallet())
}

func (b *Bot) showAdminStats(r *request) error {
	stats, err := b.svc.Admin.Stats()
	if err != nil {
		return err
	}
	return b.reply(r, b.mark(statsText(stats)), keyboard.AdminsManagement())
}

// handleReceipt forwards the largest photo size to every review chat. Photos
// sent outside the top-up flow go out without an amount. The receipt is
// pending under its reference code until the first decision on any copy.
func (b *Bot) handleReceipt(r *request, photos []tgbotapi.PhotoSize) error {
	var amount int64
	if t := r.state.ActiveTopUp(); t != nil && t.AwaitingReceipt {
		amount = t.Amount
	}

	largest := photos[len(photos)-1]
	ref := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	caption := receiptCaption(r.from, r.admin, amount, ref)

	// open before sending so no copy can be decided before it exists
	if err := b.svc.Reviews.Open(r.ctx, ref, review.Receipt{TelegramID: r.from.ID, Amount: amount}); err != nil {
		return err
	}

	var (
		delivered int
		sendErr   error
	)
	for _, target := range b.cfg.Bot.ReviewTargets() {
		photo := tgbotapi.NewPhoto(target, tgbotapi.FileID(largest.FileID))
		photo.Caption = caption
		photo.ReplyMarkup = keyboard.ReceiptReview(ref)
		if _, err := b.sender.Send(photo); err != nil {
			b.log.Warn("failed to deliver receipt", zap.Int64("review_chat", target), zap.String("ref", ref), zap.Error(err))
			sendErr = multierr.Append(sendErr, fmt.Errorf("review chat %d: %w", target, err))
			continue
		}
		delivered++
	}
	if delivered == 0 {
		if _, err := b.svc.Reviews.Take(r.ctx, ref); err != nil && !errors.Is(err, review.ErrSettled) {
			b.log.Error("failed to drop undelivered receipt", zap.String("ref", ref), zap.Error(err))
		}
		if sendErr == nil {
			sendErr = errNoReviewChat
		}
		return sendErr
	}

	b.log.Info("receipt submitted",
		zap.Int64("chat_id", r.chatID),
		zap.Int64("admin_id", r.admin.ID),
		zap.Int64("amount", amount),
		zap.String("ref", ref),
		zap.Int("delivered", delivered),
	)

	if r.state.ActiveTopUp() != nil {
		r.state.Cancel()
	}
	return b.reply(r, textReceiptSent, nil)
}

func (b *Bot) searchAdmin(r *request, username string) error {
	admin, err := b.svc.Admin.FindByUsername(username)
	if errors.Is(err, service.ErrAdminNotFound) {
		return b.reply(r, textAdminNotFound, keyboard.Cancel())
	}
	if err != nil {
		return err
	}
	users, err := b.svc.User.CountOwned(admin.ID)
	if err != nil {
		return err
	}
	r.state.Cancel()
	return b.reply(r, b.mark(adminDetailText(admin, users)), keyboard.BackToMainMenu())
}
