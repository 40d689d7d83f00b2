package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/freecyberhawk/hakobot/internal/bot/keyboard"
	"github.com/freecyberhawk/hakobot/internal/bot/middleware"
	"github.com/freecyberhawk/hakobot/internal/pkg/review"
	"github.com/freecyberhawk/hakobot/internal/service"
	"github.com/freecyberhawk/hakobot/internal/wizard"
)

// superuserActions are the callbacks behind LevelSuperuser.
var superuserActions = map[string]bool{
	keyboard.ActionCreateAdmin:        true,
	keyboard.ActionConfirmCreateAdmin: true,
	keyboard.ActionAdmins:             true,
	keyboard.ActionSearchAdmin:        true,
	keyboard.ActionApprove:            true,
	keyboard.ActionReject:             true,
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		b.log.Debug("dropping callback without message", zap.String("callback_id", cq.ID))
		return
	}
	chatID := cq.Message.Chat.ID

	if !b.throttle.Allow(chatID) {
		b.answer(cq, textWait)
		return
	}

	unlock := b.lockChat(chatID)
	defer unlock()

	action, param := keyboard.Parse(cq.Data)

	level := middleware.LevelAdmin
	if superuserActions[action] {
		level = middleware.LevelSuperuser
	}
	decision := b.gate.Check(cq.From.ID, level)
	if !decision.Allowed {
		b.log.Info("access refused",
			zap.Int64("telegram_id", cq.From.ID),
			zap.String("action", action),
			zap.String("reason", decision.Reason.String()),
		)
		b.alert(cq, decision.Reason.Message())
		return
	}

	state, err := b.store.Load(ctx, chatID)
	if err != nil {
		b.log.Error("failed to load session", zap.Int64("chat_id", chatID), zap.Error(err))
		b.alert(cq, genericErrorText)
		return
	}

	r := &request{
		ctx:       ctx,
		chatID:    chatID,
		messageID: cq.Message.MessageID,
		from:      cq.From,
		admin:     decision.Admin,
		state:     state,
		callback:  cq,
	}

	answered, err := b.routeCallback(r, action, param)
	if err != nil {
		b.fail(r, action, err)
		return
	}
	if !answered {
		b.answer(cq, "")
	}
	b.save(r, action)
}

// routeCallback runs the handler for action. It reports whether the handler
// already answered the callback query.
func (b *Bot) routeCallback(r *request, action, param string) (bool, error) {
	switch action {
	case keyboard.ActionMainMenu:
		r.state.Cancel()
		return false, b.showWelcome(r)
	case keyboard.ActionCancel:
		r.state.Cancel()
		return false, b.edit(r, textCancelled, nil)
	case keyboard.ActionDuration:
		return b.chooseDuration(r, param)
	case keyboard.ActionSize:
		return b.chooseSize(r, param)
	case keyboard.ActionConfirmSubscription:
		return b.confirmSubscription(r, param)
	case keyboard.ActionUsers:
		return false, b.editUserList(r, keyboard.PageParam(param))
	case keyboard.ActionUser:
		return b.showUserDetail(r, param)
	case keyboard.ActionWallet:
		return b.walletAction(r, param)
	case keyboard.ActionCreateAdmin:
		r.state.StartAdminDraft()
		r.state.TrackMessage(r.messageID)
		return false, b.edit(r, b.mark(textAdminUsername), ptr(keyboard.Cancel()))
	case keyboard.ActionConfirmCreateAdmin:
		return b.confirmCreateAdmin(r)
	case keyboard.ActionAdmins:
		return false, b.editAdminList(r, keyboard.PageParam(param))
	case keyboard.ActionSearchAdmin:
		return false, b.startAdminSearch(r)
	case keyboard.ActionApprove:
		return b.approveReceipt(r, param)
	case keyboard.ActionReject:
		return b.rejectReceipt(r, param)
	}

	b.log.Debug("unknown callback", zap.Int64("chat_id", r.chatID), zap.String("data", r.callback.Data))
	return false, nil
}

func ptr(kb tgbotapi.InlineKeyboardMarkup) *tgbotapi.InlineKeyboardMarkup {
	return &kb
}

// invalidEvent answers a button that does not fit the wizard. The state is untouched.
func (b *Bot) invalidEvent(r *request, err error) (bool, error) {
	switch {
	case errors.Is(err, wizard.ErrWrongState):
		b.alert(r.callback, textStaleMenu)
		return true, nil
	case errors.Is(err, wizard.ErrInvalidInput):
		b.alert(r.callback, textInvalidOption)
		return true, nil
	}
	return false, err
}

func (b *Bot) chooseDuration(r *request, param string) (bool, error) {
	s := r.state.ActiveSubscription()
	if s == nil {
		// the duration menu outlives restarts; start over from it
		s = r.state.StartSubscription(b.limits())
	}
	if err := s.ChooseDuration(param); err != nil {
		return b.invalidEvent(r, err)
	}

	if s.State == wizard.StateAwaitingCustomDuration {
		return false, b.edit(r, b.mark(customMonthsPrompt(s.Limits)), nil)
	}
	return false, b.edit(r, b.mark(textChooseSize), ptr(keyboard.Sizes()))
}

func (b *Bot) chooseSize(r *request, param string) (bool, error) {
	s := r.state.ActiveSubscription()
	if s == nil {
		return b.invalidEvent(r, wizard.ErrWrongState)
	}
	if err := s.ChooseSize(param); err != nil {
		return b.invalidEvent(r, err)
	}

	switch s.State {
	case wizard.StateIdle:
		return false, b.edit(r, b.mark(textChooseDuration), ptr(keyboard.Durations()))
	case wizard.StateAwaitingCustomSize:
		return false, b.edit(r, b.mark(customSizePrompt(s.Limits)), nil)
	}
	return false, b.edit(r, b.mark(orderText(s.Order(b.cfg.Subscription.FlatPrice))), ptr(keyboard.FinalConfirm()))
}

func (b *Bot) confirmSubscription(r *request, param string) (bool, error) {
	s := r.state.ActiveSubscription()
	if s == nil {
		return b.invalidEvent(r, wizard.ErrWrongState)
	}
	if err := s.Confirm(param); err != nil {
		return b.invalidEvent(r, err)
	}

	if s.State == wizard.StateDurationChosen {
		return false, b.edit(r, b.mark(textChooseSize), ptr(keyboard.Sizes()))
	}

	order := s.Order(b.cfg.Subscription.FlatPrice)
	b.log.Info("subscription order confirmed",
		zap.Int64("chat_id", r.chatID),
		zap.Int64("admin_id", r.admin.ID),
		zap.Int("months", order.Months),
		zap.Int("size_gb", order.SizeGB),
		zap.Int64("price", order.Price),
	)
	r.state.Cancel()
	return false, b.edit(r, textOrderOK, nil)
}

func (b *Bot) editUserList(r *request, page int) error {
	up, err := b.svc.User.Page(r.admin, page)
	if err != nil {
		return err
	}
	p := keyboard.Paginate(up.Page, b.pageSize(), up.Total)
	return b.edit(r, b.mark(userListText(up.Total)), ptr(keyboard.UserList(up.Users, p)))
}

func (b *Bot) showUserDetail(r *request, username string) (bool, error) {
	user, err := b.svc.User.Detail(r.admin, username)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			b.alert(r.callback, textUserNotFound)
			return true, nil
		}
		return false, err
	}
	return false, b.edit(r, b.mark(userDetailText(user)), ptr(keyboard.BackToUsers(1)))
}

func (b *Bot) walletAction(r *request, param string) (bool, error) {
	switch param {
	case keyboard.WalletParamTransactions:
		payments, err := b.svc.Wallet.Transactions(r.admin.ID)
		if err != nil {
			return false, err
		}
		return false, b.edit(r, b.mark(transactionsText(payments)), ptr(keyboard.BackToMainMenu()))
	case keyboard.WalletParamTopUp:
		r.state.StartTopUp()
		return false, b.edit(r, textTopUpAmount, ptr(keyboard.Cancel()))
	}
	return b.invalidEvent(r, wizard.ErrInvalidInput)
}

func (b *Bot) editAdminList(r *request, page int) error {
	size := b.pageSize()
	admins, total, err := b.svc.Admin.List(page, size)
	if err != nil {
		return err
	}
	p := keyboard.Paginate(page, size, total)
	return b.edit(r, b.mark(adminListText(total)), ptr(keyboard.AdminList(admins, p)))
}

func (b *Bot) confirmCreateAdmin(r *request) (bool, error) {
	d := r.state.ActiveAdminDraft()
	if d == nil || !d.Ready() {
		b.alert(r.callback, textAdminIncomplete)
		return true, nil
	}

	admin, password, err := b.svc.Admin.Create(d)
	switch {
	case errors.Is(err, service.ErrAdminExists):
		r.state.Cancel()
		return false, b.edit(r, textAdminExists, nil)
	case errors.Is(err, service.ErrTelegramIDTaken):
		r.state.Cancel()
		return false, b.edit(r, textAdminIDTaken, nil)
	case err != nil:
		return false, err
	}

	b.log.Info("admin created",
		zap.Int64("chat_id", r.chatID),
		zap.Int64("admin_id", admin.ID),
		zap.String("username", admin.Username),
	)
	r.state.Cancel()
	return false, b.edit(r, adminCreatedText(admin, password), nil)
}

// approveReceipt credits the pending receipt under ref. The receipt is taken
// before crediting so a second reviewer cannot credit it too, and put back
// when crediting fails so the decision can be retried.
func (b *Bot) approveReceipt(r *request, ref string) (bool, error) {
	receipt, answered, err := b.takeReceipt(r, ref)
	if answered || err != nil {
		return answered, err
	}

	var balance int64
	if receipt.Amount > 0 {
		admin, payment, err := b.svc.Wallet.Deposit(receipt.TelegramID, receipt.Amount)
		if err != nil {
			b.restoreReceipt(r, ref, receipt)
			if errors.Is(err, service.ErrAdminNotFound) {
				b.alert(r.callback, middleware.ReasonUnauthorized.Message())
				return true, nil
			}
			return false, err
		}
		balance = admin.HakobotBalance
		b.log.Info("top-up approved",
			zap.Int64("reviewer_id", r.from.ID),
			zap.Int64("admin_id", admin.ID),
			zap.Int64("payment_id", payment.ID),
			zap.Int64("amount", receipt.Amount),
			zap.String("ref", ref),
		)
	}

	// the credit is committed from here on; a failed edit must not reopen it
	if err := b.editCaption(r, approvedCaption(receipt.Amount, balance)); err != nil {
		b.log.Warn("failed to mark receipt approved", zap.String("ref", ref), zap.Error(err))
	}
	b.notify(receipt.TelegramID, approvedNotice(receipt.Amount, balance))
	return false, nil
}

func (b *Bot) rejectReceipt(r *request, ref string) (bool, error) {
	receipt, answered, err := b.takeReceipt(r, ref)
	if answered || err != nil {
		return answered, err
	}

	b.log.Info("top-up rejected",
		zap.Int64("reviewer_id", r.from.ID),
		zap.Int64("telegram_id", receipt.TelegramID),
		zap.String("ref", ref),
	)
	if err := b.editCaption(r, textRejected); err != nil {
		b.log.Warn("failed to mark receipt rejected", zap.String("ref", ref), zap.Error(err))
	}
	b.notify(receipt.TelegramID, textNotifyReject)
	return false, nil
}

// takeReceipt claims the receipt under ref. It reports answered when the
// receipt was already decided and the reviewer has been told.
func (b *Bot) takeReceipt(r *request, ref string) (*review.Receipt, bool, error) {
	receipt, err := b.svc.Reviews.Take(r.ctx, ref)
	if errors.Is(err, review.ErrSettled) {
		b.alert(r.callback, textAlreadyReviewed)
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return receipt, false, nil
}

func (b *Bot) restoreReceipt(r *request, ref string, receipt *review.Receipt) {
	if err := b.svc.Reviews.Open(r.ctx, ref, *receipt); err != nil {
		b.log.Error("failed to reopen receipt",
			zap.String("ref", ref),
			zap.Int64("telegram_id", receipt.TelegramID),
			zap.Int64("amount", receipt.Amount),
			zap.Error(err),
		)
	}
}

func (b *Bot) startAdminSearch(r *request) error {
	r.state.StartAdminSearch()
	return b.edit(r, textAdminSearch, ptr(keyboard.Cancel()))
}

// notify messages the receipt submitter. A blocked bot is not the reviewer's problem.
func (b *Bot) notify(chatID int64, text string) {
	if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Warn("failed to notify submitter", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
