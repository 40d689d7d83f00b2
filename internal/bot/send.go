package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/freecyberhawk/hakobot/internal/model"
	"github.com/freecyberhawk/hakobot/internal/pkg/textfmt"
	"github.com/freecyberhawk/hakobot/internal/session"
)

const genericErrorText = "⚠️ خطایی رخ داد. لطفا دوباره تلاش کنید."

// request is one gated update being handled.
type request struct {
	ctx       context.Context
	chatID    int64
	messageID int // message the callback button sits on
	from      *tgbotapi.User
	admin     *model.Admin
	state     *session.State
	callback  *tgbotapi.CallbackQuery
}

func (b *Bot) fields(r *request, action string) []zap.Field {
	return []zap.Field{
		zap.Int64("chat_id", r.chatID),
		zap.String("action", action),
	}
}

func (b *Bot) mark(text string) string {
	return textfmt.Watermark(text, b.cfg.Bot.Watermark)
}

// reply sends a plain message to the chat.
func (b *Bot) reply(r *request, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(r.chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	_, err := b.sender.Send(msg)
	return err
}

// sendAndStore removes the screens the bot sent earlier and remembers the new one.
func (b *Bot) sendAndStore(r *request, text string, markup interface{}) error {
	for _, id := range r.state.TakeMessages() {
		if _, err := b.sender.Request(tgbotapi.NewDeleteMessage(r.chatID, id)); err != nil {
			b.log.Debug("failed to delete message", zap.Int64("chat_id", r.chatID), zap.Int("message_id", id), zap.Error(err))
		}
	}

	msg := tgbotapi.NewMessage(r.chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := b.sender.Send(msg)
	if err != nil {
		return err
	}
	r.state.TrackMessage(sent.MessageID)
	return nil
}

// edit replaces the text of the message the pressed button belongs to. A nil
// markup removes the buttons.
func (b *Bot) edit(r *request, text string, markup *tgbotapi.InlineKeyboardMarkup) error {
	cfg := tgbotapi.NewEditMessageText(r.chatID, r.messageID, text)
	if markup != nil {
		cfg.ReplyMarkup = markup
	}
	_, err := b.sender.Send(cfg)
	return err
}

func (b *Bot) editCaption(r *request, caption string) error {
	_, err := b.sender.Send(tgbotapi.NewEditMessageCaption(r.chatID, r.messageID, caption))
	return err
}

func (b *Bot) answer(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := b.sender.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		b.log.Debug("failed to answer callback", zap.String("callback_id", cq.ID), zap.Error(err))
	}
}

func (b *Bot) alert(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := b.sender.Request(tgbotapi.NewCallbackWithAlert(cq.ID, text)); err != nil {
		b.log.Debug("failed to answer callback", zap.String("callback_id", cq.ID), zap.Error(err))
	}
}

// fail logs a handler error and shows the generic error. The session is not saved.
func (b *Bot) fail(r *request, action string, err error) {
	b.log.Error("handler failed", append(b.fields(r, action), zap.Error(err))...)
	if r.callback != nil {
		b.alert(r.callback, genericErrorText)
		return
	}
	if err := b.reply(r, genericErrorText, nil); err != nil {
		b.log.Warn("failed to send error reply", zap.Int64("chat_id", r.chatID), zap.Error(err))
	}
}

func (b *Bot) save(r *request, action string) {
	if err := b.store.Save(r.ctx, r.state); err != nil {
		b.log.Error("failed to save session", append(b.fields(r, action), zap.Error(err))...)
	}
}
