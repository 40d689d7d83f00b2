// Package keyboard builds every menu and button grid the bot shows. All
// functions are pure: same input, same markup.
package keyboard

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/freecyberhawk/hakobot/internal/model"
)

// Reply keyboard labels. Incoming text is matched against these.
const (
	ButtonCreateSubscription = "📦 ساخت اشتراک"
	ButtonManageUsers        = "👥 مدیریت کاربران"
	ButtonManageAdmins       = "👮🏻‍♂️ مدیریت ادمین"
	ButtonMyWallet           = "💰 کیف پول من"
)

const (
	labelNext   = "صفحه بعد"
	labelPrev   = "صفحه قبل"
	labelBack   = "بازگشت"
	labelCancel = "انصراف"
)

var statusGlyph = map[model.UserStatus]string{
	model.UserStatusActive:   "✅",
	model.UserStatusDisabled: "❌",
	model.UserStatusExpired:  "🕰",
	model.UserStatusLimited:  "🪫",
	model.UserStatusOnHold:   "🔌",
}

// StatusGlyph returns the legend symbol for a user status.
func StatusGlyph(s model.UserStatus) string {
	return statusGlyph[s]
}

// MainMenu is the persistent reply keyboard. Superusers get admin management,
// everyone else gets their wallet.
func MainMenu(superuser bool) tgbotapi.ReplyKeyboardMarkup {
	second := ButtonMyWallet
	if superuser {
		second = ButtonManageAdmins
	}
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(ButtonCreateSubscription)),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonManageUsers),
			tgbotapi.NewKeyboardButton(second),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func Durations() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("۳ ماهه", Data(ActionDuration, "3")),
			tgbotapi.NewInlineKeyboardButtonData("۱ ماهه", Data(ActionDuration, "1")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("۶ ماهه", Data(ActionDuration, "6")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("دوره دلخواه", Data(ActionDuration, "x")),
		),
	)
}

func Sizes() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("۵۰ گیگ", Data(ActionSize, "50")),
			tgbotapi.NewInlineKeyboardButtonData("۳۰ گیگ", Data(ActionSize, "30")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("۸۰ گیگ", Data(ActionSize, "80")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("حجم دلخواه", Data(ActionSize, "x")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(labelBack, Data(ActionSize, "back")),
		),
	)
}

func FinalConfirm() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("تایید نهایی", Data(ActionConfirmSubscription, "ok")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(labelBack, Data(ActionConfirmSubscription, "back")),
		),
	)
}

func Cancel() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(labelCancel, ActionCancel)),
	)
}

func ConfirmCreateAdmin() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("تایید نهایی", ActionConfirmCreateAdmin)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(labelCancel, ActionCancel)),
	)
}

func AdminsManagement() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("لیست ادمین ها", Data(ActionAdmins, "1")),
			tgbotapi.NewInlineKeyboardButtonData("ساخت ادمین", ActionCreateAdmin),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔍 جستجو ادمین", ActionSearchAdmin),
		),
	)
}

func Wallet() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📜 لیست تراکنش‌ها", Data(ActionWallet, WalletParamTransactions)),
			tgbotapi.NewInlineKeyboardButtonData("💵 افزایش موجودی", Data(ActionWallet, WalletParamTopUp)),
		),
	)
}

// ReceiptReview decides the pending receipt filed under ref.
func ReceiptReview(ref string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ تأیید", Data(ActionApprove, ref)),
			tgbotapi.NewInlineKeyboardButtonData("❌ رد", Data(ActionReject, ref)),
		),
	)
}

func BackToMainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(labelBack, ActionMainMenu)),
	)
}

// BackToUsers returns to the given page of the user list.
func BackToUsers(page int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(labelBack, Data(ActionUsers, strconv.Itoa(page))),
		),
	)
}

// UserList lays users out two per row, followed by the page controls.
func UserList(users []*model.User, p Page) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(users)/2+2)
	var row []tgbotapi.InlineKeyboardButton
	for _, u := range users {
		label := u.Username
		if glyph := StatusGlyph(u.Status); glyph != "" {
			label += " " + glyph
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, Data(ActionUser, u.Username)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, navRows(ActionUsers, p)...)
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// AdminList shows admins one per row with their sudo flag. Buttons are labels only.
func AdminList(admins []*model.Admin, p Page) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(admins)+2)
	for _, a := range admins {
		label := a.Username
		if a.IsSudo {
			label += " 👑"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, Data(ActionAdmins, strconv.Itoa(p.Number))),
		))
	}
	rows = append(rows, navRows(ActionAdmins, p)...)
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// navRows renders next above previous, each only when it leads somewhere.
func navRows(action string, p Page) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	if p.HasNext() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(labelNext, Data(action, strconv.Itoa(p.Number+1))),
		))
	}
	if p.HasPrev() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(labelPrev, Data(action, strconv.Itoa(p.Number-1))),
		))
	}
	return rows
}
