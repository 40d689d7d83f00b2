package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/freecyberhawk/hakobot/internal/bot/keyboard"
	"github.com/freecyberhawk/hakobot/internal/model"
	"github.com/freecyberhawk/hakobot/internal/pkg/textfmt"
	"github.com/freecyberhawk/hakobot/internal/service"
	"github.com/freecyberhawk/hakobot/internal/wizard"
)

const (
	textChooseDuration = "⏳ دوره اشتراک را انتخاب کنید:"
	textChooseSize     = "💎 حجم مصرف اشتراک را انتخاب کنید:"
	textMonthsOnly     = "❌ لطفا فقط عدد وارد کنید (به ماه):"
	textGBOnly         = "❌ لطفا فقط عدد وارد کنید (به گیگابایت):"
	textOrderOK        = "OK"
	textChooseUser     = "یک کاربر را انتخاب کنید:"
	textCancelled      = "❌ عملیات لغو شد."
	textStaleMenu      = "این منو دیگر معتبر نیست."
	textWait           = "⏳ لطفا کمی صبر کنید."
	textInvalidOption  = "گزینه نامعتبر است."

	textAdminUsername   = "نام کاربری ادمین را وارد کنید: (حداقل ۵ حرف)"
	textAdminChatID     = "چت آی دی ادمین را وارد کنید:"
	textAdminBalance    = "موجودی کیف پول را وارد کنید: (تومان):"
	textAdminFee        = "تعرفه هر گیگ ادمین را وارد کنید: (تومان)"
	textAdminConfirm    = "آیا از ساخت این ادمین اطمینان دارید؟"
	textAdminInvalid    = "❌ مقدار وارد شده معتبر نیست."
	textAdminIncomplete = "اطلاعات ادمین کامل نیست."
	textAdminExists     = "❌ این نام کاربری قبلا ثبت شده است."
	textAdminIDTaken    = "❌ این چت آی دی به ادمین دیگری متصل است."
	textAdminSearch     = "🔍 نام کاربری ادمین را وارد کنید:"
	textAdminNotFound   = "❌ ادمینی با این نام کاربری پیدا نشد."

	textTopUpAmount     = "💵 مبلغ افزایش موجودی را به تومان وارد کنید:"
	textTopUpInvalid    = "❌ لطفا مبلغ را فقط با عدد وارد کنید (تومان):"
	textReceiptSent     = "✅ رسید پرداخت برای بررسی ارسال شد."
	textApproved        = "✅ رسید پرداخت تأیید شد.\nبا تشکر از شما!"
	textRejected        = "❌ رسید پرداخت رد شد."
	textAlreadyReviewed = "این رسید قبلا بررسی شده است."
	textNotifyOK        = "🎉 پرداخت شما تأیید شد."
	textNotifyReject    = "⛔ پرداخت شما تأیید نشد. لطفاً دوباره تلاش کنید."

	textUserNotFound   = "کاربر یافت نشد."
	textNoTransactions = "هنوز تراکنشی ثبت نشده است."
)

func welcomeText(now time.Time, users int64, balance int64) string {
	return fmt.Sprintf(
		"🎉 خوش آمدید!\n"+
			"📅 تاریخ: %s\n"+
			"\n"+
			"👥 تعداد کاربران:\n"+
			"   %s نفر\n"+
			"💰 موجودی کیف پول:\n"+
			"   %s\n",
		textfmt.JalaliDate(now.In(textfmt.Tehran)),
		textfmt.Thousands(users),
		textfmt.Toman(balance),
	)
}

func customMonthsPrompt(lim wizard.Limits) string {
	return fmt.Sprintf("لطفا تعداد ماه دلخواه را وارد کنید (حداکثر %d):", lim.MaxMonths)
}

func customSizePrompt(lim wizard.Limits) string {
	return fmt.Sprintf("لطفا حجم دلخواه را به گیگابایت وارد کنید (حداکثر %d گیگ):", lim.MaxGB)
}

func orderText(o model.SubscriptionOrder) string {
	return fmt.Sprintf(
		"مشخصات نهایی اشتراک\n"+
			"دوره اشتراک: %d ماهه\n"+
			"حجم مصرف: %d گیگابایت\n"+
			"مبلغ سفارش: %s\n",
		o.Months, o.SizeGB, textfmt.Toman(o.Price),
	)
}

func userListText(total int64) string {
	return fmt.Sprintf("👥 تعداد کاربران: %s\n\n"+
		"✅ فعال\n"+
		"❌ غیرفعال\n"+
		"🕰 اتمام زمان\n"+
		"🪫 اتمام گیگ\n"+
		"🔌 متصل نشده\n", textfmt.Thousands(total))
}

func searchText(query string, shown int, total int64) string {
	if total == 0 {
		return fmt.Sprintf("🔍 کاربری برای «%s» پیدا نشد.", query)
	}
	return fmt.Sprintf("🔍 جستجوی کاربر: %s\nنمایش %d از %s نتیجه", query, shown, textfmt.Thousands(total))
}

func userDetailText(u *model.User) string {
	limit := "∞"
	if u.DataLimit != nil && *u.DataLimit > 0 {
		limit = textfmt.GB(*u.DataLimit)
	}
	note := u.Note
	if note == "" {
		note = "-"
	}
	return fmt.Sprintf(
		"👤 نام کاربری: %s\n"+
			"وضعیت: %s %s\n"+
			"📊 مصرف: %s / %s گیگابایت\n"+
			"🔄 ریست حجم: %s\n"+
			"📅 انقضا: %s\n"+
			"📝 یادداشت: %s\n",
		u.Username,
		keyboard.StatusGlyph(u.Status), u.Status,
		textfmt.GB(u.UsedTraffic), limit,
		u.DataLimitResetStrategy,
		textfmt.ExpiryDate(u.Expire, textfmt.Tehran),
		note,
	)
}

func walletText(a *model.Admin) string {
	return fmt.Sprintf(
		"موجودی:\n%s\nتعرفه گیگ:\n%s\n",
		textfmt.Toman(a.HakobotBalance),
		textfmt.Toman(a.HakobotGbFee),
	)
}

func transactionsText(payments []*model.Payment) string {
	if len(payments) == 0 {
		return textNoTransactions
	}
	var sb strings.Builder
	sb.WriteString("📜 آخرین تراکنش‌ها:\n\n")
	for _, p := range payments {
		sign := "➕"
		if p.PaymentType == model.PaymentWithdraw {
			sign = "➖"
		}
		fmt.Fprintf(&sb, "%s %s | %s\n", sign, textfmt.Toman(p.Amount), textfmt.JalaliDate(p.Timestamp.In(textfmt.Tehran)))
	}
	return sb.String()
}

func statsText(s *service.PanelStats) string {
	return fmt.Sprintf(
		"اطلاعات ادمین ها :\n"+
			"\n"+
			"👮 تعداد ادمین ها: %s\n"+
			"✅ کاربر فعال: %s/%s\n"+
			"\n"+
			"💎 گیگ مصرفی: %s گیگابایت\n",
		textfmt.Thousands(s.Admins),
		textfmt.Thousands(s.ActiveUsers), textfmt.Thousands(s.Users),
		textfmt.GB(s.TrafficBytes),
	)
}

func adminListText(total int64) string {
	return fmt.Sprintf("👮 لیست ادمین ها (%s):", textfmt.Thousands(total))
}

func adminDetailText(a *model.Admin, users int64) string {
	role := "ادمین"
	if a.IsSudo {
		role = "سوپر ادمین 👑"
	}
	chatID := "-"
	if a.TelegramID != nil {
		chatID = fmt.Sprintf("%d", *a.TelegramID)
	}
	return fmt.Sprintf(
		"👮 نام کاربری: %s\n"+
			"نقش: %s\n"+
			"چت آی دی: %s\n"+
			"👥 کاربران: %s نفر\n"+
			"💰 موجودی: %s\n"+
			"💎 تعرفه گیگ: %s\n"+
			"📅 تاریخ ساخت: %s\n",
		a.Username, role, chatID,
		textfmt.Thousands(users),
		textfmt.Toman(a.HakobotBalance),
		textfmt.Toman(a.HakobotGbFee),
		textfmt.JalaliDate(a.CreatedAt.In(textfmt.Tehran)),
	)
}

func draftSummary(d *wizard.AdminDraft) string {
	return fmt.Sprintf(
		"نام کاربری: %s\nچت آی دی: %d\nموجودی: %s\nتعرفه گیگ: %s\n\n%s",
		d.Username, d.TelegramID, textfmt.Toman(d.Balance), textfmt.Toman(d.GbFee), textAdminConfirm,
	)
}

func adminCreatedText(a *model.Admin, password string) string {
	return fmt.Sprintf(
		"✅ ادمین ساخته شد.\nنام کاربری: %s\nرمز عبور: %s\n\nرمز عبور فقط همین یک بار نمایش داده می‌شود.",
		a.Username, password,
	)
}

func displayName(u *tgbotapi.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.UserName
	}
	return name
}

func receiptCaption(from *tgbotapi.User, admin *model.Admin, amount int64, ref string) string {
	username := admin.Username
	if username == "" {
		username = "بدون_نام_کاربری"
	}
	amountLine := "نامشخص"
	if amount > 0 {
		amountLine = textfmt.Toman(amount)
	}
	return fmt.Sprintf(
		"📸 رسید پرداخت ارسال شده توسط:\n"+
			"👤 %s\n"+
			"(%s)\n"+
			"💵 مبلغ: %s\n"+
			"🔖 کد پیگیری: %s\n\n"+
			"لطفاً رسید را بررسی و وضعیت را مشخص کنید 👇",
		displayName(from), username, amountLine, ref,
	)
}

func approvedCaption(amount, balance int64) string {
	if amount <= 0 {
		return textApproved
	}
	return fmt.Sprintf("%s\nمبلغ: %s\nموجودی جدید: %s", textApproved, textfmt.Toman(amount), textfmt.Toman(balance))
}

func approvedNotice(amount, balance int64) string {
	if amount <= 0 {
		return textNotifyOK
	}
	return fmt.Sprintf("%s\n💰 %s به کیف پول شما اضافه شد.\nموجودی: %s", textNotifyOK, textfmt.Toman(amount), textfmt.Toman(balance))
}

func receiptPrompt(amount int64) string {
	return fmt.Sprintf("📸 لطفا تصویر رسید پرداخت %s را ارسال کنید.", textfmt.Toman(amount))
}
