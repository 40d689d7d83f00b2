package bot

import (
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/freecyberhawk/hakobot/config"
	"github.com/freecyberhawk/hakobot/internal/bot/keyboard"
	"github.com/freecyberhawk/hakobot/internal/bot/middleware"
	"github.com/freecyberhawk/hakobot/internal/model"
	"github.com/freecyberhawk/hakobot/internal/testutil"
	"github.com/freecyberhawk/hakobot/internal/wizard"
)

func TestSubscription_PresetChoices(t *testing.T) {
	f := setupFixture(t)

	f.handle(commandUpdate(plainID, "create_subscription"))
	msg := f.out.lastMessage(t)
	assert.Equal(t, textChooseDuration, msg.Text)
	assert.Contains(t, inlineData(msg.ReplyMarkup), "create_subscription_action_duration:3")

	f.handle(callbackUpdate(plainID, 10, "create_subscription_action_duration:3"))
	edit := f.out.lastEdit(t)
	assert.Equal(t, textChooseSize, edit.Text)
	assert.Equal(t, 10, edit.MessageID)
	assert.Contains(t, inlineData(edit.ReplyMarkup), "create_subscription_action_size:50")

	f.handle(callbackUpdate(plainID, 10, "create_subscription_action_size:50"))
	edit = f.out.lastEdit(t)
	assert.Contains(t, edit.Text, "3 ماهه")
	assert.Contains(t, edit.Text, "50 گیگابایت")
	assert.Contains(t, edit.Text, "12,200 تومان")
	assert.Equal(t, []string{
		"create_subscription_action_confirm:ok",
		"create_subscription_action_confirm:back",
	}, inlineData(edit.ReplyMarkup))

	f.handle(callbackUpdate(plainID, 10, "create_subscription_action_confirm:ok"))
	edit = f.out.lastEdit(t)
	assert.Equal(t, "OK", edit.Text)
	assert.Nil(t, edit.ReplyMarkup)

	assert.Nil(t, f.state(t, plainID).ActiveSubscription())
}

func TestSubscription_CustomInput(t *testing.T) {
	f := setupFixture(t)

	f.handle(commandUpdate(plainID, "create_subscription"))
	f.handle(callbackUpdate(plainID, 10, "create_subscription_action_duration:x"))
	assert.Equal(t, customMonthsPrompt(wizard.DefaultLimits), f.out.lastEdit(t).Text)

	f.handle(textUpdate(plainID, "abc"))
	assert.Equal(t, textMonthsOnly, f.out.lastMessage(t).Text)
	assert.Equal(t, wizard.StateAwaitingCustomDuration, f.state(t, plainID).ActiveSubscription().State)

	f.handle(textUpdate(plainID, "13"))
	assert.Equal(t, textMonthsOnly, f.out.lastMessage(t).Text)

	f.handle(textUpdate(plainID, "۶"))
	assert.Equal(t, textChooseSize, f.out.lastMessage(t).Text)

	f.handle(callbackUpdate(plainID, 11, "create_subscription_action_size:x"))
	f.handle(textUpdate(plainID, "500"))
	assert.Equal(t, textGBOnly, f.out.lastMessage(t).Text)

	f.handle(textUpdate(plainID, "120"))
	msg := f.out.lastMessage(t)
	assert.Contains(t, msg.Text, "6 ماهه")
	assert.Contains(t, msg.Text, "120 گیگابایت")
	assert.Contains(t, inlineData(msg.ReplyMarkup), "create_subscription_action_confirm:ok")
}

func TestSubscription_BackEdges(t *testing.T) {
	f := setupFixture(t)

	f.handle(commandUpdate(plainID, "create_subscription"))
	f.handle(callbackUpdate(plainID, 10, "create_subscription_action_duration:1"))
	f.handle(callbackUpdate(plainID, 10, "create_subscription_action_size:back"))
	assert.Equal(t, textChooseDuration, f.out.lastEdit(t).Text)
	assert.Equal(t, wizard.StateIdle, f.state(t, plainID).ActiveSubscription().State)

	f.handle(callbackUpdate(plainID, 10, "create_subscription_action_duration:6"))
	f.handle(callbackUpdate(plainID, 10, "create_subscription_action_size:30"))
	f.handle(callbackUpdate(plainID, 10, "create_subscription_action_confirm:back"))
	assert.Equal(t, textChooseSize, f.out.lastEdit(t).Text)

	s := f.state(t, plainID).ActiveSubscription()
	require.NotNil(t, s)
	assert.Equal(t, wizard.StateDurationChosen, s.State)
	assert.Equal(t, 6, s.Months)
}

func TestSubscription_StaleButtons(t *testing.T) {
	f := setupFixture(t)

	f.handle(callbackUpdate(plainID, 10, "create_subscription_action_confirm:ok"))
	answer := f.out.lastAnswer(t)
	assert.True(t, answer.ShowAlert)
	assert.Equal(t, textStaleMenu, answer.Text)

	f.handle(callbackUpdate(plainID, 10, "create_subscription_action_duration:7"))
	answer = f.out.lastAnswer(t)
	assert.Equal(t, textInvalidOption, answer.Text)
	assert.Equal(t, wizard.StateIdle, f.state(t, plainID).ActiveSubscription().State)
}

func TestGate_Refusals(t *testing.T) {
	f := setupFixture(t)

	f.handle(commandUpdate(999, "start"))
	assert.Equal(t, middleware.ReasonUnauthorized.Message(), f.out.lastMessage(t).Text)

	f.handle(callbackUpdate(999, 5, "users:1"))
	answer := f.out.lastAnswer(t)
	assert.True(t, answer.ShowAlert)
	assert.Equal(t, middleware.ReasonUnauthorized.Message(), answer.Text)

	f.handle(callbackUpdate(plainID, 5, keyboard.ActionCreateAdmin))
	answer = f.out.lastAnswer(t)
	assert.True(t, answer.ShowAlert)
	assert.Equal(t, middleware.ReasonNotSuperuser.Message(), answer.Text)
	assert.Nil(t, f.state(t, plainID).ActiveAdminDraft())

	f.handle(textUpdate(plainID, keyboard.ButtonManageAdmins))
	assert.Equal(t, middleware.ReasonNotSuperuser.Message(), f.out.lastMessage(t).Text)

	f.handle(callbackUpdate(plainID, 5, "approve:AB12CD34"))
	assert.Equal(t, middleware.ReasonNotSuperuser.Message(), f.out.lastAnswer(t).Text)
}

type brokenLookup struct{}

func (brokenLookup) GetByTelegramID(int64) (*model.Admin, error) {
	return nil, errors.New("database is locked")
}

func TestGate_LookupFailure(t *testing.T) {
	f := setupFixture(t)
	f.bot.gate = middleware.NewGate(brokenLookup{}, nil, zap.NewNop())

	f.handle(commandUpdate(plainID, "start"))
	assert.Equal(t, middleware.ReasonLookupFailed.Message(), f.out.lastMessage(t).Text)
}

func TestWelcome(t *testing.T) {
	f := setupFixture(t)
	testutil.TestUser(t, f.db, f.plain.ID)
	testutil.TestUser(t, f.db, f.plain.ID)
	testutil.TestUser(t, f.db, f.sudo.ID)

	f.handle(commandUpdate(plainID, "start"))
	msg := f.out.lastMessage(t)
	assert.Contains(t, msg.Text, "1405/07/22")
	assert.Contains(t, msg.Text, "2 نفر")
	assert.Contains(t, msg.Text, "50,000 تومان")

	menu, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, keyboard.ButtonMyWallet, menu.Keyboard[1][1].Text)
	assert.Equal(t, []int{1}, f.state(t, plainID).BotMessageIDs)

	// a second welcome screen replaces the first
	f.handle(commandUpdate(plainID, "start"))
	var deleted []int
	for _, c := range f.out.requests {
		if d, ok := c.(tgbotapi.DeleteMessageConfig); ok {
			deleted = append(deleted, d.MessageID)
		}
	}
	assert.Equal(t, []int{1}, deleted)
	assert.Equal(t, []int{2}, f.state(t, plainID).BotMessageIDs)
}

func TestWelcome_SuperuserMenu(t *testing.T) {
	f := setupFixture(t)
	testutil.TestUser(t, f.db, f.plain.ID)
	testutil.TestUser(t, f.db, f.sudo.ID)

	f.handle(commandUpdate(sudoID, "start"))
	msg := f.out.lastMessage(t)
	assert.Contains(t, msg.Text, "2 نفر")

	menu, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.Equal(t, keyboard.ButtonManageAdmins, menu.Keyboard[1][1].Text)
}

func TestUserList_Pagination(t *testing.T) {
	f := setupFixture(t)
	testutil.TestUsers(t, f.db, f.sudo.ID, 52)

	f.handle(textUpdate(sudoID, keyboard.ButtonManageUsers))
	msg := f.out.lastMessage(t)
	data := inlineData(msg.ReplyMarkup)
	assert.Contains(t, data, "users:2")
	assert.NotContains(t, data, "users:0")
	// newest first
	assert.Equal(t, "user:bulk_051", data[0])

	f.handle(callbackUpdate(sudoID, 20, "users:3"))
	data = inlineData(f.out.lastEdit(t).ReplyMarkup)
	assert.Contains(t, data, "users:4")
	assert.Contains(t, data, "users:2")

	f.handle(callbackUpdate(sudoID, 20, "users:5"))
	edit := f.out.lastEdit(t)
	assert.Contains(t, edit.Text, "52")
	data = inlineData(edit.ReplyMarkup)
	assert.Contains(t, data, "users:4")
	assert.NotContains(t, data, "users:6")
	assert.Len(t, data, 8+1)
}

func TestUserList_ScopedToOwner(t *testing.T) {
	f := setupFixture(t)
	testutil.TestUsers(t, f.db, f.sudo.ID, 20)
	own := testutil.TestUser(t, f.db, f.plain.ID, testutil.WithUsername("mine_01"))

	f.handle(textUpdate(plainID, keyboard.ButtonManageUsers))
	assert.Equal(t, []string{"user:mine_01"}, inlineData(f.out.lastMessage(t).ReplyMarkup))

	f.handle(callbackUpdate(plainID, 30, "user:bulk_001"))
	assert.Equal(t, textUserNotFound, f.out.lastAnswer(t).Text)

	f.handle(callbackUpdate(plainID, 30, "user:"+own.Username))
	edit := f.out.lastEdit(t)
	assert.Contains(t, edit.Text, "mine_01")
	assert.Contains(t, edit.Text, "∞")
	assert.Equal(t, []string{"users:1"}, inlineData(edit.ReplyMarkup))
}

func TestSearch(t *testing.T) {
	f := setupFixture(t)
	testutil.TestUsers(t, f.db, f.sudo.ID, 30)

	f.handle(textUpdate(sudoID, "bulk_01"))
	msg := f.out.lastMessage(t)
	assert.Contains(t, msg.Text, "bulk_01")
	data := inlineData(msg.ReplyMarkup)
	assert.Len(t, data, 10)
	assert.NotContains(t, data, "users:2")

	f.handle(textUpdate(sudoID, "nobody"))
	msg = f.out.lastMessage(t)
	assert.Contains(t, msg.Text, "nobody")
	assert.Nil(t, msg.ReplyMarkup)
}

func TestAdminWizard(t *testing.T) {
	f := setupFixture(t)

	f.handle(callbackUpdate(sudoID, 40, keyboard.ActionCreateAdmin))
	assert.Equal(t, textAdminUsername, f.out.lastEdit(t).Text)

	f.handle(textUpdate(sudoID, "abc"))
	msg := f.out.lastMessage(t)
	assert.Contains(t, msg.Text, textAdminInvalid)
	assert.Contains(t, msg.Text, textAdminUsername)
	assert.Equal(t, wizard.StepUsername, f.state(t, sudoID).ActiveAdminDraft().Step)

	steps := []struct {
		input string
		want  string
	}{
		{"reseller", textAdminChatID},
		{"4242", textAdminBalance},
		{"100000", textAdminFee},
		{"2500", textAdminConfirm},
	}
	for _, s := range steps {
		f.handle(textUpdate(sudoID, s.input))
		assert.Contains(t, f.out.lastMessage(t).Text, s.want, "after %q", s.input)
	}
	assert.Equal(t, []string{keyboard.ActionConfirmCreateAdmin, keyboard.ActionCancel}, inlineData(f.out.lastMessage(t).ReplyMarkup))

	f.handle(callbackUpdate(sudoID, 41, keyboard.ActionConfirmCreateAdmin))
	edit := f.out.lastEdit(t)
	assert.Contains(t, edit.Text, "reseller")
	assert.Contains(t, edit.Text, "رمز عبور")
	assert.Nil(t, f.state(t, sudoID).ActiveAdminDraft())

	var created model.Admin
	require.NoError(t, f.db.Where("username = ?", "reseller").First(&created).Error)
	assert.Equal(t, int64(4242), *created.TelegramID)
	assert.Equal(t, int64(100000), created.HakobotBalance)
	assert.Equal(t, int64(2500), created.HakobotGbFee)
}

func TestAdminWizard_DuplicateUsername(t *testing.T) {
	f := setupFixture(t)

	f.handle(callbackUpdate(sudoID, 40, keyboard.ActionCreateAdmin))
	for _, in := range []string{"plain_admin", "777", "0", "1000"} {
		f.handle(textUpdate(sudoID, in))
	}
	f.handle(callbackUpdate(sudoID, 41, keyboard.ActionConfirmCreateAdmin))
	assert.Equal(t, textAdminExists, f.out.lastEdit(t).Text)
}

func TestAdminWizard_Cancel(t *testing.T) {
	f := setupFixture(t)

	f.handle(callbackUpdate(sudoID, 40, keyboard.ActionCreateAdmin))
	f.handle(textUpdate(sudoID, "reseller"))
	f.handle(callbackUpdate(sudoID, 41, keyboard.ActionCancel))

	assert.Equal(t, textCancelled, f.out.lastEdit(t).Text)
	assert.Nil(t, f.state(t, sudoID).ActiveAdminDraft())

	// the next text is a search again
	f.handle(textUpdate(sudoID, "4242"))
	assert.Contains(t, f.out.lastMessage(t).Text, "4242")
}

func TestAdminManagement(t *testing.T) {
	f := setupFixture(t)
	testutil.TestUser(t, f.db, f.plain.ID)
	require.NoError(t, f.db.Create(&model.System{Uplink: 1 << 30, Downlink: 1 << 30}).Error)

	f.handle(textUpdate(sudoID, keyboard.ButtonManageAdmins))
	msg := f.out.lastMessage(t)
	assert.Contains(t, msg.Text, "1/1")
	assert.Contains(t, msg.Text, "2 گیگابایت")
	assert.Contains(t, inlineData(msg.ReplyMarkup), keyboard.ActionCreateAdmin)

	f.handle(callbackUpdate(sudoID, 50, "admins:1"))
	edit := f.out.lastEdit(t)
	assert.Contains(t, edit.Text, "(2)")
	assert.Len(t, edit.ReplyMarkup.InlineKeyboard, 2)
}

func TestAdminSearch(t *testing.T) {
	f := setupFixture(t)
	testutil.TestUser(t, f.db, f.plain.ID)

	f.handle(textUpdate(sudoID, keyboard.ButtonManageAdmins))
	assert.Contains(t, inlineData(f.out.lastMessage(t).ReplyMarkup), keyboard.ActionSearchAdmin)

	f.handle(callbackUpdate(sudoID, 50, keyboard.ActionSearchAdmin))
	edit := f.out.lastEdit(t)
	assert.Equal(t, textAdminSearch, edit.Text)
	assert.Equal(t, []string{keyboard.ActionCancel}, inlineData(edit.ReplyMarkup))
	assert.True(t, f.state(t, sudoID).SearchingAdmin())

	f.handle(textUpdate(sudoID, "ghost"))
	assert.Equal(t, textAdminNotFound, f.out.lastMessage(t).Text)
	assert.True(t, f.state(t, sudoID).SearchingAdmin())

	f.handle(textUpdate(sudoID, "plain_admin"))
	msg := f.out.lastMessage(t)
	assert.Contains(t, msg.Text, "plain_admin")
	assert.Contains(t, msg.Text, "1 نفر")
	assert.Contains(t, msg.Text, "50,000 تومان")
	assert.Contains(t, msg.Text, "2,000 تومان")
	assert.Equal(t, []string{keyboard.ActionMainMenu}, inlineData(msg.ReplyMarkup))
	assert.False(t, f.state(t, sudoID).SearchingAdmin())

	// free text after the search goes back to the user search
	f.handle(textUpdate(sudoID, "plain_admin"))
	assert.NotContains(t, f.out.lastMessage(t).Text, "👮")
}

func TestAdminSearch_SuperuserOnly(t *testing.T) {
	f := setupFixture(t)

	f.handle(callbackUpdate(plainID, 50, keyboard.ActionSearchAdmin))
	answer := f.out.lastAnswer(t)
	assert.True(t, answer.ShowAlert)
	assert.Equal(t, middleware.ReasonNotSuperuser.Message(), answer.Text)
	assert.False(t, f.state(t, plainID).SearchingAdmin())
}

func TestWallet(t *testing.T) {
	f := setupFixture(t)

	f.handle(textUpdate(plainID, keyboard.ButtonMyWallet))
	msg := f.out.lastMessage(t)
	assert.Contains(t, msg.Text, "50,000 تومان")
	assert.Contains(t, msg.Text, "2,000 تومان")

	f.handle(callbackUpdate(plainID, 60, "wallet:transactions"))
	assert.Equal(t, textNoTransactions, f.out.lastEdit(t).Text)

	require.NoError(t, f.db.Create(&model.Payment{AdminID: f.plain.ID, Amount: 30000, PaymentType: model.PaymentDeposit}).Error)
	f.handle(callbackUpdate(plainID, 60, "wallet:transactions"))
	edit := f.out.lastEdit(t)
	assert.Contains(t, edit.Text, "➕ 30,000 تومان")
	assert.Equal(t, []string{keyboard.ActionMainMenu}, inlineData(edit.ReplyMarkup))
}

func TestCallbackThrottle(t *testing.T) {
	f := setupFixture(t, func(c *config.Config) { c.Bot.CallbackInterval = time.Hour })

	for i := 0; i < callbackBurst+1; i++ {
		f.handle(callbackUpdate(plainID, 90, "users:1"))
	}

	var waits int
	for _, a := range f.out.callbackAnswers() {
		if a.Text == textWait {
			waits++
		}
	}
	assert.Equal(t, 1, waits)
}

func TestMainMenuCallbackCancelsWizard(t *testing.T) {
	f := setupFixture(t)

	f.handle(callbackUpdate(plainID, 60, "wallet:topup"))
	require.NotNil(t, f.state(t, plainID).ActiveTopUp())

	f.handle(callbackUpdate(plainID, 61, keyboard.ActionMainMenu))
	assert.Nil(t, f.state(t, plainID).ActiveTopUp())
	assert.Contains(t, f.out.lastMessage(t).Text, "خوش آمدید")
}
