package session

import (
	"github.com/freecyberhawk/hakobot/internal/wizard"
)

// Wizard names the flow a session is in. Only one runs at a time.
type Wizard string

const (
	WizardNone         Wizard = ""
	WizardSubscription Wizard = "subscription"
	WizardCreateAdmin  Wizard = "create_admin"
	WizardTopUp        Wizard = "top_up"
	WizardAdminSearch  Wizard = "admin_search"
)

// TopUp tracks a wallet top-up: amount first, then the receipt photo.
type TopUp struct {
	AwaitingAmount  bool  `json:"awaiting_amount"`
	AwaitingReceipt bool  `json:"awaiting_receipt"`
	Amount          int64 `json:"amount,omitempty"`
}

// State is everything the bot remembers about one chat between updates.
type State struct {
	ChatID        int64                `json:"chat_id"`
	Active        Wizard               `json:"active,omitempty"`
	Subscription  *wizard.Subscription `json:"subscription,omitempty"`
	AdminDraft    *wizard.AdminDraft   `json:"admin_draft,omitempty"`
	TopUp         *TopUp               `json:"top_up,omitempty"`
	BotMessageIDs []int                `json:"bot_message_ids,omitempty"`
}

func NewState(chatID int64) *State {
	return &State{ChatID: chatID}
}

// StartSubscription replaces whatever flow was running with a fresh purchase.
func (s *State) StartSubscription(lim wizard.Limits) *wizard.Subscription {
	s.clearWizards()
	s.Active = WizardSubscription
	s.Subscription = wizard.NewSubscription(lim)
	return s.Subscription
}

func (s *State) StartAdminDraft() *wizard.AdminDraft {
	s.clearWizards()
	s.Active = WizardCreateAdmin
	s.AdminDraft = wizard.NewAdminDraft()
	return s.AdminDraft
}

func (s *State) StartTopUp() *TopUp {
	s.clearWizards()
	s.Active = WizardTopUp
	s.TopUp = &TopUp{AwaitingAmount: true}
	return s.TopUp
}

// StartAdminSearch waits for the username of an admin to look up.
func (s *State) StartAdminSearch() {
	s.clearWizards()
	s.Active = WizardAdminSearch
}

func (s *State) SearchingAdmin() bool {
	return s.Active == WizardAdminSearch
}

// ActiveSubscription returns the purchase flow when it is the running one.
func (s *State) ActiveSubscription() *wizard.Subscription {
	if s.Active != WizardSubscription {
		return nil
	}
	return s.Subscription
}

func (s *State) ActiveAdminDraft() *wizard.AdminDraft {
	if s.Active != WizardCreateAdmin {
		return nil
	}
	return s.AdminDraft
}

func (s *State) ActiveTopUp() *TopUp {
	if s.Active != WizardTopUp {
		return nil
	}
	return s.TopUp
}

// Cancel drops the running flow. Tracked message ids are kept.
func (s *State) Cancel() {
	s.clearWizards()
}

func (s *State) clearWizards() {
	s.Active = WizardNone
	s.Subscription = nil
	s.AdminDraft = nil
	s.TopUp = nil
}

// TrackMessage remembers a bot message so the next screen can remove it.
func (s *State) TrackMessage(id int) {
	s.BotMessageIDs = append(s.BotMessageIDs, id)
}

// TakeMessages returns the tracked ids and forgets them.
func (s *State) TakeMessages() []int {
	ids := s.BotMessageIDs
	s.BotMessageIDs = nil
	return ids
}
