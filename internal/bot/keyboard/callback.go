package keyboard

import (
	"strconv"
	"strings"
)

// Callback actions. Data on the wire is "action" or "action:param".
const (
	ActionMainMenu            = "main_menu"
	ActionCancel              = "cancel"
	ActionCreateAdmin         = "create_admin"
	ActionConfirmCreateAdmin  = "confirm_create_admin"
	ActionAdmins              = "admins"
	ActionSearchAdmin         = "search_admin"
	ActionUsers               = "users"
	ActionUser                = "user"
	ActionDuration            = "create_subscription_action_duration"
	ActionSize                = "create_subscription_action_size"
	ActionConfirmSubscription = "create_subscription_action_confirm"
	ActionWallet              = "wallet"
	ActionApprove             = "approve"
	ActionReject              = "reject"
	WalletParamTransactions   = "transactions"
	WalletParamTopUp          = "topup"
)

// Data joins an action and its parameters.
func Data(action string, params ...string) string {
	if len(params) == 0 {
		return action
	}
	return action + ":" + strings.Join(params, ":")
}

// Parse splits callback data into the action and the rest after the first colon.
func Parse(data string) (action, param string) {
	action, param, _ = strings.Cut(data, ":")
	return action, param
}

// PageParam reads a page number, falling back to 1.
func PageParam(param string) int {
	n, err := strconv.Atoi(param)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
