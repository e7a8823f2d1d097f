// Package callbacks encodes and decodes the structured action payloads
// carried in inline keyboard callback data.
package callbacks

import (
	"encoding/json"
	"errors"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Action names understood by the subscriptions flow.
const (
	ActionWalletDetails = "wallet_details"
	ActionWalletEdit    = "wallet_edit"
	ActionWalletDelete  = "wallet_delete"
	ActionRefreshManage = "refresh_manage"
	ActionEditField     = "edit_field"
	ActionBack          = "back"
)

// Back targets for ActionBack.
const (
	BackToManage = "manage"
	BackToList   = "list"
)

// ErrNoAction indicates the callback carried no decodable action payload.
var ErrNoAction = errors.New("callbacks: no action payload")

// Action is the structured payload stored in inline button callback data.
type Action struct {
	Action   string `json:"action"`
	WalletID int64  `json:"wallet_id,omitempty"`
	Field    string `json:"field,omitempty"`
	To       string `json:"to,omitempty"`
}

// Encode renders the action as compact JSON for callback data.
// Telegram limits callback data to 64 bytes; the vocabulary above fits.
func (a Action) Encode() string {
	data, err := json.Marshal(a)
	if err != nil {
		return ""
	}
	return string(data)
}

// Decode parses an action from raw callback data. Telebot prefixes data sent
// through its own markup builders with "\f<unique>|"; both the prefixed and
// the plain JSON form are accepted.
func Decode(raw string) (Action, error) {
	raw = strings.TrimPrefix(raw, "\f")
	raw = strings.TrimPrefix(raw, "\\f")
	if i := strings.IndexByte(raw, '|'); i >= 0 && !strings.HasPrefix(raw, "{") {
		raw = raw[i+1:]
	}
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "{") {
		return Action{}, ErrNoAction
	}
	var a Action
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return Action{}, err
	}
	if a.Action == "" {
		return Action{}, ErrNoAction
	}
	return a, nil
}

// FromContext extracts the action from the current callback update.
func FromContext(c tele.Context) (Action, error) {
	cb := c.Callback()
	if cb == nil {
		return Action{}, ErrNoAction
	}
	return Decode(cb.Data)
}
