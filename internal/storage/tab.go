package storage

import "encoding/json"

// SessionRecord is the persisted half of a widget session.
type SessionRecord struct {
	SessionID       string `json:"sessionId"`
	HasConversation bool   `json:"hasConversation"`
}

// SessionKey is the per-bot key holding the SessionRecord.
func SessionKey(botID string) string {
	return "smartbot:" + botID + ":session"
}

// AutoOpenedKey is the per-bot "already auto-opened" flag.
func AutoOpenedKey(botID string) string {
	return "smartbot:" + botID + ":auto-opened"
}

// TabState is the typed view of the two keys the widget keeps per bot.
type TabState struct {
	store *Safe
	botID string
}

// NewTabState binds a Safe store to one bot id.
func NewTabState(store *Safe, botID string) *TabState {
	return &TabState{store: store, botID: botID}
}

// LoadSession returns the persisted record, if any. Records that fail to
// decode or carry no id are treated as absent.
func (t *TabState) LoadSession() (SessionRecord, bool) {
	raw, ok := t.store.Get(SessionKey(t.botID))
	if !ok {
		return SessionRecord{}, false
	}
	var rec SessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.SessionID == "" {
		return SessionRecord{}, false
	}
	return rec, true
}

// SaveSession persists the record.
func (t *TabState) SaveSession(rec SessionRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	t.store.Set(SessionKey(t.botID), string(data))
}

// ClearSession removes the persisted record.
func (t *TabState) ClearSession() {
	t.store.Remove(SessionKey(t.botID))
}

// AutoOpened reports whether this tab already auto-opened for the bot.
func (t *TabState) AutoOpened() bool {
	v, ok := t.store.Get(AutoOpenedKey(t.botID))
	return ok && v == "1"
}

// MarkAutoOpened sets the auto-opened flag.
func (t *TabState) MarkAutoOpened() {
	t.store.Set(AutoOpenedKey(t.botID), "1")
}
