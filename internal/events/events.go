// Package events fans tracker changes out to server-sent-event listeners.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	TypeStatusChanged    = "status_changed"
	TypeSavedToggled     = "saved_toggled"
	TypePreferencesSaved = "preferences_saved"
	TypeDigestGenerated  = "digest_generated"
	TypeDigestsCleaned   = "digests_cleaned"
	TypeConfigSaved      = "config_saved"
)

type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Version   int             `json:"v"`
	At        time.Time       `json:"at"`
	RequestID string          `json:"request_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// MakeEvent encodes one event as the JSON line sent to listeners.
func MakeEvent(reqID, typ string, v int, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Version:   v,
		At:        time.Now().UTC(),
		RequestID: reqID,
		Data:      raw,
	}
	b, _ := json.Marshal(e)
	return string(b)
}

// Publisher is what the tracker needs from a hub.
type Publisher interface {
	Publish(evt string)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(string) {}

type ctxKey string

const requestIDKey ctxKey = "request_id"

// WithRequestID tags ctx so events published while serving a request carry
// its id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
