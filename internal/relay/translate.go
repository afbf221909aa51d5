package relay

import (
	"errors"
	"fmt"
)

// Event types recognized by the translator.
const (
	TypeEventCallback  = "event_callback"
	TypeEmailSent      = "email.sent"
	TypeEmailDelivered = "email.delivered"
)

// UnknownRecipient is rendered when no recipient can be extracted from an event.
const UnknownRecipient = "unknown"

const unknownSubject = "unknown"

var ErrMalformedPayload = errors.New("webhook payload is missing type or data")

// Unwrap returns the effective type and data of event. An event_callback
// envelope carrying a nested type/data pair is replaced by that pair;
// anything else is returned as is. The returned values may be nil.
func Unwrap(event map[string]any) (any, any) {
	eventType, data := event["type"], event["data"]
	if eventType != TypeEventCallback {
		return eventType, data
	}

	inner, ok := data.(map[string]any)
	if !ok {
		return eventType, data
	}
	innerType, hasType := inner["type"]
	innerData, hasData := inner["data"]
	if !hasType || !hasData {
		return eventType, data
	}
	return innerType, innerData
}

// Recipient extracts the recipient address from event data. The "to" field
// may be a string or a list of strings or {"email": ...} objects; the first
// list entry wins.
func Recipient(data map[string]any) string {
	switch to := data["to"].(type) {
	case string:
		return to
	case []any:
		if len(to) == 0 {
			return UnknownRecipient
		}
		switch first := to[0].(type) {
		case string:
			return first
		case map[string]any:
			if email, ok := first["email"].(string); ok {
				return email
			}
		}
	}
	return UnknownRecipient
}

// Translate turns a decoded webhook event into the chat message to relay.
// Unrecognized event types produce an informational message, never an error.
func Translate(event map[string]any) (string, error) {
	rawType, rawData := Unwrap(event)

	eventType, ok := rawType.(string)
	if !ok || eventType == "" {
		return "", ErrMalformedPayload
	}
	data, ok := rawData.(map[string]any)
	if !ok {
		return "", ErrMalformedPayload
	}

	switch eventType {
	case TypeEmailSent:
		subject, ok := data["subject"].(string)
		if !ok {
			subject = unknownSubject
		}
		return fmt.Sprintf("📤 **Email sent** to `%s`\nSubject: **%s**", Recipient(data), subject), nil
	case TypeEmailDelivered:
		return fmt.Sprintf("✅ **Email delivered** to `%s`", Recipient(data)), nil
	default:
		return fmt.Sprintf("ℹ️ Received unknown event type: `%s`", eventType), nil
	}
}
