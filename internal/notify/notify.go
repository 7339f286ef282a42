// Package notify implements the outbound notification ports: pub/sub
// publishing, chat messages, and the internal event mirror. All sends
// are best-effort; callers log failures and never surface them to the
// triggering request.
package notify

import (
	"context"
	"net/http"
	"time"
)

// Publisher publishes a named event to a pub/sub channel.
type Publisher interface {
	Publish(ctx context.Context, event string, data any) error
}

// Messenger sends a plain-text chat message.
type Messenger interface {
	Send(ctx context.Context, text string) error
}

// NopPublisher is a Publisher that does nothing. Used when no pub/sub
// key is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// NopMessenger is a Messenger that does nothing. Used when the chat
// relay is not configured.
type NopMessenger struct{}

func (NopMessenger) Send(context.Context, string) error { return nil }

// outboundClient is shared by all relays. Forwards are fire-and-forget,
// so a short timeout bounds the worst case without any retry policy.
var outboundClient = &http.Client{Timeout: 10 * time.Second}
