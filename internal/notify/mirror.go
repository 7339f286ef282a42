package notify

import (
	"context"
	"fmt"
	"log"
	"time"
)

const mirrorSendTimeout = 10 * time.Second

// Mirror is the internal notification sink. Informational and error
// events raised anywhere in the service go to local process output and
// are mirrored best-effort to the chat relay with a distinguishing
// prefix. Chat failures are logged locally and never re-mirrored.
type Mirror struct {
	messenger Messenger
}

// NewMirror creates a Mirror over the given chat messenger.
func NewMirror(messenger Messenger) *Mirror {
	if messenger == nil {
		messenger = NopMessenger{}
	}
	return &Mirror{messenger: messenger}
}

// Logf records an informational event.
func (m *Mirror) Logf(format string, args ...any) {
	m.emit("[log]", fmt.Sprintf(format, args...))
}

// Errorf records an error event.
func (m *Mirror) Errorf(format string, args ...any) {
	m.emit("[error]", fmt.Sprintf(format, args...))
}

func (m *Mirror) emit(prefix, msg string) {
	log.Printf("%s %s", prefix, msg)

	ctx, cancel := context.WithTimeout(context.Background(), mirrorSendTimeout)
	defer cancel()
	if err := m.messenger.Send(ctx, prefix+" "+msg); err != nil {
		log.Printf("[notify] chat mirror failed: %v", err)
	}
}
