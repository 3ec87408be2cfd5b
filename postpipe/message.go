package postpipe

import (
	"time"

	"github.com/google/uuid"
)

// Message is one unit of work pushed through a MonitoredQueue[Message] by
// a PostingContext.
type Message struct {
	ID        uuid.UUID
	QueueID   string
	Payload   []byte
	Timestamp time.Time
}

// NewMessage builds a Message with a fresh random ID and the current
// time. payload is copied so the caller's buffer can be reused
// immediately.
func NewMessage(queueID string, payload []byte) Message {
	cp := make([]byte, len(payload))
	copy(cp, payload)
	return Message{
		ID:        uuid.New(),
		QueueID:   queueID,
		Payload:   cp,
		Timestamp: time.Now(),
	}
}
