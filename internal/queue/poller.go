package queue

import (
	"context"
	"time"

	"chat-backend/internal/models"
)

// Poller answers long-poll requests: it waits, bounded by a timeout, for
// messages newer than a client-supplied cursor. Each call is single-shot;
// clients re-issue the request after every response to simulate a stream.
type Poller struct {
	store    MessageStore
	timeout  time.Duration
	interval time.Duration
}

// NewPoller creates a Poller with the given wait budget and retry interval.
func NewPoller(store MessageStore, timeout, interval time.Duration) *Poller {
	return &Poller{store: store, timeout: timeout, interval: interval}
}

// Poll returns all messages with id greater than cursor, oldest first. If
// none exist it retries every interval until the timeout elapses, then
// returns an empty batch. Cursor 0 means "from the beginning". Messages
// evicted before the client saw them are simply never reported; the poller
// only observes what currently exists above the cursor.
func (p *Poller) Poll(ctx context.Context, cursor uint) ([]models.Message, error) {
	deadline := time.Now().Add(p.timeout)

	for {
		msgs, err := p.store.After(cursor)
		if err != nil {
			return nil, err
		}
		if len(msgs) > 0 {
			return msgs, nil
		}
		if time.Now().Add(p.interval).After(deadline) {
			return []models.Message{}, nil
		}

		select {
		case <-ctx.Done():
			// Client went away; respond empty rather than erroring.
			return []models.Message{}, nil
		case <-time.After(p.interval):
		}
	}
}
