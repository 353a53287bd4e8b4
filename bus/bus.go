// Package bus carries graspexec's messages: subscriptions for the asynchronous feeds, publishes for
// commands and diagnostics, and request/reply for the planning and transform services. Payloads are JSON.
package bus

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"go.viam.com/graspexec/logging"
)

// Publisher publishes a JSON-encoded message on a subject.
type Publisher interface {
	Publish(subject string, v interface{}) error
}

// Subscriber delivers raw payloads published on a subject. Handlers run on the transport's goroutine
// and must not block.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte)) error
}

// Requester sends a JSON request and decodes the JSON reply into resp.
type Requester interface {
	Request(ctx context.Context, subject string, req, resp interface{}) error
}

// Bus is the full transport surface.
type Bus interface {
	Publisher
	Subscriber
	Requester
	Close() error
}

// ErrNoResponders is returned when nothing answers a request subject.
var ErrNoResponders = errors.New("no responders available for request")

// SubscribeJSON subscribes to subject and hands every well-formed message to handle. Malformed payloads
// are logged and dropped.
func SubscribeJSON[T any](s Subscriber, subject string, logger logging.Logger, handle func(T)) error {
	return s.Subscribe(subject, func(data []byte) {
		var msg T
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnw("dropping malformed message", "subject", subject, "error", err)
			return
		}
		handle(msg)
	})
}
