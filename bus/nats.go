package bus

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/graspexec/logging"
)

// NATSBus is a Bus backed by a NATS connection.
type NATSBus struct {
	conn   *nats.Conn
	logger logging.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
}

// Connect dials the NATS server at url.
func Connect(url string, logger logging.Logger, opts ...nats.Option) (*NATSBus, error) {
	opts = append([]nats.Option{
		nats.Name("graspexec"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warnw("disconnected from NATS", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Infow("reconnected to NATS", "url", c.ConnectedUrl())
		}),
	}, opts...)

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to NATS at %s", url)
	}
	logger.Infow("connected to NATS", "url", conn.ConnectedUrl())
	return &NATSBus{conn: conn, logger: logger}, nil
}

// Publish implements Publisher.
func (b *NATSBus) Publish(subject string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding message for %s", subject)
	}
	return errors.Wrapf(b.conn.Publish(subject, data), "publishing on %s", subject)
}

// Subscribe implements Subscriber.
func (b *NATSBus) Subscribe(subject string, handler func(data []byte)) error {
	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return errors.Wrapf(err, "subscribing to %s", subject)
	}
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return nil
}

// Request implements Requester. ctx bounds the round trip.
func (b *NATSBus) Request(ctx context.Context, subject string, req, resp interface{}) error {
	data, err := json.Marshal(req)
	if err != nil {
		return errors.Wrapf(err, "encoding request for %s", subject)
	}
	msg, err := b.conn.RequestWithContext(ctx, subject, data)
	if err != nil {
		if errors.Is(err, nats.ErrNoResponders) {
			return errors.Wrap(ErrNoResponders, subject)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return errors.Wrapf(err, "request on %s", subject)
	}
	if err := json.Unmarshal(msg.Data, resp); err != nil {
		return errors.Wrapf(err, "decoding reply from %s", subject)
	}
	return nil
}

// Close unsubscribes everything and drains the connection.
func (b *NATSBus) Close() error {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	var err error
	for _, sub := range subs {
		err = multierr.Combine(err, sub.Unsubscribe())
	}
	return multierr.Combine(err, b.conn.Drain())
}
