package bus

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

// Responder answers a request decoded from data. The returned value is JSON encoded as the reply.
type Responder func(ctx context.Context, data []byte) (interface{}, error)

// Loopback is an in-process Bus. Publishes are delivered synchronously to local subscribers and
// recorded; requests are answered by registered responders.
type Loopback struct {
	mu         sync.Mutex
	handlers   map[string][]func([]byte)
	responders map[string]Responder
	published  map[string][][]byte
}

// NewLoopback returns an empty in-process bus.
func NewLoopback() *Loopback {
	return &Loopback{
		handlers:   map[string][]func([]byte){},
		responders: map[string]Responder{},
		published:  map[string][][]byte{},
	}
}

// Publish implements Publisher.
func (l *Loopback) Publish(subject string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encoding message for %s", subject)
	}
	l.mu.Lock()
	l.published[subject] = append(l.published[subject], data)
	handlers := append([]func([]byte){}, l.handlers[subject]...)
	l.mu.Unlock()

	for _, h := range handlers {
		h(data)
	}
	return nil
}

// Subscribe implements Subscriber.
func (l *Loopback) Subscribe(subject string, handler func(data []byte)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[subject] = append(l.handlers[subject], handler)
	return nil
}

// HandleRequests registers the responder for subject, replacing any previous one.
func (l *Loopback) HandleRequests(subject string, responder Responder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.responders[subject] = responder
}

// Request implements Requester.
func (l *Loopback) Request(ctx context.Context, subject string, req, resp interface{}) error {
	l.mu.Lock()
	responder, ok := l.responders[subject]
	l.mu.Unlock()
	if !ok {
		return errors.Wrap(ErrNoResponders, subject)
	}

	data, err := json.Marshal(req)
	if err != nil {
		return errors.Wrapf(err, "encoding request for %s", subject)
	}
	reply, err := responder(ctx, data)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded, err := json.Marshal(reply)
	if err != nil {
		return errors.Wrapf(err, "encoding reply from %s", subject)
	}
	return json.Unmarshal(encoded, resp)
}

// Published returns a copy of every payload published on subject, oldest first.
func (l *Loopback) Published(subject string) [][]byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([][]byte{}, l.published[subject]...)
}

// Close implements Bus.
func (l *Loopback) Close() error {
	return nil
}
