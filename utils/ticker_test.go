package utils

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"
)

func TestSelectClockOrWait(t *testing.T) {
	mockClock := clock.NewMock()

	t.Run("zero duration returns immediately", func(t *testing.T) {
		test.That(t, SelectClockOrWait(context.Background(), mockClock, 0), test.ShouldBeTrue)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		test.That(t, SelectClockOrWait(ctx, mockClock, time.Second), test.ShouldBeFalse)
	})

	t.Run("waits on the clock", func(t *testing.T) {
		done := make(chan bool)
		go func() {
			done <- SelectClockOrWait(context.Background(), mockClock, time.Second)
		}()
		for {
			mockClock.Add(100 * time.Millisecond)
			select {
			case ok := <-done:
				test.That(t, ok, test.ShouldBeTrue)
				return
			default:
				time.Sleep(time.Millisecond)
			}
		}
	})
}
