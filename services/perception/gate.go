package perception

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/utils"
)

// ErrNotReady is returned when the configured readiness timeout elapses.
var ErrNotReady = errors.New("perception did not become ready")

// A Detector runs one detection cycle and returns the resulting batch.
type Detector interface {
	Detect(ctx context.Context) (Batch, error)
}

// GateConfig tunes a Gate.
type GateConfig struct {
	// DefaultFrame tags messages that carry no frame.
	DefaultFrame string
	// PollInterval is how often readiness is checked while detecting.
	PollInterval time.Duration
	// LivenessInterval is how often the process is checked after start and stop.
	LivenessInterval time.Duration
	// ReadyTimeout bounds the readiness wait. Zero waits until ctx is done.
	ReadyTimeout time.Duration
}

// Gate turns the asynchronous perception feed into detection cycles.
type Gate struct {
	cfg     GateConfig
	process Process
	clk     clock.Clock
	logger  logging.Logger

	mu        sync.Mutex
	readiness Readiness
	latest    Batch
	seq       uint64
}

// NewGate returns a gate driving process.
func NewGate(cfg GateConfig, process Process, clk clock.Clock, logger logging.Logger) *Gate {
	return &Gate{cfg: cfg, process: process, clk: clk, logger: logger}
}

// Subscribe feeds the gate from the grasps subject.
func (g *Gate) Subscribe(sub bus.Subscriber, subject string) error {
	return bus.SubscribeJSON(sub, subject, g.logger, g.HandleMessage)
}

// HandleMessage records a perception message and advances readiness. It never blocks on the control loop.
func (g *Gate) HandleMessage(msg Message) {
	frame := msg.Frame
	if frame == "" {
		frame = g.cfg.DefaultFrame
	}
	candidates := msg.Candidates()
	now := g.clk.Now()

	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.latest = Batch{Seq: g.seq, Frame: frame, Candidates: candidates, ReceivedAt: now}
	g.readiness = g.readiness.Next()
}

// Readiness returns the current latch state.
func (g *Gate) Readiness() Readiness {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.readiness
}

// Reset puts the latch back to RESET.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.readiness = ReadinessReset
}

// Snapshot returns a copy of the last received batch.
func (g *Gate) Snapshot() Batch {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest.Copy()
}

// Detect runs one detection cycle: reset the latch, start perception, wait for READY, stop perception,
// and return the last batch received before the process exited. The process is stopped on every path
// once started.
func (g *Gate) Detect(ctx context.Context) (batch Batch, err error) {
	g.Reset()
	if err := g.process.Start(ctx); err != nil {
		return Batch{}, err
	}
	stopped := false
	defer func() {
		if stopped {
			return
		}
		if stopErr := g.stopProcess(ctx); stopErr != nil {
			err = multierr.Combine(err, stopErr)
		}
	}()

	if err := g.waitFor(ctx, "perception process to start", g.process.Alive); err != nil {
		return Batch{}, err
	}
	g.logger.Debug("perception process running")

	if err := g.waitReady(ctx); err != nil {
		return Batch{}, err
	}
	stopped = true
	if err := g.stopProcess(ctx); err != nil {
		return Batch{}, err
	}
	snapshot := g.Snapshot()
	g.logger.Debugw("perception ready", "seq", snapshot.Seq, "candidates", len(snapshot.Candidates))
	return snapshot, nil
}

func (g *Gate) waitReady(ctx context.Context) error {
	start := g.clk.Now()
	for {
		if g.Readiness() == ReadinessReady {
			return nil
		}
		if g.cfg.ReadyTimeout > 0 && g.clk.Since(start) >= g.cfg.ReadyTimeout {
			return errors.Wrapf(ErrNotReady, "after %s", g.cfg.ReadyTimeout)
		}
		g.logger.Debugw("waiting for perception", "readiness", g.Readiness().String())
		if !utils.SelectClockOrWait(ctx, g.clk, g.cfg.PollInterval) {
			return ctx.Err()
		}
	}
}

// stopProcess stops perception and waits for it to exit. It still waits when ctx is already done so a
// shutdown does not leave the process running.
func (g *Gate) stopProcess(ctx context.Context) error {
	if err := g.process.Stop(); err != nil {
		return err
	}
	return g.waitFor(context.WithoutCancel(ctx), "perception process to stop", func() bool {
		return !g.process.Alive()
	})
}

func (g *Gate) waitFor(ctx context.Context, what string, cond func() bool) error {
	if cond() {
		return nil
	}
	defer utils.SlowLogger(ctx, g.clk, "still waiting", "for", what, g.logger)()
	for !cond() {
		if !utils.SelectClockOrWait(ctx, g.clk, g.cfg.LivenessInterval) {
			return errors.Wrapf(ctx.Err(), "waiting for %s", what)
		}
	}
	return nil
}
