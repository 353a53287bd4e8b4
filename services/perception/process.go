package perception

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.viam.com/utils/pexec"

	"go.viam.com/graspexec/logging"
)

// A Process is the external grasp-detection process. Start and Stop return once the request is issued;
// Alive reports whether it is currently running.
type Process interface {
	Start(ctx context.Context) error
	Stop() error
	Alive() bool
}

// ProcessConfig describes the executable to run.
type ProcessConfig struct {
	Command string
	Args    []string
	CWD     string
}

// ManagedProcess runs the perception executable under pexec. Each Start launches a fresh process.
type ManagedProcess struct {
	cfg    ProcessConfig
	logger logging.Logger

	mu   sync.Mutex
	proc pexec.ManagedProcess
}

// NewManagedProcess returns a Process for cfg. Nothing is started until Start.
func NewManagedProcess(cfg ProcessConfig, logger logging.Logger) *ManagedProcess {
	return &ManagedProcess{cfg: cfg, logger: logger}
}

// Start implements Process.
func (p *ManagedProcess) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.proc != nil {
		return errors.New("perception process already started")
	}
	proc := pexec.NewManagedProcess(pexec.ProcessConfig{
		ID:   "perception",
		Name: p.cfg.Command,
		Args: p.cfg.Args,
		CWD:  p.cfg.CWD,
		Log:  true,
	}, p.logger.AsZap())
	if err := proc.Start(ctx); err != nil {
		return errors.Wrapf(err, "starting perception process %q", p.cfg.Command)
	}
	p.proc = proc
	return nil
}

// Stop implements Process. Stopping a process that was never started is a no-op.
func (p *ManagedProcess) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.proc == nil {
		return nil
	}
	err := p.proc.Stop()
	p.proc = nil
	return errors.Wrap(err, "stopping perception process")
}

// Alive implements Process.
func (p *ManagedProcess) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.proc != nil && p.proc.Status() == nil
}
