package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"go.viam.com/graspexec/bus"
	"go.viam.com/graspexec/config"
	"go.viam.com/graspexec/logging"
	"go.viam.com/graspexec/metrics"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graspexec.yaml")
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func TestCheckConfig(t *testing.T) {
	var out, errOut bytes.Buffer
	app := NewApp(&out, &errOut)

	path := writeConfig(t, "perception:\n  command: /opt/gpd/run.sh\nconfirm:\n  mode: auto\n")
	err := app.RunContext(context.Background(), []string{"graspexec", "--config", path, "check-config"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.String(), test.ShouldContainSubstring, "/opt/gpd/run.sh")
	test.That(t, out.String(), test.ShouldContainSubstring, "auto")

	out.Reset()
	bad := writeConfig(t, "perception:\n  command: gpd\nconfirm:\n  mode: sometimes\n")
	err = app.RunContext(context.Background(), []string{"graspexec", "--config", bad, "check-config"})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "sometimes")
}

func TestNewExecutorWiring(t *testing.T) {
	logger := logging.NewTestLogger(t)
	cfg := config.Default()
	cfg.Perception.Command = "true"
	test.That(t, cfg.Validate(), test.ShouldBeNil)

	lb := bus.NewLoopback()
	exec, err := newExecutor(cfg, lb, metrics.NoopRecorder{}, clock.NewMock(), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, exec, test.ShouldNotBeNil)

	cfg.Transform.Static = &config.StaticTransform{Translation: [3]float64{0, 0, 1}}
	exec, err = newExecutor(cfg, bus.NewLoopback(), metrics.NoopRecorder{}, clock.NewMock(), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, exec, test.ShouldNotBeNil)
}
