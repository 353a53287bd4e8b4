package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"go.viam.com/graspexec/config"
	"go.viam.com/graspexec/logging"
)

func newLogger(c *cli.Context, name string) logging.Logger {
	if c.Bool(flagDebug) {
		return logging.NewDebugLogger(name)
	}
	return logging.NewLogger(name)
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String(flagConfig))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CheckConfigAction is the corresponding Action for 'check-config'.
func CheckConfigAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, cfg.String())
	return nil
}
