package cli

import (
	"errors"
	"io/fs"

	"go.uber.org/zap"

	"github.com/dejo1307/a11yaudit/internal/config"
	"github.com/dejo1307/a11yaudit/internal/detectors"
	"github.com/dejo1307/a11yaudit/internal/engine"
	"github.com/dejo1307/a11yaudit/internal/logging"
	"github.com/dejo1307/a11yaudit/internal/renderers/jsonreport"
	"github.com/dejo1307/a11yaudit/internal/renderers/sarif"
	"github.com/dejo1307/a11yaudit/internal/renderers/summary"
)

type rootOptions struct {
	ConfigPath string
	Debug      bool
}

// setup loads the config and builds the logger. A missing config file at the
// default path falls back to defaults; an explicitly named one must exist.
func (o *rootOptions) setup() (*config.Config, *zap.Logger, error) {
	logger := logging.Must(o.Debug)

	cfg, err := config.Load(o.ConfigPath)
	switch {
	case err == nil:
		logger.Debug("loaded config", zap.String("path", o.ConfigPath))
	case errors.Is(err, fs.ErrNotExist) && o.ConfigPath == config.DefaultPath:
		cfg = config.Default()
	default:
		return nil, nil, err
	}
	return cfg, logger, nil
}

// buildEngine wires the default detectors and every renderer into a new engine.
func buildEngine(cfg *config.Config, logger *zap.Logger) (*engine.Engine, error) {
	eng, err := engine.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	for _, d := range detectors.Default(cfg.Contrast.ThemePatterns) {
		eng.RegisterDetector(d)
	}
	eng.RegisterRenderer(jsonreport.New())
	eng.RegisterRenderer(sarif.New())
	eng.RegisterRenderer(summary.New(cfg.Output.MaxSummaryChars))
	return eng, nil
}

func fatal(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: ExitFatal, Err: err}
}
