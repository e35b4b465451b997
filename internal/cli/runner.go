package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/seitarof/gen-schema/internal/driver"
	"github.com/seitarof/gen-schema/internal/generator"
	"github.com/seitarof/gen-schema/internal/parser"
	"github.com/seitarof/gen-schema/internal/resolver"
)

// Runner orchestrates parser/driver/generator layers.
type Runner interface {
	Run(cfg *Config) error
}

// DriverFactory builds the emission driver for one run.
type DriverFactory func(pkg string, opts ...resolver.Option) driver.Driver

type runnerImpl struct {
	parser    parser.Parser
	newDriver DriverFactory
	generator generator.Generator
	logger    *zap.Logger
}

// NewRunner creates a default runner implementation. A nil logger discards
// diagnostics.
func NewRunner(p parser.Parser, newDriver DriverFactory, g generator.Generator, logger *zap.Logger) Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &runnerImpl{
		parser:    p,
		newDriver: newDriver,
		generator: g,
		logger:    logger,
	}
}

// Run executes a single generation cycle.
func (r *runnerImpl) Run(cfg *Config) error {
	cat, err := r.parser.Parse(cfg.Schema)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	r.logger.Debug("catalog loaded",
		zap.String("path", cfg.Schema),
		zap.String("key", cat.Key),
		zap.Int("types", len(cat.Types)),
	)

	d := r.newDriver(cfg.Package,
		resolver.WithComments(!cfg.NoComments),
		resolver.WithLogger(r.logger),
	)
	out, err := d.Run(cat)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	r.logger.Debug("emission plan",
		zap.Int("units", len(out.Units)),
		zap.String("summary", out.Describe()),
	)

	if err := r.generator.Generate(cfg, out); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	return nil
}
