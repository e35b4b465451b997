package cli

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultPackage = "generatedschema"

// Config stores CLI options for a single generation run.
type Config struct {
	Schema      string `koanf:"schema"`
	Output      string `koanf:"output"`
	Package     string `koanf:"package"`
	NoComments  bool   `koanf:"no-comments"`
	Verbose     bool   `koanf:"verbose"`
	ShowVersion bool   `koanf:"-"`
}

// OutputFilename returns destination file path for generator layer.
func (c *Config) OutputFilename() string {
	return c.Output
}

// NewLogger builds the run logger: console output on stderr, warnings only
// unless verbose.
func NewLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zc.DisableStacktrace = true
	zc.DisableCaller = true
	zc.EncoderConfig.TimeKey = ""
	return zc.Build()
}
