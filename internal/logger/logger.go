package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config controls log level, encoding and destination.
type Config struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	Output string `yaml:"output" default:"stdout"` // stdout, stderr or a file path
}

// New builds a zerolog logger from cfg.
func New(cfg Config) (*zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var output io.Writer
	switch cfg.Output {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		output = file
	}

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.DateTime}
	}

	l := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &l, nil
}

// Nop returns a logger that discards everything. Used as the default in component configs.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
