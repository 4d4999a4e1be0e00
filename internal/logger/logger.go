package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects how the CLI logs.
type Options struct {
	JSON  bool
	Debug bool
	// File receives the logs instead of stderr. Stdout is never used so that
	// a rendered PDF can be piped.
	File string
}

// New builds the process logger. Sub-loggers created with Named show up under
// the "component" key (render, pipeline, gemini).
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.Config{
		Encoding:          "console",
		Level:             zap.NewAtomicLevelAt(zapcore.InfoLevel),
		OutputPaths:       []string{destination(opts.File)},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !opts.Debug,
		DisableStacktrace: !opts.Debug,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",
			NameKey:    "component",

			LevelKey:    "level",
			EncodeLevel: zapcore.CapitalLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,

			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeName:     zapcore.FullNameEncoder,
		},
	}

	if opts.JSON {
		cfg.Encoding = "json"
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	}
	if opts.Debug {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}

	return cfg.Build()
}

func destination(file string) string {
	if file = strings.TrimSpace(file); file == "" || file == "-" {
		return "stderr"
	}
	return file
}

// TruncateForLog keeps the first limit runes of s, marking the cut with "...".
// Prompts and model answers are logged through it.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
