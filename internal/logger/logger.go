// Package logger wrapper for zerolog
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Config logger settings
type Config struct {
	Level           string `yaml:"level" default:"info"`
	TimeFieldFormat string `yaml:"time_field_format" default:"2006-01-02T15:04:05Z07:00"`
	PrettyPrint     bool   `yaml:"pretty_print"`
	ErrorStack      bool   `yaml:"error_stack"`
	ShowCaller      bool   `yaml:"show_caller"`
}

// Validate checks the level name
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "error", "fatal", "panic", "disabled")),
	)
}

// Logger object capable of interacting with Logger
type Logger struct {
	zero    zerolog.Logger
	zeroErr zerolog.Logger
}

var defaultConfig = Config{
	Level:           "debug",
	TimeFieldFormat: time.RFC3339,
	PrettyPrint:     true,
}

// NewDefault creates Logger with default settings
func NewDefault() *Logger {
	return New(defaultConfig)
}

// New creates a new Logger
func New(config Config) *Logger {
	zerolog.SetGlobalLevel(getZerologLevel(config.Level))
	zerolog.TimeFieldFormat = config.TimeFieldFormat
	if config.ErrorStack {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	}

	var out, errOut io.Writer = os.Stdout, os.Stderr
	if config.PrettyPrint {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
		errOut = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	return newLogger(zerolog.New(out), zerolog.New(errOut), config.ShowCaller)
}

// NewWriter creates a Logger that sends every level to w. Used by tests.
func NewWriter(w io.Writer) *Logger {
	return newLogger(zerolog.New(w), zerolog.New(w), false)
}

// NewNop creates a Logger that discards everything.
func NewNop() *Logger {
	return &Logger{zero: zerolog.Nop(), zeroErr: zerolog.Nop()}
}

func newLogger(zero, zeroErr zerolog.Logger, showCaller bool) *Logger {
	l := &Logger{
		zero:    zero.With().Timestamp().Logger(),
		zeroErr: zeroErr.With().Timestamp().Logger(),
	}
	if showCaller {
		l.zero = l.zero.With().Caller().Logger()
		l.zeroErr = l.zeroErr.With().Caller().Logger()
	}
	return l
}

// Debug starts a new message with debug level
func (l *Logger) Debug() *zerolog.Event {
	return l.zero.Debug()
}

// Info starts a new message with info level
func (l *Logger) Info() *zerolog.Event {
	return l.zero.Info()
}

// Error starts a new message with error level
func (l *Logger) Error() *zerolog.Event {
	return l.zeroErr.Error()
}

// Warn starts a new message with warn level
func (l *Logger) Warn() *zerolog.Event {
	return l.zeroErr.Warn()
}

// Fatalf sends the event with formatted msg with fatal level
func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.zeroErr.Fatal().Msgf(format, v...)
}

// Printf sends the event with formatted msg with debug level
func (l *Logger) Printf(format string, v ...interface{}) {
	l.zero.Debug().Msgf(format, v...)
}

// With returns a child logger with the fields set by fn added to its context
func (l *Logger) With(fn func(zerolog.Context) zerolog.Context) *Logger {
	return &Logger{
		zero:    fn(l.zero.With()).Logger(),
		zeroErr: fn(l.zeroErr.With()).Logger(),
	}
}

func getZerologLevel(lvl string) zerolog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled":
		return zerolog.Disabled
	}
	return zerolog.NoLevel
}
