// Package log provides structured logging for kernsmooth on top of zerolog.
//
// Library code obtains a named Logger and logs key/value pairs using the key
// constants defined in this package:
//
//	logger := log.GetLoggerWithName("smoothing").With(log.ModelNameKey, "SpatialAverage")
//	logger.Info("Engine created", log.SamplesKey, n, log.FeaturesKey, d)
//
// Applications configure the output once with SetupLogger. The initial level
// is read from the KERNSMOOTH_LOG_LEVEL environment variable and defaults to
// "info".
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LevelEnvVar names the environment variable holding the initial log level.
const LevelEnvVar = "KERNSMOOTH_LOG_LEVEL"

// Structured logging keys shared by all packages.
const (
	ModelNameKey  = "model"
	ComponentKey  = "component"
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "n_samples"
	FeaturesKey   = "n_features"
	PointsKey     = "n_points"
	OrderKey      = "order"
	DurationMsKey = "duration_ms"
)

// Operation and phase values.
const (
	OperationFit      = "fit"
	OperationEvaluate = "evaluate"
	OperationSetCov   = "set_covariance"
	OperationCorrect  = "density_correction"
	PhaseSetup        = "setup"
	PhaseInference    = "inference"
)

// Level is a logging severity.
type Level = zerolog.Level

// Logger is the structured logger used by kernsmooth packages. Fields are
// alternating key/value pairs.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

// LoggerProvider creates loggers sharing one output and level.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}

// ToLogLevel parses a level name. Unknown names map to info.
func ToLogLevel(s string) Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

type zerologProvider struct {
	mu   sync.RWMutex
	base zerolog.Logger
}

// NewZerologProvider creates a provider writing human readable output to stderr.
func NewZerologProvider(level Level) LoggerProvider {
	return NewZerologProviderWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, level)
}

// NewZerologProviderWithWriter creates a provider writing JSON lines to w.
func NewZerologProviderWithWriter(w io.Writer, level Level) LoggerProvider {
	return &zerologProvider{base: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

func (p *zerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{zl: p.base}
}

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{zl: p.base.With().Str(ComponentKey, name).Logger()}
}

func (p *zerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.base.Level(level)
}

type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...interface{}) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...interface{}) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...interface{}) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error logs at error level. A leading error value is attached with Err.
func (l *zerologLogger) Error(msg string, fields ...interface{}) {
	ev := l.zl.Error()
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			fields = fields[1:]
		}
	}
	l.emit(ev, msg, fields)
}

func (l *zerologLogger) With(fields ...interface{}) Logger {
	return &zerologLogger{zl: l.zl.With().Fields(pairs(fields)).Logger()}
}

func (l *zerologLogger) emit(ev *zerolog.Event, msg string, fields []interface{}) {
	if ev == nil {
		return
	}
	ev.Fields(pairs(fields)).Msg(msg)
}

// pairs turns alternating key/value arguments into a map. A dangling key is
// recorded with a nil value.
func pairs(fields []interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(fields)/2+1)
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		if i+1 < len(fields) {
			m[key] = fields[i+1]
		} else {
			m[key] = nil
		}
	}
	return m
}

var (
	globalMu       sync.RWMutex
	globalProvider = NewZerologProvider(ToLogLevel(os.Getenv(LevelEnvVar)))
	globalLogger   = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(ToLogLevel(os.Getenv(LevelEnvVar))).With().Timestamp().Logger()
)

// SetupLogger reconfigures the global logger and provider at the given level.
func SetupLogger(level string) {
	lvl := ToLogLevel(level)
	globalMu.Lock()
	defer globalMu.Unlock()
	globalProvider.SetLevel(lvl)
	globalLogger = globalLogger.Level(lvl)
}

// SetProvider replaces the global provider. Loggers obtained earlier keep
// their previous provider.
func SetProvider(p LoggerProvider) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalProvider = p
}

// GetLogger returns the global zerolog logger for application code.
func GetLogger() *zerolog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	l := globalLogger
	return &l
}

// GetLoggerWithName returns a Logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalProvider.GetLoggerWithName(name)
}

// LogError logs err at error level on the global logger. %+v formatting keeps
// the stack captured by cockroachdb/errors.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	l := GetLogger()
	l.Error().Err(err).Str("detail", fmt.Sprintf("%+v", err)).Msg(msg)
}
