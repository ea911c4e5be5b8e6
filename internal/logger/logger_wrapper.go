package logger

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/rtmidi/sdk/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements contracts.Logger on top of zap.
type ZapLogger struct {
	logger atomic.Pointer[zap.Logger]
	level  zap.AtomicLevel

	mu   sync.Mutex // serializes SetDestination
	file *os.File
}

// NewZapLogger creates a production zap logger writing JSON to stderr.
func NewZapLogger() contracts.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)
	return newZapLogger(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)), level)
}

// NewDevelopmentLogger creates a human readable console logger.
func NewDevelopmentLogger() contracts.Logger {
	level := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)
	return newZapLogger(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)), level)
}

// NewFromZap wraps an existing zap logger. The wrapper's level starts at debug so
// the zap core's own level stays in charge until SetLevel is called.
func NewFromZap(l *zap.Logger) contracts.Logger {
	return newZapLogger(l.WithOptions(zap.AddCallerSkip(2)), zap.NewAtomicLevelAt(zapcore.DebugLevel))
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() contracts.Logger {
	return NewFromZap(zap.NewNop())
}

func newZapLogger(l *zap.Logger, level zap.AtomicLevel) *ZapLogger {
	z := &ZapLogger{level: level}
	z.logger.Store(l)
	return z
}

// Info logs a message at the INFO level
func (z *ZapLogger) Info(msg string, fields ...contracts.Field) {
	z.log(zapcore.InfoLevel, msg, fields...)
}

// Error logs a message at the ERROR level
func (z *ZapLogger) Error(msg string, fields ...contracts.Field) {
	z.log(zapcore.ErrorLevel, msg, fields...)
}

// Debug logs a message at the DEBUG level
func (z *ZapLogger) Debug(msg string, fields ...contracts.Field) {
	z.log(zapcore.DebugLevel, msg, fields...)
}

// Warn logs a message at the WARN level
func (z *ZapLogger) Warn(msg string, fields ...contracts.Field) {
	z.log(zapcore.WarnLevel, msg, fields...)
}

// Fatal logs a message at the FATAL level and terminates the application
func (z *ZapLogger) Fatal(msg string, fields ...contracts.Field) {
	z.log(zapcore.FatalLevel, msg, fields...)
	os.Exit(1)
}

// Field returns a new instance of Field
func (z *ZapLogger) Field() contracts.Field {
	return &zapField{}
}

// SetLevel sets the logging level
func (z *ZapLogger) SetLevel(level contracts.LogLevel) {
	z.level.SetLevel(toZapLevel(level))
}

// SetDestination switches output between stderr and a JSON log file.
func (z *ZapLogger) SetDestination(dest contracts.LogDestination, filePath ...string) {
	z.mu.Lock()
	defer z.mu.Unlock()

	var sink zapcore.WriteSyncer
	var file *os.File
	switch dest {
	case contracts.FileLog:
		if len(filePath) == 0 || filePath[0] == "" {
			z.Warn("file log destination requested without a path")
			return
		}
		f, err := os.OpenFile(filePath[0], os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			z.Error("failed to open log file", z.Field().String("path", filePath[0]), z.Field().Error("error", err))
			return
		}
		file = f
		sink = zapcore.AddSync(f)
	default:
		sink = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, z.level)
	old := z.logger.Swap(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)))
	_ = old.Sync()
	if z.file != nil {
		_ = z.file.Close()
	}
	z.file = file
}

func (z *ZapLogger) log(level zapcore.Level, msg string, fields ...contracts.Field) {
	if !z.level.Enabled(level) {
		return
	}
	l := z.logger.Load()
	if ce := l.Check(level, msg); ce != nil {
		ce.Write(toZapFields(fields)...)
	}
}

func toZapLevel(level contracts.LogLevel) zapcore.Level {
	switch level {
	case contracts.DebugLevel:
		return zapcore.DebugLevel
	case contracts.WarnLevel:
		return zapcore.WarnLevel
	case contracts.ErrorLevel:
		return zapcore.ErrorLevel
	case contracts.FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZapFields(fields []contracts.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		if f, ok := field.(*zapField); ok && f.set {
			out = append(out, f.field)
		}
	}
	return out
}

// zapField implements contracts.Field
type zapField struct {
	field zap.Field
	set   bool
}

func (f *zapField) Bool(key string, val bool) contracts.Field {
	return &zapField{zap.Bool(key, val), true}
}

func (f *zapField) Int(key string, val int) contracts.Field {
	return &zapField{zap.Int(key, val), true}
}

func (f *zapField) Float64(key string, val float64) contracts.Field {
	return &zapField{zap.Float64(key, val), true}
}

func (f *zapField) String(key string, val string) contracts.Field {
	return &zapField{zap.String(key, val), true}
}

func (f *zapField) Time(key string, val time.Time) contracts.Field {
	return &zapField{zap.Time(key, val), true}
}

func (f *zapField) Int64(key string, val int64) contracts.Field {
	return &zapField{zap.Int64(key, val), true}
}

func (f *zapField) Error(key string, val error) contracts.Field {
	return &zapField{zap.NamedError(key, val), true}
}

func (f *zapField) Uint64(key string, val uint64) contracts.Field {
	return &zapField{zap.Uint64(key, val), true}
}

func (f *zapField) Uint8(key string, val uint8) contracts.Field {
	return &zapField{zap.Uint8(key, val), true}
}
