package pipeline

import (
	"sync/atomic"

	"github.com/leandrodaf/rtmidi/sdk/contracts"
)

// Reporter routes warnings and errors of one connection to the logger and to the
// application's error callback. It is safe to call from producer goroutines.
type Reporter struct {
	logger contracts.Logger
	fields []contracts.Field
	cb     atomic.Pointer[contracts.ErrorCallback]
}

// NewReporter returns a reporter that tags every entry with fields.
func NewReporter(logger contracts.Logger, fields ...contracts.Field) *Reporter {
	return &Reporter{logger: logger, fields: fields}
}

// SetCallback installs or, with nil, removes the application error callback.
func (r *Reporter) SetCallback(cb contracts.ErrorCallback) {
	if cb == nil {
		r.cb.Store(nil)
		return
	}
	r.cb.Store(&cb)
}

// Logger returns the underlying logger.
func (r *Reporter) Logger() contracts.Logger {
	return r.logger
}

// Report logs msg at the level matching kind and notifies the callback. Warnings
// return nil; every other kind returns a *contracts.Error for the caller to propagate.
func (r *Reporter) Report(kind contracts.ErrorKind, msg string) error {
	return r.Wrap(kind, msg, nil)
}

// Wrap is Report with an underlying cause.
func (r *Reporter) Wrap(kind contracts.ErrorKind, msg string, cause error) error {
	fields := r.fields
	if cause != nil {
		fields = append(fields[:len(fields):len(fields)], r.logger.Field().Error("error", cause))
	}

	switch kind {
	case contracts.DebugWarning:
		r.logger.Debug(msg, fields...)
		return nil
	case contracts.Warning:
		r.logger.Warn(msg, fields...)
		r.notify(kind, msg)
		return nil
	}

	r.logger.Error(msg, append(fields[:len(fields):len(fields)], r.logger.Field().String("kind", kind.String()))...)
	err := contracts.NewError(kind, msg, cause)
	r.notify(kind, err.Error())
	return err
}

// Warn is shorthand for a Warning report with extra fields.
func (r *Reporter) Warn(msg string, fields ...contracts.Field) {
	r.logger.Warn(msg, append(r.fields[:len(r.fields):len(r.fields)], fields...)...)
	r.notify(contracts.Warning, msg)
}

// Debug logs at debug level with the connection fields.
func (r *Reporter) Debug(msg string, fields ...contracts.Field) {
	r.logger.Debug(msg, append(r.fields[:len(r.fields):len(r.fields)], fields...)...)
}

// Info logs at info level with the connection fields.
func (r *Reporter) Info(msg string, fields ...contracts.Field) {
	r.logger.Info(msg, append(r.fields[:len(r.fields):len(r.fields)], fields...)...)
}

func (r *Reporter) notify(kind contracts.ErrorKind, msg string) {
	if cb := r.cb.Load(); cb != nil {
		(*cb)(kind, msg)
	}
}
