package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapAdapter implements zapcore.Core on top of a Logger, so third-party
// code built against zap shares the same sink and level gate.
type zapAdapter struct {
	logger *Logger
}

// NewZapLogger wraps a Logger in a *zap.Logger.
func NewZapLogger(logger *Logger) *zap.Logger {
	return zap.New(&zapAdapter{logger: logger})
}

// fromZapLevel folds zap's panic-family levels into ErrorLevel; the host
// process decides what is fatal, not the library.
func fromZapLevel(level zapcore.Level) LogLevel {
	switch level {
	case zapcore.DebugLevel:
		return DebugLevel
	case zapcore.WarnLevel:
		return WarnLevel
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (a *zapAdapter) Enabled(level zapcore.Level) bool {
	return a.logger.shouldLog(fromZapLevel(level))
}

func (a *zapAdapter) With(fields []zapcore.Field) zapcore.Core {
	return &zapAdapter{logger: a.logger.WithFields(fieldMap(fields))}
}

func (a *zapAdapter) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(ent.Level) {
		return ce.AddCore(ent, a)
	}
	return ce
}

func (a *zapAdapter) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	f := fieldMap(fields)
	if ent.Caller.Defined {
		f["zap_caller"] = ent.Caller.String()
	}
	a.logger.log(fromZapLevel(ent.Level), ent.Message, f)
	return nil
}

func (a *zapAdapter) Sync() error { return nil }

// fieldMap converts zap's typed fields into the plain map the Logger
// takes. An encoder round trip keeps complex field types intact.
func fieldMap(fields []zapcore.Field) map[string]interface{} {
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}
	out := make(map[string]interface{}, len(enc.Fields))
	for k, v := range enc.Fields {
		out[k] = v
	}
	return out
}
