package nakama

import (
	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// runtimeCore forwards zap entries to the Nakama runtime logger so that
// session logs land in the server's log stream.
type runtimeCore struct {
	zapcore.LevelEnabler
	logger runtime.Logger
	fields []zapcore.Field
}

// newZapLogger wraps logger in a *zap.Logger enabled from level upwards.
func newZapLogger(logger runtime.Logger, level zapcore.Level) *zap.Logger {
	return zap.New(&runtimeCore{LevelEnabler: level, logger: logger})
}

func (c *runtimeCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &runtimeCore{LevelEnabler: c.LevelEnabler, logger: c.logger, fields: merged}
}

func (c *runtimeCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *runtimeCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	logger := c.logger
	if len(enc.Fields) > 0 {
		logger = logger.WithFields(enc.Fields)
	}
	switch {
	case ent.Level >= zapcore.ErrorLevel:
		logger.Error("%s", ent.Message)
	case ent.Level == zapcore.WarnLevel:
		logger.Warn("%s", ent.Message)
	case ent.Level == zapcore.InfoLevel:
		logger.Info("%s", ent.Message)
	default:
		logger.Debug("%s", ent.Message)
	}
	return nil
}

func (c *runtimeCore) Sync() error {
	return nil
}
