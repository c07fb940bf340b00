package engine

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/upb/logbridge/observability"
)

// TraceLevel is one step more verbose than zap's debug level.
const TraceLevel = zapcore.DebugLevel - 1

// nativeLevels maps user-facing severities to engine levels.
var nativeLevels = map[observability.Level]zapcore.Level{
	observability.LevelError:   zapcore.ErrorLevel,
	observability.LevelLog:     zapcore.InfoLevel,
	observability.LevelWarn:    zapcore.WarnLevel,
	observability.LevelDebug:   zapcore.DebugLevel,
	observability.LevelVerbose: TraceLevel,
}

// NativeLevel returns the engine level used for a user-facing severity.
func NativeLevel(level observability.Level) (zapcore.Level, bool) {
	l, ok := nativeLevels[level]
	return l, ok
}

// ParseLevel parses an engine level name, including "trace".
func ParseLevel(s string) (zapcore.Level, error) {
	if strings.EqualFold(strings.TrimSpace(s), "trace") {
		return TraceLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == TraceLevel {
		enc.AppendString("trace")
		return
	}
	zapcore.LowercaseLevelEncoder(l, enc)
}

func encodeColorLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == TraceLevel {
		enc.AppendString("\x1b[35mTRACE\x1b[0m")
		return
	}
	zapcore.CapitalColorLevelEncoder(l, enc)
}
