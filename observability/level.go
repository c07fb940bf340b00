package observability

import (
	"fmt"
	"strings"
)

// Level is a user-facing log severity.
type Level int8

const (
	LevelError Level = iota
	LevelLog
	LevelWarn
	LevelDebug
	LevelVerbose
)

// Levels lists every user-facing severity.
var Levels = []Level{LevelError, LevelLog, LevelWarn, LevelDebug, LevelVerbose}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelLog:
		return "log"
	case LevelWarn:
		return "warn"
	case LevelDebug:
		return "debug"
	case LevelVerbose:
		return "verbose"
	default:
		return fmt.Sprintf("Level(%d)", int8(l))
	}
}

// ParseLevel parses a severity name. "info" is accepted as an alias of "log".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, nil
	case "log", "info":
		return LevelLog, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "debug":
		return LevelDebug, nil
	case "verbose":
		return LevelVerbose, nil
	}
	return LevelLog, fmt.Errorf("unknown log level %q", s)
}
