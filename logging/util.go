package logging

import (
	"log/slog"
	"strings"
)

// LevelFromString parses a level name like "WARN", defaulting to INFO for
// nil or unknown values. The slog offset syntax ("WARN+2") is accepted too.
func LevelFromString(str *string) slog.Level {
	if str == nil {
		return slog.LevelInfo
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(*str))); err != nil {
		return slog.LevelInfo
	}
	return l
}
