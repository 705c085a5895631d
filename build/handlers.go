package build

import (
	"fmt"
	"io"

	btclogv1 "github.com/btcsuite/btclog"
	"github.com/btcsuite/btclog/v2"
)

const (
	resetSeq = "0"
	boldSeq  = "1"
	faintSeq = "2"
	esc      = '\x1b'
	csi      = string(esc) + "["
)

// styleString wraps s in the given ANSI select graphic rendition sequence.
func styleString(s string, style string) string {
	return csi + style + "m" + s + csi + resetSeq + "m"
}

// levelStyle returns the color sequence used for a log level.
func levelStyle(level btclogv1.Level) string {
	switch level {
	case btclogv1.LevelTrace, btclogv1.LevelDebug:
		return faintSeq

	case btclogv1.LevelWarn:
		return "33"

	case btclogv1.LevelError, btclogv1.LevelCritical:
		return "31"

	default:
		return "32"
	}
}

// styledOptions returns the handler options that color the level, dim the
// call site and embolden attribute keys.
func styledOptions() []btclog.HandlerOption {
	return []btclog.HandlerOption{
		btclog.WithStyledLevel(func(l btclogv1.Level) string {
			return styleString(fmt.Sprintf("[%s]", l), levelStyle(l))
		}),
		btclog.WithStyledCallSite(func(file string, line int) string {
			return styleString(fmt.Sprintf("%s:%d", file, line),
				faintSeq)
		}),
		btclog.WithStyledKeys(func(key string) string {
			return styleString(key, boldSeq)
		}),
	}
}

// NewConsoleHandler returns the log handler the binaries write through,
// configured from the console section of the log config. If the console
// logger is disabled, a handler writing to io.Discard is returned so sub
// loggers can still be registered and leveled.
func NewConsoleHandler(cfg *LogConfig, w io.Writer) btclog.Handler {
	if cfg.Console.Disable {
		return btclog.NewDefaultHandler(io.Discard)
	}

	opts := cfg.Console.HandlerOptions()
	if cfg.Console.Style {
		opts = append(opts, styledOptions()...)
	}

	return btclog.NewDefaultHandler(w, opts...)
}
