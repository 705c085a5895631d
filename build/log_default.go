//go:build !stdlog && !nolog

package build

import "os"

// LoggingType is a log type that writes to the handler supplied by the
// binary, if any.
const LoggingType = LogTypeDefault

// Write writes the provided byte slice to stderr so log lines never mix with
// the key material a command prints on stdout.
func (w *LogWriter) Write(b []byte) (int, error) {
	return os.Stderr.Write(b)
}
