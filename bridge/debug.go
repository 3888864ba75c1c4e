package bridge

import (
	"encoding/hex"
	"strings"
)

// Logger is the interface used for debug messages.
//
// Some messages will be multiple lines.
type Logger interface {
	Printf(format string, args ...interface{})
}

type nullLoggerImpl struct{}

func (nullLoggerImpl) Printf(format string, args ...interface{}) {}

// nullLogger is a logger that does nothing.
var nullLogger = nullLoggerImpl{}

// NullLogger returns a Logger that discards everything.
func NullLogger() Logger {
	return nullLogger
}

// HexDump lazily formats binary data, matching `hexdump -C`.
//
// HexDump implements fmt.Stringer interface, allowing it to lazily dump binary
// data as hex when needed.
type HexDump []byte

func (h HexDump) String() string {
	var buf strings.Builder
	buf.WriteByte('\n')
	d := hex.Dumper(&buf)
	_, _ = d.Write([]byte(h))
	_ = d.Close()
	buf.WriteByte('\n')
	return buf.String()
}
