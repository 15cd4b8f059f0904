// Package logging sets up zerolog for the command line and provides a
// log-once helper for warnings that would otherwise repeat every step.
package logging

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ParseLevel maps a level name to a zerolog level. Unknown names give info.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "OFF", "DISABLED":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// New returns a logger writing to w at the given level. With console set the
// output is human readable instead of JSON.
func New(w io.Writer, level string, console bool) zerolog.Logger {
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// Once remembers which keys have already been logged.
type Once struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// Do runs fn the first time key is seen and reports whether it ran.
func (o *Once) Do(key string, fn func()) bool {
	o.mu.Lock()
	if o.seen == nil {
		o.seen = make(map[string]struct{})
	}
	if _, ok := o.seen[key]; ok {
		o.mu.Unlock()
		return false
	}
	o.seen[key] = struct{}{}
	o.mu.Unlock()
	fn()
	return true
}

// Warn logs msg at warn level once per key.
func (o *Once) Warn(log zerolog.Logger, key, msg string) {
	o.Do(key, func() {
		log.Warn().Str("key", key).Msg(msg)
	})
}

// Reset forgets every key.
func (o *Once) Reset() {
	o.mu.Lock()
	o.seen = nil
	o.mu.Unlock()
}
