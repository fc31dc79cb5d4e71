// Package testutil provides test utilities for structured logging.
package testutil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// NewTestLogger returns a debug logger that writes to t.Log().
// Logs only appear on test failure or when running with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type testWriter struct {
	t testing.TB
}

func (w testWriter) Write(p []byte) (n int, err error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// LogBuffer captures JSON log records for assertions.
type LogBuffer struct {
	buf bytes.Buffer
}

// NewBufferLogger returns a logger recording every record at or above
// level into the returned buffer.
func NewBufferLogger(level slog.Level) (*slog.Logger, *LogBuffer) {
	lb := &LogBuffer{}
	return slog.New(slog.NewJSONHandler(&lb.buf, &slog.HandlerOptions{Level: level})), lb
}

// Records decodes the captured records. Each record maps attribute keys,
// plus "level" and "msg", to their values.
func (lb *LogBuffer) Records(t testing.TB) []map[string]any {
	t.Helper()
	var recs []map[string]any
	dec := json.NewDecoder(bytes.NewReader(lb.buf.Bytes()))
	for dec.More() {
		var rec map[string]any
		if err := dec.Decode(&rec); err != nil {
			t.Fatalf("decode log record: %v", err)
		}
		recs = append(recs, rec)
	}
	return recs
}

// Messages returns the message of every captured record at level.
func (lb *LogBuffer) Messages(t testing.TB, level slog.Level) []string {
	t.Helper()
	var msgs []string
	for _, rec := range lb.Records(t) {
		if rec[slog.LevelKey] == level.String() {
			msgs = append(msgs, rec[slog.MessageKey].(string))
		}
	}
	return msgs
}
