package logging

import (
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stdout, "info", "json")
)

func newLogger(w io.Writer, level, format string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	f := log.JSONFormatter
	switch strings.ToLower(format) {
	case "text":
		f = log.TextFormatter
	case "logfmt":
		f = log.LogfmtFormatter
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Formatter:       f,
	})
}

// Init replaces the process logger. Format is json, logfmt or text.
func Init(w io.Writer, level, format string) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w, level, format)
}

func current() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// keyvals flattens fields sorted by key.
func keyvals(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		out = append(out, k, fields[k])
	}
	return out
}

func Debug(msg string, fields map[string]any) { current().Debug(msg, keyvals(fields)...) }
func Info(msg string, fields map[string]any)  { current().Info(msg, keyvals(fields)...) }
func Warn(msg string, fields map[string]any)  { current().Warn(msg, keyvals(fields)...) }
func Error(msg string, fields map[string]any) { current().Error(msg, keyvals(fields)...) }
