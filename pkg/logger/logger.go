// Package logger implements a small namespaced debug logger in the style of
// the Node.js "debug" package: loggers are created for a dotted/colon
// namespace and only print when that namespace matches the DEBUG
// environment variable.
package logger

import (
	"fmt"
	"hash/fnv"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// Logger prints diagnostic output for a single namespace, gated by DEBUG.
type Logger struct {
	namespace string
	enabled   bool
	lastLog   time.Time
	mu        sync.Mutex
	color     string
}

var (
	// debugEnv holds the current value of DEBUG. Tests mutate this directly
	// and reset patternCache, since production code only reads it at
	// process start.
	debugEnv = os.Getenv("DEBUG")

	debugColors = os.Getenv("DEBUG_COLORS") != "0"
	isTTY       = isatty.IsTerminal(os.Stderr.Fd())

	colorPalette = []string{
		"\033[38;5;33m",  // blue
		"\033[38;5;35m",  // green
		"\033[38;5;166m", // orange
		"\033[38;5;125m", // purple
		"\033[38;5;37m",  // cyan
		"\033[38;5;161m", // magenta
		"\033[38;5;136m", // yellow
		"\033[38;5;124m", // red
		"\033[38;5;28m",  // dark green
		"\033[38;5;63m",  // light blue
	}
	colorReset = "\033[0m"

	patternCache     = make(map[string]bool)
	patternCacheLock sync.RWMutex
)

// New creates a Logger for namespace. Enablement is resolved once, at
// construction time, from DEBUG and cached per-namespace.
func New(namespace string) *Logger {
	return &Logger{
		namespace: namespace,
		enabled:   enabledFor(namespace),
		lastLog:   time.Now(),
		color:     selectColor(namespace),
	}
}

func enabledFor(namespace string) bool {
	patternCacheLock.RLock()
	if v, ok := patternCache[namespace]; ok {
		patternCacheLock.RUnlock()
		return v
	}
	patternCacheLock.RUnlock()

	v := computeEnabled(namespace)

	patternCacheLock.Lock()
	patternCache[namespace] = v
	patternCacheLock.Unlock()
	return v
}

func selectColor(namespace string) string {
	if !debugColors || !isTTY {
		return ""
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(namespace))
	return colorPalette[h.Sum32()%uint32(len(colorPalette))]
}

// Enabled reports whether this logger will actually print.
func (l *Logger) Enabled() bool { return l.enabled }

// Printf writes a formatted message to stderr if enabled, prefixed by the
// namespace and suffixed with the time elapsed since the logger's last call.
func (l *Logger) Printf(format string, args ...interface{}) {
	if !l.enabled {
		return
	}
	l.emit(fmt.Sprintf(format, args...))
}

// Print writes its arguments to stderr if enabled, formatted as with fmt.Sprint.
func (l *Logger) Print(args ...interface{}) {
	if !l.enabled {
		return
	}
	l.emit(fmt.Sprint(args...))
}

// Println is Print with a trailing newline already folded into args.
func (l *Logger) Println(args ...interface{}) {
	if !l.enabled {
		return
	}
	l.emit(fmt.Sprintln(args...))
}

// LazyPrintf only calls build() when the logger is enabled, so callers can
// defer expensive message construction until it's known to matter.
func (l *Logger) LazyPrintf(build func() string) {
	if !l.enabled {
		return
	}
	l.emit(build())
}

func (l *Logger) emit(message string) {
	l.mu.Lock()
	now := time.Now()
	diff := now.Sub(l.lastLog)
	l.lastLog = now
	l.mu.Unlock()

	message = strings.TrimSuffix(message, "\n")
	if l.color != "" {
		fmt.Fprintf(os.Stderr, "%s%s%s %s +%s\n", l.color, l.namespace, colorReset, message, formatDuration(diff))
	} else {
		fmt.Fprintf(os.Stderr, "%s %s +%s\n", l.namespace, message, formatDuration(diff))
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1fm", d.Minutes())
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}

// computeEnabled evaluates namespace against the comma-separated DEBUG
// patterns: any matching positive pattern enables it, and a matching
// pattern with a leading "-" disables it wherever it appears in the list.
func computeEnabled(namespace string) bool {
	enabled := false
	for _, pattern := range strings.Split(debugEnv, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if strings.HasPrefix(pattern, "-") {
			if matchPattern(namespace, strings.TrimPrefix(pattern, "-")) {
				return false
			}
			continue
		}
		if matchPattern(namespace, pattern) {
			enabled = true
		}
	}
	return enabled
}

func matchPattern(namespace, pattern string) bool {
	if pattern == "*" || pattern == namespace {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}
	if strings.HasSuffix(pattern, "*") && !strings.HasPrefix(pattern, "*") {
		return strings.HasPrefix(namespace, strings.TrimSuffix(pattern, "*"))
	}
	if strings.HasPrefix(pattern, "*") && !strings.HasSuffix(pattern, "*") {
		return strings.HasSuffix(namespace, strings.TrimPrefix(pattern, "*"))
	}
	if parts := strings.SplitN(pattern, "*", 2); len(parts) == 2 {
		return strings.HasPrefix(namespace, parts[0]) && strings.HasSuffix(namespace, parts[1])
	}
	return false
}
