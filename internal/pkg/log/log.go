package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

type requestIDKey struct{}

var (
	mu      sync.Mutex
	out     io.Writer = os.Stdout
	debugOn int32
)

// SetOutput redirects log output, returning the previous writer
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

// SetDebug toggles Debug output
func SetDebug(enabled bool) {
	var v int32
	if enabled {
		v = 1
	}
	atomic.StoreInt32(&debugOn, v)
}

// WithRequestID adds request ID to context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the request ID carried by ctx, or ""
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

func write(label string, attrs []color.Attribute, requestID, format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	if requestID != "" {
		msg = fmt.Sprintf("[req_id=%s] %s", requestID, msg)
	}
	tag := color.New(attrs...).SprintFunc()

	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "%s %s\n", tag(label), msg)
}

var (
	infoAttrs  = []color.Attribute{color.FgWhite, color.BgGreen}
	warnAttrs  = []color.Attribute{color.FgWhite, color.BgYellow}
	errorAttrs = []color.Attribute{color.FgRed}
	debugAttrs = []color.Attribute{color.FgCyan}
)

// Info log information
func Info(format string, a ...interface{}) {
	write("[INFO] ", infoAttrs, "", format, a...)
}

// InfoWithContext logs information with the request ID from ctx
func InfoWithContext(ctx context.Context, format string, a ...interface{}) {
	write("[INFO] ", infoAttrs, RequestID(ctx), format, a...)
}

// Warn log warning
func Warn(format string, a ...interface{}) {
	write("[WARN] ", warnAttrs, "", format, a...)
}

// WarnWithContext logs warning with the request ID from ctx
func WarnWithContext(ctx context.Context, format string, a ...interface{}) {
	write("[WARN] ", warnAttrs, RequestID(ctx), format, a...)
}

// Error log error
func Error(format string, a ...interface{}) {
	write("[Error]", errorAttrs, "", format, a...)
}

// ErrorWithContext logs error with the request ID from ctx
func ErrorWithContext(ctx context.Context, format string, a ...interface{}) {
	write("[Error]", errorAttrs, RequestID(ctx), format, a...)
}

// Debug logs only after SetDebug(true)
func Debug(format string, a ...interface{}) {
	if atomic.LoadInt32(&debugOn) == 1 {
		write("[DEBUG]", debugAttrs, "", format, a...)
	}
}

// DebugWithContext logs only after SetDebug(true)
func DebugWithContext(ctx context.Context, format string, a ...interface{}) {
	if atomic.LoadInt32(&debugOn) == 1 {
		write("[DEBUG]", debugAttrs, RequestID(ctx), format, a...)
	}
}

// InfoStruct dumps values with spew
func InfoStruct(a ...interface{}) {
	write("[INFO] ", infoAttrs, "", "%s", spew.Sdump(a...))
}
