package web

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"
)

// requestLogLayout renders times the way JavaScript's Date.toString does,
// e.g. "Mon Oct 19 2026 10:00:00 GMT+0000 (UTC)".
const requestLogLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// requestLogBuffer bounds the lines waiting to be written. Lines arriving
// while it is full are dropped.
const requestLogBuffer = 256

// RequestLog appends one line per request to a writer without blocking the
// request. Delivery is best-effort.
type RequestLog struct {
	w      io.Writer
	closer io.Closer
	now    func() time.Time

	mu     sync.RWMutex
	closed bool
	lines  chan string
	done   chan struct{}
}

// OpenRequestLog appends to the file at path, creating it if needed.
func OpenRequestLog(path string) (*RequestLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening request log: %w", err)
	}
	l := NewRequestLog(f)
	l.closer = f
	return l, nil
}

// NewRequestLog starts writing request lines to w.
func NewRequestLog(w io.Writer) *RequestLog {
	l := &RequestLog{
		w:     w,
		now:   time.Now,
		lines: make(chan string, requestLogBuffer),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *RequestLog) run() {
	defer close(l.done)
	for line := range l.lines {
		if _, err := io.WriteString(l.w, line); err != nil {
			slog.Warn("failed to append request log", "error", err)
		}
	}
}

// Middleware queues "<time>: <method> <url>" for every request and moves on.
func (l *RequestLog) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l.enqueue(fmt.Sprintf("%s: %s %s\n", l.now().Format(requestLogLayout), r.Method, r.URL.RequestURI()))
		next.ServeHTTP(w, r)
	})
}

func (l *RequestLog) enqueue(line string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}
	select {
	case l.lines <- line:
	default:
	}
}

// Close flushes queued lines and closes the underlying file, if any.
func (l *RequestLog) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	close(l.lines)
	l.mu.Unlock()

	<-l.done
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
