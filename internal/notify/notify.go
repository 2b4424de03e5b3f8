// Package notify holds the transient user-facing messages produced by the
// console, most of them by failed API calls.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// DefaultTTL is how long a toast stays visible.
const DefaultTTL = 4 * time.Second

// Notifier receives user-facing messages.
type Notifier interface {
	Notify(level Level, message string)
}

// Toast is one transient message.
type Toast struct {
	ID        string
	Level     Level
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Center keeps the currently visible toasts and fans new ones out to
// subscribers. Safe for concurrent use.
type Center struct {
	mu          sync.Mutex
	ttl         time.Duration
	now         func() time.Time
	toasts      []Toast
	subscribers []chan Toast
}

// NewCenter creates a toast center. ttl <= 0 uses DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Center{ttl: ttl, now: time.Now}
}

// Notify records a toast and delivers it to every subscriber without blocking.
func (c *Center) Notify(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	t := Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.toasts = append(c.toasts, t)

	for _, ch := range c.subscribers {
		select {
		case ch <- t:
		default:
		}
	}
}

// Subscribe returns a buffered channel receiving every future toast.
func (c *Center) Subscribe() <-chan Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Toast, 16)
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// Active returns the toasts that have not expired, oldest first.
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked()
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

// Dismiss removes a toast before it expires.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			return
		}
	}
}

// Prune drops expired toasts and reports how many remain.
func (c *Center) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked()
	return len(c.toasts)
}

func (c *Center) pruneLocked() {
	now := c.now()
	kept := c.toasts[:0]

	for _, t := range c.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}

	c.toasts = kept
}

// Writer prints notifications, one per line. Used by the non-interactive CLI.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewWriter(out io.Writer) *Writer {
	if out == nil {
		out = os.Stderr
	}
	return &Writer{out: out}
}

func (w *Writer) Notify(level Level, message string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	fmt.Fprintf(w.out, "[%s] %s\n", level, message) //nolint:errcheck
}

// Recorder captures notifications in memory.
type Recorder struct {
	mu       sync.Mutex
	Messages []Toast
}

func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Messages = append(r.Messages, Toast{Level: level, Message: message})
}

// Last returns the most recent notification, if any.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Messages) == 0 {
		return Toast{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}

// Len returns the number of notifications recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.Messages)
}
