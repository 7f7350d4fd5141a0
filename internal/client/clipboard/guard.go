// Package clipboard puts secrets on the system clipboard for a bounded time.
package clipboard

import (
	"sync"
	"time"

	"github.com/atotto/clipboard"
)

// DefaultDelay is how long a copied secret stays on the clipboard.
const DefaultDelay = 15 * time.Second

// Guard owns the pending clear of the last copied secret. A new Copy
// replaces the pending clear, so an older timer can never wipe a newer
// secret early. The clipboard is only cleared if it still holds the value
// the Guard put there.
type Guard struct {
	mu    sync.Mutex
	delay time.Duration
	read  func() (string, error)
	write func(string) error

	timer *time.Timer
	gen   uint64
	value string
}

func NewGuard(delay time.Duration) *Guard {
	return NewGuardWith(delay, clipboard.ReadAll, clipboard.WriteAll)
}

// NewGuardWith uses the given clipboard accessors instead of the system
// clipboard.
func NewGuardWith(delay time.Duration, read func() (string, error), write func(string) error) *Guard {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Guard{delay: delay, read: read, write: write}
}

// Copy writes secret to the clipboard and schedules its removal. If the
// write fails the previous secret keeps its pending clear.
func (g *Guard) Copy(secret string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.write(secret); err != nil {
		return err
	}
	g.stopLocked()

	gen := g.gen
	g.value = secret
	g.timer = time.AfterFunc(g.delay, func() { g.expire(gen) })
	return nil
}

// Cancel drops the pending clear without touching the clipboard.
func (g *Guard) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopLocked()
}

// Flush clears the clipboard now if it still holds our secret. Call it on
// exit so nothing outlives the program.
func (g *Guard) Flush() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	value := g.value
	g.stopLocked()
	if value == "" {
		return nil
	}
	return g.clearIfOurs(value)
}

// Pending reports whether a clear is scheduled.
func (g *Guard) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.timer != nil
}

func (g *Guard) expire(gen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if gen != g.gen {
		return
	}
	value := g.value
	g.stopLocked()
	_ = g.clearIfOurs(value)
}

// stopLocked invalidates the current generation and forgets the secret.
func (g *Guard) stopLocked() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.gen++
	g.value = ""
}

func (g *Guard) clearIfOurs(value string) error {
	current, err := g.read()
	if err != nil {
		return err
	}
	if current != value {
		return nil
	}
	return g.write("")
}
