package live

import (
	"sync"
	"time"
)

// countdown — отменяемая тиковая задача таймера торгов. Движок всегда
// отменяет предыдущий countdown перед запуском нового, поэтому одновременно
// живёт не больше одного таймера на аукцион.
type countdown struct {
	stop chan struct{}
	once sync.Once
}

// startCountdown spawns a goroutine invoking tick once per interval until
// cancelled. The callback receives the countdown's own identity so the
// engine can drop stale ticks after a cancel; it runs on the countdown
// goroutine and the engine serializes it against user gestures with its
// own mutex.
func startCountdown(interval time.Duration, tick func(*countdown)) *countdown {
	c := &countdown{stop: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				tick(c)
			case <-c.stop:
				return
			}
		}
	}()
	return c
}

// cancel is idempotent; the goroutine exits on the next select.
func (c *countdown) cancel() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.stop) })
}
