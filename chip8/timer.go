package chip8

import (
	"context"
	"time"
)

// TimerFrequency is the rate in Hz at which both timers count down.
const TimerFrequency = 60

// TimerDriver counts the delay and sound timers down at TimerFrequency.
// It runs on its own goroutine and only touches the timers through the
// Memory lock.
type TimerDriver struct {
	memory   *Memory
	interval time.Duration
}

func NewTimerDriver(memory *Memory) *TimerDriver {
	return &TimerDriver{memory: memory, interval: time.Second / TimerFrequency}
}

// Tick decrements both timers once.
func (t *TimerDriver) Tick() {
	t.memory.DecrementDelayTimer()
	t.memory.DecrementSoundTimer()
}

// Run ticks until ctx is done and returns ctx.Err().
func (t *TimerDriver) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			t.Tick()
		}
	}
}
