package chip8

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func TestTimerTick(t *testing.T) {
	m := NewMemory()
	timer := NewTimerDriver(m)
	m.SetDelayTimer(100)
	m.SetSoundTimer(3)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 40; i++ {
			timer.Tick()
		}
	}()
	go func() {
		defer wg.Done()
		last := m.DelayTimer()
		for i := 0; i < 1000; i++ {
			v := m.DelayTimer()
			if v > last {
				t.Errorf("delay timer went up: %d -> %d", last, v)
				return
			}
			last = v
		}
	}()
	wg.Wait()
	assert.Equal(t, byte(60), m.DelayTimer())
	assert.Equal(t, byte(0), m.SoundTimer())
}

func TestTimerRun(t *testing.T) {
	m := NewMemory()
	timer := NewTimerDriver(m)
	timer.interval = time.Millisecond
	m.SetDelayTimer(5)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- timer.Run(ctx)
	}()
	deadline := time.Now().Add(5 * time.Second)
	for m.DelayTimer() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, byte(0), m.DelayTimer())
	cancel()
	assert.True(t, errors.Is(<-done, context.Canceled))
}
