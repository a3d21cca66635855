package chip8

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func newTestConsole(t *testing.T, clockHz int, words ...uint16) *Console {
	t.Helper()
	options := DefaultOptions()
	options.ClockHz = clockHz
	c, err := NewConsole(program(words...), nil, options)
	assert.NoError(t, err)
	return c
}

// eventually polls cond until it holds or a few seconds passed.
func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNewConsoleErrors(t *testing.T) {
	_, err := NewConsole(nil, nil, DefaultOptions())
	assert.True(t, errors.Is(err, ErrEmptyROM))
	_, err = NewConsole(make([]byte, MaxROMSize+1), nil, DefaultOptions())
	assert.True(t, errors.Is(err, ErrROMTooLarge))
}

func TestConsoleRunCancel(t *testing.T) {
	for _, clockHz := range []int{0, 1000} {
		c := newTestConsole(t, clockHz, 0x7001, 0x1200)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- c.Run(ctx)
		}()
		time.Sleep(20 * time.Millisecond)
		cancel()
		assert.NoError(t, <-done)
		assert.True(t, c.CPU.Executed() > 0)
	}
}

func TestConsoleRunError(t *testing.T) {
	c := newTestConsole(t, 0, 0x6001, 0x0000)
	err := c.Run(context.Background())
	assert.True(t, errors.Is(err, ErrUnknownInstruction))
	assert.Equal(t, uint64(1), c.CPU.Executed())
}

func TestConsoleTimersRunDuringKeyWait(t *testing.T) {
	c := newTestConsole(t, 0,
		0xF00A, // LD V0, K
		0x1202, // JP 0x202
	)
	c.Memory.SetDelayTimer(3)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx)
	}()
	eventually(t, c.Keypad.Waiting)
	eventually(t, func() bool { return c.Memory.DelayTimer() == 0 })
	assert.Equal(t, uint64(0), c.CPU.Executed())

	c.Keypad.Press(0x9)
	eventually(t, func() bool { return c.CPU.Executed() > 1 })
	cancel()
	assert.NoError(t, <-done)
	assert.Equal(t, byte(0x9), c.Memory.V(0))
}

func TestConsoleReset(t *testing.T) {
	c := newTestConsole(t, 0, 0x6A05, 0x1202)
	assert.NoError(t, c.Step(context.Background()))
	assert.Equal(t, byte(5), c.Memory.V(0xA))
	c.Display.DrawSprite([]byte{0x80}, 0, 0)

	assert.NoError(t, c.Reset())
	assert.Equal(t, byte(0), c.Memory.V(0xA))
	assert.Equal(t, uint16(ProgramStart), c.Memory.PC())
	assert.Equal(t, uint64(0), c.CPU.Executed())
	assert.False(t, c.Display.Pixel(0, 0))
	assert.NoError(t, c.Step(context.Background()))
	assert.Equal(t, byte(5), c.Memory.V(0xA))
}
