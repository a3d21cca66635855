package chip8

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

// Console is one emulation session: it owns the machine and runs the CPU
// and the timers concurrently.
type Console struct {
	CPU     *CPU
	Memory  *Memory
	Display *Display
	Keypad  *Keypad
	Timer   *TimerDriver

	rom     []byte
	options Options
}

// NewConsole creates a Console with rom loaded, renderer may be nil.
func NewConsole(rom []byte, renderer Renderer, options Options) (*Console, error) {
	memory := NewMemory()
	if err := memory.LoadROM(rom); err != nil {
		return nil, fmt.Errorf("loading rom: %w", err)
	}
	display := NewDisplay(renderer, options.Scale)
	keypad := NewKeypad()
	c := &Console{
		CPU:     NewCPU(memory, display, keypad, options.Quirks, options.Seed),
		Memory:  memory,
		Display: display,
		Keypad:  keypad,
		Timer:   NewTimerDriver(memory),
		rom:     append([]byte(nil), rom...),
		options: options,
	}
	glog.Infof("Loaded rom: %d bytes", len(rom))
	return c, nil
}

// Reset restarts the loaded program from a clean machine.
func (c *Console) Reset() error {
	c.Memory.Reset()
	if err := c.Memory.LoadROM(c.rom); err != nil {
		return err
	}
	c.Display.Clear()
	c.CPU = NewCPU(c.Memory, c.Display, c.Keypad, c.options.Quirks, c.options.Seed)
	return nil
}

// Step executes a single instruction.
func (c *Console) Step(ctx context.Context) error {
	return c.CPU.Step(ctx)
}

// Run runs the CPU and the timer driver until ctx is cancelled or an
// instruction fails. A cancelled context is not reported as an error.
func (c *Console) Run(ctx context.Context) error {
	glog.Infof("Starting session, clock=%dHz, quirks=%+v", c.options.ClockHz, c.options.Quirks)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.Timer.Run(ctx)
	})
	g.Go(func() error {
		return c.runCPU(ctx)
	})
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		glog.Infof("Session stopped after %d instructions", c.CPU.Executed())
		return nil
	}
	glog.Errorf("Session failed after %d instructions: %v", c.CPU.Executed(), err)
	return err
}

func (c *Console) runCPU(ctx context.Context) error {
	var interval time.Duration
	if c.options.ClockHz > 0 {
		interval = time.Second / time.Duration(c.options.ClockHz)
	}
	if interval <= 0 {
		return c.CPU.Run(ctx)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.CPU.Step(ctx); err != nil {
				return err
			}
		}
	}
}
