package chip8

import (
	"context"
	"sync"
)

// Input is what the CPU needs from a keyboard.
type Input interface {
	// Poll returns the currently pressed key, it never blocks.
	Poll() (byte, bool)
	// WaitForKey blocks until the next key press.
	WaitForKey(ctx context.Context) (byte, error)
}

// Keypad is the 16 key hexadecimal keypad, the host reports key state
// with Press and Release.
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
type Keypad struct {
	mu      sync.Mutex
	keys    [16]bool
	last    byte
	hasLast bool
	waiters []chan byte
}

func NewKeypad() *Keypad {
	return &Keypad{}
}

// Press marks key as held and wakes every goroutine waiting for a key.
func (k *Keypad) Press(key byte) {
	key &= 0x0F
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[key] = true
	k.last = key
	k.hasLast = true
	for _, w := range k.waiters {
		w <- key
	}
	k.waiters = nil
}

// Release marks key as no longer held.
func (k *Keypad) Release(key byte) {
	key &= 0x0F
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[key] = false
	if k.hasLast && k.last == key {
		k.hasLast = false
		// fall back to any other key still held
		for i := range k.keys {
			if k.keys[i] {
				k.last = byte(i)
				k.hasLast = true
				break
			}
		}
	}
}

// Set replaces the whole keypad state, for hosts that sample the keyboard
// once per frame.
func (k *Keypad) Set(keys [16]bool) {
	for i, down := range keys {
		k.mu.Lock()
		was := k.keys[i]
		k.mu.Unlock()
		switch {
		case down && !was:
			k.Press(byte(i))
		case !down && was:
			k.Release(byte(i))
		}
	}
}

// Poll returns the most recently pressed key that is still held.
func (k *Keypad) Poll() (byte, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.last, k.hasLast
}

// IsPressed reports whether key is held.
func (k *Keypad) IsPressed(key byte) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.keys[key&0x0F]
}

// Waiting reports whether a goroutine is blocked in WaitForKey.
func (k *Keypad) Waiting() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.waiters) > 0
}

// WaitForKey blocks until the next Press or until ctx is done.
func (k *Keypad) WaitForKey(ctx context.Context) (byte, error) {
	w := make(chan byte, 1)
	k.mu.Lock()
	k.waiters = append(k.waiters, w)
	k.mu.Unlock()
	select {
	case key := <-w:
		return key, nil
	case <-ctx.Done():
		k.mu.Lock()
		for i := range k.waiters {
			if k.waiters[i] == w {
				k.waiters = append(k.waiters[:i], k.waiters[i+1:]...)
				break
			}
		}
		k.mu.Unlock()
		select {
		case key := <-w:
			// Press won the race with ctx
			return key, nil
		default:
		}
		return 0, ctx.Err()
	}
}
