package chip8

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

// recorder is a Renderer that records every call.
type recorder struct {
	calls []string
}

func (r *recorder) Init(width, height int) { r.calls = append(r.calls, fmt.Sprintf("init %dx%d", width, height)) }
func (r *recorder) DrawPixel(x, y int)     { r.calls = append(r.calls, fmt.Sprintf("draw %d,%d", x, y)) }
func (r *recorder) ClearPixel(x, y int)    { r.calls = append(r.calls, fmt.Sprintf("clear %d,%d", x, y)) }
func (r *recorder) Clear()                 { r.calls = append(r.calls, "clear") }
func (r *recorder) Refresh()               { r.calls = append(r.calls, "refresh") }

func (r *recorder) take() []string {
	calls := r.calls
	r.calls = nil
	return calls
}

func TestDrawSpriteTwiceRestores(t *testing.T) {
	d := NewDisplay(nil, 1)
	sprite := []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}
	d.DrawSprite([]byte{0x81}, 10, 10)
	before := d.String()

	assert.False(t, d.DrawSprite(sprite, 8, 8))
	assert.True(t, before != d.String())
	assert.True(t, d.DrawSprite(sprite, 8, 8))
	assert.Equal(t, before, d.String())
}

func TestDrawSpriteCollision(t *testing.T) {
	d := NewDisplay(nil, 1)
	assert.False(t, d.DrawSprite([]byte{0x80}, 0, 0))
	// A sprite that only lights new pixels clears the flag.
	assert.False(t, d.DrawSprite([]byte{0x40}, 0, 0))
	assert.False(t, d.Collision())
	assert.True(t, d.DrawSprite([]byte{0xC0}, 0, 0))
	assert.True(t, d.Collision())
	assert.False(t, d.Pixel(0, 0))
	assert.False(t, d.Pixel(1, 0))
}

func TestDrawSpriteWraps(t *testing.T) {
	d := NewDisplay(nil, 1)
	d.DrawSprite([]byte{0xFF, 0xFF}, 60, Height-1)
	for x := 60; x < 68; x++ {
		assert.True(t, d.Pixel(x%Width, Height-1))
		assert.True(t, d.Pixel(x%Width, 0))
	}
	assert.False(t, d.Pixel(4, 0))
	assert.False(t, d.Pixel(59, Height-1))
	// Coordinates beyond the screen wrap too.
	d.Clear()
	d.DrawSprite([]byte{0x80}, Width+3, Height+2)
	assert.True(t, d.Pixel(3, 2))
}

func TestDisplayString(t *testing.T) {
	d := NewDisplay(nil, 1)
	d.DrawSprite([]byte{0xA0}, 0, 0)
	lines := strings.Split(strings.TrimSuffix(d.String(), "\n"), "\n")
	assert.Len(t, lines, Height)
	assert.Equal(t, "#.#"+strings.Repeat(".", Width-3), lines[0])
	assert.Equal(t, strings.Repeat(".", Width), lines[1])
}

func TestDisplayRenderer(t *testing.T) {
	r := &recorder{}
	d := NewDisplay(r, 2)
	if diff := cmp.Diff([]string{"init 128x64"}, r.take()); diff != "" {
		t.Errorf("init mismatch (-want +got):\n%s", diff)
	}

	d.DrawSprite([]byte{0x80}, 1, 0)
	want := []string{"draw 2,0", "draw 3,0", "draw 2,1", "draw 3,1", "refresh"}
	if diff := cmp.Diff(want, r.take()); diff != "" {
		t.Errorf("draw mismatch (-want +got):\n%s", diff)
	}

	d.DrawSprite([]byte{0x80}, 1, 0)
	want = []string{"clear 2,0", "clear 3,0", "clear 2,1", "clear 3,1", "refresh"}
	if diff := cmp.Diff(want, r.take()); diff != "" {
		t.Errorf("erase mismatch (-want +got):\n%s", diff)
	}

	d.DrawSprite([]byte{0x00}, 1, 0)
	assert.Len(t, r.take(), 0)

	d.Clear()
	if diff := cmp.Diff([]string{"clear", "refresh"}, r.take()); diff != "" {
		t.Errorf("clear mismatch (-want +got):\n%s", diff)
	}
}
