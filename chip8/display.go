package chip8

import (
	"strings"
	"sync"
)

// CHIP-8 displays 64x32 monochrome pixels.
const (
	Width  = 64
	Height = 32
)

// Renderer puts pixels on a physical surface. Coordinates are physical
// pixels, i.e. logical cells multiplied by the display scale.
type Renderer interface {
	Init(width, height int)
	DrawPixel(x, y int)
	ClearPixel(x, y int)
	Clear()
	// Refresh flushes the pending draw and clear calls.
	Refresh()
}

// Display is the frame buffer. Sprites are XORed into it and coordinates
// wrap around both edges.
type Display struct {
	mu        sync.RWMutex
	pixels    [Height][Width]bool
	collision bool

	renderer Renderer
	scale    int
}

// NewDisplay creates a Display, renderer may be nil for headless use.
func NewDisplay(renderer Renderer, scale int) *Display {
	if scale < 1 {
		scale = 1
	}
	d := &Display{renderer: renderer, scale: scale}
	if renderer != nil {
		renderer.Init(Width*scale, Height*scale)
	}
	return d
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	d.mu.Lock()
	d.pixels = [Height][Width]bool{}
	d.collision = false
	d.mu.Unlock()
	if d.renderer != nil {
		d.renderer.Clear()
		d.renderer.Refresh()
	}
}

type cell struct {
	x, y int
	on   bool
}

// DrawSprite XORs rows, 8 pixels each with the most significant bit on the
// left, at (x, y) and reports whether any lit pixel was turned off.
func (d *Display) DrawSprite(rows []byte, x, y int) bool {
	changed := make([]cell, 0, len(rows)*8)
	d.mu.Lock()
	d.collision = false
	for row, bits := range rows {
		py := mod(y+row, Height)
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := mod(x+col, Width)
			if d.pixels[py][px] {
				d.collision = true
			}
			d.pixels[py][px] = !d.pixels[py][px]
			changed = append(changed, cell{px, py, d.pixels[py][px]})
		}
	}
	collision := d.collision
	d.mu.Unlock()
	d.flush(changed)
	return collision
}

// flush sends the changed cells to the renderer, scaled.
func (d *Display) flush(changed []cell) {
	if d.renderer == nil || len(changed) == 0 {
		return
	}
	for _, c := range changed {
		for sy := 0; sy < d.scale; sy++ {
			for sx := 0; sx < d.scale; sx++ {
				x, y := c.x*d.scale+sx, c.y*d.scale+sy
				if c.on {
					d.renderer.DrawPixel(x, y)
				} else {
					d.renderer.ClearPixel(x, y)
				}
			}
		}
	}
	d.renderer.Refresh()
}

// Pixel reports whether the logical pixel at (x, y) is lit, coordinates wrap.
func (d *Display) Pixel(x, y int) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pixels[mod(y, Height)][mod(x, Width)]
}

// Collision returns the collision flag of the last draw.
func (d *Display) Collision() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.collision
}

// String dumps the buffer, '#' for lit pixels and '.' otherwise.
func (d *Display) String() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var b strings.Builder
	b.Grow((Width + 1) * Height)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if d.pixels[y][x] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
