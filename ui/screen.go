package ui

import (
	"image"
	"image/color"
	"sync"
)

var (
	foreground = color.RGBA{0xE0, 0xE0, 0xE0, 0xFF}
	background = color.RGBA{0x10, 0x10, 0x10, 0xFF}
)

// Screen is a chip8.Renderer drawing into an in-memory image. The CPU
// goroutine draws, the window goroutine copies finished frames out with
// Frame.
type Screen struct {
	mu    sync.Mutex
	image *image.RGBA
	dirty bool
}

func NewScreen() *Screen {
	return &Screen{image: image.NewRGBA(image.Rect(0, 0, 0, 0))}
}

func (s *Screen) Init(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = image.NewRGBA(image.Rect(0, 0, width, height))
	s.fill(background)
	s.dirty = true
}

func (s *Screen) DrawPixel(x, y int) {
	s.mu.Lock()
	s.image.SetRGBA(x, y, foreground)
	s.mu.Unlock()
}

func (s *Screen) ClearPixel(x, y int) {
	s.mu.Lock()
	s.image.SetRGBA(x, y, background)
	s.mu.Unlock()
}

func (s *Screen) Clear() {
	s.mu.Lock()
	s.fill(background)
	s.mu.Unlock()
}

// Refresh marks the image as ready to be shown.
func (s *Screen) Refresh() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// Size returns the image size in pixels.
func (s *Screen) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.image.Bounds()
	return b.Dx(), b.Dy()
}

// Frame copies the image into dst when it changed since the last call,
// dst must have the size returned by Size.
func (s *Screen) Frame(dst *image.RGBA) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return false
	}
	copy(dst.Pix, s.image.Pix)
	s.dirty = false
	return true
}

// fill must be called with mu held.
func (s *Screen) fill(c color.RGBA) {
	for i := 0; i < len(s.image.Pix); i += 4 {
		s.image.Pix[i] = c.R
		s.image.Pix[i+1] = c.G
		s.image.Pix[i+2] = c.B
		s.image.Pix[i+3] = c.A
	}
}
