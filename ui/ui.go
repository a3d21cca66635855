package ui

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/golang/glog"

	"github.com/jyane/jchip8/chip8"
)

const title = "JCHIP8"

func mainLoop(ctx context.Context, window *glfw.Window, console *chip8.Console, screen *Screen, vao uint32) {
	width, height := screen.Size()
	frame := image.NewRGBA(image.Rect(0, 0, width, height))
	// Here will be executed (almost) 60 times per second.
	ticker := time.NewTicker(time.Second / chip8.TimerFrequency)
	defer ticker.Stop()
	for !window.ShouldClose() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
		}
		console.Keypad.Set(getKeys(window))
		// If the display changed, OpenGL updates the 2D texture.
		if screen.Frame(frame) {
			updateTexture(frame)
		}
		gl.Clear(gl.COLOR_BUFFER_BIT)
		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLE_FAN, 0, 4)
		window.SwapBuffers()
	}
	glog.Info("Window closed")
}

// Start opens a window for screen and runs console until the window is
// closed, ctx is done or the program fails. It must be called from the main
// thread.
func Start(ctx context.Context, console *chip8.Console, screen *Screen) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initializing glfw: %w", err)
	}
	defer glfw.Terminate()
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	width, height := screen.Size()
	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Destroy()
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return fmt.Errorf("initializing gl: %w", err)
	}
	program, err := newProgram()
	if err != nil {
		return err
	}
	gl.UseProgram(program)
	vao := newQuad()
	newTexture()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() {
		errc <- console.Run(ctx)
		cancel()
	}()
	mainLoop(ctx, window, console, screen, vao)
	cancel()
	return <-errc
}
