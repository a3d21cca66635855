package ui

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// keyMap maps the keypad onto the left hand side of a QWERTY keyboard.
//
//	1 2 3 C      1 2 3 4
//	4 5 6 D  ->  Q W E R
//	7 8 9 E      A S D F
//	A 0 B F      Z X C V
var keyMap = [16]glfw.Key{
	0x1: glfw.Key1, 0x2: glfw.Key2, 0x3: glfw.Key3, 0xC: glfw.Key4,
	0x4: glfw.KeyQ, 0x5: glfw.KeyW, 0x6: glfw.KeyE, 0xD: glfw.KeyR,
	0x7: glfw.KeyA, 0x8: glfw.KeyS, 0x9: glfw.KeyD, 0xE: glfw.KeyF,
	0xA: glfw.KeyZ, 0x0: glfw.KeyX, 0xB: glfw.KeyC, 0xF: glfw.KeyV,
}

// getKeys gets the state of the keyboard.
func getKeys(window *glfw.Window) [16]bool {
	var keys [16]bool
	for i, key := range keyMap {
		keys[i] = window.GetKey(key) == glfw.Press
	}
	return keys
}
