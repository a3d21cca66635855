package chip8

// Quirks selects between the two known behaviours of the arithmetic
// instructions. The zero value is the reference behaviour: SUB and SUBN store
// the absolute difference and SHL takes VF from bit 0.
type Quirks struct {
	// WrapSubtract makes SUB and SUBN store the difference modulo 256.
	WrapSubtract bool
	// ShiftLeftHighBit makes SHL take VF from bit 7.
	ShiftLeftHighBit bool
}

// Canonical returns the quirks of the original COSMAC VIP interpreter.
func Canonical() Quirks {
	return Quirks{WrapSubtract: true, ShiftLeftHighBit: true}
}

// Options configures a Console.
type Options struct {
	Quirks Quirks
	// ClockHz is the number of instructions executed per second, 0 runs
	// as fast as possible.
	ClockHz int
	// Scale multiplies the 64x32 display for the renderer.
	Scale int
	// Seed seeds the random number generator of RND.
	Seed uint64
}

// DefaultOptions returns the options used by the command line tool.
func DefaultOptions() Options {
	return Options{
		ClockHz: 700,
		Scale:   10,
	}
}
