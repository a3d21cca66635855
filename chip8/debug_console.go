package chip8

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var errQuit = errors.New("quit")

var stepArgRe = regexp.MustCompile(`^([0-9]+)(d?)$`)

// DebugConsole is a Console for debugging, commands are read line by line.
// commands:
//   s, step [n][d]:
//     execute n step(s), with the 'd' suffix the state is printed after each.
//   p, print [cpu|stack|display|mem <address> [n]]:
//     print.
//   d, disasm [n]:
//     disassemble n instructions from PC.
//   br, breakpoint <address>:
//     set a break point.
//   k, key <key>:
//     press a key, it stays pressed until 'ku'.
//   ku, keyup <key>:
//     release a key.
//   r, reset:
//     reset.
//   q, quit:
//     quit.
type DebugConsole struct {
	*Console
	in          *bufio.Reader
	out         io.Writer
	breakpoints []uint16

	pendingKey    byte
	hasPendingKey bool
}

func NewDebugConsole(console *Console, in io.Reader, out io.Writer) *DebugConsole {
	return &DebugConsole{Console: console, in: bufio.NewReader(in), out: out}
}

// Run reads and executes commands until 'q', EOF or a failing instruction.
// The timers keep running in the background while the console waits for
// input.
func (d *DebugConsole) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		_ = d.Timer.Run(ctx)
	}()
	for {
		fmt.Fprintf(d.out, "Debugger mode, 'q' to quit \n>> ")
		line, err := d.in.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := d.Execute(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

// Execute runs a single command line. Unknown commands are reported on the
// output, only instruction failures are returned.
func (d *DebugConsole) Execute(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	switch args[0] {
	case "p", "print":
		d.printCommand(args)
	case "s", "step":
		steps, err := d.stepCommand(ctx, args)
		d.basePrint() // Print data before it die.
		if err != nil {
			return err
		}
		fmt.Fprintf(d.out, "Executed %d instruction(s).\n", steps)
	case "d", "disasm":
		d.disasmCommand(args)
	case "br", "breakpoint":
		d.breakPointCommand(args)
	case "k", "key":
		if key, ok := d.parseKey(args); ok {
			d.Keypad.Press(key)
			d.pendingKey, d.hasPendingKey = key, true
		}
	case "ku", "keyup":
		if key, ok := d.parseKey(args); ok {
			d.Keypad.Release(key)
			d.hasPendingKey = false
		}
	case "r", "reset":
		if err := d.Reset(); err != nil {
			return err
		}
		fmt.Fprintln(d.out, "Reset.")
	case "q", "quit":
		fmt.Fprintln(d.out, "Quitting.")
		return errQuit
	default:
		fmt.Fprintf(d.out, "Unknown command %s\n", strings.TrimSpace(line))
	}
	return nil
}

func (d *DebugConsole) basePrint() {
	fmt.Fprintln(d.out, "--------------------------------------------------")
	fmt.Fprintf(d.out, "Executed instructions: %d\n", d.CPU.Executed())
	fmt.Fprintln(d.out, "Last: "+d.CPU.LastExecution())
	fmt.Fprintln(d.out, "CPU:  "+d.CPU.String())
	if ins, err := d.CPU.Fetch(); err == nil {
		fmt.Fprintf(d.out, "Next: %s\n", Disassemble(ins.Opcode))
	}
}

func (d *DebugConsole) printCommand(args []string) {
	if len(args) < 2 {
		d.basePrint()
		return
	}
	switch args[1] {
	case "c", "cpu":
		fmt.Fprintln(d.out, d.CPU.String())
	case "s", "stack":
		for i, address := range d.Memory.Stack() {
			fmt.Fprintf(d.out, "%2d: 0x%04x\n", i, address)
		}
	case "d", "display":
		fmt.Fprint(d.out, d.Display.String())
	case "m", "mem":
		if len(args) < 3 {
			fmt.Fprintln(d.out, "usage: p mem <address> [n]")
			return
		}
		address, err := parseAddress(args[2])
		if err != nil {
			fmt.Fprintln(d.out, err)
			return
		}
		n := 16
		if len(args) > 3 {
			if v, err := strconv.Atoi(args[3]); err == nil && v > 0 {
				n = v
			}
		}
		data, err := d.Memory.ReadRange(address, n)
		if err != nil {
			fmt.Fprintln(d.out, err)
			return
		}
		for i, b := range data {
			if i%16 == 0 {
				if i > 0 {
					fmt.Fprintln(d.out)
				}
				fmt.Fprintf(d.out, "0x%04x:", int(address)+i)
			}
			fmt.Fprintf(d.out, " %02x", b)
		}
		fmt.Fprintln(d.out)
	default:
		fmt.Fprintf(d.out, "Unknown print target %s\n", args[1])
	}
}

func (d *DebugConsole) checkBreak() bool {
	for _, bp := range d.breakpoints {
		if bp == d.Memory.PC() {
			fmt.Fprintf(d.out, "Break at: 0x%04x\n", bp)
			return true
		}
	}
	return false
}

func (d *DebugConsole) stepCommand(ctx context.Context, args []string) (int, error) {
	num, verbose := 1, false
	if len(args) > 1 {
		m := stepArgRe.FindStringSubmatch(args[1])
		if m == nil {
			fmt.Fprintf(d.out, "Invalid step count %s\n", args[1])
			return 0, nil
		}
		num, _ = strconv.Atoi(m[1])
		verbose = m[2] == "d"
	}
	for i := 0; i < num; i++ {
		ok, err := d.step(ctx)
		if err != nil || !ok {
			return i, err
		}
		if verbose {
			d.basePrint()
		}
		if d.checkBreak() {
			return i + 1, nil
		}
	}
	return num, nil
}

// step executes one instruction. A key wait is only entered when a key was
// given with 'k', otherwise the console would block on its own input.
func (d *DebugConsole) step(ctx context.Context) (bool, error) {
	ins, err := d.CPU.Fetch()
	if err != nil {
		return false, err
	}
	if ins.Op != OpLDVxK {
		return true, d.CPU.Step(ctx)
	}
	if !d.hasPendingKey {
		fmt.Fprintln(d.out, "Waiting for a key, press one with 'k <key>'.")
		return false, nil
	}
	done := make(chan error, 1)
	go func() {
		done <- d.CPU.Step(ctx)
	}()
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-done:
			return true, err
		case <-ticker.C:
			if d.hasPendingKey && d.Keypad.Waiting() {
				d.Keypad.Press(d.pendingKey)
				d.hasPendingKey = false
			}
		}
	}
}

func (d *DebugConsole) disasmCommand(args []string) {
	n := 8
	if len(args) > 1 {
		if v, err := strconv.Atoi(args[1]); err == nil && v > 0 {
			n = v
		}
	}
	address := d.Memory.PC()
	for i := 0; i < n; i++ {
		hi, err := d.Memory.Read(address)
		if err != nil {
			return
		}
		lo, err := d.Memory.Read(address + 1)
		if err != nil {
			return
		}
		opcode := uint16(hi)<<8 | uint16(lo)
		fmt.Fprintf(d.out, "0x%04x: %04X  %s\n", address, opcode, Disassemble(opcode))
		address += 2
	}
}

func (d *DebugConsole) breakPointCommand(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(d.out, "usage: br <address>")
		return
	}
	address, err := parseAddress(args[1])
	if err != nil {
		fmt.Fprintln(d.out, err)
		return
	}
	d.breakpoints = append(d.breakpoints, address)
}

func (d *DebugConsole) parseKey(args []string) (byte, bool) {
	if len(args) < 2 {
		fmt.Fprintln(d.out, "usage: k <key 0-F>")
		return 0, false
	}
	v, err := strconv.ParseUint(args[1], 16, 8)
	if err != nil || v > 0xF {
		fmt.Fprintf(d.out, "Invalid key %s\n", args[1])
		return 0, false
	}
	return byte(v), true
}

// parseAddress accepts 0x prefixed hexadecimal and plain decimal numbers.
func parseAddress(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("Invalid address %s", s)
	}
	return uint16(v), nil
}
