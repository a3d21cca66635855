package main

import (
	"flag"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/golang/glog"
	"github.com/retroenv/retrogolib/app"

	"github.com/jyane/jchip8/chip8"
	"github.com/jyane/jchip8/ui"
)

var (
	version = "dev"
	commit  = ""
)

var (
	path       = flag.String("path", "./integration/testdata/digits.ch8", "path to CHIP-8 ROM file")
	scale      = flag.Int("scale", chip8.DefaultOptions().Scale, "window pixels per CHIP-8 pixel")
	clock      = flag.Int("clock", chip8.DefaultOptions().ClockHz, "instructions per second, 0 for unthrottled")
	canonical  = flag.Bool("canonical", false, "use the COSMAC VIP behaviour of SUB, SUBN and SHL")
	seed       = flag.Uint64("seed", 0, "seed of the RND instruction")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	debug      = flag.Bool("debug", false, "run as debug mode")
)

func init() {
	runtime.LockOSThread()
}

func versionString() string {
	if commit == "" {
		return version
	}
	if len(commit) > 7 {
		return version + " (" + commit[:7] + ")"
	}
	return version + " (" + commit + ")"
}

func main() {
	flag.Parse()
	defer glog.Flush()
	glog.Infof("jchip8 %s", versionString())
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			glog.Fatal("Failed to create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			glog.Fatal("Failed to start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}
	buf, err := os.ReadFile(*path)
	if err != nil {
		glog.Fatalln("Failed to read: " + *path)
	}
	options := chip8.DefaultOptions()
	options.Scale = *scale
	options.ClockHz = *clock
	options.Seed = *seed
	if *canonical {
		options.Quirks = chip8.Canonical()
	}

	ctx := app.Context()
	if *debug {
		console, err := chip8.NewConsole(buf, nil, options)
		if err != nil {
			glog.Fatalln("Failed to initiate Console: ", err)
		}
		if err := chip8.NewDebugConsole(console, os.Stdin, os.Stdout).Run(ctx); err != nil {
			glog.Exitln("Debugger stopped: ", err)
		}
		return
	}
	screen := ui.NewScreen()
	console, err := chip8.NewConsole(buf, screen, options)
	if err != nil {
		glog.Fatalln("Failed to initiate Console: ", err)
	}
	if err := ui.Start(ctx, console, screen); err != nil {
		glog.Exitln("Emulation stopped: ", err)
	}
}
