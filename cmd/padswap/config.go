package main

import (
	"fmt"
	"io"

	"github.com/gethiox/padswap/internal/pkg/input"
	"github.com/gethiox/padswap/internal/pkg/logger"
	"github.com/gethiox/padswap/internal/pkg/relay"
	"github.com/spf13/pflag"
)

// debug is meant to be set at compile time: -ldflags "-X main.debug=true"
var debug = "false"

const debugEnv = "PADSWAP_DEBUG"

type options struct {
	keysOnly bool
	grab     bool
	wait     bool
	describe bool
	nocolor  bool
	logLevel int
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("padswap", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.BoolVar(&opts.keysOnly, "keys-only", false, "mirror and relay key events only, analog axes are left out")
	fs.BoolVar(&opts.grab, "grab", false, "grab source device for exclusive usage")
	fs.BoolVar(&opts.wait, "wait", false, "wait for the device node to appear instead of failing")
	fs.BoolVar(&opts.describe, "describe", false, "print source capabilities and virtual device description, then exit")
	fs.BoolVar(&opts.nocolor, "nocolor", false, "disable color")
	fs.IntVar(&opts.logLevel, "loglevel", logger.InfoLvl,
		"logging level, each level enables additional information class (0-4)\n"+
			"0: errors\n"+
			"1: warnings\n"+
			"2: general info (eg. device appearance status)\n"+
			"3: every relayed event\n"+
			"4: debug",
	)
	return fs
}

// parseArgs returns options and the source device path, errors wrap relay.ErrInvocation
// except pflag.ErrHelp.
func parseArgs(args []string, getenv func(string) string) (options, string, error) {
	var opts options
	fs := newFlagSet(&opts)

	err := fs.Parse(args)
	if err == pflag.ErrHelp {
		return opts, "", err
	}
	if err != nil {
		return opts, "", fmt.Errorf("%w: %v", relay.ErrInvocation, err)
	}

	if opts.logLevel < logger.ErrorLvl || opts.logLevel > logger.DebugLvl {
		return opts, "", fmt.Errorf("%w: loglevel %d out of range 0-4", relay.ErrInvocation, opts.logLevel)
	}
	if debug == "true" || getenv(debugEnv) == "1" {
		opts.logLevel = logger.DebugLvl
	}

	switch fs.NArg() {
	case 0:
		return opts, "", fmt.Errorf("%w: device path missing", relay.ErrInvocation)
	case 1:
		return opts, fs.Arg(0), nil
	}
	return opts, "", fmt.Errorf("%w: exactly one device path expected, got %d", relay.ErrInvocation, fs.NArg())
}

func (o options) config() relay.Config {
	cfg := relay.DefaultConfig()
	if o.keysOnly {
		cfg.Scope = relay.KeyOnly
	}
	cfg.Grab = o.grab
	return cfg
}

func usage(w io.Writer, joysticks []input.DeviceInfo) {
	var opts options
	fs := newFlagSet(&opts)

	fmt.Fprintf(w, "usage: padswap [flags] /dev/input/eventX\n\n")
	fmt.Fprintf(w, "%s\n", fs.FlagUsages())

	if len(joysticks) == 0 {
		return
	}
	fmt.Fprintf(w, "detected game controllers:\n")
	for _, js := range joysticks {
		fmt.Fprintf(w, "  %s\n", js.String())
	}
}

// detectedJoysticks lists game controllers for usage, listing failure is reported to w
func detectedJoysticks(w io.Writer, handlers func() ([]input.DeviceInfo, error)) []input.DeviceInfo {
	infos, err := handlers()
	if err != nil {
		fmt.Fprintf(w, "listing input devices failed: %v\n", err)
		return nil
	}
	return input.Joysticks(infos)
}
