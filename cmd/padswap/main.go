package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gethiox/padswap/internal/pkg/input"
	"github.com/gethiox/padswap/internal/pkg/logger"
	"github.com/gethiox/padswap/internal/pkg/relay"
	"github.com/logrusorgru/aurora"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	exitOK         = 0
	exitInvocation = 1
	exitDevice     = 2
)

// udev may still be adjusting permissions of freshly created node
const permissionGrace = time.Second * 5

var log = logger.GetLogger()

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, path, err := parseArgs(args, os.Getenv)
	if err == pflag.ErrHelp {
		usage(stdout, detectedJoysticks(stderr, input.GetHandlers))
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "%v\n\n", err)
		usage(stderr, detectedJoysticks(stderr, input.GetHandlers))
		return exitInvocation
	}

	stopLogs := renderLogs(stderr, aurora.NewAurora(!opts.nocolor), opts.logLevel, logger.Messages)
	err = execute(opts, path, stdout)
	stopLogs()

	if err == nil {
		return exitOK
	}
	fmt.Fprintf(stderr, "padswap: %v\n", err)
	if errors.Is(err, relay.ErrInvocation) {
		return exitInvocation
	}
	return exitDevice
}

func execute(opts options, path string, stdout io.Writer) error {
	cfg := opts.config()
	log.Info("Configuration",
		zap.String("device", path),
		zap.String("scope", cfg.Scope.String()),
		zap.Bool("grab", cfg.Grab),
		logger.Debug,
	)

	if opts.wait {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err := input.WaitForNode(ctx, path)
		stop()
		if err != nil {
			return &relay.DeviceError{Op: relay.OpOpen, Err: err}
		}
	}

	openSource := relay.OpenSource
	if opts.wait {
		openSource = openWithGrace(permissionGrace)
	}

	if opts.describe {
		src, err := openSource(path)
		if err != nil {
			return &relay.DeviceError{Op: relay.OpOpen, Err: err}
		}
		defer src.Close()

		ds, ok := src.(describedSource)
		if !ok {
			return fmt.Errorf("source \"%s\" cannot be described", path)
		}
		return describe(stdout, ds, path, cfg)
	}

	err := relay.Run(path, cfg, openSource, relay.OpenSink)
	if err != nil {
		log.Info("Relay failed",
			zap.String("device", path),
			zap.String("op", string(relay.FailedOp(err))),
			zap.Error(err),
			logger.Error,
		)
		return err
	}
	log.Info("Source device gone, exiting", zap.String("device", path), logger.Info)
	return nil
}

// openWithGrace retries opening the source while access is denied, up to given duration
func openWithGrace(grace time.Duration) relay.SourceOpener {
	return func(path string) (relay.Source, error) {
		appearedAt := time.Now()
		for {
			src, err := relay.OpenSource(path)
			if err == nil {
				return src, nil
			}
			if !errors.Is(err, os.ErrPermission) || time.Since(appearedAt) > grace {
				return nil, err
			}
			log.Info("Device not accessible yet, retrying", zap.String("device", path), zap.Error(err), logger.Debug)
			time.Sleep(time.Millisecond * 100)
		}
	}
}
