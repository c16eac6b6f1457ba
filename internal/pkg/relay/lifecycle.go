package relay

import (
	"github.com/gethiox/padswap/internal/pkg/logger"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Run opens the source at path and the virtual sink, mirrors capabilities, activates
// the virtual device and relays events until the source disconnects.
// Every acquired resource is released before returning, on every path.
func Run(path string, cfg Config, openSource SourceOpener, openSink SinkOpener) (err error) {
	src, err := openSource(path)
	if err != nil {
		return &DeviceError{Op: OpOpen, Err: err}
	}

	var (
		sink      Sink
		grabbed   bool
		activated bool
	)

	defer func() {
		var destroyErr, closeErr error

		if activated {
			destroyErr = sink.Deactivate()
			if destroyErr == nil {
				log.Info("Virtual device destroyed", zap.String("name", cfg.Identity.Name), logger.Debug)
			}
		}
		if sink != nil {
			closeErr = multierr.Append(closeErr, sink.Close())
		}
		if grabbed {
			// fails anyway when the source is gone
			_ = src.Ungrab()
		}
		closeErr = multierr.Append(closeErr, src.Close())

		teardownErr := multierr.Append(destroyErr, closeErr)
		for _, e := range multierr.Errors(teardownErr) {
			log.Info("Teardown failure", zap.Error(e), logger.Warning)
		}

		if err == nil && destroyErr != nil {
			err = &DeviceError{Op: OpTeardown, Err: destroyErr}
		}
	}()

	if cfg.Grab {
		err = src.Grab()
		if err != nil {
			return &DeviceError{Op: OpOpen, Err: err}
		}
		grabbed = true
	}

	sink, err = openSink()
	if err != nil {
		sink = nil
		return &DeviceError{Op: OpOpen, Err: err}
	}

	desc, err := Mirror(src, sink, cfg)
	if err != nil {
		return err
	}

	err = sink.Commit(desc)
	if err != nil {
		return &DeviceError{Op: OpCommit, Err: err}
	}

	err = sink.Activate()
	if err != nil {
		return &DeviceError{Op: OpActivate, Err: err}
	}
	activated = true

	log.Info("Virtual device activated",
		zap.String("name", desc.Name),
		zap.String("id", desc.ID.String()),
		zap.String("scope", cfg.Scope.String()),
		zap.String("remap", cfg.Table.String()),
		logger.Info,
	)

	loop := &Loop{
		Source:     src,
		Sink:       sink,
		Config:     cfg,
		Descriptor: desc,
	}
	return loop.Run()
}
