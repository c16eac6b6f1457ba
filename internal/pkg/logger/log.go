package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Messages carries every encoded log entry, one JSON object per message.
// It is never closed, consumer is responsible for draining it, see cmd/padswap.
var Messages = make(chan []byte, 128)

const (
	ErrorLvl   = 0
	WarningLvl = 1
	InfoLvl    = 2
	EventsLvl  = 3 // every relayed event
	DebugLvl   = 4
)

var (
	Error   = zap.Int("level", ErrorLvl)
	Warning = zap.Int("level", WarningLvl)
	Info    = zap.Int("level", InfoLvl)
	Events  = zap.Int("level", EventsLvl)
	Debug   = zap.Int("level", DebugLvl)
)

type chanWriter struct {
	sync.Mutex
	out chan<- []byte
}

func (w *chanWriter) Write(p []byte) (n int, err error) {
	w.Lock()
	// zap reuses its buffers, message has to be copied before leaving
	var msg = make([]byte, len(p))
	copy(msg, p)
	w.out <- msg
	w.Unlock()
	return len(p), nil
}

func (w *chanWriter) Sync() error {
	return nil
}

func newLogger(out chan<- []byte) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.SkipLineEnding = true
	cfg.EncodeTime = zapcore.EpochNanosTimeEncoder
	cfg.LevelKey = "" // severity is carried by "level" field instead
	encoder := zapcore.NewJSONEncoder(cfg)

	return zap.New(
		zapcore.NewCore(encoder, zapcore.Lock(&chanWriter{out: out}), zap.DebugLevel),
		zap.AddCaller(),
	)
}

func GetLogger() *zap.Logger {
	return newLogger(Messages)
}
