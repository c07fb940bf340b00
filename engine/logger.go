package engine

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/upb/logbridge/config"
	"github.com/upb/logbridge/observability"
)

// Logger is the engine adapter. It implements observability.LoggerService on
// top of a zap logger.
type Logger struct {
	zap     *zap.Logger
	native  *zap.Logger // for Info, Fatal and Trace
	records *zap.Logger // for the normalized severities

	buffer   *zapcore.BufferedWriteSyncer
	interval time.Duration
	closers  []io.Closer
	owner    bool

	shutdown sync.Once
}

var _ observability.LoggerService = (*Logger)(nil)

// New builds a Logger from opts. Nil opts means defaults.
func New(opts *config.Options) (*Logger, error) {
	opts = withDefaults(opts)
	if opts.Disabled {
		return NewFromZap(zap.NewNop()), nil
	}

	sink, closer, err := openSink(opts.Output)
	if err != nil {
		return nil, err
	}
	l, err := build(opts, sink, zapcore.DefaultClock)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	if closer != nil {
		l.closers = append(l.closers, closer)
	}
	return l, nil
}

// NewFromZap wraps an existing zap logger. A nil logger yields a no-op adapter.
func NewFromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	l := wrap(z)
	l.owner = true
	return l
}

func wrap(z *zap.Logger) *Logger {
	return &Logger{
		zap:     z,
		native:  z.WithOptions(zap.AddCallerSkip(1)),
		records: z.WithOptions(zap.AddCallerSkip(2)),
	}
}

func withDefaults(opts *config.Options) *config.Options {
	if opts == nil {
		return config.DefaultOptions()
	}
	o := *opts
	o.ApplyDefaults()
	return &o
}

func build(opts *config.Options, sink zapcore.WriteSyncer, clock zapcore.Clock) (*Logger, error) {
	opts = withDefaults(opts)
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var buffer *zapcore.BufferedWriteSyncer
	if opts.ExtremeMode.Enabled {
		buffer = &zapcore.BufferedWriteSyncer{
			WS:            sink,
			Size:          opts.ExtremeMode.BufferSize,
			FlushInterval: opts.ExtremeMode.Tick,
			Clock:         clock,
		}
		// The flush loop starts on first write; start it now so the tick is
		// scheduled even when every record is filtered out.
		_, _ = buffer.Write(nil)
		sink = buffer
	}

	core := zapcore.NewCore(newEncoder(opts), sink, zap.NewAtomicLevelAt(level))
	if opts.Sampling != nil {
		core = zapcore.NewSamplerWithOptions(core, time.Second, opts.Sampling.Initial, opts.Sampling.Thereafter)
	}

	z := zap.New(core, zapOptions(opts)...).With(baseFields(opts)...)
	if opts.Name != "" {
		z = z.Named(opts.Name)
	}

	l := wrap(z)
	l.owner = true
	if buffer != nil {
		l.buffer = buffer
		l.interval = opts.ExtremeMode.Tick
		l.zap.Info("extreme mode is enabled")
	}
	return l, nil
}

func newEncoder(opts *config.Options) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.LevelKey = "level"
	cfg.NameKey = "name"
	cfg.MessageKey = MessageKey
	cfg.EncodeTime = zapcore.EpochMillisTimeEncoder
	cfg.EncodeLevel = encodeLevel
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	if opts.Development {
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if opts.Format == "console" {
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeLevel = encodeColorLevel
		return zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewJSONEncoder(cfg)
}

func zapOptions(opts *config.Options) []zap.Option {
	zapOpts := []zap.Option{zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if opts.Development {
		zapOpts = append(zapOpts, zap.Development(), zap.AddCaller())
	}
	return zapOpts
}

func baseFields(opts *config.Options) []zap.Field {
	var fields []zap.Field
	if opts.Base == nil {
		host, _ := os.Hostname()
		fields = append(fields, zap.Int("pid", os.Getpid()), zap.String("hostname", host))
	} else {
		fields = append(fields, sortedFields(opts.Base)...)
	}
	if opts.InstanceID {
		fields = append(fields, zap.String("instance_id", uuid.NewString()))
	}
	return fields
}

// Supports reports whether level has an engine equivalent. A nil Logger
// supports nothing.
func (l *Logger) Supports(level observability.Level) bool {
	if l == nil {
		return false
	}
	_, ok := nativeLevels[level]
	return ok
}

// Error writes payload at error level with an optional trace.
func (l *Logger) Error(payload any, trace, context string) {
	l.callFunction(zapcore.ErrorLevel, payload, context, trace)
}

// Log writes payload at info level.
func (l *Logger) Log(payload any, context string) {
	l.callFunction(zapcore.InfoLevel, payload, context, "")
}

// Warn writes payload at warn level.
func (l *Logger) Warn(payload any, context string) {
	l.callFunction(zapcore.WarnLevel, payload, context, "")
}

// Debug writes payload at debug level.
func (l *Logger) Debug(payload any, context string) {
	l.callFunction(zapcore.DebugLevel, payload, context, "")
}

// Verbose writes payload at trace level.
func (l *Logger) Verbose(payload any, context string) {
	l.callFunction(TraceLevel, payload, context, "")
}

func (l *Logger) callFunction(level zapcore.Level, payload any, context, trace string) {
	if !l.records.Core().Enabled(level) {
		return
	}
	rec := Normalize(payload, context, trace)
	if ce := l.records.Check(level, rec.Message); ce != nil {
		ce.Write(rec.ZapFields()...)
	}
}

// Info writes msg at info level without normalization.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.native.Info(msg, fields...)
}

// Trace writes msg at trace level without normalization.
func (l *Logger) Trace(msg string, fields ...zap.Field) {
	if ce := l.native.Check(TraceLevel, msg); ce != nil {
		ce.Write(fields...)
	}
}

// Fatal writes msg at fatal level and then runs zap's fatal hook, which exits
// the process by default.
func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.native.Fatal(msg, fields...)
}

// Child returns a Logger whose records all carry bindings. Children share the
// parent's writers but never flush or close them at shutdown.
func (l *Logger) Child(bindings observability.Fields) *Logger {
	child := wrap(l.zap.With(sortedFields(bindings)...))
	child.buffer = l.buffer
	child.interval = l.interval
	return child
}

// Zap returns the underlying zap logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

// Buffered reports whether writes go through the buffered writer.
func (l *Logger) Buffered() bool {
	return l.buffer != nil
}

// FlushInterval returns the buffered writer's tick, or zero when unbuffered.
func (l *Logger) FlushInterval() time.Duration {
	return l.interval
}

// Sync flushes buffered records to the sink.
func (l *Logger) Sync() error {
	return ignoreSyncError(l.zap.Sync())
}

// OnApplicationShutdown runs the final flush once, with the signal that
// stopped the application. It does nothing unless this Logger owns a
// buffered writer.
func (l *Logger) OnApplicationShutdown(signal string) {
	if !l.owner || l.buffer == nil {
		return
	}
	l.shutdown.Do(func() {
		_ = l.FinalFlush(nil, signal)
	})
}

// FinalFlush writes the shutdown records, then flushes and stops the
// buffered writer. event names what triggered the shutdown and err what
// caused it; both are optional.
func (l *Logger) FinalFlush(err error, event string) error {
	l.zap.Info("final flush")
	if event != "" {
		l.zap.Info(fmt.Sprintf("%s caught", event))
	}
	if err != nil {
		l.zap.Error("error caused exit", zap.Error(err))
	}

	flushErr := l.Sync()
	if l.buffer != nil {
		flushErr = multierr.Append(flushErr, ignoreSyncError(l.buffer.Stop()))
	}
	return flushErr
}

// Close flushes and releases the writers this Logger owns.
func (l *Logger) Close() error {
	if !l.owner {
		return nil
	}
	err := l.Sync()
	if l.buffer != nil {
		err = multierr.Append(err, ignoreSyncError(l.buffer.Stop()))
	}
	for _, c := range l.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}
