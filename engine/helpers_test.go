package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fastjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/upb/logbridge/config"
)

// fakeClock records every ticker the buffered writer asks for.
type fakeClock struct {
	mu      sync.Mutex
	tickers []time.Duration
}

func (c *fakeClock) Now() time.Time { return time.Now() }

func (c *fakeClock) NewTicker(d time.Duration) *time.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickers = append(c.tickers, d)
	return time.NewTicker(d)
}

func (c *fakeClock) Tickers() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.tickers...)
}

// newBufferLogger builds a Logger writing JSON into an in-memory buffer.
func newBufferLogger(t *testing.T, opts *config.Options) (*Logger, *zaptest.Buffer, *fakeClock) {
	t.Helper()
	if opts == nil {
		opts = &config.Options{}
	}
	if opts.Base == nil {
		opts.Base = map[string]any{}
	}
	buf := &zaptest.Buffer{}
	clock := &fakeClock{}
	l, err := build(opts, buf, clock)
	require.NoError(t, err)
	return l, buf, clock
}

func newObservedLogger() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(TraceLevel)
	return NewFromZap(zap.New(core)), logs
}

func parseLines(t *testing.T, buf *zaptest.Buffer) []*fastjson.Value {
	t.Helper()
	var values []*fastjson.Value
	for _, line := range buf.Lines() {
		v, err := fastjson.Parse(line)
		require.NoError(t, err, line)
		values = append(values, v)
	}
	return values
}

func keysOf(t *testing.T, v *fastjson.Value) []string {
	t.Helper()
	obj, err := v.Object()
	require.NoError(t, err)
	var keys []string
	obj.Visit(func(key []byte, _ *fastjson.Value) {
		keys = append(keys, string(key))
	})
	return keys
}
