// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package plugin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// captureSink records drained outputs keyed by plugin name.
type captureSink struct {
	mu      sync.Mutex
	drained map[string]map[string]any
	fail    int
	calls   int
}

func (s *captureSink) sink(_ context.Context, pluginName string, output map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail > 0 {
		s.fail--
		return errors.New("sink unavailable")
	}
	if s.drained == nil {
		s.drained = make(map[string]map[string]any)
	}
	s.drained[pluginName] = output
	return nil
}

func (s *captureSink) get(pluginName string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drained[pluginName]
}

func TestNewOutputCollector_NilRegistry(t *testing.T) {
	_, err := NewOutputCollector(nil, nil, time.Second)
	assert.ErrorIs(t, err, ErrNilRegistry)
}

func TestOutputCollector_DrainsToSink(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newTestRegistry(t)
	p := newRecorderPlugin("reporter", nil)
	p.Report("handled", 7)
	r.Add(p)

	sink := &captureSink{}
	c, err := NewOutputCollector(r, sink.sink, 10*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)

	require.Eventually(t, func() bool {
		return sink.get("reporter") != nil
	}, time.Second, 5*time.Millisecond)

	cancel()
	c.Stop()

	assert.Equal(t, map[string]any{"handled": 7}, sink.get("reporter"))
	// The buffer was drained exactly once.
	assert.Nil(t, p.TakeOutput())
}

func TestOutputCollector_SkipsEmptyBuffers(t *testing.T) {
	r := newTestRegistry(t)
	r.Add(newRecorderPlugin("idle", nil))

	sink := &captureSink{}
	c, err := NewOutputCollector(r, sink.sink, time.Minute)
	require.NoError(t, err)

	c.drainAll(context.Background())

	assert.Zero(t, sink.calls)
}

func TestOutputCollector_RetriesFailingSink(t *testing.T) {
	r := newTestRegistry(t)
	p := newRecorderPlugin("reporter", nil)
	p.Report("handled", 1)
	r.Add(p)

	sink := &captureSink{fail: 2}
	c, err := NewOutputCollector(r, sink.sink, time.Minute)
	require.NoError(t, err)

	c.drainAll(context.Background())

	assert.Equal(t, 3, sink.calls)
	assert.Equal(t, map[string]any{"handled": 1}, sink.get("reporter"))
}
