// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package plugin

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
)

// OutputSink receives a plugin's drained output buffer. A failing sink
// is retried with backoff; output already taken from the plugin is lost
// if every attempt fails.
type OutputSink func(ctx context.Context, pluginName string, output map[string]any) error

// OutputCollector polls every registered plugin's drain-once output
// buffer on an interval and forwards non-empty drains to a sink. This is
// the pull side of the plugin reporting channel: plugins write results,
// the collector delivers them to whatever monitoring sink is configured.
type OutputCollector struct {
	registry *Registry
	sink     OutputSink
	interval time.Duration
	log      *slog.Logger
	wg       sync.WaitGroup
}

// NewOutputCollector creates a collector polling at the given interval.
func NewOutputCollector(registry *Registry, sink OutputSink, interval time.Duration) (*OutputCollector, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	return &OutputCollector{
		registry: registry,
		sink:     sink,
		interval: interval,
		log:      slog.Default(),
	}, nil
}

// Start begins polling until the context is canceled.
func (c *OutputCollector) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.drainAll(ctx)
			}
		}
	}()
}

// Stop waits for the polling goroutine to finish.
func (c *OutputCollector) Stop() {
	c.wg.Wait()
}

func (c *OutputCollector) drainAll(ctx context.Context) {
	for _, p := range c.registry.plugins() {
		drainer, ok := p.(OutputDrainer)
		if !ok {
			continue
		}
		name := effectiveName(p)

		output := drainer.TakeOutput()
		if len(output) == 0 {
			continue
		}
		RecordOutputDrained(name)

		backoff := retry.WithMaxRetries(3, retry.NewExponential(100*time.Millisecond))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			if err := c.sink(ctx, name, output); err != nil {
				return retry.RetryableError(err)
			}
			return nil
		})
		if err != nil {
			c.log.Error("failed to deliver plugin output",
				"plugin", name,
				"keys", len(output),
				"error", err)
		}
	}
}
