// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package plugin

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Package-level counters so the dispatcher and collector can record
// without holding a metrics handle.
var (
	eventsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatling_events_dispatched_total",
			Help: "Total events dispatched to plugins by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	contractViolations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatling_event_contract_violations_total",
			Help: "Total events rejected before dispatch for contract violations",
		},
		[]string{"kind"},
	)

	handlerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatling_plugin_handler_failures_total",
			Help: "Total plugin handler failures by plugin and event kind",
		},
		[]string{"plugin", "kind"},
	)

	outputsDrained = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatling_plugin_outputs_drained_total",
			Help: "Total non-empty output buffers drained by plugin",
		},
		[]string{"plugin"},
	)
)

// RegisterMetrics registers the plugin metrics with the given registry.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(eventsDispatched, contractViolations, handlerFailures, outputsDrained)
}

// RecordDispatch increments the dispatch counter for an event kind.
func RecordDispatch(kind Kind, outcome string) {
	eventsDispatched.WithLabelValues(string(kind), outcome).Inc()
}

// RecordContractViolation increments the rejected-event counter.
func RecordContractViolation(kind Kind) {
	contractViolations.WithLabelValues(string(kind)).Inc()
}

// RecordHandlerFailure increments the handler failure counter.
func RecordHandlerFailure(pluginName string, kind Kind) {
	handlerFailures.WithLabelValues(pluginName, string(kind)).Inc()
}

// RecordOutputDrained increments the drained-output counter.
func RecordOutputDrained(pluginName string) {
	outputsDrained.WithLabelValues(pluginName).Inc()
}
