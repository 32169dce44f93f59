// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package plugin

import (
	"errors"

	"github.com/samber/oops"
)

// ErrNilRegistry is returned when a dispatcher or collector is
// constructed without a registry.
var ErrNilRegistry = errors.New("plugin: registry is nil")

// Error codes for registry and dispatch failures.
const (
	CodePluginNotFound   = "PLUGIN_NOT_FOUND"
	CodePluginLoadFailed = "PLUGIN_LOAD_FAILED"
	CodeEventContract    = "EVENT_CONTRACT"
	CodeHandlerFailed    = "HANDLER_FAILED"
	CodePluginInitFailed = "PLUGIN_INIT_FAILED"
)

// ErrPluginInit wraps a failure from a plugin's Init during startup.
func ErrPluginInit(pluginName string, cause error) error {
	return oops.Code(CodePluginInitFailed).
		With("plugin", pluginName).
		Wrap(cause)
}

// ErrPluginNotFound creates an error for an operation on an unregistered name.
func ErrPluginNotFound(name string) error {
	return oops.Code(CodePluginNotFound).
		With("plugin", name).
		Errorf("plugin %s not registered", name)
}

// ErrPluginLoad creates an error for a locator that failed to resolve.
func ErrPluginLoad(locator string) error {
	return oops.Code(CodePluginLoadFailed).
		With("locator", locator).
		Errorf("cannot load plugin from %s", locator)
}

// ErrEventContract creates an error for an event whose arguments do not
// match the contract for its kind. Raised before any plugin runs.
func ErrEventContract(kind Kind, got int, want string) error {
	return oops.Code(CodeEventContract).
		With("kind", string(kind)).
		With("args", got).
		Errorf("invalid arguments for %s event: expected %s", kind, want)
}

// ErrHandlerFailed wraps a plugin handler failure with the plugin and
// event it aborted.
func ErrHandlerFailed(pluginName string, kind Kind, cause error) error {
	return oops.Code(CodeHandlerFailed).
		With("plugin", pluginName).
		With("kind", string(kind)).
		Wrap(cause)
}

// ErrorCode extracts the error code from an oops error, or "" for other
// errors.
func ErrorCode(err error) string {
	if oopsErr, ok := oops.AsOops(err); ok {
		return oopsErr.Code()
	}
	return ""
}
