// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatling/chatling/internal/bot"
)

func TestBase_ReportAndTakeOutput(t *testing.T) {
	b := NewBase(Options{Name: "reporter"})

	b.Report("count", 1)
	b.Report("count", 2)
	b.Report("status", "ok")

	out := b.TakeOutput()
	require.NotNil(t, out)
	// Writes between drains overwrite by key.
	assert.Equal(t, map[string]any{"count": 2, "status": "ok"}, out)

	// Drained means drained.
	assert.Nil(t, b.TakeOutput())

	b.Report("count", 3)
	assert.Equal(t, map[string]any{"count": 3}, b.TakeOutput())
}

func TestBase_AssignNameFirstWins(t *testing.T) {
	b := NewBase(Options{})
	b.assignName("derived")
	b.assignName("later")
	assert.Equal(t, "derived", b.Name())

	named := NewBase(Options{Name: "explicit"})
	named.assignName("derived")
	assert.Equal(t, "explicit", named.Name())
}

func TestBase_BindRuntimeOnce(t *testing.T) {
	b := NewBase(Options{})
	first := bot.NewRuntime(nil)
	second := bot.NewRuntime(nil)

	b.bindRuntime(first)
	b.bindRuntime(second)

	assert.Same(t, first, b.Runtime())
}

func TestDeriveName(t *testing.T) {
	assert.Equal(t, "unnamedPlugin", deriveName(&unnamedPlugin{}))
	assert.Equal(t, "recorderPlugin", deriveName(newRecorderPlugin("", nil)))
}
