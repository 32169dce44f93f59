// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the chatling CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chatling",
		Short: "Chatling - a plugin host for chat automation",
		Long: `Chatling hosts the extension layer of a chat-automation runtime:
a registry of plugins reacting to backend events, with an embedded web
server exposing plugin-registered HTTP routes.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
