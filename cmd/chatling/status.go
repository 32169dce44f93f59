// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	var (
		endpoint string
		match    string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show status of plugins on a running host",
		Long:  `Query a running chatling host and list its plugins with their lifecycle status.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, endpoint, match)
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "http://127.0.0.1:5000", "host endpoint")
	cmd.Flags().StringVar(&match, "match", "", "glob pattern filtering plugin names")

	return cmd
}

func runStatus(cmd *cobra.Command, endpoint, match string) error {
	target := endpoint + "/plugins"
	if match != "" {
		target += "?match=" + url.QueryEscape(match)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(target) //nolint:noctx // one-shot CLI query with client timeout
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", target, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("host returned %s", resp.Status)
	}

	var statuses []struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&statuses); err != nil {
		return fmt.Errorf("failed to decode plugin listing: %w", err)
	}

	if len(statuses) == 0 {
		cmd.Println("no plugins registered")
		return nil
	}
	for _, s := range statuses {
		cmd.Printf("%-30s %s\n", s.Name, s.Status)
	}
	return nil
}
