// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatling Contributors

package bot

// ScanStatus is the state of a QR-code login scan.
type ScanStatus string

const (
	ScanStatusUnknown   ScanStatus = "unknown"
	ScanStatusCancel    ScanStatus = "cancel"
	ScanStatusWaiting   ScanStatus = "waiting"
	ScanStatusScanned   ScanStatus = "scanned"
	ScanStatusConfirmed ScanStatus = "confirmed"
	ScanStatusTimeout   ScanStatus = "timeout"
)

// EventError is the payload of a backend error event.
type EventError struct {
	Code string
	Data string
}

// Heartbeat is the payload of a backend keepalive event.
type Heartbeat struct {
	Data string
}

// Ready is the payload announcing that the backend finished syncing
// and is ready to deliver events.
type Ready struct {
	Data string
}
