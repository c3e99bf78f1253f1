package dto

import "time"

// Sync status values shown in the dashboard header.
const (
	SyncStatusSynced  = "synced"
	SyncStatusOffline = "offline"
	SyncStatusError   = "error"
)

// SyncStatus reports the freshness of the in-memory copy.
type SyncStatus struct {
	Status     string         `json:"status"`
	Configured bool           `json:"configured"`
	LastSync   *time.Time     `json:"lastSync,omitempty"`
	LastError  string         `json:"lastError,omitempty"`
	Version    uint64         `json:"version"`
	Counts     map[string]int `json:"counts"`
}
