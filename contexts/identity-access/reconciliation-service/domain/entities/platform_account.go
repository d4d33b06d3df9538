package entities

import "time"

// Platform identifies an external SaaS system whose account state is synced in.
type Platform string

const (
	PlatformGoogle    Platform = "google"
	PlatformSlack     Platform = "slack"
	PlatformJumpCloud Platform = "jumpcloud"
	PlatformAtlassian Platform = "atlassian"
)

// RawAccountStatus is the per-platform account state as reported by the sync
// subsystem. "error" and unknown values are transient and never terminal.
type RawAccountStatus string

const (
	RawStatusActive    RawAccountStatus = "active"
	RawStatusSuspended RawAccountStatus = "suspended"
	RawStatusInactive  RawAccountStatus = "inactive"
	RawStatusNotFound  RawAccountStatus = "not_found"
	RawStatusError     RawAccountStatus = "error"
)

// PlatformAccountRecord is one row per (identity, platform), consumed read-only.
// Details is an opaque platform-specific map passed through unmodified.
type PlatformAccountRecord struct {
	IdentityID   string
	Platform     Platform
	RawStatus    RawAccountStatus
	LastSyncedAt *time.Time
	Details      map[string]string
}

// InternalApplicationGrant is one row per (identity, internal application);
// source of truth is the internal grants table.
type InternalApplicationGrant struct {
	IdentityID      string
	ApplicationName string
	Role            string
	GrantedAt       time.Time
	RequestTicketID string
}
