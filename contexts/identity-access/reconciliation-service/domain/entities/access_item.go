package entities

import "time"

// AccessType partitions unified access rows by their source.
type AccessType string

const (
	AccessTypeInternal AccessType = "internal"
	AccessTypeExternal AccessType = "external"
)

// AccessStatus is the closed normalized taxonomy for account access.
// Unavailable replaces the legacy behavior of reporting transient platform
// errors as active; an unavailable account must never render as a false
// "active" claim in an access-review tool.
type AccessStatus string

const (
	StatusActive      AccessStatus = "active"
	StatusSuspended   AccessStatus = "suspended"
	StatusGranted     AccessStatus = "granted"
	StatusNotFound    AccessStatus = "not_found"
	StatusUnavailable AccessStatus = "unavailable"
)

// AccessItem is the unified, engine-owned view-model row. Derived only;
// never persisted as a source of truth.
type AccessItem struct {
	ApplicationID   string
	ApplicationName string
	Category        string
	VendorLabel     string
	AccessType      AccessType
	AccessStatus    AccessStatus
	LastUpdated     *time.Time
	DetailCapable   bool
}

// AccessSummary holds the dashboard-chip rollups over one identity's items.
type AccessSummary struct {
	Total            int
	InternalCount    int
	ExternalCount    int
	ActiveCount      int
	SuspendedCount   int
	GrantedCount     int
	NotFoundCount    int
	UnavailableCount int
}
