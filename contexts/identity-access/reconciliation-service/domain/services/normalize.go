package services

import "accessdeck/contexts/identity-access/reconciliation-service/domain/entities"

// NormalizeStatus maps a raw platform account state to the closed access
// taxonomy. Precedence order matters: not-found wins over everything, then
// suspension. A transient "error" (or any unrecognized value) maps to
// Unavailable instead of the legacy fallback of claiming the account active.
func NormalizeStatus(record entities.PlatformAccountRecord) entities.AccessStatus {
	switch record.RawStatus {
	case entities.RawStatusNotFound:
		return entities.StatusNotFound
	case entities.RawStatusSuspended, entities.RawStatusInactive:
		return entities.StatusSuspended
	case entities.RawStatusActive:
		return entities.StatusActive
	default:
		return entities.StatusUnavailable
	}
}
