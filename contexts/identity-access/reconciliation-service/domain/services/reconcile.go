package services

import (
	"strings"
	"time"

	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
)

type platformInfo struct {
	DisplayName string
	Category    string
	Vendor      string
}

// platformCatalog carries the presentation metadata for connected platforms.
// Unknown platforms degrade to generic labels rather than failing aggregation.
var platformCatalog = map[entities.Platform]platformInfo{
	entities.PlatformGoogle:    {DisplayName: "Google Workspace", Category: "Productivity", Vendor: "Google LLC"},
	entities.PlatformSlack:     {DisplayName: "Slack", Category: "Communication", Vendor: "Slack Technologies"},
	entities.PlatformJumpCloud: {DisplayName: "JumpCloud", Category: "Identity", Vendor: "JumpCloud Inc."},
	entities.PlatformAtlassian: {DisplayName: "Atlassian", Category: "Collaboration", Vendor: "Atlassian Corporation"},
}

// AggregateAccess merges external platform records and internal grants into
// the unified access item list for one identity. The two sources are
// concatenated, never de-duplicated: an application name may legitimately
// appear both as a platform and as an unrelated internal tool.
func AggregateAccess(
	records []entities.PlatformAccountRecord,
	grants []entities.InternalApplicationGrant,
) []entities.AccessItem {
	items := make([]entities.AccessItem, 0, len(records)+len(grants))
	for _, record := range records {
		info, known := platformCatalog[record.Platform]
		if !known {
			info = platformInfo{
				DisplayName: string(record.Platform),
				Category:    "SaaS Platform",
			}
		}
		items = append(items, entities.AccessItem{
			ApplicationID:   "external:" + string(record.Platform),
			ApplicationName: info.DisplayName,
			Category:        info.Category,
			VendorLabel:     info.Vendor,
			AccessType:      entities.AccessTypeExternal,
			AccessStatus:    NormalizeStatus(record),
			LastUpdated:     record.LastSyncedAt,
			// Every platform record is connected by definition of existing.
			DetailCapable: true,
		})
	}
	for _, grant := range grants {
		grantedAt := grant.GrantedAt
		items = append(items, entities.AccessItem{
			ApplicationID:   "internal:" + slugify(grant.ApplicationName),
			ApplicationName: grant.ApplicationName,
			Category:        "Internal Tool",
			VendorLabel:     "Internal",
			AccessType:      entities.AccessTypeInternal,
			AccessStatus:    entities.StatusGranted,
			LastUpdated:     &grantedAt,
			DetailCapable:   false,
		})
	}
	return items
}

// LatestSync folds the most recent external sync timestamp out of an item
// list, treating nil as negative infinity. Nil result means no external item
// carries a timestamp.
func LatestSync(items []entities.AccessItem) *time.Time {
	var latest *time.Time
	for _, item := range items {
		if item.AccessType != entities.AccessTypeExternal || item.LastUpdated == nil {
			continue
		}
		if latest == nil || item.LastUpdated.After(*latest) {
			latest = item.LastUpdated
		}
	}
	return latest
}

// Summarize computes the dashboard-chip counts in a single pass. Inputs are
// small (tens to low hundreds of rows per identity) so this is recomputed on
// every change, never incrementally patched.
func Summarize(items []entities.AccessItem) entities.AccessSummary {
	summary := entities.AccessSummary{Total: len(items)}
	for _, item := range items {
		switch item.AccessType {
		case entities.AccessTypeInternal:
			summary.InternalCount++
		case entities.AccessTypeExternal:
			summary.ExternalCount++
		}
		switch item.AccessStatus {
		case entities.StatusActive:
			summary.ActiveCount++
		case entities.StatusSuspended:
			summary.SuspendedCount++
		case entities.StatusGranted:
			summary.GrantedCount++
		case entities.StatusNotFound:
			summary.NotFoundCount++
		case entities.StatusUnavailable:
			summary.UnavailableCount++
		}
	}
	return summary
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
