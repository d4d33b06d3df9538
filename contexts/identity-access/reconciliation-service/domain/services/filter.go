package services

import (
	"strings"

	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
)

// Segment selects which access-type slice of a view to show.
type Segment string

const (
	SegmentAll      Segment = "all"
	SegmentExternal Segment = "external"
	SegmentInternal Segment = "internal"
)

// ParseSegment folds arbitrary caller input onto the closed segment set.
// Unknown values mean no segmentation.
func ParseSegment(raw string) Segment {
	switch Segment(strings.ToLower(strings.TrimSpace(raw))) {
	case SegmentExternal:
		return SegmentExternal
	case SegmentInternal:
		return SegmentInternal
	default:
		return SegmentAll
	}
}

// FilterAccessItems applies segment AND free-text predicates over access
// items, preserving input order. An empty or whitespace-only query matches
// everything; matching is case-insensitive substring, not tokenized or fuzzy.
func FilterAccessItems(items []entities.AccessItem, segment Segment, query string) []entities.AccessItem {
	query = strings.TrimSpace(query)
	if segment == SegmentAll && query == "" {
		return items
	}
	filtered := make([]entities.AccessItem, 0, len(items))
	for _, item := range items {
		haystack := item.ApplicationName + item.Category + item.VendorLabel
		if matches(string(segment), string(item.AccessType), haystack, query) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// PrincipalSegment is the tab axis of the per-application assignment view.
type PrincipalSegment string

const (
	PrincipalSegmentAll      PrincipalSegment = "all"
	PrincipalSegmentEmployee PrincipalSegment = "employee"
	PrincipalSegmentManaged  PrincipalSegment = "managed_account"
)

// ParsePrincipalSegment folds caller input onto the closed principal tab set.
func ParsePrincipalSegment(raw string) PrincipalSegment {
	switch PrincipalSegment(strings.ToLower(strings.TrimSpace(raw))) {
	case PrincipalSegmentEmployee:
		return PrincipalSegmentEmployee
	case PrincipalSegmentManaged:
		return PrincipalSegmentManaged
	default:
		return PrincipalSegmentAll
	}
}

// FilterAssignmentRows applies the same predicate core as the identity view:
// segment match on the row's kind label AND case-insensitive substring search
// over the concatenated display fields.
func FilterAssignmentRows(rows []entities.AssignmentRow, segment PrincipalSegment, query string) []entities.AssignmentRow {
	query = strings.TrimSpace(query)
	if segment == PrincipalSegmentAll && query == "" {
		return rows
	}
	filtered := make([]entities.AssignmentRow, 0, len(rows))
	for _, row := range rows {
		haystack := row.DisplayName + row.ApplicationName + string(row.Source)
		if matches(string(segment), string(row.PrincipalKind), haystack, query) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// matches is the shared predicate core: both views combine their segment
// match and text match with AND. The "all" segment disables segmentation.
func matches(segment string, typeLabel string, haystack string, query string) bool {
	if segment != "all" && !strings.EqualFold(typeLabel, segment) {
		return false
	}
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(query))
}
