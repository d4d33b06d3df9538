package services

import (
	"testing"
	"time"

	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
)

func TestAggregateAccessMergesExternalAndInternal(t *testing.T) {
	earlier := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	later := time.Date(2026, 2, 10, 11, 30, 0, 0, time.UTC)

	items := AggregateAccess(
		[]entities.PlatformAccountRecord{
			{IdentityID: "emp_1", Platform: entities.PlatformGoogle, RawStatus: entities.RawStatusActive, LastSyncedAt: &later},
			{IdentityID: "emp_1", Platform: entities.PlatformSlack, RawStatus: entities.RawStatusNotFound, LastSyncedAt: &earlier},
		},
		[]entities.InternalApplicationGrant{
			{IdentityID: "emp_1", ApplicationName: "Expense Portal", Role: "viewer", GrantedAt: earlier},
		},
	)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	google := items[0]
	if google.ApplicationID != "external:google" {
		t.Fatalf("unexpected application id %q", google.ApplicationID)
	}
	if google.ApplicationName != "Google Workspace" || google.Category != "Productivity" {
		t.Fatalf("platform metadata not applied: %+v", google)
	}
	if google.AccessStatus != entities.StatusActive || !google.DetailCapable {
		t.Fatalf("unexpected external row derivation: %+v", google)
	}

	slack := items[1]
	if slack.AccessStatus != entities.StatusNotFound {
		t.Fatalf("expected not_found for slack, got %q", slack.AccessStatus)
	}

	internal := items[2]
	if internal.ApplicationID != "internal:expense-portal" {
		t.Fatalf("unexpected internal id %q", internal.ApplicationID)
	}
	if internal.AccessStatus != entities.StatusGranted || internal.AccessType != entities.AccessTypeInternal {
		t.Fatalf("unexpected internal row derivation: %+v", internal)
	}
	if internal.DetailCapable {
		t.Fatal("internal grants must not be detail capable")
	}
}

func TestAggregateAccessUnknownPlatformDegrades(t *testing.T) {
	items := AggregateAccess(
		[]entities.PlatformAccountRecord{
			{IdentityID: "emp_1", Platform: "zendesk", RawStatus: entities.RawStatusActive},
		},
		nil,
	)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].ApplicationName != "zendesk" || items[0].Category != "SaaS Platform" {
		t.Fatalf("expected generic labels for unknown platform, got %+v", items[0])
	}
}

func TestLatestSyncIgnoresInternalItems(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newest := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	internalNewest := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	latest := LatestSync([]entities.AccessItem{
		{AccessType: entities.AccessTypeExternal, LastUpdated: &older},
		{AccessType: entities.AccessTypeExternal, LastUpdated: &newest},
		{AccessType: entities.AccessTypeExternal},
		{AccessType: entities.AccessTypeInternal, LastUpdated: &internalNewest},
	})
	if latest == nil || !latest.Equal(newest) {
		t.Fatalf("expected latest external sync %v, got %v", newest, latest)
	}

	if LatestSync([]entities.AccessItem{{AccessType: entities.AccessTypeInternal, LastUpdated: &older}}) != nil {
		t.Fatal("expected nil when no external item carries a timestamp")
	}
}

func TestSummarizeCountsPartitionTotal(t *testing.T) {
	items := []entities.AccessItem{
		{AccessType: entities.AccessTypeExternal, AccessStatus: entities.StatusActive},
		{AccessType: entities.AccessTypeExternal, AccessStatus: entities.StatusSuspended},
		{AccessType: entities.AccessTypeExternal, AccessStatus: entities.StatusNotFound},
		{AccessType: entities.AccessTypeExternal, AccessStatus: entities.StatusUnavailable},
		{AccessType: entities.AccessTypeInternal, AccessStatus: entities.StatusGranted},
		{AccessType: entities.AccessTypeInternal, AccessStatus: entities.StatusGranted},
	}
	summary := Summarize(items)

	if summary.Total != 6 {
		t.Fatalf("expected total 6, got %d", summary.Total)
	}
	if summary.ExternalCount != 4 || summary.InternalCount != 2 {
		t.Fatalf("unexpected type counts: %+v", summary)
	}
	statusSum := summary.ActiveCount + summary.SuspendedCount + summary.GrantedCount +
		summary.NotFoundCount + summary.UnavailableCount
	if statusSum != summary.Total {
		t.Fatalf("status counts must partition the total: %+v", summary)
	}
	if summary.UnavailableCount != 1 {
		t.Fatalf("expected 1 unavailable, got %d", summary.UnavailableCount)
	}
}
