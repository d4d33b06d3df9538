package csvexport

import (
	"testing"
	"time"

	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
)

func TestEncodeFormatIsByteExact(t *testing.T) {
	got, err := Encode([]string{"name", "cost"}, [][]any{
		{"A", 1.5},
		{"B, Inc.", 0},
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	want := "name,cost\n\"A\",1.5\n\"B, Inc.\",0\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestEncodeEscapesQuotes(t *testing.T) {
	got, err := Encode([]string{"name"}, [][]any{{`say "hi"`}})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	want := "name\n\"say \\\"hi\\\"\"\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestEncodeLicenseItems(t *testing.T) {
	got, err := EncodeLicenseItems([]entities.LicensedItem{
		{AssignmentID: "a1", Product: "Google Workspace", Plan: "Business Standard", Billing: entities.BillingMonthly, UnitPriceMonthly: 12.5},
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	want := "assignment_id,product,plan,billing,unit_price_monthly\n" +
		"\"a1\",\"Google Workspace\",\"Business Standard\",\"monthly\",12.5\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestEncodeAccessItemsTimestamps(t *testing.T) {
	at := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	got, err := EncodeAccessItems([]entities.AccessItem{
		{ApplicationName: "Slack", Category: "Communication", AccessType: entities.AccessTypeExternal, AccessStatus: entities.StatusActive, LastUpdated: &at},
		{ApplicationName: "Expense Portal", Category: "Internal Tool", AccessType: entities.AccessTypeInternal, AccessStatus: entities.StatusGranted},
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	want := "application_name,category,access_type,access_status,last_updated\n" +
		"\"Slack\",\"Communication\",\"external\",\"active\",\"2026-02-01T12:00:00Z\"\n" +
		"\"Expense Portal\",\"Internal Tool\",\"internal\",\"granted\",\"\"\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
