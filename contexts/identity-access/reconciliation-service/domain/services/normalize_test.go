package services

import (
	"testing"

	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
)

func TestNormalizeStatusMapping(t *testing.T) {
	cases := []struct {
		raw  entities.RawAccountStatus
		want entities.AccessStatus
	}{
		{entities.RawStatusActive, entities.StatusActive},
		{entities.RawStatusSuspended, entities.StatusSuspended},
		{entities.RawStatusInactive, entities.StatusSuspended},
		{entities.RawStatusNotFound, entities.StatusNotFound},
		{entities.RawStatusError, entities.StatusUnavailable},
	}
	for _, tc := range cases {
		got := NormalizeStatus(entities.PlatformAccountRecord{RawStatus: tc.raw})
		if got != tc.want {
			t.Fatalf("raw %q: expected %q, got %q", tc.raw, tc.want, got)
		}
	}
}

func TestNormalizeStatusUnknownValueIsUnavailable(t *testing.T) {
	got := NormalizeStatus(entities.PlatformAccountRecord{RawStatus: "deprovisioning"})
	if got != entities.StatusUnavailable {
		t.Fatalf("expected unavailable for unrecognized raw status, got %q", got)
	}
}
