package services

import (
	"testing"
	"time"

	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
)

func TestResolveJobStatusPassThrough(t *testing.T) {
	cases := []struct {
		raw  entities.RawJobStatus
		want entities.EffectiveJobStatus
	}{
		{entities.RawJobRunning, entities.JobRunning},
		{entities.RawJobSuccess, entities.JobSuccess},
		{entities.RawJobFailed, entities.JobFailed},
	}
	for _, tc := range cases {
		got := ResolveJobStatus(entities.SyncJobRecord{RawStatus: tc.raw})
		if got != tc.want {
			t.Fatalf("raw %q: expected %q, got %q", tc.raw, tc.want, got)
		}
	}
}

func TestResolveJobStatusIdleResolution(t *testing.T) {
	earlier := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	later := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	got := ResolveJobStatus(entities.SyncJobRecord{
		RawStatus:     entities.RawJobIdle,
		LastSuccessAt: &later,
		LastFailureAt: &earlier,
	})
	if got != entities.JobSuccess {
		t.Fatalf("success after failure must resolve to success, got %q", got)
	}

	got = ResolveJobStatus(entities.SyncJobRecord{
		RawStatus:     entities.RawJobIdle,
		LastSuccessAt: &earlier,
		LastFailureAt: &later,
	})
	if got != entities.JobFailed {
		t.Fatalf("failure after success must resolve to failed, got %q", got)
	}
}

func TestResolveJobStatusEqualTimestampsResolveFailed(t *testing.T) {
	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	got := ResolveJobStatus(entities.SyncJobRecord{
		RawStatus:     entities.RawJobIdle,
		LastSuccessAt: &at,
		LastFailureAt: &at,
	})
	if got != entities.JobFailed {
		t.Fatalf("equal timestamps must resolve to failed, got %q", got)
	}
}

func TestResolveJobStatusNeverRan(t *testing.T) {
	got := ResolveJobStatus(entities.SyncJobRecord{RawStatus: entities.RawJobIdle})
	if got != entities.JobIdle {
		t.Fatalf("job with no run history stays idle, got %q", got)
	}

	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	got = ResolveJobStatus(entities.SyncJobRecord{RawStatus: entities.RawJobIdle, LastSuccessAt: &at})
	if got != entities.JobSuccess {
		t.Fatalf("success with no failure resolves to success, got %q", got)
	}
	got = ResolveJobStatus(entities.SyncJobRecord{RawStatus: entities.RawJobIdle, LastFailureAt: &at})
	if got != entities.JobFailed {
		t.Fatalf("failure with no success resolves to failed, got %q", got)
	}
}

func TestNextPollInterval(t *testing.T) {
	running := 3 * time.Second
	idle := 15 * time.Second

	jobs := []entities.SyncJobRecord{
		{JobName: "a", RawStatus: entities.RawJobIdle},
		{JobName: "b", RawStatus: entities.RawJobRunning},
	}
	if !AnyRunning(jobs) {
		t.Fatal("expected running batch")
	}
	if got := NextPollInterval(jobs, running, idle); got != running {
		t.Fatalf("expected tight interval while running, got %v", got)
	}

	jobs[1].RawStatus = entities.RawJobSuccess
	if got := NextPollInterval(jobs, running, idle); got != idle {
		t.Fatalf("expected relaxed interval when nothing runs, got %v", got)
	}
}
