package queries

import (
	"context"
	"testing"
	"time"

	"accessdeck/contexts/identity-access/reconciliation-service/adapters/memory"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
)

func TestListSyncJobsResolvesEffectiveStatuses(t *testing.T) {
	store := memory.NewStore()
	store.UpsertSyncJob(entities.SyncJobRecord{
		JobName:     "slack-directory-sync",
		RawStatus:   entities.RawJobRunning,
		Progress:    40,
		CurrentStep: "fetching members",
	})
	useCase := ListSyncJobsUseCase{Jobs: store}

	result, err := useCase.Execute(context.Background())
	if err != nil {
		t.Fatalf("list sync jobs failed: %v", err)
	}
	if len(result.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(result.Jobs))
	}
	if !result.AnyRunning {
		t.Fatal("expected running batch")
	}
	if result.NextPoll != 3*time.Second {
		t.Fatalf("expected default running poll of 3s, got %v", result.NextPoll)
	}

	// The seeded idle job resolves from its success timestamp.
	for _, job := range result.Jobs {
		if job.Record.JobName == "google-directory-sync" && job.Effective != entities.JobSuccess {
			t.Fatalf("idle job with success history must resolve success, got %q", job.Effective)
		}
	}
}

func TestListSyncJobsIdlePollDefault(t *testing.T) {
	store := memory.NewStore()
	useCase := ListSyncJobsUseCase{Jobs: store}

	result, err := useCase.Execute(context.Background())
	if err != nil {
		t.Fatalf("list sync jobs failed: %v", err)
	}
	if result.AnyRunning {
		t.Fatal("seeded store has no running job")
	}
	if result.NextPoll != 15*time.Second {
		t.Fatalf("expected default idle poll of 15s, got %v", result.NextPoll)
	}
}

func TestListSyncJobsConfiguredIntervals(t *testing.T) {
	store := memory.NewStore()
	useCase := ListSyncJobsUseCase{
		Jobs:        store,
		RunningPoll: time.Second,
		IdlePoll:    30 * time.Second,
	}

	result, err := useCase.Execute(context.Background())
	if err != nil {
		t.Fatalf("list sync jobs failed: %v", err)
	}
	if result.NextPoll != 30*time.Second {
		t.Fatalf("expected configured idle poll, got %v", result.NextPoll)
	}
}
