package workers

import (
	"context"
	"testing"
	"time"

	"accessdeck/contexts/identity-access/reconciliation-service/adapters/memory"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

type capturingPublisher struct {
	events []ports.AccessChangedEvent
}

func (p *capturingPublisher) PublishAccessChanged(_ context.Context, event ports.AccessChangedEvent) error {
	p.events = append(p.events, event)
	return nil
}

func TestOutboxRelayPublishesAndMarks(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturingPublisher{}

	// A mutation through the writer appends an outbox row atomically.
	_, err := store.CreateAssignment(context.Background(), ports.CreateAssignmentInput{
		AssignmentID:    "asg_new",
		OutboxID:        "out_1",
		IdentityID:      "svc_2001",
		ApplicationName: "Google Workspace",
		Source:          entities.AssignmentSourceManual,
		CreatedAt:       time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create assignment failed: %v", err)
	}

	relay := OutboxRelay{Outbox: store, Publisher: publisher}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(publisher.events))
	}
	event := publisher.events[0]
	if event.EventType != "access.assignment_created" || event.PartitionKey != "svc_2001" {
		t.Fatalf("unexpected event: %+v", event)
	}

	// A second pass finds nothing pending.
	publisher.events = nil
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("published rows must not be re-delivered, got %d", len(publisher.events))
	}
}

func TestSyncStatusMonitorAnnouncesCompletionOnce(t *testing.T) {
	store := memory.NewStore()
	publisher := &capturingPublisher{}
	monitor := &SyncStatusMonitor{
		Jobs:        store,
		Publisher:   publisher,
		IDGenerator: store,
	}

	store.UpsertSyncJob(entities.SyncJobRecord{
		JobName:   "slack-directory-sync",
		RawStatus: entities.RawJobRunning,
	})
	if err := monitor.RunOnce(context.Background()); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatal("no completion yet")
	}

	done := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	store.UpsertSyncJob(entities.SyncJobRecord{
		JobName:       "slack-directory-sync",
		RawStatus:     entities.RawJobSuccess,
		LastSuccessAt: &done,
	})
	if err := monitor.RunOnce(context.Background()); err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected exactly one completion event, got %d", len(publisher.events))
	}
	if publisher.events[0].EventType != "access.sync_job_completed" {
		t.Fatalf("unexpected event type %q", publisher.events[0].EventType)
	}

	// A third pass with no further transition stays quiet.
	if err := monitor.RunOnce(context.Background()); err != nil {
		t.Fatalf("third pass failed: %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("completion must be announced once, got %d events", len(publisher.events))
	}
}

func TestSyncStatusMonitorNextInterval(t *testing.T) {
	monitor := &SyncStatusMonitor{}
	jobs := []entities.SyncJobRecord{{JobName: "a", RawStatus: entities.RawJobRunning}}
	if got := monitor.NextInterval(jobs, 3*time.Second, 15*time.Second); got != 3*time.Second {
		t.Fatalf("expected running interval, got %v", got)
	}
	jobs[0].RawStatus = entities.RawJobIdle
	if got := monitor.NextInterval(jobs, 3*time.Second, 15*time.Second); got != 15*time.Second {
		t.Fatalf("expected idle interval, got %v", got)
	}
}
