package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "accessdeck/contexts/identity-access/reconciliation-service/application"
	contractsv1 "accessdeck/contracts/gen/events/v1"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/services"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

// SyncStatusMonitor tracks background sync jobs between passes and announces
// terminal transitions. lastSeen keeps the previous effective status per job
// so a completion is reported exactly once.
type SyncStatusMonitor struct {
	Jobs        ports.SyncJobSource
	Publisher   ports.AccessChangedPublisher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger

	lastSeen map[string]entities.EffectiveJobStatus
}

func (m *SyncStatusMonitor) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(m.Logger)
	if m.lastSeen == nil {
		m.lastSeen = make(map[string]entities.EffectiveJobStatus)
	}

	records, err := m.Jobs.SyncJobs(ctx)
	if err != nil {
		logger.Error("sync job fetch failed",
			"event", "recon_sync_fetch_failed",
			"module", "identity-access/reconciliation-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, record := range records {
		effective := services.ResolveJobStatus(record)
		previous, seen := m.lastSeen[record.JobName]
		m.lastSeen[record.JobName] = effective

		if !seen || previous == effective {
			continue
		}
		logger.Info("sync job transition",
			"event", "recon_sync_transition",
			"module", "identity-access/reconciliation-service",
			"layer", "worker",
			"job", record.JobName,
			"from", string(previous),
			"to", string(effective),
			"progress", record.Progress,
			"step", record.CurrentStep,
		)
		if previous == entities.JobRunning && (effective == entities.JobSuccess || effective == entities.JobFailed) {
			if err := m.publishCompletion(ctx, record, effective); err != nil {
				return err
			}
		}
	}
	return nil
}

// NextInterval exposes the poll policy to the worker loop.
func (m *SyncStatusMonitor) NextInterval(jobs []entities.SyncJobRecord, running time.Duration, idle time.Duration) time.Duration {
	return services.NextPollInterval(jobs, running, idle)
}

func (m *SyncStatusMonitor) publishCompletion(ctx context.Context, record entities.SyncJobRecord, effective entities.EffectiveJobStatus) error {
	if m.Publisher == nil {
		return nil
	}
	now := time.Now().UTC()
	if m.Clock != nil {
		now = m.Clock.Now().UTC()
	}
	eventID := ""
	if m.IDGenerator != nil {
		id, err := m.IDGenerator.NewID(ctx)
		if err != nil {
			return err
		}
		eventID = id
	}

	data, err := json.Marshal(map[string]string{
		"job":          record.JobName,
		"status":       string(effective),
		"error_detail": record.ErrorDetail,
	})
	if err != nil {
		return err
	}
	return m.Publisher.PublishAccessChanged(ctx, contractsv1.Envelope{
		EventID:       eventID,
		EventType:     contractsv1.EventTypeSyncJobCompleted,
		OccurredAt:    now,
		SourceService: "accessdeck",
		SchemaVersion: 1,
		PartitionKey:  record.JobName,
		Data:          data,
	})
}
