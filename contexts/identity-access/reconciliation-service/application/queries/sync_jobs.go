package queries

import (
	"context"
	"log/slog"
	"time"

	application "accessdeck/contexts/identity-access/reconciliation-service/application"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/services"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

// SyncJobsResult lists every job with its derived status plus the poll
// decision for the caller's refresh loop.
type SyncJobsResult struct {
	Jobs       []ports.SyncJobView
	AnyRunning bool
	NextPoll   time.Duration
}

// ListSyncJobsUseCase resolves effective statuses for the scheduler's raw
// job records. Never cached: job state is the one input that changes
// underneath the console between reads.
type ListSyncJobsUseCase struct {
	Jobs        ports.SyncJobSource
	RunningPoll time.Duration
	IdlePoll    time.Duration
	Logger      *slog.Logger
}

func (u ListSyncJobsUseCase) Execute(ctx context.Context) (SyncJobsResult, error) {
	records, err := u.Jobs.SyncJobs(ctx)
	if err != nil {
		return SyncJobsResult{}, err
	}

	views := make([]ports.SyncJobView, 0, len(records))
	for _, record := range records {
		views = append(views, ports.SyncJobView{
			Record:    record,
			Effective: services.ResolveJobStatus(record),
		})
	}

	result := SyncJobsResult{
		Jobs:       views,
		AnyRunning: services.AnyRunning(records),
		NextPoll:   services.NextPollInterval(records, u.runningPoll(), u.idlePoll()),
	}
	application.ResolveLogger(u.Logger).Debug("sync jobs resolved",
		"event", "sync_jobs_resolved",
		"module", "identity-access/reconciliation-service",
		"layer", "application",
		"job_count", len(views),
		"any_running", result.AnyRunning,
	)
	return result, nil
}

func (u ListSyncJobsUseCase) runningPoll() time.Duration {
	if u.RunningPoll <= 0 {
		return 3 * time.Second
	}
	return u.RunningPoll
}

func (u ListSyncJobsUseCase) idlePoll() time.Duration {
	if u.IdlePoll <= 0 {
		return 15 * time.Second
	}
	return u.IdlePoll
}
