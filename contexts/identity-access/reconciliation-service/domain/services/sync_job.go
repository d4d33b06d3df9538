package services

import (
	"time"

	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
)

// ResolveJobStatus derives the effective status of a background sync job.
// RUNNING/SUCCESS/FAILED pass through. IDLE is ambiguous and is resolved
// from the last-success and last-failure timestamps: success only when
// lastSuccessAt is strictly greater than lastFailureAt, so equal timestamps
// resolve to Failed. A job with neither timestamp has never run.
func ResolveJobStatus(job entities.SyncJobRecord) entities.EffectiveJobStatus {
	switch job.RawStatus {
	case entities.RawJobRunning:
		return entities.JobRunning
	case entities.RawJobSuccess:
		return entities.JobSuccess
	case entities.RawJobFailed:
		return entities.JobFailed
	}

	if job.LastSuccessAt != nil && (job.LastFailureAt == nil || job.LastSuccessAt.After(*job.LastFailureAt)) {
		return entities.JobSuccess
	}
	if job.LastFailureAt != nil {
		return entities.JobFailed
	}
	return entities.JobIdle
}

// AnyRunning reports whether any job in the batch is currently running.
func AnyRunning(jobs []entities.SyncJobRecord) bool {
	for _, job := range jobs {
		if job.RawStatus == entities.RawJobRunning {
			return true
		}
	}
	return false
}

// NextPollInterval is the unified poll policy: tight polling while anything
// runs, relaxed otherwise. Callers choose the concrete interval constants.
func NextPollInterval(jobs []entities.SyncJobRecord, running time.Duration, idle time.Duration) time.Duration {
	if AnyRunning(jobs) {
		return running
	}
	return idle
}
