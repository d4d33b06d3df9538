package entities

import "time"

// RawJobStatus is the scheduler-owned state of a background sync job.
// "idle" is ambiguous: it does not say how the last run ended.
type RawJobStatus string

const (
	RawJobRunning RawJobStatus = "RUNNING"
	RawJobSuccess RawJobStatus = "SUCCESS"
	RawJobFailed  RawJobStatus = "FAILED"
	RawJobIdle    RawJobStatus = "IDLE"
)

// EffectiveJobStatus is the engine-derived, unambiguous job status.
type EffectiveJobStatus string

const (
	JobRunning EffectiveJobStatus = "running"
	JobSuccess EffectiveJobStatus = "success"
	JobFailed  EffectiveJobStatus = "failed"
	JobIdle    EffectiveJobStatus = "idle"
)

// SyncJobRecord is read-only input from the background scheduler.
type SyncJobRecord struct {
	JobName       string
	RawStatus     RawJobStatus
	LastRunAt     *time.Time
	LastSuccessAt *time.Time
	LastFailureAt *time.Time
	Progress      int
	CurrentStep   string
	ErrorDetail   string
}
