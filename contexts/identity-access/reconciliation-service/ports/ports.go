package ports

import (
	"context"
	"time"

	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
	contractsv1 "accessdeck/contracts/gen/events/v1"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for commands/outbox rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// DirectorySource is the data-fetch collaborator supplying already-fetched
// snapshots. The engine never calls the external platform APIs itself.
type DirectorySource interface {
	Identity(ctx context.Context, identityID string) (entities.Identity, error)
	Assignment(ctx context.Context, assignmentID string) (entities.LicenseAssignment, error)
	PlatformAccounts(ctx context.Context, identityID string) ([]entities.PlatformAccountRecord, error)
	InternalGrants(ctx context.Context, identityID string) ([]entities.InternalApplicationGrant, error)
	LicenseAssignments(ctx context.Context, identityID string) ([]entities.LicenseAssignment, error)
	AssignmentsForApplication(ctx context.Context, applicationName string) ([]entities.LicenseAssignment, error)
	LicenseCatalog(ctx context.Context) ([]entities.LicenseCatalogEntry, error)
}

// SyncJobSource supplies background-job records owned by the scheduler.
type SyncJobSource interface {
	SyncJobs(ctx context.Context) ([]entities.SyncJobRecord, error)
}

// CreateAssignmentInput is persisted atomically with its outbox record.
type CreateAssignmentInput struct {
	AssignmentID    string
	OutboxID        string
	IdentityID      string
	ApplicationName string
	Source          entities.AssignmentSource
	RequestedBy     string
	CreatedAt       time.Time
}

// RemoveAssignmentInput captures the unassign write and its outbox record.
type RemoveAssignmentInput struct {
	AssignmentID string
	OutboxID     string
	RemovedBy    string
	RemovedAt    time.Time
}

// UpdateCatalogCostInput captures the catalog cost-update write.
type UpdateCatalogCostInput struct {
	ApplicationName    string
	CostPerSeatMonthly float64
	TotalSeats         int
	OutboxID           string
	UpdatedBy          string
	UpdatedAt          time.Time
}

// AssignmentWriter is the remote-write collaborator for seat mutations.
// Execution is external; the engine only consumes the completion signal.
type AssignmentWriter interface {
	CreateAssignment(ctx context.Context, input CreateAssignmentInput) (entities.LicenseAssignment, error)
	RemoveAssignment(ctx context.Context, input RemoveAssignmentInput) (entities.LicenseAssignment, error)
	UpdateCatalogCost(ctx context.Context, input UpdateCatalogCostInput) (entities.LicenseCatalogEntry, error)
}

// ViewKind enumerates the cached derivations the coordinator can invalidate.
type ViewKind string

const (
	ViewIdentityAccess         ViewKind = "identity_access"
	ViewApplicationAssignments ViewKind = "application_assignments"
	ViewIdentityLicenses       ViewKind = "identity_licenses"
	ViewCatalogEntry           ViewKind = "catalog_entry"
)

// ViewKey addresses one cached derivation.
type ViewKey struct {
	Kind ViewKind
	ID   string
}

// CachedView stores an opaque derived payload. DependsOn lets catalog-entry
// invalidations cascade to the license views computed from them.
type CachedView struct {
	Key        ViewKey
	Payload    []byte
	DependsOn  []ViewKey
	ComputedAt time.Time
}

// ViewCache models staleness as recompute-on-next-read. Dispatch hands out a
// monotonically increasing sequence number per key; Invalidate applies only
// when the completing sequence is not behind the latest dispatched, so a
// superseded in-flight mutation cannot resurrect stale data.
type ViewCache interface {
	Get(ctx context.Context, key ViewKey) (CachedView, bool, error)
	Put(ctx context.Context, view CachedView) error
	Dispatch(ctx context.Context, key ViewKey) (uint64, error)
	Invalidate(ctx context.Context, key ViewKey, sequence uint64) (bool, error)
}

// NotificationLevel grades fire-and-forget operator notifications.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
)

// NotificationSink receives toast messages. Side-effect only; its output is
// never consumed by engine logic.
type NotificationSink interface {
	Notify(ctx context.Context, level NotificationLevel, message string)
}

// OutboxMessage represents a pending relay message.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository supports worker relay polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// AccessChangedEvent reuses the canonical cross-runtime envelope contract.
type AccessChangedEvent = contractsv1.Envelope

// AccessChangedPublisher emits access change events to the event bus adapter.
type AccessChangedPublisher interface {
	PublishAccessChanged(ctx context.Context, event AccessChangedEvent) error
}

// AccessView is the cached aggregation for one identity.
type AccessView struct {
	IdentityID string
	Items      []entities.AccessItem
	Summary    entities.AccessSummary
	LatestSync *time.Time
	ComputedAt time.Time
}

// AssignmentView is the cached per-application assignment aggregation.
type AssignmentView struct {
	ApplicationName string
	Rows            []entities.AssignmentRow
	ComputedAt      time.Time
}

// LicenseViewResult is the cached license panel for one identity.
type LicenseViewResult struct {
	IdentityID string
	Items      []entities.LicensedItem
	Summary    entities.LicenseSummary
	ComputedAt time.Time
}

// AssignmentMutationResult is returned by assign/unassign commands. The
// affected keys are the invalidation contract: callers must treat every
// listed derivation as stale.
type AssignmentMutationResult struct {
	Assignment   entities.LicenseAssignment
	AffectedKeys []ViewKey
}

// CatalogMutationResult is returned by the cost-update command.
type CatalogMutationResult struct {
	Entry        entities.LicenseCatalogEntry
	AffectedKeys []ViewKey
}

// SyncJobView pairs a raw scheduler record with its derived status.
type SyncJobView struct {
	Record    entities.SyncJobRecord
	Effective entities.EffectiveJobStatus
}
