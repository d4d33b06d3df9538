package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	contractsv1 "accessdeck/contracts/gen/events/v1"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
	domainerrors "accessdeck/contexts/identity-access/reconciliation-service/domain/errors"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"

	"github.com/google/uuid"
)

type outboxRow struct {
	ports.OutboxMessage
	PublishedAt *time.Time
}

// Store is the in-memory adapter backing development and tests. It serves as
// the directory snapshot source, the remote assignment writer, the derived
// view cache, and the outbox in one place.
type Store struct {
	mu sync.RWMutex

	identities       map[string]entities.Identity
	platformAccounts map[string][]entities.PlatformAccountRecord
	grants           map[string][]entities.InternalApplicationGrant
	assignments      map[string]entities.LicenseAssignment
	catalog          map[string]entities.LicenseCatalogEntry
	jobs             map[string]entities.SyncJobRecord

	views     map[ports.ViewKey]ports.CachedView
	sequences map[ports.ViewKey]uint64
	outbox    map[string]outboxRow
}

func NewStore() *Store {
	s := &Store{
		identities:       make(map[string]entities.Identity),
		platformAccounts: make(map[string][]entities.PlatformAccountRecord),
		grants:           make(map[string][]entities.InternalApplicationGrant),
		assignments:      make(map[string]entities.LicenseAssignment),
		catalog:          make(map[string]entities.LicenseCatalogEntry),
		jobs:             make(map[string]entities.SyncJobRecord),
		views:            make(map[ports.ViewKey]ports.CachedView),
		sequences:        make(map[ports.ViewKey]uint64),
		outbox:           make(map[string]outboxRow),
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	synced := time.Now().UTC().Add(-30 * time.Minute)
	granted := time.Now().UTC().Add(-45 * 24 * time.Hour)

	s.identities["emp_1001"] = entities.Identity{
		ID:          "emp_1001",
		Kind:        entities.IdentityKindEmployee,
		DisplayName: "Dana Whitfield",
	}
	s.identities["svc_2001"] = entities.Identity{
		ID:          "svc_2001",
		Kind:        entities.IdentityKindManagedAccount,
		DisplayName: "ci-deploy-bot",
	}

	s.platformAccounts["emp_1001"] = []entities.PlatformAccountRecord{
		{IdentityID: "emp_1001", Platform: entities.PlatformGoogle, RawStatus: entities.RawStatusActive, LastSyncedAt: &synced},
		{IdentityID: "emp_1001", Platform: entities.PlatformSlack, RawStatus: entities.RawStatusActive, LastSyncedAt: &synced},
	}
	s.grants["emp_1001"] = []entities.InternalApplicationGrant{
		{IdentityID: "emp_1001", ApplicationName: "Expense Portal", Role: "viewer", GrantedAt: granted},
	}

	s.catalog["Google Workspace"] = entities.LicenseCatalogEntry{
		ApplicationName:    "Google Workspace",
		CostPerSeatMonthly: 12.50,
		LicenseTier:        "Business Standard",
		TotalSeats:         250,
		AssignedSeats:      1,
	}
	s.assignments["asg_1"] = entities.LicenseAssignment{
		AssignmentID:    "asg_1",
		IdentityID:      "emp_1001",
		ApplicationName: "Google Workspace",
		Source:          entities.AssignmentSourceAutomatedSync,
	}

	lastRun := time.Now().UTC().Add(-2 * time.Hour)
	s.jobs["google-directory-sync"] = entities.SyncJobRecord{
		JobName:       "google-directory-sync",
		RawStatus:     entities.RawJobIdle,
		LastRunAt:     &lastRun,
		LastSuccessAt: &lastRun,
		Progress:      100,
	}
}

// --- ports.DirectorySource ---

func (s *Store) Identity(_ context.Context, identityID string) (entities.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.identities[identityID]
	if !ok {
		return entities.Identity{}, domainerrors.ErrIdentityNotFound
	}
	return identity, nil
}

func (s *Store) Assignment(_ context.Context, assignmentID string) (entities.LicenseAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignment, ok := s.assignments[assignmentID]
	if !ok {
		return entities.LicenseAssignment{}, domainerrors.ErrAssignmentNotFound
	}
	return assignment, nil
}

func (s *Store) PlatformAccounts(_ context.Context, identityID string) ([]entities.PlatformAccountRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.PlatformAccountRecord(nil), s.platformAccounts[identityID]...), nil
}

func (s *Store) InternalGrants(_ context.Context, identityID string) ([]entities.InternalApplicationGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.InternalApplicationGrant(nil), s.grants[identityID]...), nil
}

func (s *Store) LicenseAssignments(_ context.Context, identityID string) ([]entities.LicenseAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.LicenseAssignment, 0)
	for _, assignment := range s.assignments {
		if assignment.IdentityID == identityID {
			items = append(items, assignment)
		}
	}
	sortAssignments(items)
	return items, nil
}

func (s *Store) AssignmentsForApplication(_ context.Context, applicationName string) ([]entities.LicenseAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.LicenseAssignment, 0)
	for _, assignment := range s.assignments {
		if assignment.ApplicationName == applicationName {
			items = append(items, assignment)
		}
	}
	sortAssignments(items)
	return items, nil
}

func (s *Store) LicenseCatalog(_ context.Context) ([]entities.LicenseCatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.LicenseCatalogEntry, 0, len(s.catalog))
	for _, entry := range s.catalog {
		items = append(items, entry)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ApplicationName < items[j].ApplicationName
	})
	return items, nil
}

// --- ports.SyncJobSource ---

func (s *Store) SyncJobs(_ context.Context) ([]entities.SyncJobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.SyncJobRecord, 0, len(s.jobs))
	for _, job := range s.jobs {
		items = append(items, job)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].JobName < items[j].JobName
	})
	return items, nil
}

// UpsertSyncJob lets the scheduler stub and tests feed job records.
func (s *Store) UpsertSyncJob(job entities.SyncJobRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobName] = job
}

// --- ports.AssignmentWriter ---

func (s *Store) CreateAssignment(_ context.Context, input ports.CreateAssignmentInput) (entities.LicenseAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.identities[input.IdentityID]; !ok {
		return entities.LicenseAssignment{}, domainerrors.ErrIdentityNotFound
	}
	for _, assignment := range s.assignments {
		if assignment.IdentityID == input.IdentityID && assignment.ApplicationName == input.ApplicationName {
			return entities.LicenseAssignment{}, domainerrors.ErrAssignmentExists
		}
	}

	assignment := entities.LicenseAssignment{
		AssignmentID:    input.AssignmentID,
		IdentityID:      input.IdentityID,
		ApplicationName: input.ApplicationName,
		Source:          input.Source,
	}
	s.assignments[assignment.AssignmentID] = assignment

	if entry, ok := s.catalog[input.ApplicationName]; ok {
		entry.AssignedSeats++
		s.catalog[input.ApplicationName] = entry
	}

	if err := s.appendOutbox(input.OutboxID, contractsv1.EventTypeAssignmentCreated, input.IdentityID, map[string]string{
		"assignment_id": assignment.AssignmentID,
		"identity_id":   input.IdentityID,
		"application":   input.ApplicationName,
		"requested_by":  input.RequestedBy,
	}, input.CreatedAt); err != nil {
		return entities.LicenseAssignment{}, err
	}
	return assignment, nil
}

func (s *Store) RemoveAssignment(_ context.Context, input ports.RemoveAssignmentInput) (entities.LicenseAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignment, ok := s.assignments[input.AssignmentID]
	if !ok {
		return entities.LicenseAssignment{}, domainerrors.ErrAssignmentNotFound
	}
	delete(s.assignments, input.AssignmentID)

	if entry, ok := s.catalog[assignment.ApplicationName]; ok && entry.AssignedSeats > 0 {
		entry.AssignedSeats--
		s.catalog[assignment.ApplicationName] = entry
	}

	if err := s.appendOutbox(input.OutboxID, contractsv1.EventTypeAssignmentRemoved, assignment.IdentityID, map[string]string{
		"assignment_id": assignment.AssignmentID,
		"identity_id":   assignment.IdentityID,
		"application":   assignment.ApplicationName,
		"requested_by":  input.RemovedBy,
	}, input.RemovedAt); err != nil {
		return entities.LicenseAssignment{}, err
	}
	return assignment, nil
}

func (s *Store) UpdateCatalogCost(_ context.Context, input ports.UpdateCatalogCostInput) (entities.LicenseCatalogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.catalog[input.ApplicationName]
	if !ok {
		entry = entities.LicenseCatalogEntry{
			ApplicationName: input.ApplicationName,
			LicenseTier:     "Standard",
		}
	}
	entry.CostPerSeatMonthly = input.CostPerSeatMonthly
	entry.TotalSeats = input.TotalSeats
	s.catalog[input.ApplicationName] = entry

	if err := s.appendOutbox(input.OutboxID, contractsv1.EventTypeCatalogCostSet, input.ApplicationName, map[string]string{
		"application":  input.ApplicationName,
		"requested_by": input.UpdatedBy,
	}, input.UpdatedAt); err != nil {
		return entities.LicenseCatalogEntry{}, err
	}
	return entry, nil
}

// --- ports.ViewCache ---

func (s *Store) Get(_ context.Context, key ports.ViewKey) (ports.CachedView, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view, ok := s.views[key]
	if !ok {
		return ports.CachedView{}, false, nil
	}
	return view, true, nil
}

func (s *Store) Put(_ context.Context, view ports.CachedView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[view.Key] = view
	return nil
}

func (s *Store) Dispatch(_ context.Context, key ports.ViewKey) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequences[key]++
	return s.sequences[key], nil
}

// Invalidate drops the cached view for key unless a later mutation has been
// dispatched against it since this sequence was handed out. Dropping a
// catalog-entry key also drops every cached view that depends on it.
func (s *Store) Invalidate(_ context.Context, key ports.ViewKey, sequence uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sequence < s.sequences[key] {
		return false, nil
	}
	delete(s.views, key)
	for viewKey, view := range s.views {
		for _, dependency := range view.DependsOn {
			if dependency == key {
				delete(s.views, viewKey)
				break
			}
		}
	}
	return true, nil
}

// --- ports.OutboxRepository ---

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.PublishedAt == nil {
			items = append(items, row.OutboxMessage)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[outboxID]
	if !ok {
		return domainerrors.ErrInvalidRequest
	}
	row.PublishedAt = &publishedAt
	s.outbox[outboxID] = row
	return nil
}

// --- ports.Clock / ports.IDGenerator ---

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// --- seeding helpers for wiring and tests ---

func (s *Store) PutIdentity(identity entities.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[identity.ID] = identity
}

func (s *Store) PutPlatformAccounts(identityID string, records []entities.PlatformAccountRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.platformAccounts[identityID] = append([]entities.PlatformAccountRecord(nil), records...)
}

func (s *Store) PutInternalGrants(identityID string, grants []entities.InternalApplicationGrant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[identityID] = append([]entities.InternalApplicationGrant(nil), grants...)
}

func (s *Store) PutCatalogEntry(entry entities.LicenseCatalogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog[entry.ApplicationName] = entry
}

func (s *Store) appendOutbox(outboxID string, eventType string, partitionKey string, data map[string]string, createdAt time.Time) error {
	if _, exists := s.outbox[outboxID]; exists {
		return domainerrors.ErrInvalidRequest
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(contractsv1.Envelope{
		EventID:       outboxID,
		EventType:     eventType,
		OccurredAt:    createdAt.UTC(),
		SourceService: "accessdeck",
		SchemaVersion: 1,
		PartitionKey:  partitionKey,
		Data:          encoded,
	})
	if err != nil {
		return err
	}

	s.outbox[outboxID] = outboxRow{
		OutboxMessage: ports.OutboxMessage{
			OutboxID:  outboxID,
			EventType: eventType,
			Payload:   payload,
			CreatedAt: createdAt.UTC(),
		},
	}
	return nil
}

func sortAssignments(items []entities.LicenseAssignment) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].AssignmentID < items[j].AssignmentID
	})
}
