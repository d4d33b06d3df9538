package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	contractsv1 "accessdeck/contracts/gen/events/v1"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
	domainerrors "accessdeck/contexts/identity-access/reconciliation-service/domain/errors"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

// Repository persists directory snapshots, seat assignments, catalog entries
// and the mutation outbox. Derived views are never stored here: the view
// cache stays in memory because derivations must be cheap to throw away.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// --- ports.DirectorySource ---

func (r *Repository) Identity(ctx context.Context, identityID string) (entities.Identity, error) {
	var row identityModel
	err := r.db.WithContext(ctx).First(&row, "identity_id = ?", identityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.Identity{}, domainerrors.ErrIdentityNotFound
	}
	if err != nil {
		return entities.Identity{}, err
	}
	return entities.Identity{
		ID:          row.IdentityID,
		Kind:        entities.IdentityKind(row.Kind),
		DisplayName: row.DisplayName,
	}, nil
}

func (r *Repository) Assignment(ctx context.Context, assignmentID string) (entities.LicenseAssignment, error) {
	var row licenseAssignmentModel
	err := r.db.WithContext(ctx).First(&row, "assignment_id = ?", assignmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.LicenseAssignment{}, domainerrors.ErrAssignmentNotFound
	}
	if err != nil {
		return entities.LicenseAssignment{}, err
	}
	return assignmentFromModel(row), nil
}

func (r *Repository) PlatformAccounts(ctx context.Context, identityID string) ([]entities.PlatformAccountRecord, error) {
	var rows []platformAccountModel
	if err := r.db.WithContext(ctx).
		Where("identity_id = ?", identityID).
		Order("platform").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]entities.PlatformAccountRecord, 0, len(rows))
	for _, row := range rows {
		record := entities.PlatformAccountRecord{
			IdentityID:   row.IdentityID,
			Platform:     entities.Platform(row.Platform),
			RawStatus:    entities.RawAccountStatus(row.RawStatus),
			LastSyncedAt: row.LastSyncedAt,
		}
		if len(row.Details) > 0 {
			// Opaque platform payload: decode failures degrade to an
			// empty detail map, never fail the read.
			_ = json.Unmarshal(row.Details, &record.Details)
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *Repository) InternalGrants(ctx context.Context, identityID string) ([]entities.InternalApplicationGrant, error) {
	var rows []internalGrantModel
	if err := r.db.WithContext(ctx).
		Where("identity_id = ?", identityID).
		Order("application_name").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	grants := make([]entities.InternalApplicationGrant, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, entities.InternalApplicationGrant{
			IdentityID:      row.IdentityID,
			ApplicationName: row.ApplicationName,
			Role:            row.Role,
			GrantedAt:       row.GrantedAt,
			RequestTicketID: row.RequestTicketID,
		})
	}
	return grants, nil
}

func (r *Repository) LicenseAssignments(ctx context.Context, identityID string) ([]entities.LicenseAssignment, error) {
	return r.listAssignments(ctx, "identity_id = ?", identityID)
}

func (r *Repository) AssignmentsForApplication(ctx context.Context, applicationName string) ([]entities.LicenseAssignment, error) {
	return r.listAssignments(ctx, "application_name = ?", applicationName)
}

func (r *Repository) listAssignments(ctx context.Context, condition string, value string) ([]entities.LicenseAssignment, error) {
	var rows []licenseAssignmentModel
	if err := r.db.WithContext(ctx).
		Where(condition, value).
		Order("assignment_id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	assignments := make([]entities.LicenseAssignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, assignmentFromModel(row))
	}
	return assignments, nil
}

func (r *Repository) LicenseCatalog(ctx context.Context) ([]entities.LicenseCatalogEntry, error) {
	var rows []licenseCatalogModel
	if err := r.db.WithContext(ctx).Order("application_name").Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]entities.LicenseCatalogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, catalogFromModel(row))
	}
	return entries, nil
}

// --- ports.SyncJobSource ---

func (r *Repository) SyncJobs(ctx context.Context) ([]entities.SyncJobRecord, error) {
	var rows []syncJobModel
	if err := r.db.WithContext(ctx).Order("job_name").Find(&rows).Error; err != nil {
		return nil, err
	}

	jobs := make([]entities.SyncJobRecord, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, entities.SyncJobRecord{
			JobName:       row.JobName,
			RawStatus:     entities.RawJobStatus(row.RawStatus),
			LastRunAt:     row.LastRunAt,
			LastSuccessAt: row.LastSuccessAt,
			LastFailureAt: row.LastFailureAt,
			Progress:      row.Progress,
			CurrentStep:   row.CurrentStep,
			ErrorDetail:   row.ErrorDetail,
		})
	}
	return jobs, nil
}

// --- ports.AssignmentWriter ---

func (r *Repository) CreateAssignment(ctx context.Context, input ports.CreateAssignmentInput) (entities.LicenseAssignment, error) {
	assignment := entities.LicenseAssignment{
		AssignmentID:    input.AssignmentID,
		IdentityID:      input.IdentityID,
		ApplicationName: input.ApplicationName,
		Source:          input.Source,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&identityModel{}).
			Where("identity_id = ?", input.IdentityID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrIdentityNotFound
		}

		row := licenseAssignmentModel{
			AssignmentID:    input.AssignmentID,
			IdentityID:      input.IdentityID,
			ApplicationName: input.ApplicationName,
			Source:          string(input.Source),
			RequestedBy:     input.RequestedBy,
			CreatedAt:       input.CreatedAt.UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAssignmentExists
			}
			return err
		}

		if err := tx.Model(&licenseCatalogModel{}).
			Where("application_name = ?", input.ApplicationName).
			UpdateColumn("assigned_seats", gorm.Expr("assigned_seats + 1")).Error; err != nil {
			return err
		}

		return r.appendOutbox(tx, input.OutboxID, contractsv1.EventTypeAssignmentCreated, input.IdentityID, map[string]string{
			"assignment_id": input.AssignmentID,
			"identity_id":   input.IdentityID,
			"application":   input.ApplicationName,
			"requested_by":  input.RequestedBy,
		}, input.CreatedAt)
	})
	if err != nil {
		return entities.LicenseAssignment{}, err
	}
	return assignment, nil
}

func (r *Repository) RemoveAssignment(ctx context.Context, input ports.RemoveAssignmentInput) (entities.LicenseAssignment, error) {
	var removed entities.LicenseAssignment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row licenseAssignmentModel
		err := tx.First(&row, "assignment_id = ?", input.AssignmentID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrAssignmentNotFound
		}
		if err != nil {
			return err
		}
		removed = assignmentFromModel(row)

		if err := tx.Delete(&licenseAssignmentModel{}, "assignment_id = ?", input.AssignmentID).Error; err != nil {
			return err
		}
		if err := tx.Model(&licenseCatalogModel{}).
			Where("application_name = ? AND assigned_seats > 0", row.ApplicationName).
			UpdateColumn("assigned_seats", gorm.Expr("assigned_seats - 1")).Error; err != nil {
			return err
		}

		return r.appendOutbox(tx, input.OutboxID, contractsv1.EventTypeAssignmentRemoved, row.IdentityID, map[string]string{
			"assignment_id": row.AssignmentID,
			"identity_id":   row.IdentityID,
			"application":   row.ApplicationName,
			"requested_by":  input.RemovedBy,
		}, input.RemovedAt)
	})
	if err != nil {
		return entities.LicenseAssignment{}, err
	}
	return removed, nil
}

func (r *Repository) UpdateCatalogCost(ctx context.Context, input ports.UpdateCatalogCostInput) (entities.LicenseCatalogEntry, error) {
	var entry entities.LicenseCatalogEntry

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := licenseCatalogModel{
			ApplicationName:    input.ApplicationName,
			CostPerSeatMonthly: input.CostPerSeatMonthly,
			LicenseTier:        "Standard",
			TotalSeats:         input.TotalSeats,
			UpdatedAt:          input.UpdatedAt.UTC(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "application_name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"cost_per_seat_monthly": input.CostPerSeatMonthly,
				"total_seats":           input.TotalSeats,
				"updated_at":            input.UpdatedAt.UTC(),
			}),
		}).Create(&row).Error; err != nil {
			return err
		}

		var stored licenseCatalogModel
		if err := tx.First(&stored, "application_name = ?", input.ApplicationName).Error; err != nil {
			return err
		}
		entry = catalogFromModel(stored)

		return r.appendOutbox(tx, input.OutboxID, contractsv1.EventTypeCatalogCostSet, input.ApplicationName, map[string]string{
			"application":  input.ApplicationName,
			"requested_by": input.UpdatedBy,
		}, input.UpdatedAt)
	})
	if err != nil {
		return entities.LicenseCatalogEntry{}, err
	}
	return entry, nil
}

// --- ports.OutboxRepository ---

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   append([]byte(nil), row.Payload...),
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]interface{}{
			"status":       outboxStatusSent,
			"published_at": publishedAt.UTC(),
		}).Error
}

func (r *Repository) appendOutbox(tx *gorm.DB, outboxID string, eventType string, partitionKey string, data map[string]string, createdAt time.Time) error {
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

	row := outboxModel{
		OutboxID:     outboxID,
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    createdAt.UTC(),
	}
	return tx.Create(&row).Error
}

func assignmentFromModel(row licenseAssignmentModel) entities.LicenseAssignment {
	return entities.LicenseAssignment{
		AssignmentID:    row.AssignmentID,
		IdentityID:      row.IdentityID,
		ApplicationName: row.ApplicationName,
		Source:          entities.AssignmentSource(row.Source),
	}
}

func catalogFromModel(row licenseCatalogModel) entities.LicenseCatalogEntry {
	return entities.LicenseCatalogEntry{
		ApplicationName:    row.ApplicationName,
		CostPerSeatMonthly: row.CostPerSeatMonthly,
		LicenseTier:        row.LicenseTier,
		TotalSeats:         row.TotalSeats,
		AssignedSeats:      row.AssignedSeats,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
