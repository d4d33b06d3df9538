package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "accessdeck/contexts/identity-access/reconciliation-service/application"
	domainerrors "accessdeck/contexts/identity-access/reconciliation-service/domain/errors"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

// UpdateLicenseCostCommand mutates one catalog entry's billing data.
type UpdateLicenseCostCommand struct {
	ApplicationName    string
	CostPerSeatMonthly float64
	TotalSeats         int
	RequestedBy        string
}

// UpdateLicenseCostUseCase validates synchronously and rejects bad input
// before any network call. On success, the catalog-entry key invalidation
// cascades to every cached license view computed from that entry.
type UpdateLicenseCostUseCase struct {
	Writer      ports.AssignmentWriter
	Views       ports.ViewCache
	Notifier    ports.NotificationSink
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u UpdateLicenseCostUseCase) Execute(ctx context.Context, cmd UpdateLicenseCostCommand) (ports.CatalogMutationResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.ApplicationName) == "" {
		return ports.CatalogMutationResult{}, domainerrors.ErrInvalidApplication
	}
	if cmd.CostPerSeatMonthly < 0 {
		return ports.CatalogMutationResult{}, fmt.Errorf("%w: %.2f", domainerrors.ErrNegativeCost, cmd.CostPerSeatMonthly)
	}
	if cmd.TotalSeats < 0 {
		return ports.CatalogMutationResult{}, fmt.Errorf("%w: %d", domainerrors.ErrNegativeSeats, cmd.TotalSeats)
	}

	affected := []ports.ViewKey{
		{Kind: ports.ViewCatalogEntry, ID: cmd.ApplicationName},
		{Kind: ports.ViewApplicationAssignments, ID: cmd.ApplicationName},
	}
	sequences, err := dispatchAll(ctx, u.Views, affected)
	if err != nil {
		return ports.CatalogMutationResult{}, err
	}

	outboxID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.CatalogMutationResult{}, err
	}

	entry, err := u.Writer.UpdateCatalogCost(ctx, ports.UpdateCatalogCostInput{
		ApplicationName:    cmd.ApplicationName,
		CostPerSeatMonthly: cmd.CostPerSeatMonthly,
		TotalSeats:         cmd.TotalSeats,
		OutboxID:           outboxID,
		UpdatedBy:          cmd.RequestedBy,
		UpdatedAt:          now(u.Clock),
	})
	if err != nil {
		notify(ctx, u.Notifier, ports.NotifyError, "Failed to update cost for "+cmd.ApplicationName)
		logger.Error("license cost update failed",
			"event", "recon_cost_update_failed",
			"module", "identity-access/reconciliation-service",
			"layer", "application",
			"application", cmd.ApplicationName,
			"error", err.Error(),
		)
		return ports.CatalogMutationResult{}, wrapRemote(err)
	}

	invalidateAll(ctx, u.Views, sequences, logger)
	notify(ctx, u.Notifier, ports.NotifySuccess, cmd.ApplicationName+" license cost updated")
	logger.Info("license cost updated",
		"event", "recon_cost_updated",
		"module", "identity-access/reconciliation-service",
		"layer", "application",
		"application", cmd.ApplicationName,
		"cost_per_seat_monthly", entry.CostPerSeatMonthly,
		"total_seats", entry.TotalSeats,
	)
	return ports.CatalogMutationResult{
		Entry:        entry,
		AffectedKeys: affected,
	}, nil
}
