package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	application "accessdeck/contexts/identity-access/reconciliation-service/application"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
	domainerrors "accessdeck/contexts/identity-access/reconciliation-service/domain/errors"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

// AssignPrincipalCommand contains transport-agnostic input for seat assignment.
type AssignPrincipalCommand struct {
	ApplicationName string
	PrincipalID     string
	Source          entities.AssignmentSource
	RequestedBy     string
}

// AssignPrincipalUseCase coordinates the add-assignment mutation. The network
// write is fire-and-forget from the engine's perspective; the contract is
// that every affected cached view is invalidated synchronously with the
// success completion, never on a timer. Concurrent mutations against the
// same application are not serialized: the per-key sequence number makes the
// invalidation layer last-write-wins, which is the documented race.
type AssignPrincipalUseCase struct {
	Directory   ports.DirectorySource
	Writer      ports.AssignmentWriter
	Views       ports.ViewCache
	Notifier    ports.NotificationSink
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u AssignPrincipalUseCase) Execute(ctx context.Context, cmd AssignPrincipalCommand) (ports.AssignmentMutationResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.ApplicationName) == "" {
		return ports.AssignmentMutationResult{}, domainerrors.ErrInvalidApplication
	}
	if strings.TrimSpace(cmd.PrincipalID) == "" {
		return ports.AssignmentMutationResult{}, domainerrors.ErrInvalidPrincipal
	}
	if _, err := u.Directory.Identity(ctx, cmd.PrincipalID); err != nil {
		return ports.AssignmentMutationResult{}, err
	}

	source := cmd.Source
	if source == "" {
		source = entities.AssignmentSourceManual
	}

	affected := []ports.ViewKey{
		{Kind: ports.ViewIdentityAccess, ID: cmd.PrincipalID},
		{Kind: ports.ViewIdentityLicenses, ID: cmd.PrincipalID},
		{Kind: ports.ViewApplicationAssignments, ID: cmd.ApplicationName},
	}
	sequences, err := dispatchAll(ctx, u.Views, affected)
	if err != nil {
		return ports.AssignmentMutationResult{}, err
	}

	assignmentID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.AssignmentMutationResult{}, err
	}
	outboxID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.AssignmentMutationResult{}, err
	}

	logger.Info("assign principal started",
		"event", "recon_assign_started",
		"module", "identity-access/reconciliation-service",
		"layer", "application",
		"principal_id", cmd.PrincipalID,
		"application", cmd.ApplicationName,
	)

	assignment, err := u.Writer.CreateAssignment(ctx, ports.CreateAssignmentInput{
		AssignmentID:    assignmentID,
		OutboxID:        outboxID,
		IdentityID:      cmd.PrincipalID,
		ApplicationName: cmd.ApplicationName,
		Source:          source,
		RequestedBy:     cmd.RequestedBy,
		CreatedAt:       now(u.Clock),
	})
	if err != nil {
		// Remote failures invalidate nothing: either all affected keys
		// invalidate on success, or none do.
		notify(ctx, u.Notifier, ports.NotifyError, "Failed to assign "+cmd.ApplicationName)
		logger.Error("assign principal failed",
			"event", "recon_assign_failed",
			"module", "identity-access/reconciliation-service",
			"layer", "application",
			"principal_id", cmd.PrincipalID,
			"application", cmd.ApplicationName,
			"error", err.Error(),
		)
		return ports.AssignmentMutationResult{}, wrapRemote(err)
	}

	invalidateAll(ctx, u.Views, sequences, logger)
	notify(ctx, u.Notifier, ports.NotifySuccess, cmd.ApplicationName+" assigned")
	logger.Info("assign principal succeeded",
		"event", "recon_assign_succeeded",
		"module", "identity-access/reconciliation-service",
		"layer", "application",
		"assignment_id", assignment.AssignmentID,
		"principal_id", cmd.PrincipalID,
		"application", cmd.ApplicationName,
	)
	return ports.AssignmentMutationResult{
		Assignment:   assignment,
		AffectedKeys: affected,
	}, nil
}

// wrapRemote keeps domain sentinels intact and folds everything else into
// the remote-write error with the remote message attached.
func wrapRemote(err error) error {
	switch {
	case errors.Is(err, domainerrors.ErrAssignmentExists),
		errors.Is(err, domainerrors.ErrAssignmentNotFound),
		errors.Is(err, domainerrors.ErrCatalogEntryMissing),
		errors.Is(err, domainerrors.ErrIdentityNotFound):
		return err
	default:
		return fmt.Errorf("%w: %v", domainerrors.ErrRemoteWriteFailed, err)
	}
}
