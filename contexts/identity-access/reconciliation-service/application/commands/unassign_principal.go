package commands

import (
	"context"
	"log/slog"
	"strings"

	application "accessdeck/contexts/identity-access/reconciliation-service/application"
	domainerrors "accessdeck/contexts/identity-access/reconciliation-service/domain/errors"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

// UnassignPrincipalCommand removes one seat binding by assignment id.
type UnassignPrincipalCommand struct {
	AssignmentID string
	RequestedBy  string
}

// UnassignPrincipalUseCase coordinates the remove-assignment mutation with
// the same dual invalidation as assignment: the identity's views and the
// application's assignment view go stale together.
type UnassignPrincipalUseCase struct {
	Directory   ports.DirectorySource
	Writer      ports.AssignmentWriter
	Views       ports.ViewCache
	Notifier    ports.NotificationSink
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u UnassignPrincipalUseCase) Execute(ctx context.Context, cmd UnassignPrincipalCommand) (ports.AssignmentMutationResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.AssignmentID) == "" {
		return ports.AssignmentMutationResult{}, domainerrors.ErrInvalidRequest
	}

	// The affected keys are known only through the assignment row itself,
	// so the lookup happens before sequence dispatch.
	assignment, err := u.Directory.Assignment(ctx, cmd.AssignmentID)
	if err != nil {
		return ports.AssignmentMutationResult{}, err
	}

	affected := []ports.ViewKey{
		{Kind: ports.ViewIdentityAccess, ID: assignment.IdentityID},
		{Kind: ports.ViewIdentityLicenses, ID: assignment.IdentityID},
		{Kind: ports.ViewApplicationAssignments, ID: assignment.ApplicationName},
	}
	sequences, err := dispatchAll(ctx, u.Views, affected)
	if err != nil {
		return ports.AssignmentMutationResult{}, err
	}

	outboxID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.AssignmentMutationResult{}, err
	}

	removed, err := u.Writer.RemoveAssignment(ctx, ports.RemoveAssignmentInput{
		AssignmentID: cmd.AssignmentID,
		OutboxID:     outboxID,
		RemovedBy:    cmd.RequestedBy,
		RemovedAt:    now(u.Clock),
	})
	if err != nil {
		notify(ctx, u.Notifier, ports.NotifyError, "Failed to remove assignment")
		logger.Error("unassign principal failed",
			"event", "recon_unassign_failed",
			"module", "identity-access/reconciliation-service",
			"layer", "application",
			"assignment_id", cmd.AssignmentID,
			"error", err.Error(),
		)
		return ports.AssignmentMutationResult{}, wrapRemote(err)
	}

	invalidateAll(ctx, u.Views, sequences, logger)
	notify(ctx, u.Notifier, ports.NotifySuccess, removed.ApplicationName+" assignment removed")
	logger.Info("unassign principal succeeded",
		"event", "recon_unassign_succeeded",
		"module", "identity-access/reconciliation-service",
		"layer", "application",
		"assignment_id", cmd.AssignmentID,
		"principal_id", removed.IdentityID,
		"application", removed.ApplicationName,
	)
	return ports.AssignmentMutationResult{
		Assignment:   removed,
		AffectedKeys: affected,
	}, nil
}
