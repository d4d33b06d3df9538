package queries

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "accessdeck/contexts/identity-access/reconciliation-service/application"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
	domainerrors "accessdeck/contexts/identity-access/reconciliation-service/domain/errors"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/services"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

// AssignmentViewQuery requests the principal list for one application.
type AssignmentViewQuery struct {
	ApplicationName string
	Segment         services.PrincipalSegment
	Query           string
}

// AssignmentViewUseCase builds the per-application assignment view: the same
// source assignments the identity views aggregate, sliced by application.
type AssignmentViewUseCase struct {
	Directory ports.DirectorySource
	Views     ports.ViewCache
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (u AssignmentViewUseCase) Execute(ctx context.Context, query AssignmentViewQuery) (ports.AssignmentView, error) {
	if strings.TrimSpace(query.ApplicationName) == "" {
		return ports.AssignmentView{}, domainerrors.ErrInvalidApplication
	}

	logger := application.ResolveLogger(u.Logger)
	view, cacheHit, err := u.loadView(ctx, query.ApplicationName)
	if err != nil {
		return ports.AssignmentView{}, err
	}
	logger.Debug("assignment view resolved",
		"event", "assignment_view_resolved",
		"module", "identity-access/reconciliation-service",
		"layer", "application",
		"application", query.ApplicationName,
		"row_count", len(view.Rows),
		"cache_hit", cacheHit,
	)

	view.Rows = services.FilterAssignmentRows(view.Rows, query.Segment, query.Query)
	return view, nil
}

func (u AssignmentViewUseCase) loadView(ctx context.Context, applicationName string) (ports.AssignmentView, bool, error) {
	key := ports.ViewKey{Kind: ports.ViewApplicationAssignments, ID: applicationName}
	if cached, found, err := u.Views.Get(ctx, key); err != nil {
		return ports.AssignmentView{}, false, err
	} else if found {
		var view ports.AssignmentView
		if err := json.Unmarshal(cached.Payload, &view); err == nil {
			return view, true, nil
		}
	}

	assignments, err := u.Directory.AssignmentsForApplication(ctx, applicationName)
	if err != nil {
		return ports.AssignmentView{}, false, err
	}

	rows := make([]entities.AssignmentRow, 0, len(assignments))
	for _, assignment := range assignments {
		row := entities.AssignmentRow{
			AssignmentID:    assignment.AssignmentID,
			PrincipalID:     assignment.IdentityID,
			ApplicationName: assignment.ApplicationName,
			Source:          assignment.Source,
		}
		// A dangling principal still renders as a bare row rather than
		// failing the whole view.
		if identity, err := u.Directory.Identity(ctx, assignment.IdentityID); err == nil {
			row.PrincipalKind = identity.Kind
			row.DisplayName = identity.DisplayName
		}
		rows = append(rows, row)
	}

	view := ports.AssignmentView{
		ApplicationName: applicationName,
		Rows:            rows,
		ComputedAt:      u.now(),
	}
	payload, err := json.Marshal(view)
	if err != nil {
		return ports.AssignmentView{}, false, err
	}
	if err := u.Views.Put(ctx, ports.CachedView{
		Key:        key,
		Payload:    payload,
		ComputedAt: view.ComputedAt,
	}); err != nil {
		return ports.AssignmentView{}, false, err
	}
	return view, false, nil
}

func (u AssignmentViewUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
