package queries

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "accessdeck/contexts/identity-access/reconciliation-service/application"
	domainerrors "accessdeck/contexts/identity-access/reconciliation-service/domain/errors"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/services"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

// LicenseViewUseCase joins one identity's seat assignments to the license
// catalog. The cached view records its catalog-entry dependencies so a
// cost update invalidates exactly the views computed from that entry.
type LicenseViewUseCase struct {
	Directory ports.DirectorySource
	Views     ports.ViewCache
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (u LicenseViewUseCase) Execute(ctx context.Context, identityID string) (ports.LicenseViewResult, error) {
	if strings.TrimSpace(identityID) == "" {
		return ports.LicenseViewResult{}, domainerrors.ErrInvalidIdentityID
	}

	logger := application.ResolveLogger(u.Logger)
	key := ports.ViewKey{Kind: ports.ViewIdentityLicenses, ID: identityID}
	if cached, found, err := u.Views.Get(ctx, key); err != nil {
		return ports.LicenseViewResult{}, err
	} else if found {
		var view ports.LicenseViewResult
		if err := json.Unmarshal(cached.Payload, &view); err == nil {
			logger.Debug("license view cache hit",
				"event", "license_view_cache_hit",
				"module", "identity-access/reconciliation-service",
				"layer", "application",
				"identity_id", identityID,
			)
			return view, nil
		}
	}

	assignments, err := u.Directory.LicenseAssignments(ctx, identityID)
	if err != nil {
		return ports.LicenseViewResult{}, err
	}
	catalog, err := u.Directory.LicenseCatalog(ctx)
	if err != nil {
		return ports.LicenseViewResult{}, err
	}

	computed := services.ComputeLicenseView(assignments, catalog)
	view := ports.LicenseViewResult{
		IdentityID: identityID,
		Items:      computed.Items,
		Summary:    computed.Summary,
		ComputedAt: u.now(),
	}

	dependsOn := make([]ports.ViewKey, 0, len(assignments))
	seen := make(map[string]struct{}, len(assignments))
	for _, assignment := range assignments {
		if _, dup := seen[assignment.ApplicationName]; dup {
			continue
		}
		seen[assignment.ApplicationName] = struct{}{}
		dependsOn = append(dependsOn, ports.ViewKey{Kind: ports.ViewCatalogEntry, ID: assignment.ApplicationName})
	}

	payload, err := json.Marshal(view)
	if err != nil {
		return ports.LicenseViewResult{}, err
	}
	if err := u.Views.Put(ctx, ports.CachedView{
		Key:        key,
		Payload:    payload,
		DependsOn:  dependsOn,
		ComputedAt: view.ComputedAt,
	}); err != nil {
		return ports.LicenseViewResult{}, err
	}
	return view, nil
}

func (u LicenseViewUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
