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

// AccessViewQuery requests the unified access list for one identity.
// Segment and Query narrow the returned items; the summary and latest-sync
// rollups always cover the full unfiltered aggregation.
type AccessViewQuery struct {
	IdentityID string
	Segment    services.Segment
	Query      string
}

// AccessViewUseCase aggregates platform records and internal grants into the
// unified access view, caching the full derivation per identity. Staleness is
// recompute-on-next-read: an invalidated key simply misses the cache here.
type AccessViewUseCase struct {
	Directory ports.DirectorySource
	Views     ports.ViewCache
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (u AccessViewUseCase) Execute(ctx context.Context, query AccessViewQuery) (ports.AccessView, error) {
	if strings.TrimSpace(query.IdentityID) == "" {
		return ports.AccessView{}, domainerrors.ErrInvalidIdentityID
	}

	logger := application.ResolveLogger(u.Logger)
	view, cacheHit, err := u.loadView(ctx, query.IdentityID)
	if err != nil {
		return ports.AccessView{}, err
	}
	logger.Debug("access view resolved",
		"event", "access_view_resolved",
		"module", "identity-access/reconciliation-service",
		"layer", "application",
		"identity_id", query.IdentityID,
		"item_count", len(view.Items),
		"cache_hit", cacheHit,
	)

	view.Items = services.FilterAccessItems(view.Items, query.Segment, query.Query)
	return view, nil
}

func (u AccessViewUseCase) loadView(ctx context.Context, identityID string) (ports.AccessView, bool, error) {
	key := ports.ViewKey{Kind: ports.ViewIdentityAccess, ID: identityID}
	if cached, found, err := u.Views.Get(ctx, key); err != nil {
		return ports.AccessView{}, false, err
	} else if found {
		var view ports.AccessView
		if err := json.Unmarshal(cached.Payload, &view); err == nil {
			return view, true, nil
		}
		// Undecodable cache entries fall through to recompute.
	}

	records, err := u.Directory.PlatformAccounts(ctx, identityID)
	if err != nil {
		return ports.AccessView{}, false, err
	}
	grants, err := u.Directory.InternalGrants(ctx, identityID)
	if err != nil {
		return ports.AccessView{}, false, err
	}

	items := services.AggregateAccess(records, grants)
	view := ports.AccessView{
		IdentityID: identityID,
		Items:      items,
		Summary:    services.Summarize(items),
		LatestSync: services.LatestSync(items),
		ComputedAt: u.now(),
	}

	payload, err := json.Marshal(view)
	if err != nil {
		return ports.AccessView{}, false, err
	}
	if err := u.Views.Put(ctx, ports.CachedView{
		Key:        key,
		Payload:    payload,
		ComputedAt: view.ComputedAt,
	}); err != nil {
		return ports.AccessView{}, false, err
	}
	return view, false, nil
}

func (u AccessViewUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
