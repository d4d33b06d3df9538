package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"accessdeck/contexts/identity-access/reconciliation-service/adapters/memory"
	domainerrors "accessdeck/contexts/identity-access/reconciliation-service/domain/errors"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

type countingViews struct {
	ports.ViewCache
	dispatches int
}

func (v *countingViews) Dispatch(ctx context.Context, key ports.ViewKey) (uint64, error) {
	v.dispatches++
	return v.ViewCache.Dispatch(ctx, key)
}

func TestUpdateLicenseCostRejectsNegativeValuesBeforeDispatch(t *testing.T) {
	store := memory.NewStore()
	views := &countingViews{ViewCache: store}
	useCase := UpdateLicenseCostUseCase{Writer: store, Views: views, IDGenerator: store}

	_, err := useCase.Execute(context.Background(), UpdateLicenseCostCommand{
		ApplicationName:    "Google Workspace",
		CostPerSeatMonthly: -1,
	})
	if !errors.Is(err, domainerrors.ErrNegativeCost) {
		t.Fatalf("expected negative cost error, got %v", err)
	}

	_, err = useCase.Execute(context.Background(), UpdateLicenseCostCommand{
		ApplicationName: "Google Workspace",
		TotalSeats:      -5,
	})
	if !errors.Is(err, domainerrors.ErrNegativeSeats) {
		t.Fatalf("expected negative seats error, got %v", err)
	}

	if views.dispatches != 0 {
		t.Fatalf("validation failures must not dispatch sequences, got %d", views.dispatches)
	}
}

func TestUpdateLicenseCostCascadesToLicenseViews(t *testing.T) {
	store := memory.NewStore()
	useCase := UpdateLicenseCostUseCase{
		Writer:      store,
		Views:       store,
		Clock:       fixedClock{at: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)},
		IDGenerator: store,
	}

	// A cached license view that depends on the mutated catalog entry.
	licenseKey := ports.ViewKey{Kind: ports.ViewIdentityLicenses, ID: "emp_1001"}
	err := store.Put(context.Background(), ports.CachedView{
		Key:       licenseKey,
		Payload:   []byte(`{}`),
		DependsOn: []ports.ViewKey{{Kind: ports.ViewCatalogEntry, ID: "Google Workspace"}},
	})
	if err != nil {
		t.Fatalf("seed view failed: %v", err)
	}

	result, err := useCase.Execute(context.Background(), UpdateLicenseCostCommand{
		ApplicationName:    "Google Workspace",
		CostPerSeatMonthly: 15,
		TotalSeats:         300,
		RequestedBy:        "admin_1",
	})
	if err != nil {
		t.Fatalf("cost update failed: %v", err)
	}
	if result.Entry.CostPerSeatMonthly != 15 || result.Entry.TotalSeats != 300 {
		t.Fatalf("unexpected entry: %+v", result.Entry)
	}
	if len(result.AffectedKeys) != 2 {
		t.Fatalf("expected catalog-entry and assignment-view keys, got %+v", result.AffectedKeys)
	}

	if viewExists(t, store, licenseKey) {
		t.Fatal("catalog invalidation must cascade to dependent license views")
	}
}

func TestUpdateLicenseCostUpsertsMissingEntry(t *testing.T) {
	store := memory.NewStore()
	useCase := UpdateLicenseCostUseCase{Writer: store, Views: store, IDGenerator: store}

	result, err := useCase.Execute(context.Background(), UpdateLicenseCostCommand{
		ApplicationName:    "Notion",
		CostPerSeatMonthly: 8,
		TotalSeats:         50,
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if result.Entry.LicenseTier != "Standard" {
		t.Fatalf("new entries start on the default tier, got %q", result.Entry.LicenseTier)
	}
}
