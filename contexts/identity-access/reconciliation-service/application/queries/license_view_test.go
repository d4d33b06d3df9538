package queries

import (
	"context"
	"testing"
	"time"

	"accessdeck/contexts/identity-access/reconciliation-service/adapters/memory"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

func TestLicenseViewJoinsSeededCatalog(t *testing.T) {
	store := memory.NewStore()
	useCase := LicenseViewUseCase{
		Directory: store,
		Views:     store,
		Clock:     fixedClock{at: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)},
	}

	view, err := useCase.Execute(context.Background(), "emp_1001")
	if err != nil {
		t.Fatalf("license view failed: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected 1 licensed item, got %d", len(view.Items))
	}
	item := view.Items[0]
	if item.Product != "Google Workspace" || item.Plan != "Business Standard" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.Billing != entities.BillingMonthly || item.UnitPriceMonthly != 12.50 {
		t.Fatalf("unexpected billing: %+v", item)
	}
	if view.Summary.AnnualizedTotal != 150 {
		t.Fatalf("expected annualized 150, got %v", view.Summary.AnnualizedTotal)
	}
}

func TestLicenseViewRecordsCatalogDependencies(t *testing.T) {
	store := memory.NewStore()
	useCase := LicenseViewUseCase{
		Directory: store,
		Views:     store,
		Clock:     fixedClock{at: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)},
	}

	if _, err := useCase.Execute(context.Background(), "emp_1001"); err != nil {
		t.Fatalf("license view failed: %v", err)
	}

	cached, found, err := store.Get(context.Background(), ports.ViewKey{Kind: ports.ViewIdentityLicenses, ID: "emp_1001"})
	if err != nil || !found {
		t.Fatalf("expected cached license view, found=%v err=%v", found, err)
	}
	if len(cached.DependsOn) != 1 {
		t.Fatalf("expected one catalog dependency, got %+v", cached.DependsOn)
	}
	dep := cached.DependsOn[0]
	if dep.Kind != ports.ViewCatalogEntry || dep.ID != "Google Workspace" {
		t.Fatalf("unexpected dependency: %+v", dep)
	}
}
