package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"accessdeck/contexts/identity-access/reconciliation-service/adapters/memory"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
	domainerrors "accessdeck/contexts/identity-access/reconciliation-service/domain/errors"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time {
	return c.at
}

type recordingSink struct {
	levels   []ports.NotificationLevel
	messages []string
}

func (s *recordingSink) Notify(_ context.Context, level ports.NotificationLevel, message string) {
	s.levels = append(s.levels, level)
	s.messages = append(s.messages, message)
}

type failingWriter struct {
	err error
}

func (w failingWriter) CreateAssignment(context.Context, ports.CreateAssignmentInput) (entities.LicenseAssignment, error) {
	return entities.LicenseAssignment{}, w.err
}

func (w failingWriter) RemoveAssignment(context.Context, ports.RemoveAssignmentInput) (entities.LicenseAssignment, error) {
	return entities.LicenseAssignment{}, w.err
}

func (w failingWriter) UpdateCatalogCost(context.Context, ports.UpdateCatalogCostInput) (entities.LicenseCatalogEntry, error) {
	return entities.LicenseCatalogEntry{}, w.err
}

func seedView(t *testing.T, store *memory.Store, key ports.ViewKey) {
	t.Helper()
	err := store.Put(context.Background(), ports.CachedView{
		Key:        key,
		Payload:    []byte(`{}`),
		ComputedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed view failed: %v", err)
	}
}

func viewExists(t *testing.T, store *memory.Store, key ports.ViewKey) bool {
	t.Helper()
	_, found, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get view failed: %v", err)
	}
	return found
}

func TestAssignPrincipalInvalidatesAffectedViews(t *testing.T) {
	store := memory.NewStore()
	sink := &recordingSink{}
	useCase := AssignPrincipalUseCase{
		Directory:   store,
		Writer:      store,
		Views:       store,
		Notifier:    sink,
		Clock:       fixedClock{at: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)},
		IDGenerator: store,
	}

	accessKey := ports.ViewKey{Kind: ports.ViewIdentityAccess, ID: "svc_2001"}
	licenseKey := ports.ViewKey{Kind: ports.ViewIdentityLicenses, ID: "svc_2001"}
	appKey := ports.ViewKey{Kind: ports.ViewApplicationAssignments, ID: "Google Workspace"}
	seedView(t, store, accessKey)
	seedView(t, store, licenseKey)
	seedView(t, store, appKey)

	result, err := useCase.Execute(context.Background(), AssignPrincipalCommand{
		ApplicationName: "Google Workspace",
		PrincipalID:     "svc_2001",
		RequestedBy:     "admin_1",
	})
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if result.Assignment.AssignmentID == "" {
		t.Fatal("expected generated assignment id")
	}
	if result.Assignment.Source != entities.AssignmentSourceManual {
		t.Fatalf("empty source must default to manual, got %q", result.Assignment.Source)
	}
	if len(result.AffectedKeys) != 3 {
		t.Fatalf("expected 3 affected keys, got %+v", result.AffectedKeys)
	}

	for _, key := range []ports.ViewKey{accessKey, licenseKey, appKey} {
		if viewExists(t, store, key) {
			t.Fatalf("expected %v to be invalidated", key)
		}
	}
	if len(sink.levels) != 1 || sink.levels[0] != ports.NotifySuccess {
		t.Fatalf("expected one success notification, got %+v", sink.levels)
	}
}

func TestAssignPrincipalRemoteFailureInvalidatesNothing(t *testing.T) {
	store := memory.NewStore()
	sink := &recordingSink{}
	useCase := AssignPrincipalUseCase{
		Directory:   store,
		Writer:      failingWriter{err: errors.New("gateway timeout")},
		Views:       store,
		Notifier:    sink,
		Clock:       fixedClock{at: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)},
		IDGenerator: store,
	}

	accessKey := ports.ViewKey{Kind: ports.ViewIdentityAccess, ID: "emp_1001"}
	seedView(t, store, accessKey)

	_, err := useCase.Execute(context.Background(), AssignPrincipalCommand{
		ApplicationName: "Notion",
		PrincipalID:     "emp_1001",
	})
	if !errors.Is(err, domainerrors.ErrRemoteWriteFailed) {
		t.Fatalf("expected remote write failure, got %v", err)
	}
	if !viewExists(t, store, accessKey) {
		t.Fatal("remote failure must not invalidate cached views")
	}
	if len(sink.levels) != 1 || sink.levels[0] != ports.NotifyError {
		t.Fatalf("expected one error notification, got %+v", sink.levels)
	}
}

func TestAssignPrincipalValidation(t *testing.T) {
	store := memory.NewStore()
	useCase := AssignPrincipalUseCase{Directory: store, Writer: store, Views: store, IDGenerator: store}

	_, err := useCase.Execute(context.Background(), AssignPrincipalCommand{PrincipalID: "emp_1001"})
	if !errors.Is(err, domainerrors.ErrInvalidApplication) {
		t.Fatalf("expected invalid application, got %v", err)
	}
	_, err = useCase.Execute(context.Background(), AssignPrincipalCommand{ApplicationName: "Notion"})
	if !errors.Is(err, domainerrors.ErrInvalidPrincipal) {
		t.Fatalf("expected invalid principal, got %v", err)
	}
	_, err = useCase.Execute(context.Background(), AssignPrincipalCommand{ApplicationName: "Notion", PrincipalID: "ghost"})
	if !errors.Is(err, domainerrors.ErrIdentityNotFound) {
		t.Fatalf("expected identity not found, got %v", err)
	}
}

func TestAssignPrincipalDuplicateKeepsDomainError(t *testing.T) {
	store := memory.NewStore()
	useCase := AssignPrincipalUseCase{Directory: store, Writer: store, Views: store, IDGenerator: store}

	// emp_1001 already holds the seeded Google Workspace seat.
	_, err := useCase.Execute(context.Background(), AssignPrincipalCommand{
		ApplicationName: "Google Workspace",
		PrincipalID:     "emp_1001",
	})
	if !errors.Is(err, domainerrors.ErrAssignmentExists) {
		t.Fatalf("expected assignment exists, got %v", err)
	}
	if errors.Is(err, domainerrors.ErrRemoteWriteFailed) {
		t.Fatal("domain sentinel must not be wrapped as a remote failure")
	}
}

func TestSupersededCompletionDoesNotInvalidate(t *testing.T) {
	store := memory.NewStore()
	key := ports.ViewKey{Kind: ports.ViewIdentityAccess, ID: "emp_1001"}

	first, err := store.Dispatch(context.Background(), key)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	second, err := store.Dispatch(context.Background(), key)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if second <= first {
		t.Fatalf("sequences must increase, got %d then %d", first, second)
	}

	seedView(t, store, key)
	applied, err := store.Invalidate(context.Background(), key, first)
	if err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}
	if applied {
		t.Fatal("stale completion must be ignored")
	}
	if !viewExists(t, store, key) {
		t.Fatal("stale completion must not drop the view")
	}

	applied, err = store.Invalidate(context.Background(), key, second)
	if err != nil || !applied {
		t.Fatalf("latest completion must apply: applied=%v err=%v", applied, err)
	}
	if viewExists(t, store, key) {
		t.Fatal("latest completion must drop the view")
	}
}
