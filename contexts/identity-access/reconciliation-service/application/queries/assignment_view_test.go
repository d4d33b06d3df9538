package queries

import (
	"context"
	"testing"
	"time"

	"accessdeck/contexts/identity-access/reconciliation-service/adapters/memory"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/services"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

func TestAssignmentViewResolvesPrincipals(t *testing.T) {
	store := memory.NewStore()
	useCase := AssignmentViewUseCase{
		Directory: store,
		Views:     store,
		Clock:     fixedClock{at: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)},
	}

	view, err := useCase.Execute(context.Background(), AssignmentViewQuery{ApplicationName: "Google Workspace"})
	if err != nil {
		t.Fatalf("assignment view failed: %v", err)
	}
	if len(view.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(view.Rows))
	}
	row := view.Rows[0]
	if row.PrincipalID != "emp_1001" || row.DisplayName != "Dana Whitfield" {
		t.Fatalf("expected resolved principal, got %+v", row)
	}
	if row.PrincipalKind != entities.IdentityKindEmployee {
		t.Fatalf("unexpected kind %q", row.PrincipalKind)
	}
}

func TestAssignmentViewDanglingPrincipalRendersBareRow(t *testing.T) {
	store := memory.NewStore()
	_, err := store.CreateAssignment(context.Background(), ports.CreateAssignmentInput{
		AssignmentID:    "asg_svc",
		OutboxID:        "out_svc",
		IdentityID:      "svc_2001",
		ApplicationName: "Google Workspace",
		Source:          entities.AssignmentSourceManual,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed assignment failed: %v", err)
	}

	// A directory source that cannot resolve identities any more.
	useCase := AssignmentViewUseCase{
		Directory: unresolvedDirectory{DirectorySource: store},
		Views:     store,
		Clock:     fixedClock{at: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)},
	}

	view, err := useCase.Execute(context.Background(), AssignmentViewQuery{ApplicationName: "Google Workspace"})
	if err != nil {
		t.Fatalf("assignment view failed: %v", err)
	}
	if len(view.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(view.Rows))
	}
	for _, row := range view.Rows {
		if row.DisplayName != "" || row.PrincipalKind != "" {
			t.Fatalf("dangling principal must render bare, got %+v", row)
		}
		if row.PrincipalID == "" {
			t.Fatal("principal id survives even when unresolved")
		}
	}
}

func TestAssignmentViewSegmentFilter(t *testing.T) {
	store := memory.NewStore()
	_, err := store.CreateAssignment(context.Background(), ports.CreateAssignmentInput{
		AssignmentID:    "asg_svc",
		OutboxID:        "out_svc",
		IdentityID:      "svc_2001",
		ApplicationName: "Google Workspace",
		Source:          entities.AssignmentSourceAutomatedSync,
		CreatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed assignment failed: %v", err)
	}
	useCase := AssignmentViewUseCase{Directory: store, Views: store}

	view, err := useCase.Execute(context.Background(), AssignmentViewQuery{
		ApplicationName: "Google Workspace",
		Segment:         services.PrincipalSegmentManaged,
	})
	if err != nil {
		t.Fatalf("assignment view failed: %v", err)
	}
	if len(view.Rows) != 1 || view.Rows[0].PrincipalID != "svc_2001" {
		t.Fatalf("expected only the managed account, got %+v", view.Rows)
	}
}

type unresolvedDirectory struct {
	ports.DirectorySource
}

func (d unresolvedDirectory) Identity(context.Context, string) (entities.Identity, error) {
	return entities.Identity{}, context.DeadlineExceeded
}
