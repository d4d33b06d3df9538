package reconciliation

import (
	"log/slog"
	"time"

	httpadapter "accessdeck/contexts/identity-access/reconciliation-service/adapters/http"
	"accessdeck/contexts/identity-access/reconciliation-service/adapters/memory"
	"accessdeck/contexts/identity-access/reconciliation-service/adapters/notify"
	"accessdeck/contexts/identity-access/reconciliation-service/application/commands"
	"accessdeck/contexts/identity-access/reconciliation-service/application/queries"
	"accessdeck/contexts/identity-access/reconciliation-service/application/workers"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

// Module is the reconciliation-service composition root exposed to runtime wiring.
type Module struct {
	Handler     httpadapter.Handler
	SyncMonitor *workers.SyncStatusMonitor
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
}

// Dependencies captures all runtime ports/config required by NewModule.
type Dependencies struct {
	Directory   ports.DirectorySource
	Jobs        ports.SyncJobSource
	Writer      ports.AssignmentWriter
	Views       ports.ViewCache
	Outbox      ports.OutboxRepository
	Publisher   ports.AccessChangedPublisher
	Notifier    ports.NotificationSink
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	RunningPoll time.Duration
	IdlePoll    time.Duration
	Logger      *slog.Logger
}

// NewModule wires the reconciliation use-cases, workers, and transport handler
// using explicit ports.
func NewModule(deps Dependencies) Module {
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.NewLoggerSink(deps.Logger)
	}

	accessView := queries.AccessViewUseCase{
		Directory: deps.Directory,
		Views:     deps.Views,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	assignmentView := queries.AssignmentViewUseCase{
		Directory: deps.Directory,
		Views:     deps.Views,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	licenseView := queries.LicenseViewUseCase{
		Directory: deps.Directory,
		Views:     deps.Views,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	syncJobs := queries.ListSyncJobsUseCase{
		Jobs:        deps.Jobs,
		RunningPoll: deps.RunningPoll,
		IdlePoll:    deps.IdlePoll,
		Logger:      deps.Logger,
	}
	assign := commands.AssignPrincipalUseCase{
		Directory:   deps.Directory,
		Writer:      deps.Writer,
		Views:       deps.Views,
		Notifier:    notifier,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	unassign := commands.UnassignPrincipalUseCase{
		Directory:   deps.Directory,
		Writer:      deps.Writer,
		Views:       deps.Views,
		Notifier:    notifier,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}
	updateCost := commands.UpdateLicenseCostUseCase{
		Writer:      deps.Writer,
		Views:       deps.Views,
		Notifier:    notifier,
		Clock:       deps.Clock,
		IDGenerator: deps.IDGenerator,
		Logger:      deps.Logger,
	}

	handler := httpadapter.Handler{
		AccessView:     accessView,
		AssignmentView: assignmentView,
		LicenseView:    licenseView,
		SyncJobs:       syncJobs,
		Assign:         assign,
		Unassign:       unassign,
		UpdateCost:     updateCost,
		Logger:         deps.Logger,
	}

	return Module{
		Handler: handler,
		SyncMonitor: &workers.SyncStatusMonitor{
			Jobs:        deps.Jobs,
			Publisher:   deps.Publisher,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule builds a development/testing module with in-memory adapters.
func NewInMemoryModule(publisher ports.AccessChangedPublisher, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Directory:   store,
		Jobs:        store,
		Writer:      store,
		Views:       store,
		Outbox:      store,
		Publisher:   publisher,
		Clock:       store,
		IDGenerator: store,
		RunningPoll: 3 * time.Second,
		IdlePoll:    15 * time.Second,
		Logger:      logger,
	})
	module.Store = store
	return module
}
