package httpadapter

import (
	"context"
	"log/slog"

	application "accessdeck/contexts/identity-access/reconciliation-service/application"
	"accessdeck/contexts/identity-access/reconciliation-service/application/commands"
	"accessdeck/contexts/identity-access/reconciliation-service/application/queries"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
	"accessdeck/contexts/identity-access/reconciliation-service/domain/services"
	"accessdeck/contexts/identity-access/reconciliation-service/ports"
	csvexport "accessdeck/contexts/identity-access/reconciliation-service/transport/csv"
	httptransport "accessdeck/contexts/identity-access/reconciliation-service/transport/http"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	AccessView     queries.AccessViewUseCase
	AssignmentView queries.AssignmentViewUseCase
	LicenseView    queries.LicenseViewUseCase
	SyncJobs       queries.ListSyncJobsUseCase
	Assign         commands.AssignPrincipalUseCase
	Unassign       commands.UnassignPrincipalUseCase
	UpdateCost     commands.UpdateLicenseCostUseCase
	Logger         *slog.Logger
}

// AccessViewHandler resolves the unified access view for one identity.
func (h Handler) AccessViewHandler(
	ctx context.Context,
	identityID string,
	segment string,
	query string,
) (httptransport.AccessViewResponse, error) {
	view, err := h.AccessView.Execute(ctx, queries.AccessViewQuery{
		IdentityID: identityID,
		Segment:    services.ParseSegment(segment),
		Query:      query,
	})
	if err != nil {
		h.logError("access view", identityID, err)
		return httptransport.AccessViewResponse{}, err
	}

	items := make([]httptransport.AccessItemDTO, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, httptransport.AccessItemDTO{
			ApplicationID:   item.ApplicationID,
			ApplicationName: item.ApplicationName,
			Category:        item.Category,
			Vendor:          item.VendorLabel,
			AccessType:      string(item.AccessType),
			AccessStatus:    string(item.AccessStatus),
			LastUpdated:     item.LastUpdated,
			DetailCapable:   item.DetailCapable,
		})
	}
	return httptransport.AccessViewResponse{
		IdentityID: view.IdentityID,
		Items:      items,
		Summary:    summaryDTO(view.Summary),
		LatestSync: view.LatestSync,
		ComputedAt: view.ComputedAt,
	}, nil
}

// AssignmentViewHandler resolves the per-application assignment view.
func (h Handler) AssignmentViewHandler(
	ctx context.Context,
	applicationName string,
	segment string,
	query string,
) (httptransport.AssignmentViewResponse, error) {
	view, err := h.AssignmentView.Execute(ctx, queries.AssignmentViewQuery{
		ApplicationName: applicationName,
		Segment:         services.ParsePrincipalSegment(segment),
		Query:           query,
	})
	if err != nil {
		h.logError("assignment view", applicationName, err)
		return httptransport.AssignmentViewResponse{}, err
	}

	rows := make([]httptransport.AssignmentRowDTO, 0, len(view.Rows))
	for _, row := range view.Rows {
		rows = append(rows, httptransport.AssignmentRowDTO{
			AssignmentID:    row.AssignmentID,
			PrincipalID:     row.PrincipalID,
			PrincipalKind:   string(row.PrincipalKind),
			DisplayName:     row.DisplayName,
			ApplicationName: row.ApplicationName,
			Source:          string(row.Source),
		})
	}
	return httptransport.AssignmentViewResponse{
		ApplicationName: view.ApplicationName,
		Rows:            rows,
		ComputedAt:      view.ComputedAt,
	}, nil
}

// LicenseViewHandler resolves the license cost panel for one identity.
func (h Handler) LicenseViewHandler(ctx context.Context, identityID string) (httptransport.LicenseViewResponse, error) {
	view, err := h.LicenseView.Execute(ctx, identityID)
	if err != nil {
		h.logError("license view", identityID, err)
		return httptransport.LicenseViewResponse{}, err
	}

	items := make([]httptransport.LicensedItemDTO, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, httptransport.LicensedItemDTO{
			AssignmentID:     item.AssignmentID,
			Product:          item.Product,
			Plan:             item.Plan,
			Billing:          string(item.Billing),
			UnitPriceMonthly: item.UnitPriceMonthly,
		})
	}
	return httptransport.LicenseViewResponse{
		IdentityID: view.IdentityID,
		Items:      items,
		Summary: httptransport.LicenseSummaryDTO{
			Total:           view.Summary.Total,
			PaidCount:       view.Summary.PaidCount,
			FreeCount:       view.Summary.FreeCount,
			MonthlyTotal:    view.Summary.MonthlyTotal,
			AnnualizedTotal: view.Summary.AnnualizedTotal,
		},
		ComputedAt: view.ComputedAt,
	}, nil
}

// SyncJobsHandler lists background jobs with derived statuses.
func (h Handler) SyncJobsHandler(ctx context.Context) (httptransport.SyncJobsResponse, error) {
	result, err := h.SyncJobs.Execute(ctx)
	if err != nil {
		h.logError("sync jobs", "", err)
		return httptransport.SyncJobsResponse{}, err
	}

	jobs := make([]httptransport.SyncJobDTO, 0, len(result.Jobs))
	for _, job := range result.Jobs {
		jobs = append(jobs, httptransport.SyncJobDTO{
			JobName:         job.Record.JobName,
			RawStatus:       string(job.Record.RawStatus),
			EffectiveStatus: string(job.Effective),
			LastRunAt:       job.Record.LastRunAt,
			LastSuccessAt:   job.Record.LastSuccessAt,
			LastFailureAt:   job.Record.LastFailureAt,
			Progress:        job.Record.Progress,
			CurrentStep:     job.Record.CurrentStep,
			ErrorDetail:     job.Record.ErrorDetail,
		})
	}
	return httptransport.SyncJobsResponse{
		Jobs:       jobs,
		AnyRunning: result.AnyRunning,
		NextPollMs: result.NextPoll.Milliseconds(),
	}, nil
}

// AssignHandler creates one seat assignment.
func (h Handler) AssignHandler(
	ctx context.Context,
	requestedBy string,
	request httptransport.AssignPrincipalRequest,
) (httptransport.AssignmentMutationResponse, error) {
	result, err := h.Assign.Execute(ctx, commands.AssignPrincipalCommand{
		ApplicationName: request.ApplicationName,
		PrincipalID:     request.PrincipalID,
		Source:          entities.AssignmentSource(request.Source),
		RequestedBy:     requestedBy,
	})
	if err != nil {
		return httptransport.AssignmentMutationResponse{}, err
	}
	return mutationResponse(result), nil
}

// UnassignHandler removes one seat assignment by id.
func (h Handler) UnassignHandler(
	ctx context.Context,
	requestedBy string,
	assignmentID string,
) (httptransport.AssignmentMutationResponse, error) {
	result, err := h.Unassign.Execute(ctx, commands.UnassignPrincipalCommand{
		AssignmentID: assignmentID,
		RequestedBy:  requestedBy,
	})
	if err != nil {
		return httptransport.AssignmentMutationResponse{}, err
	}
	return mutationResponse(result), nil
}

// UpdateCostHandler sets one catalog entry's cost and seat count.
func (h Handler) UpdateCostHandler(
	ctx context.Context,
	requestedBy string,
	applicationName string,
	request httptransport.UpdateLicenseCostRequest,
) (httptransport.CatalogMutationResponse, error) {
	result, err := h.UpdateCost.Execute(ctx, commands.UpdateLicenseCostCommand{
		ApplicationName:    applicationName,
		CostPerSeatMonthly: request.CostPerSeatMonthly,
		TotalSeats:         request.TotalSeats,
		RequestedBy:        requestedBy,
	})
	if err != nil {
		return httptransport.CatalogMutationResponse{}, err
	}
	return httptransport.CatalogMutationResponse{
		ApplicationName:    result.Entry.ApplicationName,
		CostPerSeatMonthly: result.Entry.CostPerSeatMonthly,
		LicenseTier:        result.Entry.LicenseTier,
		TotalSeats:         result.Entry.TotalSeats,
		AssignedSeats:      result.Entry.AssignedSeats,
		AffectedKeys:       keyDTOs(result.AffectedKeys),
	}, nil
}

// ExportAccessCSV renders one identity's filtered access rows for download.
func (h Handler) ExportAccessCSV(
	ctx context.Context,
	identityID string,
	segment string,
	query string,
) (string, error) {
	view, err := h.AccessView.Execute(ctx, queries.AccessViewQuery{
		IdentityID: identityID,
		Segment:    services.ParseSegment(segment),
		Query:      query,
	})
	if err != nil {
		h.logError("access export", identityID, err)
		return "", err
	}
	return csvexport.EncodeAccessItems(view.Items)
}

// ExportLicensesCSV renders one identity's license rows for download.
func (h Handler) ExportLicensesCSV(ctx context.Context, identityID string) (string, error) {
	view, err := h.LicenseView.Execute(ctx, identityID)
	if err != nil {
		h.logError("license export", identityID, err)
		return "", err
	}
	return csvexport.EncodeLicenseItems(view.Items)
}

func (h Handler) logError(operation string, subject string, err error) {
	application.ResolveLogger(h.Logger).Error("http "+operation+" failed",
		"event", "recon_http_failed",
		"module", "identity-access/reconciliation-service",
		"layer", "transport",
		"operation", operation,
		"subject", subject,
		"error", err.Error(),
	)
}

func summaryDTO(summary entities.AccessSummary) httptransport.AccessSummaryDTO {
	return httptransport.AccessSummaryDTO{
		Total:            summary.Total,
		InternalCount:    summary.InternalCount,
		ExternalCount:    summary.ExternalCount,
		ActiveCount:      summary.ActiveCount,
		SuspendedCount:   summary.SuspendedCount,
		GrantedCount:     summary.GrantedCount,
		NotFoundCount:    summary.NotFoundCount,
		UnavailableCount: summary.UnavailableCount,
	}
}

func mutationResponse(result ports.AssignmentMutationResult) httptransport.AssignmentMutationResponse {
	return httptransport.AssignmentMutationResponse{
		AssignmentID:    result.Assignment.AssignmentID,
		PrincipalID:     result.Assignment.IdentityID,
		ApplicationName: result.Assignment.ApplicationName,
		Source:          string(result.Assignment.Source),
		AffectedKeys:    keyDTOs(result.AffectedKeys),
	}
}

func keyDTOs(keys []ports.ViewKey) []httptransport.ViewKeyDTO {
	items := make([]httptransport.ViewKeyDTO, 0, len(keys))
	for _, key := range keys {
		items = append(items, httptransport.ViewKeyDTO{
			Kind: string(key.Kind),
			ID:   key.ID,
		})
	}
	return items
}
