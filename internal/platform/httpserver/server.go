package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	reconciliation "accessdeck/contexts/identity-access/reconciliation-service"
	reconerrors "accessdeck/contexts/identity-access/reconciliation-service/domain/errors"
	reconhttp "accessdeck/contexts/identity-access/reconciliation-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "accessdeck/internal/platform/httpserver/docs"
)

type Server struct {
	mux            *http.ServeMux
	logger         *slog.Logger
	addr           string
	reconciliation reconciliation.Module
}

func New(
	reconciliationModule reconciliation.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:            http.NewServeMux(),
		logger:         logger,
		addr:           addr,
		reconciliation: reconciliationModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/access/v1/identities/{identity_id}/access", s.handleAccessView)
	s.mux.HandleFunc("GET /api/access/v1/identities/{identity_id}/access/export", s.handleAccessExport)
	s.mux.HandleFunc("GET /api/access/v1/identities/{identity_id}/licenses", s.handleLicenseView)
	s.mux.HandleFunc("GET /api/access/v1/identities/{identity_id}/licenses/export", s.handleLicenseExport)
	s.mux.HandleFunc("GET /api/access/v1/applications/{application_name}/assignments", s.handleAssignmentView)
	s.mux.HandleFunc("POST /api/access/v1/assignments", s.handleAssign)
	s.mux.HandleFunc("DELETE /api/access/v1/assignments/{assignment_id}", s.handleUnassign)
	s.mux.HandleFunc("PUT /api/access/v1/catalog/{application_name}/cost", s.handleUpdateCost)
	s.mux.HandleFunc("GET /api/access/v1/sync-jobs", s.handleSyncJobs)
}

func (s *Server) handleAccessView(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.reconciliation.Handler.AccessViewHandler(
		r.Context(),
		r.PathValue("identity_id"),
		query.Get("segment"),
		query.Get("q"),
	)
	if err != nil {
		writeReconDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccessExport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	csv, err := s.reconciliation.Handler.ExportAccessCSV(
		r.Context(),
		r.PathValue("identity_id"),
		query.Get("segment"),
		query.Get("q"),
	)
	if err != nil {
		writeReconDomainError(w, err)
		return
	}
	writeCSV(w, "access.csv", csv)
}

func (s *Server) handleLicenseView(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reconciliation.Handler.LicenseViewHandler(r.Context(), r.PathValue("identity_id"))
	if err != nil {
		writeReconDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLicenseExport(w http.ResponseWriter, r *http.Request) {
	csv, err := s.reconciliation.Handler.ExportLicensesCSV(r.Context(), r.PathValue("identity_id"))
	if err != nil {
		writeReconDomainError(w, err)
		return
	}
	writeCSV(w, "licenses.csv", csv)
}

func (s *Server) handleAssignmentView(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.reconciliation.Handler.AssignmentViewHandler(
		r.Context(),
		r.PathValue("application_name"),
		query.Get("segment"),
		query.Get("q"),
	)
	if err != nil {
		writeReconDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req reconhttp.AssignPrincipalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReconError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.reconciliation.Handler.AssignHandler(r.Context(), resolveOperatorID(r), req)
	if err != nil {
		writeReconDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUnassign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reconciliation.Handler.UnassignHandler(
		r.Context(),
		resolveOperatorID(r),
		r.PathValue("assignment_id"),
	)
	if err != nil {
		writeReconDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateCost(w http.ResponseWriter, r *http.Request) {
	var req reconhttp.UpdateLicenseCostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeReconError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.reconciliation.Handler.UpdateCostHandler(
		r.Context(),
		resolveOperatorID(r),
		r.PathValue("application_name"),
		req,
	)
	if err != nil {
		writeReconDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSyncJobs(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reconciliation.Handler.SyncJobsHandler(r.Context())
	if err != nil {
		writeReconDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeReconDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reconerrors.ErrInvalidIdentityID),
		errors.Is(err, reconerrors.ErrInvalidApplication),
		errors.Is(err, reconerrors.ErrInvalidPrincipal),
		errors.Is(err, reconerrors.ErrInvalidRequest):
		writeReconError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, reconerrors.ErrNegativeCost),
		errors.Is(err, reconerrors.ErrNegativeSeats):
		writeReconError(w, http.StatusUnprocessableEntity, "invalid_value", err.Error())
	case errors.Is(err, reconerrors.ErrIdentityNotFound),
		errors.Is(err, reconerrors.ErrAssignmentNotFound),
		errors.Is(err, reconerrors.ErrCatalogEntryMissing):
		writeReconError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, reconerrors.ErrAssignmentExists):
		writeReconError(w, http.StatusConflict, "assignment_exists", err.Error())
	case errors.Is(err, reconerrors.ErrRemoteWriteFailed):
		writeReconError(w, http.StatusBadGateway, "remote_write_failed", err.Error())
	default:
		writeReconError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeReconError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, reconhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeCSV(w http.ResponseWriter, filename string, body string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func resolveOperatorID(r *http.Request) string {
	if operator := strings.TrimSpace(r.Header.Get("X-User-Id")); operator != "" {
		return operator
	}
	return strings.TrimSpace(r.Header.Get("X-Admin-Id"))
}
