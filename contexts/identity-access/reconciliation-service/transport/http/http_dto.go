package httptransport

import "time"

// AccessItemDTO is one unified access row as rendered by the console.
type AccessItemDTO struct {
	ApplicationID   string     `json:"application_id"`
	ApplicationName string     `json:"application_name"`
	Category        string     `json:"category"`
	Vendor          string     `json:"vendor,omitempty"`
	AccessType      string     `json:"access_type"`
	AccessStatus    string     `json:"access_status"`
	LastUpdated     *time.Time `json:"last_updated,omitempty"`
	DetailCapable   bool       `json:"detail_capable"`
}

type AccessSummaryDTO struct {
	Total            int `json:"total"`
	InternalCount    int `json:"internal_count"`
	ExternalCount    int `json:"external_count"`
	ActiveCount      int `json:"active_count"`
	SuspendedCount   int `json:"suspended_count"`
	GrantedCount     int `json:"granted_count"`
	NotFoundCount    int `json:"not_found_count"`
	UnavailableCount int `json:"unavailable_count"`
}

type AccessViewResponse struct {
	IdentityID string           `json:"identity_id"`
	Items      []AccessItemDTO  `json:"items"`
	Summary    AccessSummaryDTO `json:"summary"`
	LatestSync *time.Time       `json:"latest_sync,omitempty"`
	ComputedAt time.Time        `json:"computed_at"`
}

type AssignmentRowDTO struct {
	AssignmentID    string `json:"assignment_id"`
	PrincipalID     string `json:"principal_id"`
	PrincipalKind   string `json:"principal_kind,omitempty"`
	DisplayName     string `json:"display_name,omitempty"`
	ApplicationName string `json:"application_name"`
	Source          string `json:"source"`
}

type AssignmentViewResponse struct {
	ApplicationName string             `json:"application_name"`
	Rows            []AssignmentRowDTO `json:"rows"`
	ComputedAt      time.Time          `json:"computed_at"`
}

type LicensedItemDTO struct {
	AssignmentID     string  `json:"assignment_id"`
	Product          string  `json:"product"`
	Plan             string  `json:"plan"`
	Billing          string  `json:"billing"`
	UnitPriceMonthly float64 `json:"unit_price_monthly"`
}

type LicenseSummaryDTO struct {
	Total           int     `json:"total"`
	PaidCount       int     `json:"paid_count"`
	FreeCount       int     `json:"free_count"`
	MonthlyTotal    float64 `json:"monthly_total"`
	AnnualizedTotal float64 `json:"annualized_total"`
}

type LicenseViewResponse struct {
	IdentityID string            `json:"identity_id"`
	Items      []LicensedItemDTO `json:"items"`
	Summary    LicenseSummaryDTO `json:"summary"`
	ComputedAt time.Time         `json:"computed_at"`
}

type AssignPrincipalRequest struct {
	ApplicationName string `json:"application_name"`
	PrincipalID     string `json:"principal_id"`
	Source          string `json:"source,omitempty"`
}

type ViewKeyDTO struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

type AssignmentMutationResponse struct {
	AssignmentID    string       `json:"assignment_id"`
	PrincipalID     string       `json:"principal_id"`
	ApplicationName string       `json:"application_name"`
	Source          string       `json:"source"`
	AffectedKeys    []ViewKeyDTO `json:"affected_keys"`
}

type UpdateLicenseCostRequest struct {
	CostPerSeatMonthly float64 `json:"cost_per_seat_monthly"`
	TotalSeats         int     `json:"total_seats"`
}

type CatalogMutationResponse struct {
	ApplicationName    string       `json:"application_name"`
	CostPerSeatMonthly float64      `json:"cost_per_seat_monthly"`
	LicenseTier        string       `json:"license_tier"`
	TotalSeats         int          `json:"total_seats"`
	AssignedSeats      int          `json:"assigned_seats"`
	AffectedKeys       []ViewKeyDTO `json:"affected_keys"`
}

type SyncJobDTO struct {
	JobName         string     `json:"job_name"`
	RawStatus       string     `json:"raw_status"`
	EffectiveStatus string     `json:"effective_status"`
	LastRunAt       *time.Time `json:"last_run_at,omitempty"`
	LastSuccessAt   *time.Time `json:"last_success_at,omitempty"`
	LastFailureAt   *time.Time `json:"last_failure_at,omitempty"`
	Progress        int        `json:"progress"`
	CurrentStep     string     `json:"current_step,omitempty"`
	ErrorDetail     string     `json:"error_detail,omitempty"`
}

type SyncJobsResponse struct {
	Jobs       []SyncJobDTO `json:"jobs"`
	AnyRunning bool         `json:"any_running"`
	NextPollMs int64        `json:"next_poll_ms"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
