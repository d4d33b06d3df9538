package postgresadapter

import "time"

type identityModel struct {
	IdentityID  string `gorm:"column:identity_id;primaryKey"`
	Kind        string `gorm:"column:kind"`
	DisplayName string `gorm:"column:display_name"`
}

func (identityModel) TableName() string {
	return "identities"
}

type platformAccountModel struct {
	IdentityID   string     `gorm:"column:identity_id;primaryKey"`
	Platform     string     `gorm:"column:platform;primaryKey"`
	RawStatus    string     `gorm:"column:raw_status"`
	LastSyncedAt *time.Time `gorm:"column:last_synced_at"`
	Details      []byte     `gorm:"column:details"`
}

func (platformAccountModel) TableName() string {
	return "platform_accounts"
}

type internalGrantModel struct {
	IdentityID      string    `gorm:"column:identity_id;primaryKey"`
	ApplicationName string    `gorm:"column:application_name;primaryKey"`
	Role            string    `gorm:"column:role"`
	GrantedAt       time.Time `gorm:"column:granted_at"`
	RequestTicketID string    `gorm:"column:request_ticket_id"`
}

func (internalGrantModel) TableName() string {
	return "internal_grants"
}

type licenseAssignmentModel struct {
	AssignmentID    string    `gorm:"column:assignment_id;primaryKey"`
	IdentityID      string    `gorm:"column:identity_id"`
	ApplicationName string    `gorm:"column:application_name"`
	Source          string    `gorm:"column:source"`
	RequestedBy     string    `gorm:"column:requested_by"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (licenseAssignmentModel) TableName() string {
	return "license_assignments"
}

type licenseCatalogModel struct {
	ApplicationName    string    `gorm:"column:application_name;primaryKey"`
	CostPerSeatMonthly float64   `gorm:"column:cost_per_seat_monthly"`
	LicenseTier        string    `gorm:"column:license_tier"`
	TotalSeats         int       `gorm:"column:total_seats"`
	AssignedSeats      int       `gorm:"column:assigned_seats"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (licenseCatalogModel) TableName() string {
	return "license_catalog"
}

type syncJobModel struct {
	JobName       string     `gorm:"column:job_name;primaryKey"`
	RawStatus     string     `gorm:"column:raw_status"`
	LastRunAt     *time.Time `gorm:"column:last_run_at"`
	LastSuccessAt *time.Time `gorm:"column:last_success_at"`
	LastFailureAt *time.Time `gorm:"column:last_failure_at"`
	Progress      int        `gorm:"column:progress"`
	CurrentStep   string     `gorm:"column:current_step"`
	ErrorDetail   string     `gorm:"column:error_detail"`
}

func (syncJobModel) TableName() string {
	return "sync_jobs"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "reconciliation_outbox"
}
