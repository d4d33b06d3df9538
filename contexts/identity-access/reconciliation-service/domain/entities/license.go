package entities

// AssignmentSource records how a seat binding came to exist.
type AssignmentSource string

const (
	AssignmentSourceManual        AssignmentSource = "manual"
	AssignmentSourceAutomatedSync AssignmentSource = "automated_sync"
)

// LicenseAssignment is one seat binding between a principal and an application.
type LicenseAssignment struct {
	AssignmentID    string
	IdentityID      string
	ApplicationName string
	Source          AssignmentSource
}

// LicenseCatalogEntry holds per-application billing data. Mutated only through
// the catalog cost-update command.
type LicenseCatalogEntry struct {
	ApplicationName    string
	CostPerSeatMonthly float64
	LicenseTier        string
	TotalSeats         int
	AssignedSeats      int
}

// BillingKind is derived purely from unit price: Free iff the price is zero.
type BillingKind string

const (
	BillingMonthly BillingKind = "monthly"
	BillingFree    BillingKind = "free"
)

// LicensedItem is the derived per-assignment license row.
type LicensedItem struct {
	AssignmentID     string
	Product          string
	Plan             string
	Billing          BillingKind
	UnitPriceMonthly float64
}

// LicenseSummary aggregates one identity's licensed items.
type LicenseSummary struct {
	Total           int
	PaidCount       int
	FreeCount       int
	MonthlyTotal    float64
	AnnualizedTotal float64
}

// AssignmentRow is one principal holding a seat on an application, as shown
// in the per-application assignment view. Derived only.
type AssignmentRow struct {
	AssignmentID    string
	PrincipalID     string
	PrincipalKind   IdentityKind
	DisplayName     string
	ApplicationName string
	Source          AssignmentSource
}
