package entities

// IdentityKind distinguishes humans from managed (non-human) accounts.
type IdentityKind string

const (
	IdentityKindEmployee       IdentityKind = "employee"
	IdentityKindManagedAccount IdentityKind = "managed_account"
)

// Identity is a read-only input owned by the employee/account subsystem.
type Identity struct {
	ID          string
	Kind        IdentityKind
	DisplayName string
}
