package services

import "accessdeck/contexts/identity-access/reconciliation-service/domain/entities"

const defaultLicenseTier = "Standard"

// LicenseView is the derived license panel for one identity.
type LicenseView struct {
	Items   []entities.LicensedItem
	Summary entities.LicenseSummary
}

// ComputeLicenseView joins seat assignments to the catalog by application
// name. Missing catalog data never fails the derivation: an absent entry
// degrades to zero cost on the default tier.
func ComputeLicenseView(
	assignments []entities.LicenseAssignment,
	catalog []entities.LicenseCatalogEntry,
) LicenseView {
	byName := make(map[string]entities.LicenseCatalogEntry, len(catalog))
	for _, entry := range catalog {
		byName[entry.ApplicationName] = entry
	}

	view := LicenseView{Items: make([]entities.LicensedItem, 0, len(assignments))}
	for _, assignment := range assignments {
		entry, ok := byName[assignment.ApplicationName]
		if !ok {
			entry = entities.LicenseCatalogEntry{
				ApplicationName: assignment.ApplicationName,
				LicenseTier:     defaultLicenseTier,
			}
		}
		billing := entities.BillingFree
		if entry.CostPerSeatMonthly > 0 {
			billing = entities.BillingMonthly
		}
		view.Items = append(view.Items, entities.LicensedItem{
			AssignmentID:     assignment.AssignmentID,
			Product:          assignment.ApplicationName,
			Plan:             entry.LicenseTier,
			Billing:          billing,
			UnitPriceMonthly: entry.CostPerSeatMonthly,
		})

		view.Summary.Total++
		if billing == entities.BillingMonthly {
			view.Summary.PaidCount++
		} else {
			view.Summary.FreeCount++
		}
		view.Summary.MonthlyTotal += entry.CostPerSeatMonthly
	}
	view.Summary.AnnualizedTotal = view.Summary.MonthlyTotal * 12
	return view
}

// SeatUtilization reports assigned versus total seats for a catalog entry.
// Zero total seats yields zero utilization rather than dividing by zero.
func SeatUtilization(entry entities.LicenseCatalogEntry) float64 {
	if entry.TotalSeats <= 0 {
		return 0
	}
	return float64(entry.AssignedSeats) / float64(entry.TotalSeats)
}
