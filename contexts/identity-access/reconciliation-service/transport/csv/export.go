package csvexport

import (
	"encoding/json"
	"strings"
	"time"

	"accessdeck/contexts/identity-access/reconciliation-service/domain/entities"
)

// Encode serializes rows into the console's CSV interchange format. The
// format is load-bearing for downstream importers and must stay byte-exact:
// the header is the raw comma-joined column names, every value goes through
// the JSON string encoder before joining, and each line ends with "\n".
func Encode(headers []string, rows [][]any) (string, error) {
	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	b.WriteString("\n")

	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, value := range row {
			encoded, err := json.Marshal(value)
			if err != nil {
				return "", err
			}
			cells = append(cells, string(encoded))
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// EncodeLicenseItems renders the license panel rows for export.
func EncodeLicenseItems(items []entities.LicensedItem) (string, error) {
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, []any{
			item.AssignmentID,
			item.Product,
			item.Plan,
			string(item.Billing),
			item.UnitPriceMonthly,
		})
	}
	return Encode([]string{"assignment_id", "product", "plan", "billing", "unit_price_monthly"}, rows)
}

// EncodeAccessItems renders the unified access rows for export.
func EncodeAccessItems(items []entities.AccessItem) (string, error) {
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		lastUpdated := ""
		if item.LastUpdated != nil {
			lastUpdated = item.LastUpdated.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []any{
			item.ApplicationName,
			item.Category,
			string(item.AccessType),
			string(item.AccessStatus),
			lastUpdated,
		})
	}
	return Encode([]string{"application_name", "category", "access_type", "access_status", "last_updated"}, rows)
}
