// Package dataset holds the tabular core of the pipeline: flattening raw
// country records into the income-level reference table, joining it to
// indicator observations, and aggregating the joined rows into chart
// series. Every transform is pure: inputs are never mutated, each step
// returns a fresh table.
package dataset

import "wdireport/internal/domain"

// aggregateLabel marks regional/group rollup rows in the country list.
// These are not real countries and are always excluded.
const aggregateLabel = "Aggregates"

// FlatCountry is a country record with the nested income-level object
// merged into the top level: column "id" holds the income-level code and
// "value" the income-level label once a classification is present.
type FlatCountry struct {
	ID       string
	ISO2Code string
	Name     string
	Value    string
}

// Flatten merges each record's nested income-level object into the record
// itself. On the id key collision the nested value wins; a record without
// nested classification data passes through unchanged.
func Flatten(records []domain.CountryRecord) []FlatCountry {
	flat := make([]FlatCountry, 0, len(records))
	for _, rec := range records {
		row := FlatCountry{
			ID:       rec.ID,
			ISO2Code: rec.ISO2Code,
			Name:     rec.Name,
		}
		if rec.IncomeLevel != (domain.IncomeLevelRef{}) {
			row.ID = rec.IncomeLevel.ID
			row.Value = rec.IncomeLevel.Value
		}
		flat = append(flat, row)
	}
	return flat
}

// DropAggregates removes rollup rows (regions, income-group totals) so only
// individual countries remain. Any other label passes through, including
// ones outside the canonical income-level set.
func DropAggregates(table []FlatCountry) []FlatCountry {
	kept := make([]FlatCountry, 0, len(table))
	for _, row := range table {
		if row.Value == aggregateLabel {
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

// ProjectIncomeLevels renames and selects the relevant columns: name
// becomes country, value becomes income_level, id and iso2Code are kept,
// everything else is dropped.
func ProjectIncomeLevels(table []FlatCountry) []domain.CountryInfo {
	projected := make([]domain.CountryInfo, 0, len(table))
	for _, row := range table {
		projected = append(projected, domain.CountryInfo{
			ID:          row.ID,
			ISO2Code:    row.ISO2Code,
			Country:     row.Name,
			IncomeLevel: row.Value,
		})
	}
	return projected
}

// BuildIncomeTable runs the reference transforms in their fixed order:
// flatten, filter out aggregates, project. Row count shrinks only by the
// aggregate rows; the output column set is always exactly
// {id, iso2Code, country, income_level}.
func BuildIncomeTable(records []domain.CountryRecord) []domain.CountryInfo {
	table := Flatten(records)
	table = DropAggregates(table)
	return ProjectIncomeLevels(table)
}
