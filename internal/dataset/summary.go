package dataset

import (
	"math"

	"wdireport/internal/domain"
)

// Summarize reduces the joined table to one GroupStat per canonical income
// level plus the World aggregate, in presentation order. Groups without any
// joined rows are omitted; the World row is always present (zero-valued on
// an empty join).
func Summarize(rows []domain.ClassifiedObservation) []domain.GroupStat {
	stats := make([]domain.GroupStat, 0, len(domain.IncomeLevelOrder())+1)
	for _, level := range domain.IncomeLevelOrder() {
		matched := filterRows(rows, func(row domain.ClassifiedObservation) bool {
			return row.IncomeLevel == level
		})
		if len(matched) == 0 {
			continue
		}
		stats = append(stats, groupStat(level, matched))
	}
	stats = append(stats, groupStat(domain.WorldSeries, rows))
	return stats
}

func groupStat(label string, rows []domain.ClassifiedObservation) domain.GroupStat {
	st := domain.GroupStat{Label: label}

	countries := make(map[string]struct{})
	for _, row := range rows {
		countries[row.Country] = struct{}{}
		if !math.IsNaN(row.Value) {
			st.Observations++
		}
	}
	st.Countries = len(countries)

	series := buildSeries(label, rows, func(domain.ClassifiedObservation) bool { return true })
	if n := len(series.Points); n > 0 {
		last := series.Points[n-1]
		st.LatestDate = last.Date
		st.LatestMean = last.Mean
	}

	return st
}

func filterRows(rows []domain.ClassifiedObservation, keep func(domain.ClassifiedObservation) bool) []domain.ClassifiedObservation {
	kept := make([]domain.ClassifiedObservation, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	return kept
}
