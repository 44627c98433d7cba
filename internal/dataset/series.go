package dataset

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"wdireport/internal/domain"
)

// SeriesPoint is one aggregated reading on a trend line: the mean of all
// non-missing values for the period, the standard error of that mean, and
// the sample size behind it.
type SeriesPoint struct {
	Date   time.Time
	Mean   float64
	StdErr float64
	N      int
}

// Series is a labeled trend line with points in ascending date order.
type Series struct {
	Label  string
	Points []SeriesPoint
}

// BuildGroupSeries aggregates joined rows into one series per canonical
// income level, in the fixed chart order. Levels with no rows are omitted;
// missing (NaN) values never enter the statistics.
func BuildGroupSeries(rows []domain.ClassifiedObservation) []Series {
	series := make([]Series, 0, len(domain.IncomeLevelOrder()))
	for _, level := range domain.IncomeLevelOrder() {
		s := buildSeries(level, rows, func(row domain.ClassifiedObservation) bool {
			return row.IncomeLevel == level
		})
		if len(s.Points) == 0 {
			continue
		}
		series = append(series, s)
	}
	return series
}

// BuildWorldSeries aggregates every joined row into the single "World"
// line, regardless of income level.
func BuildWorldSeries(rows []domain.ClassifiedObservation) Series {
	return buildSeries(domain.WorldSeries, rows, func(domain.ClassifiedObservation) bool {
		return true
	})
}

func buildSeries(label string, rows []domain.ClassifiedObservation, keep func(domain.ClassifiedObservation) bool) Series {
	byDate := make(map[time.Time][]float64)
	for _, row := range rows {
		if !keep(row) || math.IsNaN(row.Value) {
			continue
		}
		byDate[row.Date] = append(byDate[row.Date], row.Value)
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	points := make([]SeriesPoint, 0, len(dates))
	for _, date := range dates {
		values := byDate[date]
		point := SeriesPoint{
			Date: date,
			Mean: stat.Mean(values, nil),
			N:    len(values),
		}
		if len(values) > 1 {
			point.StdErr = stat.StdDev(values, nil) / math.Sqrt(float64(len(values)))
		}
		points = append(points, point)
	}

	return Series{Label: label, Points: points}
}
