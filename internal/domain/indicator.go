package domain

import "time"

// Observation is a single indicator reading: one country, one reporting
// period, one value. Value is NaN when the source reports no figure for
// the period.
type Observation struct {
	Country     string
	CountryISO3 string
	Date        time.Time
	Value       float64
}

// IncomeLevelRef is the nested income-level object attached to a raw
// country record.
type IncomeLevelRef struct {
	ID    string
	Value string
}

// CountryRecord is a country entry as fetched, with the income-level
// classification still nested.
type CountryRecord struct {
	ID          string
	ISO2Code    string
	Name        string
	IncomeLevel IncomeLevelRef
}

// CountryInfo is one row of the flattened income-level reference table.
// ID carries the income-level code for classified countries: flattening
// merges the nested object into the record top level and the nested id
// wins the key collision.
type CountryInfo struct {
	ID          string
	ISO2Code    string
	Country     string
	IncomeLevel string
}

// ClassifiedObservation is an observation joined with its country's
// income-level reference row. All columns of both sides survive the join.
type ClassifiedObservation struct {
	Country       string
	Date          time.Time
	Value         float64
	IncomeLevelID string
	ISO2Code      string
	IncomeLevel   string
}

// ObservationWindow bounds an indicator fetch to an inclusive year range.
type ObservationWindow struct {
	FromYear int
	ToYear   int
}

// Canonical income-level labels in the order the chart draws them.
const (
	IncomeHigh        = "High income"
	IncomeUpperMiddle = "Upper middle income"
	IncomeLowerMiddle = "Lower middle income"
	IncomeLow         = "Low income"
)

// WorldSeries labels the aggregate line computed over every joined row
// regardless of income level.
const WorldSeries = "World"

// IncomeLevelOrder fixes the category order for chart series and summary
// rows.
func IncomeLevelOrder() []string {
	return []string{IncomeHigh, IncomeUpperMiddle, IncomeLowerMiddle, IncomeLow}
}

// Report carries everything a document writer needs to lay out one run's
// output page.
type Report struct {
	Title       string
	Narrative   string
	ChartPath   string
	GeneratedAt time.Time
	RunID       string
	Table       []ClassifiedObservation
	Reference   []CountryInfo
}

// GroupStat summarizes one income group (or the World aggregate) after the
// join: how many countries matched, how many observations they contributed,
// and the mean of the latest reporting period that has data.
type GroupStat struct {
	Label        string
	Countries    int
	Observations int
	LatestDate   time.Time
	LatestMean   float64
}

// RunSummary is the end-of-run result surfaced to the CLI: per-group
// statistics plus the artifact paths that were written.
type RunSummary struct {
	Indicator     string
	Observations  int
	CountryRows   int
	ReferenceRows int
	JoinedRows    int
	Groups        []GroupStat
	ChartPath     string
	Artifacts     []string
}
