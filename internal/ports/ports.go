package ports

import (
	"context"

	"wdireport/internal/domain"
)

// IndicatorSource fetches one indicator's observations over a year window.
type IndicatorSource interface {
	FetchIndicator(ctx context.Context, code string, window domain.ObservationWindow) ([]domain.Observation, error)
}

// CountrySource fetches the full country list with nested income-level
// metadata.
type CountrySource interface {
	FetchCountries(ctx context.Context) ([]domain.CountryRecord, error)
}

// ResponseCache stores raw API response bodies keyed by request URL so
// repeated runs stay off the network.
type ResponseCache interface {
	Get(ctx context.Context, key string) (body []byte, ok bool, err error)
	Put(ctx context.Context, key string, body []byte) error
}

// ChartRenderer turns the joined table into the chart image artifact and
// reports the written path.
type ChartRenderer interface {
	Render(ctx context.Context, rows []domain.ClassifiedObservation) (string, error)
}

// ReportSink lays out one or more document artifacts from a finished report
// and reports the written paths.
type ReportSink interface {
	Publish(ctx context.Context, report domain.Report) ([]string, error)
}
