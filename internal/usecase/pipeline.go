// Package usecase orchestrates the four pipeline stages: fetch the
// indicator, build the income-level reference table, join the two, and
// render the chart plus document artifacts.
package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"wdireport/internal/dataset"
	"wdireport/internal/domain"
	"wdireport/internal/ports"
)

// indicatorDiagnostic is printed verbatim to standard output when the
// indicator fetch fails, in addition to the returned error.
const indicatorDiagnostic = "This indicator could not be retrieved."

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Indicators  ports.IndicatorSource
	Countries   ports.CountrySource
	Chart       ports.ChartRenderer
	Reports     ports.ReportSink
	Diagnostics io.Writer
	Logger      *slog.Logger
}

// RunParams carries the per-run inputs: which series to fetch, over which
// window, and the report framing.
type RunParams struct {
	IndicatorCode string
	Window        domain.ObservationWindow
	ReportTitle   string
	Narrative     string
	RunID         string
}

// Pipeline implements the report-generation workflow. Execution is strictly
// linear and synchronous; each stage consumes the prior stage's output.
type Pipeline struct {
	indicators  ports.IndicatorSource
	countries   ports.CountrySource
	chart       ports.ChartRenderer
	reports     ports.ReportSink
	diagnostics io.Writer
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component. Diagnostics defaults
// to standard output.
func NewPipeline(deps PipelineDeps) *Pipeline {
	diag := deps.Diagnostics
	if diag == nil {
		diag = os.Stdout
	}
	return &Pipeline{
		indicators:  deps.Indicators,
		countries:   deps.Countries,
		chart:       deps.Chart,
		reports:     deps.Reports,
		diagnostics: diag,
		logger:      deps.Logger,
	}
}

// Run executes one full pipeline pass and reports what was produced. A
// failing indicator fetch prints the fixed diagnostic and aborts; no empty
// table ever reaches the join. An empty join result is legal and flows on
// to an empty chart.
func (p *Pipeline) Run(ctx context.Context, params RunParams) (domain.RunSummary, error) {
	observations, err := p.indicators.FetchIndicator(ctx, params.IndicatorCode, params.Window)
	if err != nil {
		fmt.Fprintln(p.diagnostics, indicatorDiagnostic)
		return domain.RunSummary{}, fmt.Errorf("fetch indicator: %w", err)
	}
	p.debug("indicator stage done", "code", params.IndicatorCode, "observations", len(observations))

	records, err := p.countries.FetchCountries(ctx)
	if err != nil {
		return domain.RunSummary{}, fmt.Errorf("fetch countries: %w", err)
	}

	reference := dataset.BuildIncomeTable(records)
	p.debug("reference stage done", "records", len(records), "reference_rows", len(reference))

	joined := dataset.JoinIncomeLevels(observations, reference)
	p.debug("join stage done", "joined_rows", len(joined))

	chartPath, err := p.chart.Render(ctx, joined)
	if err != nil {
		return domain.RunSummary{}, fmt.Errorf("render chart: %w", err)
	}

	report := domain.Report{
		Title:       params.ReportTitle,
		Narrative:   params.Narrative,
		ChartPath:   chartPath,
		GeneratedAt: time.Now().UTC(),
		RunID:       params.RunID,
		Table:       joined,
		Reference:   reference,
	}

	artifacts, err := p.reports.Publish(ctx, report)
	if err != nil {
		return domain.RunSummary{}, fmt.Errorf("publish report: %w", err)
	}

	summary := domain.RunSummary{
		Indicator:     params.IndicatorCode,
		Observations:  len(observations),
		CountryRows:   len(records),
		ReferenceRows: len(reference),
		JoinedRows:    len(joined),
		Groups:        dataset.Summarize(joined),
		ChartPath:     chartPath,
		Artifacts:     artifacts,
	}

	if p.logger != nil {
		p.logger.Info("run complete",
			"indicator", params.IndicatorCode,
			"joined_rows", len(joined),
			"artifacts", len(artifacts))
	}
	return summary, nil
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
