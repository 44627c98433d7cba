// Package app wires configuration to adapters and the pipeline for one run.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"wdireport/internal/artifact"
	"wdireport/internal/config"
	"wdireport/internal/domain"
	"wdireport/internal/infrastructure/chart"
	"wdireport/internal/infrastructure/export"
	"wdireport/internal/infrastructure/report"
	"wdireport/internal/infrastructure/storage"
	"wdireport/internal/infrastructure/worldbank"
	"wdireport/internal/logging"
	"wdireport/internal/ports"
	"wdireport/internal/usecase"
)

// Application wires configs to the pipeline and owns adapter lifecycles.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	cache    *storage.ResponseCache
	logger   *slog.Logger
}

// New builds a runnable application instance. A cache that fails to open is
// logged and skipped; everything else is fatal at run time, not here.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	var cache *storage.ResponseCache
	var responses ports.ResponseCache
	if !cfg.Cache.Disabled {
		opened, err := storage.Open(cfg.Cache.Path, time.Duration(cfg.Cache.TTLHours)*time.Hour)
		if err != nil {
			baseLogger.Warn("response cache unavailable, fetching without it", "path", cfg.Cache.Path, "error", err)
		} else {
			cache = opened
			responses = opened
		}
	}

	client := worldbank.NewClient(cfg.API, responses, baseLogger.With("component", "worldbank"))

	renderer := chart.NewLineRenderer(cfg.Chart, cfg.Indicator.Label, cfg.ChartPath(),
		baseLogger.With("component", "chart"))

	registry := artifact.NewRegistry()
	reportPath := filepath.Join(cfg.Outputs.Directory, cfg.Report.File)
	registry.Register(report.NewPDFWriter(cfg.Report, reportPath))
	registry.Register(report.NewHTMLWriter(cfg.Report, withExtension(reportPath, ".html")))
	registry.Register(export.NewXLSXWriter(withExtension(reportPath, ".xlsx")))

	sink := artifact.NewSink(registry, cfg.Outputs.Formats, baseLogger.With("component", "artifacts"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Indicators: client,
		Countries:  client,
		Chart:      renderer,
		Reports:    sink,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline, cache: cache, logger: baseLogger}
}

// Run performs a single pipeline execution and reports what was produced.
func (a *Application) Run(ctx context.Context) (domain.RunSummary, error) {
	if err := os.MkdirAll(a.cfg.Outputs.Directory, 0o755); err != nil {
		return domain.RunSummary{}, fmt.Errorf("create output dir: %w", err)
	}

	params := usecase.RunParams{
		IndicatorCode: a.cfg.Indicator.Code,
		Window: domain.ObservationWindow{
			FromYear: a.cfg.Window.FromYear,
			ToYear:   a.cfg.Window.ToYear,
		},
		ReportTitle: a.cfg.Report.Title,
		Narrative:   a.cfg.Report.NarrativeText(),
		RunID:       uuid.NewString(),
	}

	a.logger.Debug("run starting", "run_id", params.RunID, "indicator", params.IndicatorCode)
	return a.pipeline.Run(ctx, params)
}

// Close releases adapter resources; safe to call when nothing was opened.
func (a *Application) Close() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}

func withExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
