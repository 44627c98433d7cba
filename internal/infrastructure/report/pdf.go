// Package report lays out the one-page run report as document artifacts:
// a PDF matching the original output and an HTML variant for quick browser
// review. Both embed the previously rendered chart image.
package report

import (
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"wdireport/internal/artifact"
	"wdireport/internal/config"
	"wdireport/internal/domain"
)

// PDFWriter writes the single-page report: bold title cell, the narrative
// paragraph block, then the chart image at a fixed size. The output file is
// overwritten on every run.
type PDFWriter struct {
	cfg  config.ReportConfig
	path string
}

var _ artifact.Writer = (*PDFWriter)(nil)

// NewPDFWriter wires report layout settings; path is the PDF destination.
func NewPDFWriter(cfg config.ReportConfig, path string) *PDFWriter {
	return &PDFWriter{cfg: cfg, path: path}
}

// Format reports the registry key for this writer.
func (w *PDFWriter) Format() string { return "pdf" }

// Write lays out the page and writes the file, reporting the path.
func (w *PDFWriter) Write(_ context.Context, report domain.Report) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, w.cfg.Title, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, report.Narrative, "", "L", false)
	pdf.Ln(4)

	pdf.ImageOptions(report.ChartPath, pdf.GetX(), pdf.GetY(),
		w.cfg.ImageWidth, w.cfg.ImageHeight, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	if err := pdf.OutputFileAndClose(w.path); err != nil {
		return "", fmt.Errorf("write pdf report: %w", err)
	}
	return w.path, nil
}
