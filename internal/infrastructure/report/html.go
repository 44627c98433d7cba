package report

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"wdireport/internal/artifact"
	"wdireport/internal/config"
	"wdireport/internal/domain"
)

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; }
img { max-width: 100%; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}<img src="{{.ChartFile}}" alt="indicator chart">
<footer><small>Generated {{.GeneratedAt}} (run {{.RunID}})</small></footer>
</body>
</html>
`

var htmlTemplate = template.Must(template.New("report").Parse(htmlPage))

// HTMLWriter renders the same one-pager as a standalone HTML document that
// references the chart image by its filename, so the pair stays portable as
// long as both files sit in the same directory.
type HTMLWriter struct {
	cfg  config.ReportConfig
	path string
}

var _ artifact.Writer = (*HTMLWriter)(nil)

// NewHTMLWriter wires report settings; path is the HTML destination.
func NewHTMLWriter(cfg config.ReportConfig, path string) *HTMLWriter {
	return &HTMLWriter{cfg: cfg, path: path}
}

// Format reports the registry key for this writer.
func (w *HTMLWriter) Format() string { return "html" }

// Write renders the page template and writes the file, reporting the path.
func (w *HTMLWriter) Write(_ context.Context, report domain.Report) (string, error) {
	data := struct {
		Title       string
		Paragraphs  []string
		ChartFile   string
		GeneratedAt string
		RunID       string
	}{
		Title:       w.cfg.Title,
		Paragraphs:  splitParagraphs(report.Narrative),
		ChartFile:   filepath.Base(report.ChartPath),
		GeneratedAt: report.GeneratedAt.Format("2006-01-02 15:04 UTC"),
		RunID:       report.RunID,
	}

	f, err := os.Create(w.path)
	if err != nil {
		return "", fmt.Errorf("create html report: %w", err)
	}

	if err := htmlTemplate.Execute(f, data); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("render html report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close html report: %w", err)
	}
	return w.path, nil
}

func splitParagraphs(narrative string) []string {
	parts := strings.Split(narrative, "\n\n")
	paragraphs := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return paragraphs
}
