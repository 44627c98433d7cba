package artifact

import (
	"context"
	"fmt"
	"log/slog"

	"wdireport/internal/domain"
	"wdireport/internal/ports"
)

// Sink implements ReportSink by resolving each configured format against the
// registry and writing them in order. The first failing writer aborts the
// fan-out.
type Sink struct {
	registry *Registry
	formats  []string
	logger   *slog.Logger
}

var _ ports.ReportSink = (*Sink)(nil)

// NewSink wires the writer registry with the config-selected formats.
func NewSink(reg *Registry, formats []string, logger *slog.Logger) *Sink {
	return &Sink{registry: reg, formats: formats, logger: logger}
}

// Publish writes every configured format and returns the paths produced, in
// format order.
func (s *Sink) Publish(ctx context.Context, report domain.Report) ([]string, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("artifact registry is not configured")
	}

	paths := make([]string, 0, len(s.formats))
	for _, format := range s.formats {
		writer, err := s.registry.Resolve(format)
		if err != nil {
			return nil, err
		}

		path, err := writer.Write(ctx, report)
		if err != nil {
			return nil, fmt.Errorf("write %s artifact: %w", format, err)
		}

		if s.logger != nil {
			s.logger.Info("artifact written", "format", format, "path", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
