// Package artifact fans a finished report out to document writers. Writers
// register under a format name; configuration picks which formats a run
// actually produces.
package artifact

import (
	"context"
	"fmt"

	"wdireport/internal/domain"
)

// Writer lays out one document format from a report and returns the path it
// wrote. Output files are overwritten unconditionally.
type Writer interface {
	Format() string
	Write(ctx context.Context, report domain.Report) (string, error)
}

// Registry keeps a mapping from format names to their writers.
type Registry struct {
	writers map[string]Writer
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{writers: map[string]Writer{}}
}

// Register adds or replaces a writer implementation.
func (r *Registry) Register(w Writer) {
	if r.writers == nil {
		r.writers = map[string]Writer{}
	}
	r.writers[w.Format()] = w
}

// Resolve returns a writer by format name or an error if it is absent.
func (r *Registry) Resolve(format string) (Writer, error) {
	if w, ok := r.writers[format]; ok {
		return w, nil
	}
	return nil, fmt.Errorf("output format %s is not registered", format)
}
