// Package mock provides function-field test doubles for the domain ports.
package mock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	appdebugging "github.com/bryanwahyu/code-debugger/internal/application/debugging"
	domain "github.com/bryanwahyu/code-debugger/internal/domain/debugging"
)

// Compile-time interface verification.
var (
	_ domain.Linter      = (*Linter)(nil)
	_ domain.Repository  = (*Repository)(nil)
	_ appdebugging.Stats = (*Stats)(nil)
)

// Linter is a mock implementation of debugging.Linter.
type Linter struct {
	LintFn func(ctx context.Context, source string, cfg domain.LintConfig) (domain.LintReport, error)
}

func (l *Linter) Lint(ctx context.Context, source string, cfg domain.LintConfig) (domain.LintReport, error) {
	return l.LintFn(ctx, source, cfg)
}

// Repository is a mock implementation of debugging.Repository that also
// keeps every record it was handed.
type Repository struct {
	CreateFn func(ctx context.Context, r *domain.Record) error

	mu      sync.Mutex
	Created []*domain.Record
}

func (r *Repository) Create(ctx context.Context, rec *domain.Record) error {
	r.mu.Lock()
	r.Created = append(r.Created, rec)
	r.mu.Unlock()
	if r.CreateFn == nil {
		return nil
	}
	return r.CreateFn(ctx, rec)
}

// Calls returns a snapshot of the records passed to Create.
func (r *Repository) Calls() []*domain.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Record, len(r.Created))
	copy(out, r.Created)
	return out
}

// Clock is a fixed clock.
type Clock struct {
	T time.Time
}

func (c Clock) Now() time.Time { return c.T }

// Stats counts the service callbacks.
type Stats struct {
	Analyses        atomic.Int64
	PersistFailures atomic.Int64
}

func (s *Stats) AnalysisDone()  { s.Analyses.Add(1) }
func (s *Stats) PersistFailed() { s.PersistFailures.Add(1) }
