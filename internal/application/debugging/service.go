package debugging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/code-debugger/internal/application"
	domain "github.com/bryanwahyu/code-debugger/internal/domain/debugging"
)

const defaultWriteTimeout = 5 * time.Second

// Service implements the debug use-case: lint, shape the result, record it.
// Service is safe for concurrent use as long as its collaborators are.
type Service struct {
	Linter domain.Linter
	Repo   domain.Repository
	Clock  application.Clock
	Stats  Stats

	// WriteTimeout bounds the persistence write; zero means defaultWriteTimeout.
	WriteTimeout time.Duration
}

// Stats receives the service's counters; nil disables them
type Stats interface {
	AnalysisDone()
	PersistFailed()
}

// Analyze runs the engine over code and returns the shaped result.
// The record write is best-effort: its failure is logged and never returned.
func (s *Service) Analyze(ctx context.Context, code string) (domain.AnalysisResult, error) {
	if code == "" {
		return domain.AnalysisResult{}, domain.ErrInvalidInput
	}

	rep, err := s.Linter.Lint(ctx, code, domain.DefaultLintConfig())
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %w", domain.ErrEngineFailure, err)
	}
	if s.Stats != nil {
		s.Stats.AnalysisDone()
	}

	res := domain.NewAnalysisResult(code, rep)
	s.record(ctx, code, res)
	return res, nil
}

// record attempts exactly one write. The request context's cancellation is
// dropped so a client hanging up does not abort the insert.
func (s *Service) record(ctx context.Context, code string, res domain.AnalysisResult) {
	if s.Repo == nil {
		return
	}

	payload, err := json.Marshal(res)
	if err != nil {
		log.Printf("error encoding analysis result: %v", err)
		return
	}

	rec := &domain.Record{
		ID:        domain.RecordID(uuid.New().String()),
		Code:      code,
		Result:    string(payload),
		CreatedAt: s.now(),
	}

	timeout := s.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := s.Repo.Create(wctx, rec); err != nil {
		if s.Stats != nil {
			s.Stats.PersistFailed()
		}
		log.Printf("error saving to database: id=%s err=%v", rec.ID, err)
	}
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}
