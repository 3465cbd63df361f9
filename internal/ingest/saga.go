package ingest

import (
	"context"

	"github.com/rs/zerolog/log"
)

// State tracks how far an upload saga has progressed.
type State string

const (
	StateStarted         State = "started"
	StateDocumentCreated State = "document_created"
	StateChunksPersisted State = "chunks_persisted"
	StateCommitted       State = "committed"
	StateRolledBack      State = "rolled_back"
)

// Step is one forward action with an optional compensating action. The
// compensation undoes the forward effect when a later step fails.
type Step struct {
	Name       string
	Next       State
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga executes steps in order. On the first failure it runs the
// compensations of all completed steps in reverse and reports the failure.
// The upload path's three store writes are not transactional, so partial
// states are undone here rather than assumed away.
type Saga struct {
	state State
	steps []Step
}

func NewSaga(steps ...Step) *Saga {
	return &Saga{state: StateStarted, steps: steps}
}

func (s *Saga) State() State { return s.state }

func (s *Saga) Execute(ctx context.Context) error {
	for i, step := range s.steps {
		if err := step.Run(ctx); err != nil {
			log.Error().Err(err).Str("step", step.Name).Msg("Saga step failed, rolling back")
			s.rollback(ctx, i)
			return err
		}
		if step.Next != "" {
			s.state = step.Next
		}
	}
	s.state = StateCommitted
	return nil
}

func (s *Saga) rollback(ctx context.Context, failed int) {
	// Compensations still run when the request context is already canceled.
	ctx = context.WithoutCancel(ctx)
	for i := failed - 1; i >= 0; i-- {
		step := s.steps[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			log.Error().Err(err).Str("step", step.Name).Msg("Saga compensation failed")
		}
	}
	s.state = StateRolledBack
}
