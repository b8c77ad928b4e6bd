package loader

import (
	"context"
	"sync"

	"github.com/getmentor/supercoach-admin/internal/models"
	apperrors "github.com/getmentor/supercoach-admin/pkg/errors"
	"github.com/getmentor/supercoach-admin/pkg/metrics"
)

// MutationState is the progress of a create/update operation
type MutationState struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// Mutation validates a payload and submits it once. It never retries on its own.
type Mutation[P any, R any] struct {
	name     string
	do       func(ctx context.Context, payload P) (R, error)
	validate func(payload P) error

	mu    sync.Mutex
	state MutationState
}

// MutationOption configures a Mutation
type MutationOption[P any, R any] func(*Mutation[P, R])

// WithValidator replaces the struct-tag validation of payloads
func WithValidator[P any, R any](validate func(P) error) MutationOption[P, R] {
	return func(m *Mutation[P, R]) {
		m.validate = validate
	}
}

// NewMutation creates a mutation named for metrics, submitting payloads with do
func NewMutation[P any, R any](name string, do func(ctx context.Context, payload P) (R, error), opts ...MutationOption[P, R]) *Mutation[P, R] {
	m := &Mutation[P, R]{
		name: name,
		do:   do,
		validate: func(payload P) error {
			return models.Validate(payload)
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run validates payload and submits it. Failures are kept in the state and returned.
func (m *Mutation[P, R]) Run(ctx context.Context, payload P) (R, error) {
	var zero R

	if m.validate != nil {
		if err := m.validate(payload); err != nil {
			verr := apperrors.ValidationError(validationMessage(err), err)
			m.finish(verr)
			metrics.MutationsTotal.WithLabelValues(m.name, "invalid").Inc()
			return zero, verr
		}
	}

	m.mu.Lock()
	m.state = MutationState{Loading: true}
	m.mu.Unlock()

	result, err := m.do(ctx, payload)
	m.finish(err)
	if err != nil {
		metrics.MutationsTotal.WithLabelValues(m.name, "failed").Inc()
		return zero, err
	}

	metrics.MutationsTotal.WithLabelValues(m.name, "success").Inc()
	return result, nil
}

// State returns the current snapshot
func (m *Mutation[P, R]) State() MutationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mutation[P, R]) finish(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Loading = false
	m.state.Error = apperrors.Message(err)
}

// validationMessage returns the first field message, e.g. "name is required"
func validationMessage(err error) string {
	if details := models.ParseValidationErrors(err); len(details) > 0 {
		return details[0].Message
	}
	return err.Error()
}
