// Package loader keeps the state of list views: the last fetched data, a loading flag
// and a user-facing error message, with fallback and stale-data handling.
package loader

import (
	"context"
	"sync"

	apperrors "github.com/getmentor/supercoach-admin/pkg/errors"
	"github.com/getmentor/supercoach-admin/pkg/logger"
	"github.com/getmentor/supercoach-admin/pkg/metrics"
	"go.uber.org/zap"
)

// Source tells where the data of a State came from
type Source string

const (
	SourceNone     Source = ""
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
	SourceStale    Source = "stale"
)

// State is a snapshot of a resource. Data is nil until something was loaded.
// Error holds the message of the last failed fetch and Err the failure itself.
type State[T any] struct {
	Data    *T     `json:"data"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Err     error  `json:"-"`
	Source  Source `json:"source,omitempty"`
}

// HasData reports whether the state holds data of any kind
func (s State[T]) HasData() bool {
	return s.Data != nil
}

// FetchFunc loads a resource for a filter
type FetchFunc[F any, T any] func(ctx context.Context, filter F) (T, error)

// Resource is one list view's data. Only the most recently issued fetch may update it.
type Resource[F comparable, T any] struct {
	name      string
	fetch     FetchFunc[F, T]
	fallback  func(F) T
	normalize func(T) T

	mu     sync.Mutex
	seq    uint64
	active F
	closed bool
	state  State[T]
}

// Option configures a Resource
type Option[F comparable, T any] func(*Resource[F, T])

// WithFallback substitutes a built-in dataset when the platform answers 404
func WithFallback[F comparable, T any](fallback func(F) T) Option[F, T] {
	return func(r *Resource[F, T]) {
		r.fallback = fallback
	}
}

// WithNormalize transforms successfully fetched data before it is stored
func WithNormalize[F comparable, T any](normalize func(T) T) Option[F, T] {
	return func(r *Resource[F, T]) {
		r.normalize = normalize
	}
}

// New creates a resource backed by fetch. name labels it in logs and metrics.
func New[F comparable, T any](name string, fetch FetchFunc[F, T], opts ...Option[F, T]) *Resource[F, T] {
	r := &Resource[F, T]{
		name:  name,
		fetch: fetch,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fetch loads the resource for filter and returns the resulting state.
// If another Fetch was issued meanwhile, or the resource was closed, the result is
// discarded and the current state is returned unchanged.
func (r *Resource[F, T]) Fetch(ctx context.Context, filter F) State[T] {
	r.mu.Lock()
	if r.closed {
		defer r.mu.Unlock()
		return r.state
	}
	r.seq++
	seq := r.seq
	r.active = filter
	r.state.Loading = true
	r.state.Error = ""
	r.state.Err = nil
	r.mu.Unlock()

	data, err := r.fetch(ctx, filter)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.state
	}
	if seq != r.seq || filter != r.active {
		metrics.SupersededResponses.WithLabelValues(r.name).Inc()
		logger.Debug("Discarding superseded response", zap.String("resource", r.name))
		return r.state
	}

	r.state.Loading = false

	if err == nil {
		if r.normalize != nil {
			data = r.normalize(data)
		}
		r.state.Data = &data
		r.state.Source = SourceLive
		return r.state
	}

	if r.fallback != nil && apperrors.KindOf(err) == apperrors.KindNotFound {
		fallback := r.fallback(filter)
		r.state.Data = &fallback
		r.state.Source = SourceFallback
		metrics.FallbackServed.WithLabelValues(r.name).Inc()
		logger.Info("Serving built-in fallback data", zap.String("resource", r.name))
		return r.state
	}

	r.state.Error = apperrors.Message(err)
	r.state.Err = err
	if r.state.Data != nil {
		r.state.Source = SourceStale
		metrics.StaleServed.WithLabelValues(r.name).Inc()
	}
	logger.Warn("Fetch failed",
		zap.String("resource", r.name),
		zap.String("kind", string(apperrors.KindOf(err))),
		zap.Bool("has_data", r.state.Data != nil),
		zap.Error(err))

	return r.state
}

// Refetch repeats the fetch for the active filter
func (r *Resource[F, T]) Refetch(ctx context.Context) State[T] {
	r.mu.Lock()
	filter := r.active
	r.mu.Unlock()
	return r.Fetch(ctx, filter)
}

// State returns the current snapshot
func (r *Resource[F, T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Close detaches the resource from its consumer. In-flight results are dropped
// and later fetches do nothing.
func (r *Resource[F, T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.state.Loading = false
}

// NonNil makes empty lists serialize as [] instead of null
func NonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
