package publisher

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/anicoll/airq/internal/pkg/model"
)

var errAlreadyRegistered = errors.New("publisher already registered")

type sink interface {
	// Write delivers a committed reading to the sink.
	Write(ctx context.Context, event model.ReadingEvent) error
}

// Registry fans reading events out to every registered sink.
type Registry struct {
	mu     sync.RWMutex
	sinks  map[string]sink
	logger *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		sinks:  make(map[string]sink),
		logger: logger,
	}
}

func (r *Registry) Register(name string, s sink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sinks[name]; ok {
		return errAlreadyRegistered
	}
	r.sinks[name] = s
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks)
}

// Publish writes event to every sink. A failing sink is logged and skipped.
func (r *Registry) Publish(ctx context.Context, event model.ReadingEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, s := range r.sinks {
		if err := s.Write(ctx, event); err != nil {
			r.logger.Error("failed to publish reading", zap.Error(err),
				zap.String("publisher", name), zap.Int64("reading_id", event.ReadingID))
			continue
		}
		r.logger.Debug("published reading", zap.String("publisher", name),
			zap.Int64("reading_id", event.ReadingID), zap.Int("metrics", len(event.Values)))
	}
}
