package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
	"github.com/wadjakorntonsri/go-3dnav/pkg/ports"
)

// Backend pairs a store with the mode it reports.
type Backend struct {
	Store ports.Store
	Mode  domain.Mode
}

// MemoryStore is the fallback backend: a store whose contents can be
// replaced wholesale.
type MemoryStore interface {
	ports.Store
	ports.DatasetLoader
}

// Selector routes every storage call to one backend. Calls go to the
// primary until it fails with a data-source error; from then on the
// selector is degraded and every call, reads included, goes to memory.
//
// Primary calls hold mu for reading and degrading holds it for writing, so
// the snapshot copied into memory includes every primary write that was
// reported as served by the primary.
type Selector struct {
	primary  *Backend
	memory   MemoryStore
	logger   *zap.Logger
	mu       sync.RWMutex
	degraded atomic.Bool
}

// NewSelector builds a selector. A nil primary means memory mode outright.
func NewSelector(primary *Backend, memory MemoryStore, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{primary: primary, memory: memory, logger: logger}
}

// Mode reports which backend the next call would use.
func (s *Selector) Mode() domain.Mode {
	switch {
	case s.primary == nil:
		return domain.ModeMemory
	case s.degraded.Load():
		return domain.ModeMemoryFallback
	default:
		return s.primary.Mode
	}
}

// Degraded reports whether the primary has been abandoned.
func (s *Selector) Degraded() bool { return s.degraded.Load() }

// Do runs fn against the active backend and reports the mode that served it.
func (s *Selector) Do(ctx context.Context, op string, fn func(store ports.Store) error) (domain.Mode, error) {
	if s.primary == nil {
		return domain.ModeMemory, fn(s.memory)
	}
	s.mu.RLock()
	if s.degraded.Load() {
		s.mu.RUnlock()
		return domain.ModeMemoryFallback, fn(s.memory)
	}
	err := fn(s.primary.Store)
	s.mu.RUnlock()

	if err == nil || !errors.Is(err, domain.ErrDataSource) {
		return s.primary.Mode, err
	}

	s.degrade(op, err)
	return domain.ModeMemoryFallback, fn(s.memory)
}

// Degrade abandons the primary before any call reaches it, for a backend
// that could not even be opened.
func (s *Selector) Degrade(op string, cause error) {
	if s.primary == nil {
		return
	}
	s.degrade(op, cause)
}

// degrade latches the fallback and seeds memory from the primary's last
// good snapshot, so ids keep counting from where the primary left off.
func (s *Selector) degrade(op string, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.degraded.Load() {
		return
	}

	s.logger.Warn("storage degraded to memory fallback",
		zap.String("backend", string(s.primary.Mode)),
		zap.String("op", op),
		zap.Error(cause))

	if src, ok := s.primary.Store.(ports.SnapshotSource); ok {
		if snap, ok := src.Snapshot(); ok {
			s.memory.LoadDataset(snap)
			s.logger.Info("memory fallback seeded from last snapshot", zap.Int("links", len(snap.Links)))
		}
	}
	s.degraded.Store(true)
}
