// Package manager holds the live config instance of a host application.
//
// A Manager is created once per config file and passed to whatever needs the
// config. The instance is loaded on first access, mutated in place by its
// callers and written back on Save. Managers do no locking: they are meant to
// be driven from the single goroutine that owns the UI.
package manager

import (
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/lc/confkeep/internal/log"
)

// Store loads and persists a config. *serializer.Serializer satisfies it.
type Store[C any] interface {
	// Deserialize returns a complete config; the error is a diagnostic only.
	Deserialize() (C, error)
	Serialize(cfg C) error
}

// Stats counts store round-trips made by a Manager.
type Stats struct {
	Loads    int64
	Saves    int64
	Failures int64
}

// Manager owns the single live config loaded through a Store.
type Manager[C any] struct {
	store  Store[C]
	logger *zap.SugaredLogger

	cfg     C
	loaded  bool
	loadErr error

	loads    atomic.Int64
	saves    atomic.Int64
	failures atomic.Int64
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	logger *zap.SugaredLogger
}

// WithLogger sets the logger diagnostics are reported to.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) { o.logger = l }
}

// New returns an unloaded manager backed by store.
func New[C any](store Store[C], opts ...Option) *Manager[C] {
	o := options{logger: log.Named("manager")}
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager[C]{
		store:  store,
		logger: o.logger,
	}
}

// Config returns the live config, loading it on the first call. Every call
// returns the same instance.
func (m *Manager[C]) Config() C {
	if m.loaded {
		return m.cfg
	}

	cfg, err := m.store.Deserialize()
	m.loads.Inc()
	if err != nil {
		m.failures.Inc()
		m.logger.Warnw("config loaded with problems, using defaults where needed", "error", err)
	}
	m.cfg = cfg
	m.loadErr = err
	m.loaded = true
	return m.cfg
}

// Save writes the live config back to the store. It is a no-op until Config
// has been called. A failed write is logged and returned; the in-memory
// config stays authoritative either way.
func (m *Manager[C]) Save() error {
	if !m.loaded {
		m.logger.Debug("save skipped: config was never loaded")
		return nil
	}

	m.saves.Inc()
	if err := m.store.Serialize(m.cfg); err != nil {
		m.failures.Inc()
		m.logger.Warnw("could not save config", "error", err)
		return err
	}
	return nil
}

// Loaded reports whether Config has been called.
func (m *Manager[C]) Loaded() bool { return m.loaded }

// LoadErr returns the diagnostic reported by the first load, if any. The
// config returned by Config is complete regardless.
func (m *Manager[C]) LoadErr() error { return m.loadErr }

// Stats returns the store round-trip counters.
func (m *Manager[C]) Stats() Stats {
	return Stats{
		Loads:    m.loads.Load(),
		Saves:    m.saves.Load(),
		Failures: m.failures.Load(),
	}
}
