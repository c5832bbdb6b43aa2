// Package editor models an editing session over a managed config, the way a
// settings screen uses one: open it, read and change options on the live
// config, close it, and the config is saved.
package editor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lc/confkeep/pkg/manager"
)

var (
	// ErrUnknownOption is returned for a key the config does not expose.
	ErrUnknownOption = errors.New("unknown option")
	// ErrClosed is returned when a session is used after Close.
	ErrClosed = errors.New("session closed")
)

// Option is one editable setting bound to a live config.
type Option struct {
	Key         string
	Description string
	Get         func() string
	// Set parses value and stores it. It must leave the config untouched
	// when parsing fails.
	Set func(value string) error
}

// Options builds the editable options for a config instance.
type Options[C any] func(cfg C) []Option

// Session is a single-use editing session. Do not reuse it after Close.
type Session[C any] struct {
	mgr     *manager.Manager[C]
	options []Option
	byKey   map[string]Option
	closed  bool
}

// Open starts a session on the manager's live config.
func Open[C any](mgr *manager.Manager[C], options Options[C]) *Session[C] {
	opts := options(mgr.Config())
	byKey := make(map[string]Option, len(opts))
	for _, o := range opts {
		byKey[o.Key] = o
	}
	return &Session[C]{
		mgr:     mgr,
		options: opts,
		byKey:   byKey,
	}
}

// Config returns the config being edited.
func (s *Session[C]) Config() C { return s.mgr.Config() }

// Options returns the editable options sorted by key.
func (s *Session[C]) Options() []Option {
	out := make([]Option, len(s.options))
	copy(out, s.options)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Get returns the current value of key.
func (s *Session[C]) Get(key string) (string, error) {
	o, ok := s.byKey[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownOption, key)
	}
	return o.Get(), nil
}

// Set changes key on the live config.
func (s *Session[C]) Set(key, value string) error {
	if s.closed {
		return ErrClosed
	}
	o, ok := s.byKey[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, key)
	}
	if err := o.Set(value); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}

// Close ends the session and saves the config.
func (s *Session[C]) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.mgr.Save()
}
