// Package serializer persists one typed config object to one file.
//
// Deserialize never hands back a partial config: a missing file, an unusable
// directory, unparsable content or a document lacking any required field all
// resolve to a fresh default, and where possible the file is rewritten with
// that default so the next run starts clean. The accompanying error is a
// diagnostic for the caller to log; the returned config is always usable.
package serializer

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/lc/confkeep/internal/filesys"
)

var (
	// ErrDirUnusable is returned when the config directory cannot be created.
	// The default config is returned but nothing is written.
	ErrDirUnusable = errors.New("config directory unusable")
	// ErrCorrupted is returned when the config file could not be read, parsed
	// or lacks a required field. The file has been replaced by the default.
	ErrCorrupted = errors.New("corrupted config file")
	// ErrWrite is returned when the config could not be written.
	ErrWrite = errors.New("could not write config")
)

const (
	// DefaultFilePerm is the mode config files are written with.
	DefaultFilePerm fs.FileMode = 0o644
	// DefaultDirPerm is the mode missing config directories are created with.
	DefaultDirPerm fs.FileMode = 0o755
)

// Config is the capability a persisted type must provide. T is the struct
// type; the pointer is what gets decoded into and handed to callers.
type Config[T any] interface {
	*T
	// Fields lists every key a stored document must carry with a non-null
	// value. Nested keys are joined with ".", e.g. "display.color".
	Fields() []string
}

// Validator is implemented by configs that need presence checks the key
// list cannot express, such as a nil slice inside a present table.
type Validator interface {
	Validate() error
}

// Serializer reads and writes a config of type T at a fixed path.
type Serializer[T any, P Config[T]] struct {
	path     string
	defaults func() P
	fs       filesys.FS
	codec    Codec
	perm     fs.FileMode
}

// Option configures a Serializer.
type Option func(*options)

type options struct {
	fs    filesys.FS
	codec Codec
	perm  fs.FileMode
}

// WithFS overrides the file system, which defaults to the local disk.
func WithFS(fsys filesys.FS) Option { return func(o *options) { o.fs = fsys } }

// WithCodec overrides the codec picked from the file extension.
func WithCodec(c Codec) Option { return func(o *options) { o.codec = c } }

// WithPermissions sets the mode written files get.
func WithPermissions(perm fs.FileMode) Option { return func(o *options) { o.perm = perm } }

// New creates a serializer for the file at path. defaults must return a
// fresh, valid config on every call.
func New[T any, P Config[T]](path string, defaults func() P, opts ...Option) *Serializer[T, P] {
	o := options{
		fs:    filesys.OS(),
		codec: CodecFor(path),
		perm:  DefaultFilePerm,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Serializer[T, P]{
		path:     path,
		defaults: defaults,
		fs:       o.fs,
		codec:    o.codec,
		perm:     o.perm,
	}
}

// Path returns the file the serializer reads and writes.
func (s *Serializer[T, P]) Path() string { return s.path }

// Codec returns the codec in use.
func (s *Serializer[T, P]) Codec() Codec { return s.codec }

// Deserialize loads the config. It always returns a complete config; a
// non-nil error describes why the default was substituted or why healing
// the file failed.
func (s *Serializer[T, P]) Deserialize() (P, error) {
	if !filesys.IsRegular(s.fs, s.path) {
		return s.firstRun()
	}

	cfg, err := s.load()
	if err == nil {
		return cfg, nil
	}

	err = fmt.Errorf("%w %s: %w", ErrCorrupted, s.path, err)
	def := s.defaults()
	if werr := s.Serialize(def); werr != nil {
		err = multierr.Append(err, werr)
	}
	return def, err
}

// Serialize writes cfg to the target path, replacing whatever was there.
// On failure the file is left as it was.
func (s *Serializer[T, P]) Serialize(cfg P) error {
	data, err := s.codec.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w %s: encoding: %w", ErrWrite, s.path, err)
	}
	if err := filesys.AtomicWrite(s.fs, s.path, data, s.perm); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, s.path, err)
	}
	return nil
}

// firstRun handles a target that is not a regular file: the default is
// written when the directory can be made and returned either way.
func (s *Serializer[T, P]) firstRun() (P, error) {
	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, DefaultDirPerm); err != nil && !filesys.IsDir(s.fs, dir) {
		return s.defaults(), fmt.Errorf("%w %s: %w", ErrDirUnusable, dir, err)
	}

	def := s.defaults()
	if err := s.Serialize(def); err != nil {
		return def, err
	}
	return def, nil
}

func (s *Serializer[T, P]) load() (P, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}

	var doc map[string]any
	if err := s.codec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}

	var cfg P = new(T)
	if err := missingFields(doc, cfg.Fields()); err != nil {
		return nil, err
	}
	if err := s.codec.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	if v, ok := any(cfg).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("validating: %w", err)
		}
	}
	return cfg, nil
}

// missingFields reports every required key that is absent or null in doc.
func missingFields(doc map[string]any, fields []string) error {
	var err error
	for _, f := range fields {
		if !present(doc, f) {
			err = multierr.Append(err, fmt.Errorf("missing field %q", f))
		}
	}
	return err
}

func present(doc map[string]any, path string) bool {
	var cur any = doc
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return false
		}
		if cur, ok = m[key]; !ok {
			return false
		}
	}
	return cur != nil
}
