package manager_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lc/confkeep/pkg/manager"
	"github.com/lc/confkeep/pkg/serializer"
)

type settings struct {
	Theme string `yaml:"theme"`
	Size  int    `yaml:"size"`
}

func (s *settings) Fields() []string { return []string{"theme", "size"} }

func defaultSettings() *settings { return &settings{Theme: "dark", Size: 12} }

// countingStore records every call the manager makes.
type countingStore struct {
	cfg     *settings
	loadErr error
	saveErr error
	loads   int
	saved   []settings
}

func (c *countingStore) Deserialize() (*settings, error) {
	c.loads++
	return c.cfg, c.loadErr
}

func (c *countingStore) Serialize(cfg *settings) error {
	c.saved = append(c.saved, *cfg)
	return c.saveErr
}

type ManagerTestSuite struct {
	suite.Suite
	store  *countingStore
	logs   *observer.ObservedLogs
	logger *zap.SugaredLogger
	mgr    *manager.Manager[*settings]
}

func (s *ManagerTestSuite) SetupTest() {
	core, logs := observer.New(zapcore.DebugLevel)
	s.logs = logs
	s.logger = zap.New(core).Sugar()
	s.store = &countingStore{cfg: defaultSettings()}
	s.mgr = manager.New[*settings](s.store, manager.WithLogger(s.logger))
}

func (s *ManagerTestSuite) TestConfigLoadsOnce() {
	// When the config is requested twice
	first := s.mgr.Config()
	second := s.mgr.Config()

	// Then the same instance is returned and the store is read once
	s.Same(first, second)
	s.Equal(1, s.store.loads)
	s.Equal(int64(1), s.mgr.Stats().Loads)
}

func (s *ManagerTestSuite) TestUnloadedUntilFirstAccess() {
	s.False(s.mgr.Loaded())
	s.Equal(0, s.store.loads)

	s.mgr.Config()

	s.True(s.mgr.Loaded())
}

func (s *ManagerTestSuite) TestSaveWithoutLoadIsNoop() {
	// When saving before the config was ever loaded
	err := s.mgr.Save()

	// Then nothing is loaded or written
	s.NoError(err)
	s.Equal(0, s.store.loads)
	s.Empty(s.store.saved)
	s.False(s.mgr.Loaded())
}

func (s *ManagerTestSuite) TestSavePersistsInPlaceMutations() {
	// Given a loaded config mutated in place
	cfg := s.mgr.Config()
	cfg.Theme = "light"

	// When saving twice
	s.Require().NoError(s.mgr.Save())
	cfg.Size = 14
	s.Require().NoError(s.mgr.Save())

	// Then each save writes the live instance and the state stays loaded
	s.Equal([]settings{{Theme: "light", Size: 12}, {Theme: "light", Size: 14}}, s.store.saved)
	s.Same(cfg, s.mgr.Config())
	s.Equal(1, s.store.loads)
	s.Equal(int64(2), s.mgr.Stats().Saves)
}

func (s *ManagerTestSuite) TestLoadDiagnosticIsLoggedNotFatal() {
	// Given a store that substituted defaults
	s.store.loadErr = serializer.ErrCorrupted

	// When loading
	cfg := s.mgr.Config()

	// Then the config is still handed out and the problem is logged
	s.Equal(defaultSettings(), cfg)
	s.ErrorIs(s.mgr.LoadErr(), serializer.ErrCorrupted)
	s.Equal(int64(1), s.mgr.Stats().Failures)
	entries := s.logs.FilterLevelExact(zapcore.WarnLevel).All()
	s.Require().Len(entries, 1)
	s.Equal("config loaded with problems, using defaults where needed", entries[0].Message)
}

func (s *ManagerTestSuite) TestSaveFailureIsReturnedAndLogged() {
	// Given a store that cannot write
	s.store.saveErr = errors.New("disk full")
	cfg := s.mgr.Config()
	cfg.Theme = "light"

	// When saving
	err := s.mgr.Save()

	// Then the error is reported and the in-memory config is kept
	s.EqualError(err, "disk full")
	s.Equal("light", s.mgr.Config().Theme)
	s.Equal(1, s.logs.FilterMessage("could not save config").Len())
	s.Equal(int64(1), s.mgr.Stats().Failures)
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func TestSaveThenFreshManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	nop := manager.WithLogger(zap.NewNop().Sugar())

	// Given a manager whose config was edited and saved
	first := manager.New[*settings](serializer.New[settings](path, defaultSettings), nop)
	cfg := first.Config()
	cfg.Theme = "solarized"
	cfg.Size = 16
	require.NoError(t, first.Save())

	// When a new manager reads the same file
	second := manager.New[*settings](serializer.New[settings](path, defaultSettings), nop)

	// Then it sees the saved values
	require.Equal(t, cfg, second.Config())
	require.NoError(t, second.LoadErr())
}
