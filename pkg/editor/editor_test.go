package editor_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/lc/confkeep/pkg/editor"
	"github.com/lc/confkeep/pkg/manager"
)

type prefs struct {
	Volume int
	Muted  bool
}

type memStore struct {
	cfg   *prefs
	saves int
}

func (m *memStore) Deserialize() (*prefs, error) { return m.cfg, nil }

func (m *memStore) Serialize(*prefs) error {
	m.saves++
	return nil
}

func prefOptions(p *prefs) []editor.Option {
	return []editor.Option{
		{
			Key:         "volume",
			Description: "Output volume",
			Get:         func() string { return strconv.Itoa(p.Volume) },
			Set: func(s string) error {
				v, err := strconv.Atoi(s)
				if err != nil {
					return errors.New("not a number")
				}
				p.Volume = v
				return nil
			},
		},
		{
			Key:         "muted",
			Description: "Mute output",
			Get:         func() string { return strconv.FormatBool(p.Muted) },
			Set: func(s string) error {
				b, err := strconv.ParseBool(s)
				if err != nil {
					return err
				}
				p.Muted = b
				return nil
			},
		},
	}
}

type EditorTestSuite struct {
	suite.Suite
	store *memStore
	mgr   *manager.Manager[*prefs]
}

func (s *EditorTestSuite) SetupTest() {
	s.store = &memStore{cfg: &prefs{Volume: 5}}
	s.mgr = manager.New[*prefs](s.store, manager.WithLogger(zap.NewNop().Sugar()))
}

func (s *EditorTestSuite) TestOpenLoadsConfig() {
	sess := editor.Open(s.mgr, prefOptions)

	s.True(s.mgr.Loaded())
	s.Same(s.mgr.Config(), sess.Config())
}

func (s *EditorTestSuite) TestOptionsSortedByKey() {
	sess := editor.Open(s.mgr, prefOptions)

	opts := sess.Options()

	s.Require().Len(opts, 2)
	s.Equal("muted", opts[0].Key)
	s.Equal("volume", opts[1].Key)
}

func (s *EditorTestSuite) TestSetMutatesLiveConfig() {
	// Given an open session
	sess := editor.Open(s.mgr, prefOptions)

	// When an option is set
	s.Require().NoError(sess.Set("volume", "11"))

	// Then the manager's instance sees it before any save
	s.Equal(11, s.mgr.Config().Volume)
	got, err := sess.Get("volume")
	s.Require().NoError(err)
	s.Equal("11", got)
	s.Equal(0, s.store.saves)
}

func (s *EditorTestSuite) TestSetInvalidValueLeavesConfig() {
	sess := editor.Open(s.mgr, prefOptions)

	err := sess.Set("volume", "loud")

	s.ErrorContains(err, "setting volume: not a number")
	s.Equal(5, s.mgr.Config().Volume)
}

func (s *EditorTestSuite) TestUnknownOption() {
	sess := editor.Open(s.mgr, prefOptions)

	s.ErrorIs(sess.Set("bass", "1"), editor.ErrUnknownOption)
	_, err := sess.Get("bass")
	s.ErrorIs(err, editor.ErrUnknownOption)
}

func (s *EditorTestSuite) TestCloseSavesOnce() {
	// Given an edited session
	sess := editor.Open(s.mgr, prefOptions)
	s.Require().NoError(sess.Set("muted", "true"))

	// When it is closed twice
	s.Require().NoError(sess.Close())
	err := sess.Close()

	// Then the config was saved exactly once and the session is dead
	s.ErrorIs(err, editor.ErrClosed)
	s.Equal(1, s.store.saves)
	s.ErrorIs(sess.Set("muted", "false"), editor.ErrClosed)
	s.True(s.mgr.Config().Muted)
}

func TestEditorSuite(t *testing.T) {
	suite.Run(t, new(EditorTestSuite))
}
