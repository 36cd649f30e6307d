package tui

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tetrion/internal/config"
	"github.com/vovakirdan/tetrion/internal/sim"
	"github.com/vovakirdan/tetrion/internal/storage"
)

func testDeps(t *testing.T, engine sim.Engine) Deps {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return Deps{
		Engine:   engine,
		Config:   config.Default(),
		Controls: config.DefaultControls(),
		Store:    store,
		Registry: sim.NewRegistry(),
	}
}

// startGame pushes a game scene onto a fresh stack.
func startGame(t *testing.T, deps Deps, opts GameOptions) (*SceneStack, *GameScene) {
	t.Helper()
	g := NewGameScene(context.Background(), deps, opts)
	s := NewSceneStack(g)
	s.apply()
	t.Cleanup(s.Close)
	return s, g
}

func frameFor(g *GameScene) FrameMsg {
	return FrameMsg{Owner: g.Session().ID(), Time: time.Now()}
}

// playUntil delivers frames until cond holds or the deadline passes.
func playUntil(t *testing.T, s *SceneStack, g *GameScene, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		require.True(t, time.Now().Before(deadline), "condition not reached")
		s.Update(frameFor(g))
		time.Sleep(2 * time.Millisecond)
	}
}

func TestGameSceneStartsSession(t *testing.T) {
	engine := &stubEngine{}
	deps := testDeps(t, engine)
	_, g := startGame(t, deps, GameOptions{Seed: 42})

	require.NotNil(t, g.Session())
	assert.Equal(t, uint64(42), g.Session().Seed())
	assert.Equal(t, 1, deps.Registry.Count())
	assert.Equal(t, int32(1), engine.created.Load())
}

func TestGameScenePicksRandomSeed(t *testing.T) {
	g := NewGameScene(context.Background(), Deps{Engine: &stubEngine{}}, GameOptions{})
	assert.NotZero(t, g.opts.Seed)

	remote := &sim.Endpoint{Host: "localhost", Port: 12345}
	g = NewGameScene(context.Background(), Deps{Engine: &stubEngine{}}, GameOptions{Remote: remote})
	assert.Zero(t, g.opts.Seed)
}

func TestGameSceneRendersFrames(t *testing.T) {
	s, g := startGame(t, testDeps(t, &stubEngine{}), GameOptions{Seed: 1})

	assert.Contains(t, g.View(120, 40), "Starting...")

	playUntil(t, s, g, func() bool { return g.hasFrame })
	view := g.View(120, 40)
	assert.Contains(t, view, "HOLD")
	assert.Contains(t, view, "NEXT")
	assert.Contains(t, view, "menu")

	assert.Contains(t, g.View(20, 10), "Terminal too small")
}

func TestGameSceneIgnoresForeignFrames(t *testing.T) {
	_, g := startGame(t, testDeps(t, &stubEngine{}), GameOptions{Seed: 1})

	result, cmd := g.Update(FrameMsg{Owner: "someone-else", Time: time.Now()}, nil)
	assert.Equal(t, KeepUpdating, result)
	assert.Nil(t, cmd)
	assert.False(t, g.hasFrame)
}

func TestGameSceneSubmitsLatchedInput(t *testing.T) {
	s, g := startGame(t, testDeps(t, &stubEngine{}), GameOptions{Seed: 1})

	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	s.Update(frameFor(g))

	assert.True(t, g.Session().Input().Left)
	assert.False(t, g.Session().Input().Right)
}

func TestGameSceneSavesResultOnce(t *testing.T) {
	deps := testDeps(t, &stubEngine{overAt: 3})
	s, g := startGame(t, deps, GameOptions{Seed: 7})

	playUntil(t, s, g, func() bool { return g.frame.GameOver })
	// Keep rendering after game over.
	for range 5 {
		s.Update(frameFor(g))
	}

	results, err := deps.Store.TopResults(storage.ModeSingle, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, g.Session().ID(), results[0].SessionID)
	assert.Equal(t, uint64(30), results[0].Score)
	assert.Equal(t, uint64(7), results[0].Seed)
	assert.Equal(t, uint32(2), results[0].Lines)

	assert.Contains(t, g.View(120, 40), "GAME OVER")
}

func TestGameSceneEscShutsSessionDown(t *testing.T) {
	engine := &stubEngine{}
	deps := testDeps(t, engine)
	s, g := startGame(t, deps, GameOptions{Seed: 1})

	s.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, s.IsEmpty())
	assert.True(t, g.Session().IsFinished())
	assert.True(t, engine.last.Load().destroyed.Load())
	assert.Zero(t, deps.Registry.Count())

	// Closing again is harmless.
	g.Close()
}

func TestGameSceneRestartAfterGameOver(t *testing.T) {
	engine := &stubEngine{overAt: 2}
	deps := testDeps(t, engine)
	s, g := startGame(t, deps, GameOptions{Seed: 1})

	// Restart is disabled while playing.
	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	assert.Equal(t, g, s.Top())

	playUntil(t, s, g, func() bool { return g.frame.GameOver })
	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	require.Equal(t, 1, s.Len())
	next, ok := s.Top().(*GameScene)
	require.True(t, ok)
	assert.NotEqual(t, g, next)
	assert.True(t, g.Session().IsFinished())
	assert.Equal(t, int32(2), engine.created.Load())
}

func TestGameSceneCreateFailure(t *testing.T) {
	deps := testDeps(t, &stubEngine{newErr: errStub})
	s, g := startGame(t, deps, GameOptions{Seed: 1})

	assert.ErrorIs(t, g.err, errStub)
	assert.Contains(t, g.View(120, 40), "stub: no engine")
	assert.Zero(t, deps.Registry.Count())

	s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, s.IsEmpty())
}

func TestFPSCounter(t *testing.T) {
	var c fpsCounter
	t0 := time.Unix(0, 0)
	for i := range 31 {
		c.tick(t0.Add(time.Duration(i) * time.Second / 30))
	}
	assert.Equal(t, 30, c.value)
}
