package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tetrion/internal/config"
	"github.com/vovakirdan/tetrion/internal/core"
	"github.com/vovakirdan/tetrion/internal/sim"
	"github.com/vovakirdan/tetrion/internal/storage"
)

// GameOptions selects the kind of game a GameScene plays.
type GameOptions struct {
	Seed   uint64        // Single player; zero picks a random seed
	Remote *sim.Endpoint // Multiplayer server
}

// GameKeyMap describes the game controls for the help line.
type GameKeyMap struct {
	Move    key.Binding
	Drop    key.Binding
	Rotate  key.Binding
	Hold    key.Binding
	Restart key.Binding
	Back    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Drop, k.Rotate, k.Hold, k.Restart, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Move, k.Drop, k.Rotate, k.Hold}, {k.Restart, k.Back}}
}

// NewGameKeyMap builds the help bindings from the configured controls.
func NewGameKeyMap(c config.Controls) GameKeyMap {
	bind := func(desc string, controls ...core.Control) key.Binding {
		var keys []string
		for _, ctl := range controls {
			keys = append(keys, c[ctl]...)
		}
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, "/"), desc))
	}
	restart := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart"))
	restart.SetEnabled(false)
	return GameKeyMap{
		Move:    bind("move", core.ControlLeft, core.ControlRight),
		Drop:    bind("soft/hard drop", core.ControlSoftDrop, core.ControlHardDrop),
		Rotate:  bind("rotate", core.ControlRotateCW, core.ControlRotateCCW),
		Hold:    bind("hold", core.ControlHold),
		Restart: restart,
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "menu")),
	}
}

// GameScene plays one simulation session.
//
// The session's driver goroutine advances the game; the scene only publishes
// the latched input and draws the polled frame once per render frame.
type GameScene struct {
	ctx  context.Context
	deps Deps
	opts GameOptions

	session *sim.Session
	latch   *KeyLatch
	screen  *core.Screen
	keys    GameKeyMap
	help    help.Model
	fps     fpsCounter

	frame    sim.Frame
	hasFrame bool
	err      error
	saved    bool
	closed   bool
}

// NewGameScene creates a game scene. The session starts when the scene is
// pushed.
func NewGameScene(ctx context.Context, deps Deps, opts GameOptions) *GameScene {
	deps = deps.withDefaults()
	if opts.Remote == nil && opts.Seed == 0 {
		opts.Seed = rand.Uint64()
	}
	return &GameScene{
		ctx:    ctx,
		deps:   deps,
		opts:   opts,
		latch:  NewKeyLatch(deps.Controls, deps.Config.Input.HoldWindow),
		screen: core.NewScreen(0, 0),
		keys:   NewGameKeyMap(deps.Controls),
		help:   help.New(),
	}
}

// Session returns the scene's simulation session.
func (g *GameScene) Session() *sim.Session {
	return g.session
}

// Init creates the session and starts the frame loop.
func (g *GameScene) Init() tea.Cmd {
	g.session = sim.New(g.deps.Engine, sim.Options{
		Seed:         g.opts.Seed,
		Remote:       g.opts.Remote,
		IdleInterval: g.deps.Config.Engine.IdleInterval,
		Logger:       g.deps.Logger.WithPrefix("sim"),
		OnAction:     g.deps.Audio.HandleAction,
	})
	if err := g.session.Initialize(g.ctx); err != nil {
		g.deps.Logger.Error("failed to start game", "err", err)
		g.fail(err)
		return nil
	}
	if g.deps.Registry != nil {
		g.deps.Registry.Register(g.session)
	}
	g.deps.Logger.Info("game started",
		"session", g.session.ID(), "seed", g.opts.Seed, "multiplayer", g.session.Multiplayer())
	return frameCmd(g.session.ID(), g.deps.Config.Render.FPS)
}

// Update handles keys and frame ticks. Keys never reach the scenes below.
func (g *GameScene) Update(msg tea.Msg, mgr SceneManager) (UpdateResult, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		if g.session == nil || msg.Owner != g.session.ID() {
			return KeepUpdating, nil
		}
		return StopUpdating, g.onFrame(msg.Time)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, g.keys.Back):
			mgr.PopCurrentScene()
		case key.Matches(msg, g.keys.Restart):
			mgr.PopCurrentScene()
			mgr.PushScene(NewGameScene(g.ctx, g.deps, GameOptions{Seed: g.deps.Seed}))
		default:
			g.latch.Press(keyName(msg), time.Now())
		}
		return StopUpdating, nil

	case tea.WindowSizeMsg:
		g.help.Width = msg.Width
	}
	return KeepUpdating, nil
}

func (g *GameScene) onFrame(now time.Time) tea.Cmd {
	g.session.SubmitInput(g.latch.Input(now))

	frame, err := g.session.PollFrame()
	if err != nil {
		g.deps.Logger.Error("simulation stopped", "session", g.session.ID(), "err", err)
		g.fail(err)
		return nil
	}
	g.frame = frame
	g.hasFrame = true
	g.fps.tick(now)

	if frame.GameOver {
		g.keys.Restart.SetEnabled(g.canRestart())
		g.saveResult()
	}
	return frameCmd(g.session.ID(), g.deps.Config.Render.FPS)
}

func (g *GameScene) fail(err error) {
	g.err = err
	g.keys.Restart.SetEnabled(g.canRestart())
}

func (g *GameScene) canRestart() bool {
	return g.opts.Remote == nil && (g.err != nil || g.frame.GameOver)
}

// saveResult stores the final frame's stats once per session.
func (g *GameScene) saveResult() {
	if g.saved || g.deps.Store == nil {
		return
	}
	g.saved = true

	mode := storage.ModeSingle
	if g.session.Multiplayer() {
		mode = storage.ModeMulti
	}
	result := storage.Result{
		SessionID: g.session.ID(),
		Mode:      mode,
		Seed:      g.opts.Seed,
		Score:     g.frame.Stats.Score,
		Lines:     g.frame.Stats.LinesCleared,
		Level:     g.frame.Stats.Level,
		Ticks:     g.frame.Tick,
	}
	if _, err := g.deps.Store.SaveResult(result); err != nil {
		g.deps.Logger.Error("failed to save result", "session", g.session.ID(), "err", err)
		return
	}
	g.deps.Logger.Info("result saved", "session", g.session.ID(), "score", result.Score)
}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

// View draws the latest frame centered in the terminal.
func (g *GameScene) View(width, height int) string {
	var content string
	switch {
	case g.err != nil:
		hint := "esc: menu"
		if g.canRestart() {
			hint = "r: restart  esc: menu"
		}
		content = errorStyle.Render(fmt.Sprintf("Error: %v", g.err)) + "\n\n" + subtleStyle.Render(hint)
	case !g.hasFrame:
		msg := "Starting..."
		if r := g.opts.Remote; r != nil {
			msg = fmt.Sprintf("Connecting to %s:%d...", r.Host, r.Port)
		}
		content = messageStyle.Render(msg)
	default:
		fw, fh := FrameSize(g.frame)
		if width > 0 && (width < fw || height < fh+1) {
			content = errorStyle.Render(fmt.Sprintf("Terminal too small: need %dx%d, have %dx%d", fw, fh+1, width, height))
			break
		}
		g.screen.Resize(fw, fh)
		g.screen.Clear()
		DrawFrame(g.screen, g.frame, HUD{FPS: g.fps.value})
		content = RenderScreen(g.screen) + "\n" + subtleStyle.Render(g.help.View(g.keys))
	}

	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Close shuts the session down. Calling it twice is a no-op.
func (g *GameScene) Close() {
	if g.closed || g.session == nil {
		g.closed = true
		return
	}
	g.closed = true

	if err := g.session.Shutdown(); err != nil {
		g.deps.Logger.Error("session ended with error", "session", g.session.ID(), "err", err)
	}
	if g.deps.Registry != nil {
		g.deps.Registry.Unregister(g.session)
	}
	g.deps.Logger.Info("game closed", "session", g.session.ID())
}

// fpsCounter measures the render rate once per second.
type fpsCounter struct {
	start  time.Time
	frames int
	value  int
}

func (c *fpsCounter) tick(now time.Time) {
	if c.start.IsZero() {
		c.start = now
		return
	}
	c.frames++
	if elapsed := now.Sub(c.start); elapsed >= time.Second {
		c.value = int(float64(c.frames)/elapsed.Seconds() + 0.5)
		c.frames = 0
		c.start = now
	}
}
