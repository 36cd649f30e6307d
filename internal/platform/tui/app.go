package tui

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tetrion/internal/audio"
	"github.com/vovakirdan/tetrion/internal/config"
	"github.com/vovakirdan/tetrion/internal/sim"
	"github.com/vovakirdan/tetrion/internal/storage"
)

// Deps are the collaborators shared by every scene of one application.
type Deps struct {
	Engine   sim.Engine
	Config   config.Config
	Controls config.Controls
	Store    *storage.Store // Optional; results are not saved without it
	Audio    audio.Player   // Optional
	Registry *sim.Registry  // Optional; tracks live sessions
	Logger   *log.Logger

	// Seed fixes the seed of single-player games. Zero picks a random one.
	Seed uint64
}

func (d Deps) withDefaults() Deps {
	if d.Audio == nil {
		d.Audio = audio.Nop{}
	}
	if d.Logger == nil {
		d.Logger = log.New(io.Discard)
	}
	if d.Controls == nil {
		d.Controls = config.DefaultControls()
	}
	if d.Config.Render.FPS <= 0 {
		d.Config.Render.FPS = config.Default().Render.FPS
	}
	if d.Config.Input.HoldWindow <= 0 {
		d.Config.Input.HoldWindow = config.Default().Input.HoldWindow
	}
	return d
}

// App is the root Bubble Tea model. It owns the scene stack and quits when
// the last scene is gone.
type App struct {
	stack  *SceneStack
	keys   GlobalKeyMap
	width  int
	height int
}

// NewApp creates an application showing initial.
func NewApp(initial Scene) *App {
	return &App{
		stack: NewSceneStack(initial),
		keys:  DefaultGlobalKeyMap(),
	}
}

// Init starts the initial scene.
func (a *App) Init() tea.Cmd {
	return a.stack.apply()
}

// Update routes msg through the scene stack.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			a.stack.Close()
			return a, tea.Quit
		}
	}

	cmd := a.stack.Update(msg)
	if a.stack.IsEmpty() {
		return a, tea.Batch(cmd, tea.Quit)
	}
	return a, cmd
}

// View renders the top scene.
func (a *App) View() string {
	return a.stack.View(a.width, a.height)
}

// Close closes every remaining scene.
func (a *App) Close() {
	a.stack.Close()
}

// Run runs the application on the current terminal until the last scene is
// gone or ctx is cancelled.
func Run(ctx context.Context, initial Scene, opts ...tea.ProgramOption) error {
	app := NewApp(initial)
	defer app.Close()

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(app, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
