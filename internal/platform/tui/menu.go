package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tetrion/internal/sim"
)

// MenuAction identifies a menu entry.
type MenuAction int

const (
	MenuSinglePlayer MenuAction = iota
	MenuMultiplayer
	MenuScoreboard
	MenuControls
	MenuQuit
)

// MenuItem is one selectable entry of the main menu.
type MenuItem struct {
	Action MenuAction
	Title  string
}

// MenuScene is the main menu.
type MenuScene struct {
	ctx    context.Context
	deps   Deps
	items  []MenuItem
	cursor int
	keys   MenuKeyMap
	help   help.Model
}

// NewMenuScene creates the main menu. The multiplayer entry is only offered
// when a server is configured.
func NewMenuScene(ctx context.Context, deps Deps) *MenuScene {
	deps = deps.withDefaults()
	items := []MenuItem{{Action: MenuSinglePlayer, Title: "Single player"}}
	if srv := deps.Config.Server; srv.Enabled() {
		items = append(items, MenuItem{
			Action: MenuMultiplayer,
			Title:  fmt.Sprintf("Multiplayer (%s:%d)", srv.Host, srv.Port),
		})
	}
	items = append(items,
		MenuItem{Action: MenuScoreboard, Title: "High scores"},
		MenuItem{Action: MenuControls, Title: "Controls"},
		MenuItem{Action: MenuQuit, Title: "Quit"},
	)
	return &MenuScene{
		ctx:   ctx,
		deps:  deps,
		items: items,
		keys:  DefaultMenuKeyMap(),
		help:  help.New(),
	}
}

// Items returns the menu entries.
func (m *MenuScene) Items() []MenuItem {
	return m.items
}

// Init implements Scene.
func (m *MenuScene) Init() tea.Cmd {
	return nil
}

// Update handles menu navigation.
func (m *MenuScene) Update(msg tea.Msg, mgr SceneManager) (UpdateResult, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			mgr.PopCurrentScene()
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			m.selectItem(m.items[m.cursor].Action, mgr)
		}
		return StopUpdating, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}
	return KeepUpdating, nil
}

func (m *MenuScene) selectItem(action MenuAction, mgr SceneManager) {
	switch action {
	case MenuSinglePlayer:
		mgr.PushScene(NewGameScene(m.ctx, m.deps, GameOptions{Seed: m.deps.Seed}))
	case MenuMultiplayer:
		srv := m.deps.Config.Server
		mgr.PushScene(NewGameScene(m.ctx, m.deps, GameOptions{
			Remote: &sim.Endpoint{Host: srv.Host, Port: srv.Port},
		}))
	case MenuScoreboard:
		mgr.PushScene(NewScoreboardScene(m.deps.Store))
	case MenuControls:
		mgr.PushScene(NewTextScene("CONTROLS", strings.Join(m.deps.Controls.Lines(), "\n")))
	case MenuQuit:
		mgr.PopCurrentScene()
	}
}

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))

// View renders the menu.
func (m *MenuScene) View(width, height int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("T E T R I O N"), width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Title, width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(subtleStyle.Render(m.help.View(m.keys)), width))
	b.WriteString("\n")

	return b.String()
}

// Close implements Scene.
func (m *MenuScene) Close() {}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// TextScene shows a block of text until it is dismissed.
type TextScene struct {
	title string
	body  string
}

// NewTextScene creates a text scene.
func NewTextScene(title, body string) *TextScene {
	return &TextScene{title: title, body: body}
}

// Init implements Scene.
func (t *TextScene) Init() tea.Cmd { return nil }

// Update pops the scene on esc, q or enter.
func (t *TextScene) Update(msg tea.Msg, mgr SceneManager) (UpdateResult, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "q", "enter":
			mgr.PopCurrentScene()
		}
		return StopUpdating, nil
	}
	return KeepUpdating, nil
}

// View renders the text centered in the terminal.
func (t *TextScene) View(width, height int) string {
	content := titleStyle.Render(t.title) + "\n\n" + t.body + "\n\n" + subtleStyle.Render("esc: back")
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Close implements Scene.
func (t *TextScene) Close() {}
