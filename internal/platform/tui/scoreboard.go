package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tetrion/internal/sim"
	"github.com/vovakirdan/tetrion/internal/storage"
)

const maxScores = 100

var scoreboardModes = []storage.Mode{storage.ModeSingle, storage.ModeMulti}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextMode key.Binding
	Back     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextMode, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.NextMode, k.Back}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "single/multi"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "q"),
			key.WithHelp("esc/b", "back"),
		),
	}
}

// ScoreboardScene lists the best stored results per game mode.
type ScoreboardScene struct {
	store   *storage.Store
	mode    int
	results []storage.Result
	summary storage.Summary
	err     error
	table   table.Model
	help    help.Model
	keys    ScoreboardKeyMap
	width   int
	height  int
}

// NewScoreboardScene creates a scoreboard over store, which may be nil.
func NewScoreboardScene(store *storage.Store) *ScoreboardScene {
	m := &ScoreboardScene{
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  80,
		height: 24,
	}
	m.table = m.createTable()
	return m
}

// Mode returns the game mode being shown.
func (m *ScoreboardScene) Mode() storage.Mode {
	return scoreboardModes[m.mode]
}

// Results returns the loaded results.
func (m *ScoreboardScene) Results() []storage.Result {
	return m.results
}

// createTable creates a new table sized for the terminal.
func (m *ScoreboardScene) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Score", Width: 12},
		{Title: "Lines", Width: 6},
		{Title: "Level", Width: 5},
		{Title: "Time", Width: 9},
		{Title: "Played", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// load reads the results of the current mode.
func (m *ScoreboardScene) load() {
	m.results, m.summary, m.err = nil, storage.Summary{}, nil
	if m.store != nil {
		mode := m.Mode()
		if m.results, m.err = m.store.TopResults(mode, maxScores); m.err == nil {
			m.summary, m.err = m.store.Summary(mode)
		}
	}
	m.updateTableRows()
}

func (m *ScoreboardScene) updateTableRows() {
	rows := make([]table.Row, len(m.results))
	for i, r := range m.results {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			humanize.Comma(int64(r.Score)),
			fmt.Sprint(r.Lines),
			fmt.Sprint(r.Level),
			FormatElapsed(sim.TickTime(r.Ticks)),
			humanize.Time(r.CreatedAt),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init loads the scores.
func (m *ScoreboardScene) Init() tea.Cmd {
	m.load()
	return nil
}

// Update handles messages for the scoreboard.
func (m *ScoreboardScene) Update(msg tea.Msg, mgr SceneManager) (UpdateResult, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			mgr.PopCurrentScene()
		case key.Matches(msg, m.keys.NextMode):
			m.mode = (m.mode + 1) % len(scoreboardModes)
			m.load()
		default:
			m.table, cmd = m.table.Update(msg)
		}
		return StopUpdating, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
	}
	return KeepUpdating, nil
}

// View renders the scoreboard.
func (m *ScoreboardScene) View(width, height int) string {
	var b strings.Builder

	title := fmt.Sprintf("HIGH SCORES - %s", strings.ToUpper(string(m.Mode())))
	b.WriteString(titleStyle.MarginBottom(1).Render(centerText(title, width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), width))
	b.WriteString("\n")

	if m.summary.Games > 0 {
		line := fmt.Sprintf("%s games  best %s  %s lines",
			humanize.Comma(int64(m.summary.Games)),
			humanize.Comma(int64(m.summary.BestScore)),
			humanize.Comma(int64(m.summary.TotalLines)))
		b.WriteString(centerText(subtleStyle.Render(line), width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtleStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m *ScoreboardScene) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.store == nil:
		return emptyStyle.Render("Score history is disabled.")
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("Failed to load scores: %v", m.err))
	case len(m.results) == 0:
		return emptyStyle.Render("No games recorded yet.\nFinish a game to set a high score!")
	}
	return m.table.View()
}

// Close implements Scene.
func (m *ScoreboardScene) Close() {}
