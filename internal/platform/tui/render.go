package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tetrion/internal/core"
)

// colorStyles maps core.Color to lipgloss styles (ANSI 256 palette).
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:    lipgloss.NewStyle(),
	core.ColorCyan:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
	core.ColorBlue:       lipgloss.NewStyle().Foreground(lipgloss.Color("21")),
	core.ColorOrange:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	core.ColorYellow:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	core.ColorGreen:      lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
	core.ColorMagenta:    lipgloss.NewStyle().Foreground(lipgloss.Color("129")),
	core.ColorRed:        lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	core.ColorGray:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	core.ColorDimCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("30")),
	core.ColorDimBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("18")),
	core.ColorDimOrange:  lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
	core.ColorDimYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("100")),
	core.ColorDimGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
	core.ColorDimMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("54")),
	core.ColorDimRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("88")),
	core.ColorWhite:      lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorDarkGray:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			run.Reset()
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
