package tui

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tetrion/internal/core"
	"github.com/vovakirdan/tetrion/internal/sim"
)

// Board layout in terminal cells. A mino on the main board is two columns wide.
const (
	cellWidth     = 2
	panelWidth    = 4*cellWidth + 2
	holdHeight    = 4 + 2
	previewStride = 3
	garbageWidth  = 2
	gap           = 1
)

// HUD carries render-loop values shown next to the board.
type HUD struct {
	FPS int
}

// layout holds the screen positions of every panel for one board geometry.
type layout struct {
	geometry core.Geometry

	holdX, holdY   int
	statsX, statsY int
	garbageX       int
	boardX         int // Left border of the board box
	previewX       int
	observersX     int
	height         int // Box height of the board
}

func newLayout(g core.Geometry) layout {
	l := layout{geometry: g}
	l.holdX, l.holdY = 0, 0
	l.statsX, l.statsY = 0, holdHeight+1
	l.garbageX = panelWidth + gap
	l.boardX = l.garbageX + garbageWidth
	l.previewX = l.boardX + g.Width*cellWidth + 2 + gap
	l.observersX = l.previewX + panelWidth + gap
	l.height = g.VisibleHeight() + 2
	return l
}

// observerWidth is the box width of one compact peer board.
func (l layout) observerWidth() int {
	return l.geometry.Width + 2
}

// Size returns the terminal size needed to draw a frame with n observers.
func (l layout) Size(observers int) (width, height int) {
	width = l.observersX - gap
	if observers > 0 {
		width = l.observersX + observers*(l.observerWidth()+gap) - gap
	}
	previewHeight := core.PreviewCount*previewStride + 2
	return width, max(l.height, previewHeight)
}

// FrameSize returns the terminal size needed to draw f.
func FrameSize(f sim.Frame) (width, height int) {
	return newLayout(f.Geometry).Size(len(f.Observers))
}

// DrawFrame draws f onto s.
func DrawFrame(s *core.Screen, f sim.Frame, hud HUD) {
	l := newLayout(f.Geometry)

	drawHold(s, l, f)
	drawStats(s, l, f, hud)
	drawGarbage(s, l, f)
	drawMatrix(s, l, f)
	drawPreviews(s, l, f)
	drawObservers(s, l, f)
	drawOverlay(s, l, f)
}

func drawHold(s *core.Screen, l layout, f sim.Frame) {
	s.DrawBox(l.holdX, l.holdY, panelWidth, holdHeight, core.ColorGray)
	s.DrawText(l.holdX+2, l.holdY, "HOLD", core.ColorWhite)
	if f.Hold.Type != core.Empty {
		drawPanelPiece(s, l.holdX+1, l.holdY+1, f.Hold)
	}
}

func drawPreviews(s *core.Screen, l layout, f sim.Frame) {
	s.DrawBox(l.previewX, 0, panelWidth, core.PreviewCount*previewStride+2, core.ColorGray)
	s.DrawText(l.previewX+2, 0, "NEXT", core.ColorWhite)
	for i, p := range f.Previews {
		if p.Type == core.Empty {
			continue
		}
		drawPanelPiece(s, l.previewX+1, 1+i*previewStride, p)
	}
}

// drawPanelPiece draws p with its top-left mino corner at (x, y).
func drawPanelPiece(s *core.Screen, x, y int, p core.Piece) {
	minX, minY := p.Minos[0].X, p.Minos[0].Y
	for _, m := range p.Minos[1:] {
		minX = min(minX, m.X)
		minY = min(minY, m.Y)
	}
	c := core.PieceColor(p.Type)
	for _, m := range p.Minos {
		drawMino(s, x+(m.X-minX)*cellWidth, y+m.Y-minY, '█', c)
	}
}

func drawMino(s *core.Screen, x, y int, r rune, c core.Color) {
	s.Set(x, y, r, c)
	s.Set(x+1, y, r, c)
}

func drawStats(s *core.Screen, l layout, f sim.Frame, hud HUD) {
	rows := []struct {
		label string
		value string
	}{
		{"Score", fmt.Sprint(f.Stats.Score)},
		{"Level", fmt.Sprint(f.Stats.Level)},
		{"Lines", fmt.Sprint(f.Stats.LinesCleared)},
		{"Time", FormatElapsed(f.Elapsed())},
		{"FPS", fmt.Sprint(hud.FPS)},
	}
	y := l.statsY
	for _, r := range rows {
		s.DrawText(l.statsX, y, r.label, core.ColorGray)
		s.DrawText(l.statsX, y+1, r.value, core.ColorWhite)
		y += 2
	}
	if f.Multiplayer {
		if n := f.PendingGarbage(); n > 0 {
			s.DrawText(l.statsX, y, fmt.Sprintf("Garbage %d", n), core.ColorRed)
		}
		if !f.Connected {
			s.DrawText(l.statsX, y+1, "offline", core.ColorRed)
		}
	}
}

// FormatElapsed renders a game time as ss.fff below one minute and as
// mm:ss.f from then on.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%02d.%03d", int(d/time.Second), int(d%time.Second/time.Millisecond))
	}
	return fmt.Sprintf("%02d:%02d.%d",
		int(d/time.Minute), int(d%time.Minute/time.Second), int(d%time.Second/(100*time.Millisecond)))
}

// garbageColor colors a pending garbage line by the fraction of its delay
// that is left.
func garbageColor(remaining, delay uint64) core.Color {
	if delay == 0 {
		if remaining == 0 {
			return core.ColorRed
		}
		return core.ColorGray
	}
	ratio := float64(remaining) / float64(delay)
	switch {
	case ratio <= 0:
		return core.ColorRed
	case ratio <= 0.33:
		return core.ColorOrange
	case ratio <= 0.67:
		return core.ColorYellow
	default:
		return core.ColorGray
	}
}

// drawGarbage stacks the queued garbage lines upwards from the bottom row.
func drawGarbage(s *core.Screen, l layout, f sim.Frame) {
	visible := f.Geometry.VisibleHeight()
	bottom := visible // Last interior row of the board box
	n := 0
	for _, e := range f.Garbage {
		c := garbageColor(e.RemainingFrames, f.GarbageDelay)
		for range e.Lines {
			if n >= visible {
				return
			}
			drawMino(s, l.garbageX, bottom-n, '█', c)
			n++
		}
	}
}

// boardCell returns the screen position of matrix cell (x, y) and whether the
// row is visible.
func (l layout) boardCell(x, y int) (int, int, bool) {
	row := y - l.geometry.InvisibleRows
	if row < 0 || row >= l.geometry.VisibleHeight() {
		return 0, 0, false
	}
	return l.boardX + 1 + x*cellWidth, 1 + row, true
}

func drawMatrix(s *core.Screen, l layout, f sim.Frame) {
	g := f.Geometry
	s.DrawBox(l.boardX, 0, g.Width*cellWidth+2, l.height, core.ColorGray)

	for y := g.InvisibleRows; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			sx, sy, _ := l.boardCell(x, y)
			t := f.Matrix.At(x, y)
			if t == core.Empty {
				s.Set(sx, sy, '·', core.ColorDarkGray)
				s.Set(sx+1, sy, ' ', core.ColorDefault)
				continue
			}
			drawMino(s, sx, sy, '█', core.PieceColor(t))
		}
	}

	if f.LineClear.Active() {
		c := fadeColor(f.LineClear.Visibility())
		for _, y := range f.LineClear.Lines {
			for x := 0; x < g.Width; x++ {
				if sx, sy, ok := l.boardCell(x, y); ok {
					drawMino(s, sx, sy, '▓', c)
				}
			}
		}
	}

	if f.HasGhost {
		drawBoardPiece(s, l, f.Ghost, '░', core.GhostColor(f.Ghost.Type))
	}
	if f.HasActive {
		drawBoardPiece(s, l, f.Active, '█', core.PieceColor(f.Active.Type))
	}

	if ratio := f.AllClearRatio(); ratio > 0 {
		s.Recolor(l.boardX+1, 1, g.Width*cellWidth, g.VisibleHeight(), fadeColor(ratio))
		s.DrawTextCentered(l.boardX+1, g.Width*cellWidth, 1+g.VisibleHeight()/2, "ALL CLEAR", core.ColorWhite)
	}
}

func drawBoardPiece(s *core.Screen, l layout, p core.Piece, r rune, c core.Color) {
	for _, m := range p.Minos {
		if sx, sy, ok := l.boardCell(m.X, m.Y); ok {
			drawMino(s, sx, sy, r, c)
		}
	}
}

// fadeColor maps an effect strength in [0, 1] to a shade from white to dark gray.
func fadeColor(v float64) core.Color {
	switch {
	case v > 2.0/3:
		return core.ColorWhite
	case v > 1.0/3:
		return core.ColorGray
	default:
		return core.ColorDarkGray
	}
}

func drawObservers(s *core.Screen, l layout, f sim.Frame) {
	g := f.Geometry
	for i, o := range f.Observers {
		x := l.observersX + i*(l.observerWidth()+gap)
		dimmed := o.GameOver || !o.Connected

		border := core.ColorGray
		if dimmed {
			border = core.ColorDarkGray
		}
		s.DrawBox(x, 0, l.observerWidth(), l.height, border)
		s.DrawText(x+1, 0, fmt.Sprintf("#%d", i+1), border)

		for y := g.InvisibleRows; y < g.Height; y++ {
			for cx := 0; cx < g.Width; cx++ {
				t := o.Matrix.At(cx, y)
				if t == core.Empty {
					continue
				}
				c := core.PieceColor(t)
				if dimmed {
					c = core.ColorDarkGray
				}
				s.Set(x+1+cx, 1+y-g.InvisibleRows, '█', c)
			}
		}

		switch {
		case o.GameOver:
			s.DrawTextCentered(x+1, g.Width, l.height/2, "K.O.", core.ColorRed)
		case !o.Connected:
			s.DrawTextCentered(x+1, g.Width, l.height/2, "gone", core.ColorGray)
		}
	}
}

func drawOverlay(s *core.Screen, l layout, f sim.Frame) {
	w := f.Geometry.Width * cellWidth
	mid := 1 + f.Geometry.VisibleHeight()/2

	switch {
	case f.GameOver:
		s.FillRect(l.boardX+1, mid-1, w, 3, ' ', core.ColorDefault)
		s.DrawTextCentered(l.boardX+1, w, mid, "GAME OVER", core.ColorRed)
	case f.Starting():
		secs := (f.FramesUntilStart + sim.TicksPerSecond - 1) / sim.TicksPerSecond
		s.FillRect(l.boardX+1, mid-1, w, 3, ' ', core.ColorDefault)
		s.DrawTextCentered(l.boardX+1, w, mid, fmt.Sprintf("Starting in %d", secs), core.ColorYellow)
	}
}
