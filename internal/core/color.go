package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for board elements.
const (
	ColorDefault Color = iota
	ColorCyan
	ColorBlue
	ColorOrange
	ColorYellow
	ColorGreen
	ColorMagenta
	ColorRed
	ColorGray
	ColorDimCyan
	ColorDimBlue
	ColorDimOrange
	ColorDimYellow
	ColorDimGreen
	ColorDimMagenta
	ColorDimRed
	ColorWhite
	ColorDarkGray
)

var pieceColors = [...]Color{
	Empty:   ColorDefault,
	I:       ColorCyan,
	J:       ColorBlue,
	L:       ColorOrange,
	O:       ColorYellow,
	S:       ColorGreen,
	T:       ColorMagenta,
	Z:       ColorRed,
	Garbage: ColorGray,
}

var ghostColors = [...]Color{
	Empty:   ColorDefault,
	I:       ColorDimCyan,
	J:       ColorDimBlue,
	L:       ColorDimOrange,
	O:       ColorDimYellow,
	S:       ColorDimGreen,
	T:       ColorDimMagenta,
	Z:       ColorDimRed,
	Garbage: ColorGray,
}

// PieceColor returns the color a cell of type t is drawn with.
func PieceColor(t TetrominoType) Color {
	if int(t) >= len(pieceColors) {
		return ColorDefault
	}
	return pieceColors[t]
}

// GhostColor returns the dimmed color used for the ghost piece.
func GhostColor(t TetrominoType) Color {
	if int(t) >= len(ghostColors) {
		return ColorDefault
	}
	return ghostColors[t]
}
