// Package core provides the engine-neutral value types shared by the simulation
// binding, the simulation driver and the terminal renderer.
// It has no external dependencies so every layer can import it.
package core

// TetrominoType identifies the content of a matrix cell or the kind of a piece.
// The numeric values match the native engine's enum.
type TetrominoType uint8

const (
	Empty TetrominoType = iota
	I
	J
	L
	O
	S
	T
	Z
	Garbage
)

// String returns the single-letter name of the type.
func (t TetrominoType) String() string {
	switch t {
	case Empty:
		return "Empty"
	case I:
		return "I"
	case J:
		return "J"
	case L:
		return "L"
	case O:
		return "O"
	case S:
		return "S"
	case T:
		return "T"
	case Z:
		return "Z"
	case Garbage:
		return "Garbage"
	default:
		return "Unknown"
	}
}

// Rotation is a piece orientation.
type Rotation uint8

const (
	North Rotation = iota
	East
	South
	West
)

// Vec2 is an integer board coordinate. Y grows downwards.
type Vec2 struct {
	X, Y int
}

// Add returns the component-wise sum.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the component-wise difference.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// MinoCount is the number of filled cells of every tetromino.
const MinoCount = 4

// Piece is a tetromino placed on the board (or in a side panel).
type Piece struct {
	Type  TetrominoType
	Minos [MinoCount]Vec2
}

// Translate returns the piece moved by offset.
func (p Piece) Translate(offset Vec2) Piece {
	out := p
	for i := range out.Minos {
		out.Minos[i] = out.Minos[i].Add(offset)
	}
	return out
}

// Geometry describes the fixed board dimensions reported by the engine.
type Geometry struct {
	Width         int
	Height        int
	InvisibleRows int
}

// VisibleHeight returns the number of rows that are drawn.
func (g Geometry) VisibleHeight() int {
	return g.Height - g.InvisibleRows
}

// Matrix is a width x height grid of cell types stored row-major.
type Matrix struct {
	width  int
	height int
	cells  []TetrominoType
}

// NewMatrix allocates an empty matrix.
func NewMatrix(width, height int) Matrix {
	return Matrix{
		width:  width,
		height: height,
		cells:  make([]TetrominoType, width*height),
	}
}

// Width returns the number of columns.
func (m Matrix) Width() int {
	return m.width
}

// Height returns the number of rows.
func (m Matrix) Height() int {
	return m.height
}

// At returns the cell at (x, y). Out-of-bounds coordinates read as Empty.
func (m Matrix) At(x, y int) TetrominoType {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return Empty
	}
	return m.cells[y*m.width+x]
}

// Set stores a cell. Out-of-bounds coordinates are ignored.
func (m Matrix) Set(x, y int, t TetrominoType) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.cells[y*m.width+x] = t
}

// Filled returns the number of non-empty cells.
func (m Matrix) Filled() int {
	n := 0
	for _, c := range m.cells {
		if c != Empty {
			n++
		}
	}
	return n
}
