package valueobjects

// Position is the integer 2-D placement of a node on the canvas
type Position struct {
	x int
	y int
}

// NewPosition creates a position
func NewPosition(x, y int) Position {
	return Position{x: x, y: y}
}

// X returns the horizontal coordinate
func (p Position) X() int {
	return p.x
}

// Y returns the vertical coordinate
func (p Position) Y() int {
	return p.y
}

// Equals checks if two positions are equal
func (p Position) Equals(other Position) bool {
	return p.x == other.x && p.y == other.y
}

// Translate returns the position shifted by the given offsets
func (p Position) Translate(dx, dy int) Position {
	return Position{x: p.x + dx, y: p.y + dy}
}
