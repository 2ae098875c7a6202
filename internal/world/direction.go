package world

// Direction identifies one of the six faces of a block.
// The axis convention is fixed; face winding in the mesher depends on it.
type Direction int

const (
	North Direction = iota // +Z
	South                  // -Z
	East                   // -X
	West                   // +X
	Up                     // +Y
	Down                   // -Y

	DirectionCount = 6
)

// Directions lists every direction in canonical order.
var Directions = [DirectionCount]Direction{North, South, East, West, Up, Down}

var directionOffsets = [DirectionCount]BlockPosition{
	North: {X: 0, Y: 0, Z: 1},
	South: {X: 0, Y: 0, Z: -1},
	East:  {X: -1, Y: 0, Z: 0},
	West:  {X: 1, Y: 0, Z: 0},
	Up:    {X: 0, Y: 1, Z: 0},
	Down:  {X: 0, Y: -1, Z: 0},
}

var directionNames = [DirectionCount]string{
	North: "north",
	South: "south",
	East:  "east",
	West:  "west",
	Up:    "up",
	Down:  "down",
}

// Offset returns the unit vector of the direction.
func (d Direction) Offset() BlockPosition {
	return directionOffsets[d]
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case Up:
		return Down
	default:
		return Up
	}
}

func (d Direction) String() string {
	if d < 0 || d >= DirectionCount {
		return "invalid"
	}
	return directionNames[d]
}
