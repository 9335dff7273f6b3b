package game

import (
	"fmt"
	"strconv"
	"strings"
)

// GridSize is the width and height of every board.
const GridSize = 10

type ShipType string

const (
	NoShip     ShipType = ""
	Carrier    ShipType = "Carrier"
	Battleship ShipType = "Battleship"
	Cruiser    ShipType = "Cruiser"
	Submarine  ShipType = "Submarine"
	Destroyer  ShipType = "Destroyer"
)

// ShipSpec describes one ship of the fleet.
type ShipSpec struct {
	Type ShipType `json:"type"`
	Size int      `json:"size"`
}

var fleet = []ShipSpec{
	{Type: Carrier, Size: 5},
	{Type: Battleship, Size: 4},
	{Type: Cruiser, Size: 3},
	{Type: Submarine, Size: 3},
	{Type: Destroyer, Size: 2},
}

// Fleet returns the ships every player places, in placement order.
func Fleet() []ShipSpec {
	out := make([]ShipSpec, len(fleet))
	copy(out, fleet)
	return out
}

func SpecFor(t ShipType) (ShipSpec, bool) {
	for _, s := range fleet {
		if s.Type == t {
			return s, true
		}
	}
	return ShipSpec{}, false
}

// Position is a (row, col) cell address on a board.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return FormatCoordinate(p.Row, p.Col)
}

// InBounds reports whether (row, col) lies on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < GridSize && col >= 0 && col < GridSize
}

// converts "A1" to row (0-9) and col (0-9).
func ParseCoordinate(coord string) (row, col int, err error) {
	coord = strings.TrimSpace(coord)
	if len(coord) < 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, coord)
	}
	rowChar := strings.ToUpper(coord[:1])[0]
	if rowChar < 'A' || rowChar >= 'A'+GridSize {
		return 0, 0, fmt.Errorf("%w: row %c", ErrInvalidCoordinate, rowChar)
	}
	col, err = strconv.Atoi(coord[1:])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: column %q", ErrInvalidCoordinate, coord[1:])
	}
	if col < 1 || col > GridSize {
		return 0, 0, fmt.Errorf("%w: column %d out of bounds", ErrInvalidCoordinate, col)
	}
	return int(rowChar - 'A'), col - 1, nil
}

// converts row (0-9) and col (0-9) to "A1"
func FormatCoordinate(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+row, col+1)
}
