package game

import (
	"fmt"
	"math/rand"
	"slices"
)

// Orientation is the direction a ship extends from its anchor cell.
type Orientation int

const (
	Horizontal Orientation = iota // increasing column
	Vertical                      // increasing row
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Orientation) UnmarshalText(text []byte) error {
	switch string(text) {
	case "horizontal", "h", "":
		*o = Horizontal
	case "vertical", "v":
		*o = Vertical
	default:
		return fmt.Errorf("%w: orientation %q", ErrInvalidIntent, text)
	}
	return nil
}

// PlacementState tracks the human side while ships are being positioned.
// Like Board it is treated as a value: methods never modify the receiver's
// Placed slice in place.
type PlacementState struct {
	Selected    ShipType    `json:"selectedShip,omitempty"`
	Placed      []ShipType  `json:"placedShips"`
	Orientation Orientation `json:"orientation"`
}

func (p PlacementState) IsPlaced(t ShipType) bool {
	return slices.Contains(p.Placed, t)
}

// Complete reports whether the whole fleet is on the board.
func (p PlacementState) Complete() bool {
	for _, s := range fleet {
		if !p.IsPlaced(s.Type) {
			return false
		}
	}
	return true
}

func (p PlacementState) withPlaced(t ShipType) PlacementState {
	p.Placed = append(slices.Clone(p.Placed), t)
	return p
}

func (p PlacementState) withoutPlaced(t ShipType) PlacementState {
	p.Placed = slices.DeleteFunc(slices.Clone(p.Placed), func(s ShipType) bool { return s == t })
	return p
}

// PlacementAction says what a TryPlace call did.
type PlacementAction int

const (
	PlacementIgnored PlacementAction = iota
	PlacementPlaced
	PlacementUndone
)

// shipCells lists the cells a ship of the given size covers from an anchor.
// Cells may fall off the board; callers check bounds.
func shipCells(row, col, size int, o Orientation) []Position {
	cells := make([]Position, size)
	for i := 0; i < size; i++ {
		if o == Horizontal {
			cells[i] = Position{Row: row, Col: col + i}
		} else {
			cells[i] = Position{Row: row + i, Col: col}
		}
	}
	return cells
}

func fits(row, col, size int, o Orientation) bool {
	if !InBounds(row, col) {
		return false
	}
	if o == Horizontal {
		return col+size <= GridSize
	}
	return row+size <= GridSize
}

// TryPlace applies a click at (row, col) for ship t during placement.
//
// Clicking a cell that already holds t undoes that ship. Otherwise t must be
// the selected, not yet placed ship; anything else is ignored without error.
// Bounds are checked before overlap. On error the inputs are returned as is.
func TryPlace(b Board, p PlacementState, t ShipType, row, col int, o Orientation) (Board, PlacementState, PlacementAction, error) {
	if t != NoShip && InBounds(row, col) && b[row][col].Ship == t {
		nb, np := Undo(b, p, t)
		return nb, np, PlacementUndone, nil
	}

	spec, ok := SpecFor(t)
	if !ok || p.Selected != t || p.IsPlaced(t) {
		return b, p, PlacementIgnored, nil
	}

	if !fits(row, col, spec.Size, o) {
		return b, p, PlacementIgnored, ErrOutOfBounds
	}
	cells := shipCells(row, col, spec.Size, o)
	if !b.isFree(cells) {
		return b, p, PlacementIgnored, ErrOverlap
	}

	np := p.withPlaced(t)
	np.Selected = NoShip
	return b.withShip(cells, t), np, PlacementPlaced, nil
}

// Undo removes ship t from the board and re-selects it so it can be placed again.
func Undo(b Board, p PlacementState, t ShipType) (Board, PlacementState) {
	np := p.withoutPlaced(t)
	np.Selected = t
	return b.withoutShip(t), np
}

// maxPlacementAttempts bounds the random sampling for one ship before
// PlaceRandomFleet falls back to choosing among every legal anchor.
const maxPlacementAttempts = 1000

// PlaceRandomFleet returns a board holding the whole fleet at random,
// non-overlapping positions.
func PlaceRandomFleet(rng *rand.Rand) (Board, error) {
	b := NewBoard()
	for _, spec := range fleet {
		cells, ok := sampleShip(b, rng, spec.Size)
		if !ok {
			legal := legalPlacements(b, spec.Size)
			if len(legal) == 0 {
				return Board{}, fmt.Errorf("%w: %s", ErrNoLegalPlacement, spec.Type)
			}
			cells = legal[rng.Intn(len(legal))]
		}
		b = b.withShip(cells, spec.Type)
	}
	return b, nil
}

func sampleShip(b Board, rng *rand.Rand, size int) ([]Position, bool) {
	for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
		o := Orientation(rng.Intn(2))
		var row, col int
		if o == Horizontal {
			row = rng.Intn(GridSize)
			col = rng.Intn(GridSize - size + 1)
		} else {
			row = rng.Intn(GridSize - size + 1)
			col = rng.Intn(GridSize)
		}
		cells := shipCells(row, col, size, o)
		if b.isFree(cells) {
			return cells, true
		}
	}
	return nil, false
}

// legalPlacements enumerates every in-bounds, overlap-free position for a
// ship of the given size.
func legalPlacements(b Board, size int) [][]Position {
	var out [][]Position
	for _, o := range []Orientation{Horizontal, Vertical} {
		for r := 0; r < GridSize; r++ {
			for c := 0; c < GridSize; c++ {
				if !fits(r, c, size, o) {
					continue
				}
				cells := shipCells(r, c, size, o)
				if b.isFree(cells) {
					out = append(out, cells)
				}
			}
		}
	}
	return out
}
