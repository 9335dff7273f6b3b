package game

// Cell is a single square of a board.
type Cell struct {
	Ship ShipType `json:"ship,omitempty"`
	Hit  bool     `json:"hit"`
}

// Board is a GridSize x GridSize grid indexed [row][col].
//
// Board is a value type. Every mutating helper works on a copy and returns
// it, so a Board handed out in a snapshot never changes underneath its holder.
type Board [GridSize][GridSize]Cell

func NewBoard() Board {
	return Board{}
}

func (b Board) At(row, col int) Cell {
	return b[row][col]
}

// OccupiedCells returns the cells holding ship t in row-major order.
func (b Board) OccupiedCells(t ShipType) []Position {
	var cells []Position
	if t == NoShip {
		return cells
	}
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			if b[r][c].Ship == t {
				cells = append(cells, Position{Row: r, Col: c})
			}
		}
	}
	return cells
}

// AllSunk reports whether every ship cell has been hit. A board without
// ships is considered sunk, so callers only ask once placement is done.
func (b Board) AllSunk() bool {
	for r := range b {
		for _, cell := range b[r] {
			if cell.Ship != NoShip && !cell.Hit {
				return false
			}
		}
	}
	return true
}

// Shots counts the cells that have been attacked.
func (b Board) Shots() int {
	n := 0
	for r := range b {
		for _, cell := range b[r] {
			if cell.Hit {
				n++
			}
		}
	}
	return n
}

// Hits counts the attacked cells that held a ship.
func (b Board) Hits() int {
	n := 0
	for r := range b {
		for _, cell := range b[r] {
			if cell.Hit && cell.Ship != NoShip {
				n++
			}
		}
	}
	return n
}

// Sunk reports whether ship t is on the board and fully hit.
func (b Board) Sunk(t ShipType) bool {
	cells := b.OccupiedCells(t)
	if len(cells) == 0 {
		return false
	}
	for _, p := range cells {
		if !b[p.Row][p.Col].Hit {
			return false
		}
	}
	return true
}

// Concealed returns a copy of the board with the identity of every unhit
// ship cell removed. This is the only view of the opponent board that may
// leave the engine.
func (b Board) Concealed() Board {
	for r := range b {
		for c := range b[r] {
			if !b[r][c].Hit {
				b[r][c].Ship = NoShip
			}
		}
	}
	return b
}

func (b Board) isFree(cells []Position) bool {
	for _, p := range cells {
		if b[p.Row][p.Col].Ship != NoShip {
			return false
		}
	}
	return true
}

func (b Board) withShip(cells []Position, t ShipType) Board {
	for _, p := range cells {
		b[p.Row][p.Col].Ship = t
	}
	return b
}

func (b Board) withoutShip(t ShipType) Board {
	for _, p := range b.OccupiedCells(t) {
		b[p.Row][p.Col].Ship = NoShip
	}
	return b
}

func (b Board) withHit(row, col int) Board {
	b[row][col].Hit = true
	return b
}
