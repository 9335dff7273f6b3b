package game

import "math/rand"

// Outcome is the result of an attack on a single cell.
type Outcome string

const (
	OutcomeHit  Outcome = "hit"
	OutcomeMiss Outcome = "miss"
)

// Attack fires at (row, col). The returned board has the cell marked hit;
// on error the input board is returned unchanged.
func Attack(b Board, row, col int) (Board, Outcome, error) {
	if !InBounds(row, col) {
		return b, "", ErrInvalidCoordinate
	}
	cell := b[row][col]
	if cell.Hit {
		return b, "", ErrAlreadyAttacked
	}
	outcome := OutcomeMiss
	if cell.Ship != NoShip {
		outcome = OutcomeHit
	}
	return b.withHit(row, col), outcome, nil
}

// ChooseAITarget picks a uniformly random cell that has not been attacked.
// It reports false when every cell is already hit.
func ChooseAITarget(b Board, rng *rand.Rand) (Position, bool) {
	var available []Position
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			if !b[r][c].Hit {
				available = append(available, Position{Row: r, Col: c})
			}
		}
	}
	if len(available) == 0 {
		return Position{}, false
	}
	return available[rng.Intn(len(available))], true
}
