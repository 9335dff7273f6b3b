package game

import "errors"

// Game errors
var (
	ErrOutOfBounds       = errors.New("ship does not fit on the board")
	ErrOverlap           = errors.New("ships cannot overlap")
	ErrAlreadyAttacked   = errors.New("cell already attacked")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidIntent     = errors.New("invalid intent")
	ErrNoLegalPlacement  = errors.New("no legal placement left for ship")
	ErrGameNotFound      = errors.New("game not found")
)
