package game

import "fmt"

type IntentType string

const (
	IntentSelectShip        IntentType = "select_ship"
	IntentSetOrientation    IntentType = "set_orientation"
	IntentClickPlayerCell   IntentType = "click_player_cell"
	IntentClickOpponentCell IntentType = "click_opponent_cell"
	IntentReady             IntentType = "ready"
	IntentRestart           IntentType = "restart"
)

// Intent is a user action forwarded by a presentation layer. Cell intents
// address the cell either with Row/Col or with an "A1" style Coordinate.
type Intent struct {
	Type        IntentType  `json:"type"`
	Ship        ShipType    `json:"ship,omitempty"`
	Orientation Orientation `json:"orientation,omitempty"`
	Row         *int        `json:"row,omitempty"`
	Col         *int        `json:"col,omitempty"`
	Coordinate  string      `json:"coordinate,omitempty"`
}

// Cell resolves the cell an intent targets.
func (in Intent) Cell() (row, col int, err error) {
	if in.Coordinate != "" {
		return ParseCoordinate(in.Coordinate)
	}
	if in.Row == nil || in.Col == nil {
		return 0, 0, fmt.Errorf("%w: missing row/col or coordinate", ErrInvalidCoordinate)
	}
	if !InBounds(*in.Row, *in.Col) {
		return 0, 0, fmt.Errorf("%w: (%d, %d)", ErrInvalidCoordinate, *in.Row, *in.Col)
	}
	return *in.Row, *in.Col, nil
}

// Apply dispatches an intent to the matching handler. Only malformed
// intents produce an error; rejections by the game rules are reported
// through the snapshot message.
func (c *Controller) Apply(in Intent) (Snapshot, error) {
	switch in.Type {
	case IntentSelectShip:
		if _, ok := SpecFor(in.Ship); !ok {
			return c.Snapshot(), fmt.Errorf("%w: unknown ship %q", ErrInvalidIntent, in.Ship)
		}
		return c.SelectShip(in.Ship), nil
	case IntentSetOrientation:
		return c.SetOrientation(in.Orientation), nil
	case IntentClickPlayerCell:
		row, col, err := in.Cell()
		if err != nil {
			return c.Snapshot(), err
		}
		return c.ClickPlayerCell(row, col), nil
	case IntentClickOpponentCell:
		row, col, err := in.Cell()
		if err != nil {
			return c.Snapshot(), err
		}
		return c.ClickOpponentCell(row, col), nil
	case IntentReady:
		return c.Ready(), nil
	case IntentRestart:
		return c.Restart(), nil
	default:
		return c.Snapshot(), fmt.Errorf("%w: unknown type %q", ErrInvalidIntent, in.Type)
	}
}
