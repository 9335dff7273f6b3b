package game

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
)

// Phase is the stage of a game. It only moves forward, except that a
// restart always returns to PhasePlacement.
type Phase int

const (
	PhasePlacement Phase = iota
	PhaseBattle
	PhaseGameOver
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhasePlacement:
		return "placement"
	case PhaseBattle:
		return "battle"
	case PhaseGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for _, candidate := range []Phase{PhasePlacement, PhaseBattle, PhaseGameOver} {
		if candidate.String() == string(text) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Side identifies who fired a shot or won the game.
type Side string

const (
	SidePlayer   Side = "player"
	SideOpponent Side = "opponent"
)

// Shot records the most recent attack.
type Shot struct {
	By       Side     `json:"by"`
	Position Position `json:"position"`
	Outcome  Outcome  `json:"outcome"`
	Sunk     ShipType `json:"sunk,omitempty"`
}

// Messages shown to the player.
const (
	MsgPlaceShips      = "Place your ships!"
	MsgShipDoesNotFit  = "Ship does not fit!"
	MsgShipsOverlap    = "Ships cannot overlap!"
	MsgBattleStart     = "Opponent is ready! Start attacking!"
	MsgHit             = "Hit!"
	MsgMiss            = "Miss!"
	MsgAlreadyAttacked = "You already attacked this cell!"
	MsgPlayerWins      = "Congratulations! You sank all enemy ships!"
	MsgOpponentHit     = "Opponent hit your ship!"
	MsgOpponentMissed  = "Opponent missed!"
	MsgOpponentWins    = "Game over! Opponent wins!"
)

// Snapshot is the read-only view of a game handed to the presentation
// layer. The opponent board is concealed.
type Snapshot struct {
	PlayerBoard   Board       `json:"playerBoard"`
	OpponentBoard Board       `json:"opponentBoard"`
	Phase         Phase       `json:"phase"`
	Message       string      `json:"message"`
	SelectedShip  ShipType    `json:"selectedShip,omitempty"`
	PlacedShips   []ShipType  `json:"placedShips"`
	Orientation   Orientation `json:"orientation"`
	AIPending     bool        `json:"aiPending"`
	Turn          uint64      `json:"turn"`
	Winner        Side        `json:"winner,omitempty"`
	LastShot      *Shot       `json:"lastShot,omitempty"`
}

// Controller owns the state of one game and turns intents into state
// transitions. It is not safe for concurrent use; Service serialises
// access to it.
type Controller struct {
	rng *rand.Rand

	player    Board
	opponent  Board
	placement PlacementState
	phase     Phase
	message   string
	winner    Side
	lastShot  *Shot

	// turn is bumped whenever a pending AI move is scheduled or
	// invalidated, so a deferred ResolveAITurn with an old token is a no-op.
	turn      uint64
	aiPending bool
}

func NewController(rng *rand.Rand) *Controller {
	c := &Controller{rng: rng}
	c.reset()
	return c
}

func (c *Controller) reset() {
	c.player = NewBoard()
	c.opponent = NewBoard()
	c.placement = PlacementState{Placed: []ShipType{}}
	c.phase = PhasePlacement
	c.message = MsgPlaceShips
	c.winner = ""
	c.lastShot = nil
	c.aiPending = false
	c.turn++
}

func (c *Controller) Phase() Phase { return c.phase }

// Snapshot returns the current state for rendering.
func (c *Controller) Snapshot() Snapshot {
	var last *Shot
	if c.lastShot != nil {
		s := *c.lastShot
		last = &s
	}
	return Snapshot{
		PlayerBoard:   c.player,
		OpponentBoard: c.opponent.Concealed(),
		Phase:         c.phase,
		Message:       c.message,
		SelectedShip:  c.placement.Selected,
		PlacedShips:   slices.Clone(c.placement.Placed),
		Orientation:   c.placement.Orientation,
		AIPending:     c.aiPending,
		Turn:          c.turn,
		Winner:        c.winner,
		LastShot:      last,
	}
}

// SelectShip chooses the ship the next player-board click applies to.
// Placed ships can be selected too, which is how a placement is undone.
func (c *Controller) SelectShip(t ShipType) Snapshot {
	if c.phase != PhasePlacement {
		return c.Snapshot()
	}
	if _, ok := SpecFor(t); !ok {
		return c.Snapshot()
	}
	c.placement.Selected = t
	return c.Snapshot()
}

func (c *Controller) SetOrientation(o Orientation) Snapshot {
	if c.phase != PhasePlacement || (o != Horizontal && o != Vertical) {
		return c.Snapshot()
	}
	c.placement.Orientation = o
	return c.Snapshot()
}

// ClickPlayerCell places, or undoes, the selected ship at (row, col).
func (c *Controller) ClickPlayerCell(row, col int) Snapshot {
	if c.phase != PhasePlacement || !InBounds(row, col) {
		return c.Snapshot()
	}
	t := c.placement.Selected
	board, placement, action, err := TryPlace(c.player, c.placement, t, row, col, c.placement.Orientation)
	switch {
	case errors.Is(err, ErrOutOfBounds):
		c.message = MsgShipDoesNotFit
	case errors.Is(err, ErrOverlap):
		c.message = MsgShipsOverlap
	case action == PlacementPlaced:
		c.message = fmt.Sprintf("%s placed!", t)
	case action == PlacementUndone:
		c.message = fmt.Sprintf("%s removed. Place again.", t)
	}
	c.player, c.placement = board, placement
	return c.Snapshot()
}

// Ready starts the battle once the whole fleet is placed.
func (c *Controller) Ready() Snapshot {
	if c.phase != PhasePlacement || !c.placement.Complete() {
		return c.Snapshot()
	}
	opponent, err := PlaceRandomFleet(c.rng)
	if err != nil {
		c.message = err.Error()
		return c.Snapshot()
	}
	c.opponent = opponent
	c.placement.Selected = NoShip
	c.phase = PhaseBattle
	c.message = MsgBattleStart
	return c.Snapshot()
}

// ClickOpponentCell fires the player's shot at (row, col). A shot that does
// not end the game leaves an AI move pending under a new turn token.
func (c *Controller) ClickOpponentCell(row, col int) Snapshot {
	if c.phase != PhaseBattle || c.aiPending || !InBounds(row, col) {
		return c.Snapshot()
	}
	board, outcome, err := Attack(c.opponent, row, col)
	if err != nil {
		c.message = MsgAlreadyAttacked
		return c.Snapshot()
	}
	c.opponent = board
	c.lastShot = c.shot(SidePlayer, board, row, col, outcome)
	if outcome == OutcomeHit {
		c.message = MsgHit
	} else {
		c.message = MsgMiss
	}

	if board.AllSunk() {
		c.message = MsgPlayerWins
		c.phase = PhaseGameOver
		c.winner = SidePlayer
		return c.Snapshot()
	}

	c.turn++
	c.aiPending = true
	return c.Snapshot()
}

// ResolveAITurn plays the pending AI move for the given turn token. It does
// nothing if the token is stale, no move is pending or the battle is over.
func (c *Controller) ResolveAITurn(token uint64) Snapshot {
	if c.phase != PhaseBattle || !c.aiPending || token != c.turn {
		return c.Snapshot()
	}
	c.aiPending = false

	target, ok := ChooseAITarget(c.player, c.rng)
	if !ok {
		return c.Snapshot()
	}
	board, outcome, err := Attack(c.player, target.Row, target.Col)
	if err != nil {
		return c.Snapshot()
	}
	c.player = board
	c.lastShot = c.shot(SideOpponent, board, target.Row, target.Col, outcome)
	if outcome == OutcomeHit {
		c.message = MsgOpponentHit
	} else {
		c.message = MsgOpponentMissed
	}

	if board.AllSunk() {
		c.message = MsgOpponentWins
		c.phase = PhaseGameOver
		c.winner = SideOpponent
	}
	return c.Snapshot()
}

// Restart discards both boards and returns to placement. Any pending AI
// move is invalidated.
func (c *Controller) Restart() Snapshot {
	c.reset()
	return c.Snapshot()
}

func (c *Controller) shot(by Side, b Board, row, col int, outcome Outcome) *Shot {
	s := &Shot{By: by, Position: Position{Row: row, Col: col}, Outcome: outcome}
	if t := b[row][col].Ship; t != NoShip && b.Sunk(t) {
		s.Sunk = t
	}
	return s
}
