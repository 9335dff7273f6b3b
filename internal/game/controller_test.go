package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestController() *Controller {
	return NewController(rand.New(rand.NewSource(42)))
}

// placeFleet puts every ship horizontally at column 0, one per row.
func placeFleet(t *testing.T, c *Controller) {
	t.Helper()
	for i, spec := range Fleet() {
		c.SelectShip(spec.Type)
		snap := c.ClickPlayerCell(i, 0)
		require.Equal(t, string(spec.Type)+" placed!", snap.Message)
	}
}

// startBattle places the fleet, readies up and swaps in a known opponent.
func startBattle(t *testing.T, c *Controller, opponent Board) {
	t.Helper()
	placeFleet(t, c)
	snap := c.Ready()
	require.Equal(t, PhaseBattle, snap.Phase)
	c.opponent = opponent
}

func destroyerOnly() Board {
	return NewBoard().withShip([]Position{{0, 0}, {0, 1}}, Destroyer)
}

func TestNewController_InitialSnapshot(t *testing.T) {
	snap := newTestController().Snapshot()
	require.Equal(t, PhasePlacement, snap.Phase)
	require.Equal(t, MsgPlaceShips, snap.Message)
	require.Equal(t, NoShip, snap.SelectedShip)
	require.NotNil(t, snap.PlacedShips)
	require.Empty(t, snap.PlacedShips)
	require.Equal(t, Horizontal, snap.Orientation)
	require.False(t, snap.AIPending)
	require.Nil(t, snap.LastShot)
}

func TestController_PlacementMessages(t *testing.T) {
	c := newTestController()

	c.SelectShip(Carrier)
	snap := c.ClickPlayerCell(0, 6)
	require.Equal(t, MsgShipDoesNotFit, snap.Message)
	require.Empty(t, snap.PlacedShips)
	require.Equal(t, Carrier, snap.SelectedShip)

	snap = c.ClickPlayerCell(0, 0)
	require.Equal(t, "Carrier placed!", snap.Message)
	require.Equal(t, NoShip, snap.SelectedShip)

	c.SelectShip(Battleship)
	c.SetOrientation(Vertical)
	snap = c.ClickPlayerCell(0, 3)
	require.Equal(t, MsgShipsOverlap, snap.Message)
	require.Equal(t, []ShipType{Carrier}, snap.PlacedShips)

	c.SelectShip(Carrier)
	snap = c.ClickPlayerCell(0, 2)
	require.Equal(t, "Carrier removed. Place again.", snap.Message)
	require.Empty(t, snap.PlacedShips)
	require.Equal(t, Carrier, snap.SelectedShip)
	require.Equal(t, NewBoard(), snap.PlayerBoard)
}

func TestController_ClickWithoutSelectionIgnored(t *testing.T) {
	c := newTestController()
	before := c.Snapshot()
	after := c.ClickPlayerCell(4, 4)
	require.Equal(t, before, after)
}

func TestController_ReadyRequiresFullFleet(t *testing.T) {
	c := newTestController()
	c.SelectShip(Carrier)
	c.ClickPlayerCell(0, 0)

	snap := c.Ready()
	require.Equal(t, PhasePlacement, snap.Phase)
	require.Equal(t, "Carrier placed!", snap.Message)
}

func TestController_ReadyStartsBattle(t *testing.T) {
	c := newTestController()
	placeFleet(t, c)
	snap := c.Ready()

	require.Equal(t, PhaseBattle, snap.Phase)
	require.Equal(t, MsgBattleStart, snap.Message)
	require.Equal(t, 17, len(snapCells(c.opponent)))
	// the concealed board shows no ships before any hit
	require.Empty(t, snapCells(snap.OpponentBoard))
}

func TestController_PlacementIntentsIgnoredInBattle(t *testing.T) {
	c := newTestController()
	startBattle(t, c, destroyerOnly())

	before := c.Snapshot()
	require.Equal(t, before, c.SelectShip(Carrier))
	require.Equal(t, before, c.SetOrientation(Vertical))
	require.Equal(t, before, c.ClickPlayerCell(9, 9))
	require.Equal(t, before, c.Ready())
}

func TestController_OpponentClickIgnoredInPlacement(t *testing.T) {
	c := newTestController()
	before := c.Snapshot()
	require.Equal(t, before, c.ClickOpponentCell(0, 0))
}

func TestController_HitThenAITurn(t *testing.T) {
	c := newTestController()
	startBattle(t, c, destroyerOnly())
	turn := c.Snapshot().Turn

	snap := c.ClickOpponentCell(0, 0)
	require.Equal(t, MsgHit, snap.Message)
	require.True(t, snap.AIPending)
	require.Equal(t, turn+1, snap.Turn)
	require.Equal(t, &Shot{By: SidePlayer, Position: Position{0, 0}, Outcome: OutcomeHit}, snap.LastShot)
	require.Equal(t, Destroyer, snap.OpponentBoard.At(0, 0).Ship)

	// the human cannot fire again while the AI move is pending
	require.Equal(t, snap, c.ClickOpponentCell(5, 5))

	after := c.ResolveAITurn(snap.Turn)
	require.False(t, after.AIPending)
	require.Equal(t, 1, after.PlayerBoard.Shots())
	require.Equal(t, SideOpponent, after.LastShot.By)
	if after.LastShot.Outcome == OutcomeHit {
		require.Equal(t, MsgOpponentHit, after.Message)
	} else {
		require.Equal(t, MsgOpponentMissed, after.Message)
	}
	require.Equal(t, PhaseBattle, after.Phase)
}

func TestController_MissMessage(t *testing.T) {
	c := newTestController()
	startBattle(t, c, destroyerOnly())
	snap := c.ClickOpponentCell(9, 9)
	require.Equal(t, MsgMiss, snap.Message)
	require.Equal(t, OutcomeMiss, snap.LastShot.Outcome)
}

func TestController_AlreadyAttacked(t *testing.T) {
	c := newTestController()
	startBattle(t, c, destroyerOnly())
	snap := c.ClickOpponentCell(4, 4)
	c.ResolveAITurn(snap.Turn)

	snap = c.ClickOpponentCell(4, 4)
	require.Equal(t, MsgAlreadyAttacked, snap.Message)
	require.False(t, snap.AIPending)
	require.Equal(t, 1, snap.OpponentBoard.Shots())
}

func TestController_StaleTokenIsNoop(t *testing.T) {
	c := newTestController()
	startBattle(t, c, destroyerOnly())
	snap := c.ClickOpponentCell(4, 4)

	stale := c.ResolveAITurn(snap.Turn - 1)
	require.Equal(t, snap, stale)

	c.ResolveAITurn(snap.Turn)
	again := c.ResolveAITurn(snap.Turn)
	require.Equal(t, 1, again.PlayerBoard.Shots())
}

func TestController_HumanWinSkipsAITurn(t *testing.T) {
	c := newTestController()
	startBattle(t, c, destroyerOnly())

	snap := c.ClickOpponentCell(0, 0)
	c.ResolveAITurn(snap.Turn)

	snap = c.ClickOpponentCell(0, 1)
	require.Equal(t, PhaseGameOver, snap.Phase)
	require.Equal(t, SidePlayer, snap.Winner)
	require.Equal(t, MsgPlayerWins, snap.Message)
	require.False(t, snap.AIPending)
	require.Equal(t, Destroyer, snap.LastShot.Sunk)

	after := c.ResolveAITurn(snap.Turn)
	require.Equal(t, snap, after)
	require.Equal(t, snap, c.ClickOpponentCell(5, 5))
}

func TestController_AIWin(t *testing.T) {
	c := newTestController()
	startBattle(t, c, NewBoard().withShip([]Position{{9, 0}, {9, 1}, {9, 2}, {9, 3}, {9, 4}}, Carrier))

	// every player cell is already hit except the last destroyer cell
	var player Board
	for r := range player {
		for col := range player[r] {
			player[r][col].Hit = true
		}
	}
	player[5][5] = Cell{Ship: Destroyer}
	player[5][6] = Cell{Ship: Destroyer, Hit: true}
	c.player = player

	snap := c.ClickOpponentCell(0, 0)
	require.Equal(t, MsgMiss, snap.Message)

	snap = c.ResolveAITurn(snap.Turn)
	require.Equal(t, PhaseGameOver, snap.Phase)
	require.Equal(t, SideOpponent, snap.Winner)
	require.Equal(t, MsgOpponentWins, snap.Message)
	require.Equal(t, &Shot{By: SideOpponent, Position: Position{5, 5}, Outcome: OutcomeHit, Sunk: Destroyer}, snap.LastShot)
}

func TestController_RestartInvalidatesPendingAI(t *testing.T) {
	c := newTestController()
	startBattle(t, c, destroyerOnly())
	pending := c.ClickOpponentCell(4, 4)
	require.True(t, pending.AIPending)

	snap := c.Restart()
	require.Equal(t, PhasePlacement, snap.Phase)
	require.Equal(t, MsgPlaceShips, snap.Message)
	require.False(t, snap.AIPending)
	require.Greater(t, snap.Turn, pending.Turn)
	require.Equal(t, NewBoard(), snap.PlayerBoard)
	require.Equal(t, NewBoard(), snap.OpponentBoard)
	require.Empty(t, snap.PlacedShips)

	after := c.ResolveAITurn(pending.Turn)
	require.Equal(t, snap, after)
}

func TestController_RestartFromGameOver(t *testing.T) {
	c := newTestController()
	startBattle(t, c, NewBoard().withShip([]Position{{0, 0}}, Destroyer))
	snap := c.ClickOpponentCell(0, 0)
	require.Equal(t, PhaseGameOver, snap.Phase)

	snap = c.Restart()
	require.Equal(t, PhasePlacement, snap.Phase)
	require.Empty(t, snap.Winner)
	require.Nil(t, snap.LastShot)
}

func TestController_SnapshotIsDetached(t *testing.T) {
	c := newTestController()
	c.SelectShip(Carrier)
	snap := c.ClickPlayerCell(0, 0)
	snap.PlacedShips[0] = Destroyer
	snap.PlayerBoard[0][0].Ship = NoShip

	fresh := c.Snapshot()
	require.Equal(t, []ShipType{Carrier}, fresh.PlacedShips)
	require.Equal(t, Carrier, fresh.PlayerBoard.At(0, 0).Ship)
}

func snapCells(b Board) []Position {
	var out []Position
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			if b[r][c].Ship != NoShip {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}
	return out
}
