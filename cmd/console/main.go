package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/krishanu7/battleship-ai/config"
	"github.com/krishanu7/battleship-ai/internal/game"
)

const help = `commands:
  select <ship>   choose a ship (carrier, battleship, cruiser, submarine, destroyer)
  h | v           set orientation
  place <A1>      click your board
  ready           start the battle
  fire <A1>       attack the opponent board
  restart         start over
  quit`

func main() {
	cfg := config.LoadConfig()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	svc := game.NewService(nil, nil, cfg.AIDelay)
	id, snap := svc.NewGame("")

	var out sync.Mutex
	render := func(s game.Snapshot) {
		out.Lock()
		defer out.Unlock()
		printSnapshot(os.Stdout, s)
	}
	unsubscribe, err := svc.Subscribe(id, render)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe")
	}
	defer unsubscribe()

	fmt.Println(help)
	render(snap)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "q" {
			break
		}
		in, err := parseCommand(line)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if _, err := svc.Apply(context.Background(), id, in); err != nil {
			fmt.Println(err)
		}
	}
	svc.End(id)
}

var errUnknownCommand = errors.New("unknown command, try: select, h, v, place, ready, fire, restart, quit")

func parseCommand(line string) (game.Intent, error) {
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "select", "s":
		if len(args) != 1 {
			return game.Intent{}, errors.New("usage: select <ship>")
		}
		return game.Intent{Type: game.IntentSelectShip, Ship: shipByName(args[0])}, nil
	case "h", "v":
		var o game.Orientation
		if err := o.UnmarshalText([]byte(cmd)); err != nil {
			return game.Intent{}, err
		}
		return game.Intent{Type: game.IntentSetOrientation, Orientation: o}, nil
	case "place", "p":
		if len(args) != 1 {
			return game.Intent{}, errors.New("usage: place <A1>")
		}
		return game.Intent{Type: game.IntentClickPlayerCell, Coordinate: args[0]}, nil
	case "fire", "f":
		if len(args) != 1 {
			return game.Intent{}, errors.New("usage: fire <A1>")
		}
		return game.Intent{Type: game.IntentClickOpponentCell, Coordinate: args[0]}, nil
	case "ready":
		return game.Intent{Type: game.IntentReady}, nil
	case "restart":
		return game.Intent{Type: game.IntentRestart}, nil
	default:
		return game.Intent{}, errUnknownCommand
	}
}

// shipByName matches a ship case-insensitively. Unknown names pass through
// and are rejected by the game.
func shipByName(name string) game.ShipType {
	for _, s := range game.Fleet() {
		if strings.EqualFold(string(s.Type), name) {
			return s.Type
		}
	}
	return game.ShipType(name)
}

func printSnapshot(w io.Writer, s game.Snapshot) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-24s%s\n", "  YOUR FLEET", "  OPPONENT")
	fmt.Fprintf(w, "  %s  %s\n", header(), header())
	for r := 0; r < game.GridSize; r++ {
		fmt.Fprintf(w, "%c %s%c %s\n", 'A'+r, row(s.PlayerBoard, r, true), 'A'+r, row(s.OpponentBoard, r, false))
	}

	status := fmt.Sprintf("[%s] %s", s.Phase, s.Message)
	if s.Phase == game.PhasePlacement {
		status += fmt.Sprintf("  selected=%s orientation=%s placed=%d/%d",
			orNone(s.SelectedShip), s.Orientation, len(s.PlacedShips), len(game.Fleet()))
	}
	if s.AIPending {
		status += "  (opponent is aiming...)"
	}
	fmt.Fprintln(w, status)
}

func header() string {
	var b strings.Builder
	for c := 1; c <= game.GridSize; c++ {
		fmt.Fprintf(&b, "%-2d", c%10)
	}
	return b.String()
}

func row(b game.Board, r int, own bool) string {
	var sb strings.Builder
	for c := 0; c < game.GridSize; c++ {
		sb.WriteString(cellGlyph(b.At(r, c), own))
		sb.WriteByte(' ')
	}
	return sb.String()
}

func cellGlyph(c game.Cell, own bool) string {
	switch {
	case c.Hit && c.Ship != game.NoShip:
		return "X"
	case c.Hit:
		return "o"
	case own && c.Ship != game.NoShip:
		return string(c.Ship)[:1]
	default:
		return "."
	}
}

func orNone(t game.ShipType) string {
	if t == game.NoShip {
		return "none"
	}
	return string(t)
}
