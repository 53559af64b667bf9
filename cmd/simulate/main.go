// Command simulate runs a full offline match with scripted entrants and
// prints the round-by-round progression. It exists to sanity check arena
// templates: a template that produces degenerate grids, lopsided
// eliminations, or unfinishable rounds shows up here before it is ever
// served to real agents.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/apexarena/gridrace/game/arena"
	"github.com/apexarena/gridrace/game/match"
)

func main() {
	cmd := &cli.Command{
		Name:  "simulate",
		Usage: "run one full match offline with greedy oracle-following bots",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "template",
				Usage: "arena template name (empty = built-in default)",
			},
			&cli.StringFlag{
				Name:  "template-dir",
				Usage: "directory of arena template JSON files",
			},
			&cli.IntFlag{
				Name:  "entrants",
				Value: 0,
				Usage: "number of bots to enter (0 = template capacity)",
			},
			&cli.IntFlag{
				Name:  "seed",
				Value: 1,
				Usage: "grid generation seed, same seed reproduces the same grids",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "print every broadcast event",
			},
		},
		Action: runSimulation,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// eventPrinter implements match.Broadcaster for the terminal.
type eventPrinter struct {
	verbose bool
}

func (p *eventPrinter) Publish(matchID, event string, payload any) {
	switch event {
	case match.EventMoveResult:
		if p.verbose {
			fmt.Printf("  [%s] %v\n", event, payload)
		}
	default:
		fmt.Printf("[%s] %v\n", event, payload)
	}
}

func runSimulation(ctx context.Context, cmd *cli.Command) error {
	arenas, err := arena.NewManager(cmd.String("template-dir"))
	if err != nil {
		return err
	}
	tpl, err := arenas.Load(cmd.String("template"))
	if err != nil {
		return err
	}

	entrants := int(cmd.Int("entrants"))
	if entrants == 0 {
		entrants = tpl.Capacity
	}
	if entrants < 2 {
		return fmt.Errorf("need at least 2 entrants, got %d", entrants)
	}
	if entrants > tpl.Capacity {
		return fmt.Errorf("template %q caps the field at %d entrants", tpl.Name, tpl.Capacity)
	}

	registry := match.NewRegistry(match.Collaborators{
		Broadcast: &eventPrinter{verbose: cmd.Bool("verbose")},
	})
	m := registry.CreateSeeded(tpl, int64(cmd.Int("seed")))

	fmt.Printf("Simulating %q: %dx%d grid, %d entrants, budget %s\n\n",
		tpl.Name, tpl.Rows, tpl.Cols, entrants, tpl.RoundBudget())

	bots := make([]string, 0, entrants)
	for i := 0; i < entrants; i++ {
		p, err := m.Join(fmt.Sprintf("bot-%02d", i), fmt.Sprintf("Bot %02d", i))
		if err != nil {
			return fmt.Errorf("bot %d failed to join: %w", i, err)
		}
		bots = append(bots, p.ID)
	}
	if m.Status() == match.StatusWaiting {
		if err := m.Start(); err != nil {
			return err
		}
	}

	if err := race(m, bots); err != nil {
		return err
	}

	printResult(m.Snapshot())
	return nil
}

// race sweeps over the bots, each following the oracle one step per sweep,
// until the match reaches a terminal state. Sweeping in join order means a
// blocked bot simply retries on the next pass once the leader clears the
// cell.
func race(m *match.Match, bots []string) error {
	// A bot needs at most rows*cols steps per round, plus retries while
	// blocked. Far past that the simulation is stuck.
	maxSweeps := arena.Rounds * 64 * 64 * (len(bots) + 1)
	for sweep := 0; sweep < maxSweeps; sweep++ {
		if m.Status().Terminal() {
			return nil
		}
		for _, id := range bots {
			hint, err := m.PathHint(id)
			if err != nil {
				// Finished, eliminated, or the round just rolled over.
				continue
			}
			if len(hint) < 2 {
				continue
			}
			if _, err := m.SubmitMove(id, hint[1]); err != nil {
				continue
			}
		}
	}
	return fmt.Errorf("simulation did not terminate, final status %s", m.Status())
}

func printResult(snap *match.Snapshot) {
	fmt.Printf("\nFinal status: %s\n", snap.Status)
	if snap.WinnerID != "" {
		for _, p := range snap.Participants {
			if p.ID == snap.WinnerID {
				fmt.Printf("Winner: %s (total %s, %d collisions)\n", p.Name, p.TotalTime, p.Collisions)
			}
		}
		fmt.Printf("Prize: %.2f of pool %.2f\n", snap.PrizePool*match.WinnerShare, snap.PrizePool)
	}

	fmt.Println("\nFinal table:")
	ranked := make([]match.Participant, len(snap.Participants))
	copy(ranked, snap.Participants)
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j-1].Rank > ranked[j].Rank; j-- {
			ranked[j-1], ranked[j] = ranked[j], ranked[j-1]
		}
	}
	for _, p := range ranked {
		status := "winner"
		if p.Eliminated {
			status = fmt.Sprintf("out in round %d", p.EliminatedRound)
		}
		fmt.Printf("%2d. %-8s %s\n", p.Rank, p.Name, status)
	}
}
