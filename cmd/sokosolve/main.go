// Command sokosolve loads a Sokoban level from a text file and solves
// it, printing the resulting LURD solution or the reason it couldn't be
// found.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bertbaron/soko/sokoban"
	"github.com/bertbaron/soko/solve"
)

func main() {
	levelFile := flag.String("level", "", "path to an XSB level file")
	direction := flag.String("direction", "forward", "forward | backward | both")
	maxPushes := flag.Int("max-pushes", 0, "push-depth limit, 0 = unbounded")
	maxNodes := flag.Int("max-nodes", 0, "node budget, 0 = unbounded")
	wallClock := flag.Int("wall-clock-ms", 0, "wall-clock budget in milliseconds, 0 = unbounded")
	noFreeze := flag.Bool("no-freeze", false, "disable the freeze deadlock subtest")
	noCorral := flag.Bool("no-corral", false, "disable the corral deadlock subtest")
	noBipartite := flag.Bool("no-bipartite", false, "disable the bipartite deadlock subtest")
	flag.Parse()

	if *levelFile == "" {
		log.Fatal("sokosolve: -level is required")
	}
	data, err := os.ReadFile(*levelFile)
	if err != nil {
		log.Fatalf("sokosolve: %v", err)
	}

	level, err := sokoban.ParseLevel(string(data))
	if err != nil {
		log.Fatalf("sokosolve: %v", err)
	}
	board, err := sokoban.NewBoard(level)
	if err != nil {
		log.Fatalf("sokosolve: %v", err)
	}
	fmt.Printf("loaded level: %dx%d, %d boxes, %d floor cells\n", board.Width, board.Height, len(board.InitialBoxes), board.Floor)

	cfg := sokoban.DefaultConfig()
	cfg.DetectFreeze = !*noFreeze
	cfg.DetectCorral = !*noCorral
	cfg.DetectBipartite = !*noBipartite
	cfg.MaxPushes = *maxPushes
	cfg.MaxNodes = *maxNodes
	cfg.WallClockMillis = *wallClock
	switch *direction {
	case "backward":
		cfg.Direction = sokoban.Backward
	case "both":
		cfg.Direction = sokoban.Both
	default:
		cfg.Direction = sokoban.Forward
	}

	tables, err := sokoban.Precompute(board, cfg)
	if err != nil {
		log.Fatalf("sokosolve: %v", err)
	}

	start := time.Now()
	verdict, err := sokoban.Solve(tables, &solve.CancelToken{})
	if err != nil {
		log.Fatalf("sokosolve: %v", err)
	}
	fmt.Printf("elapsed: %s\n", time.Since(start))

	switch verdict.Kind {
	case sokoban.VerdictSolved:
		fmt.Printf("solved: %s\nmoves=%d pushes=%d\n", verdict.LURD, verdict.Moves, verdict.Pushes)
	case sokoban.VerdictProvenUnsolvable:
		fmt.Printf("unsolvable: %s\n", verdict.Reason)
	case sokoban.VerdictBudgetExhausted:
		fmt.Printf("budget exhausted after %d nodes\n", verdict.Nodes)
	case sokoban.VerdictCancelled:
		fmt.Println("cancelled")
	}
}
