package main

import (
	"context"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tetrion/internal/platform/tui"
	"github.com/vovakirdan/tetrion/internal/sim"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a single-player game",
	Long: `Start a single-player game right away.

Default controls (edit ~/.tetrion/controls.yaml to change them):
  A / D          - Move left / right
  S              - Soft drop
  W              - Hard drop
  Right / Left   - Rotate clockwise / counter-clockwise
  E              - Hold
  R              - Restart (after game over)
  Esc            - Leave the game
  Ctrl+C         - Quit

Examples:
  tetrion play
  tetrion play --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

var connectCmd = &cobra.Command{
	Use:   "connect <host> <port>",
	Short: "Join a multiplayer game",
	Long: `Connect to an obpf game server and play against the other players.
Their boards are shown to the right of yours.

Examples:
  tetrion connect localhost 12345`,
	Args: cobra.ExactArgs(2),
	Run:  runConnect,
}

func runMenu(_ *cobra.Command, _ []string) {
	runTUI(func(ctx context.Context, deps tui.Deps) tui.Scene {
		return tui.NewMenuScene(ctx, deps)
	})
}

func runPlay(_ *cobra.Command, _ []string) {
	runTUI(func(ctx context.Context, deps tui.Deps) tui.Scene {
		return tui.NewGameScene(ctx, deps, tui.GameOptions{Seed: flagSeed})
	})
}

func runConnect(_ *cobra.Command, args []string) {
	port, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil || port == 0 {
		exitf("invalid port %q", args[1])
	}
	remote := &sim.Endpoint{Host: args[0], Port: uint16(port)}

	runTUI(func(ctx context.Context, deps tui.Deps) tui.Scene {
		return tui.NewGameScene(ctx, deps, tui.GameOptions{Remote: remote})
	})
}

// runTUI runs the terminal UI starting at the scene built by initial.
func runTUI(initial func(context.Context, tui.Deps) tui.Scene) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		exitf("tetrion needs an interactive terminal")
	}

	e, err := setup(envOptions{prefix: "tetrion", withAudio: true})
	if err != nil {
		exitf("%v", err)
	}

	ctx := context.Background()
	err = tui.Run(ctx, initial(ctx, e.deps(sim.NewRegistry())))
	if cerr := e.close(); cerr != nil {
		e.logger.Warn("cleanup failed", "error", cerr)
	}
	if err != nil {
		exitf("%v", err)
	}
}
