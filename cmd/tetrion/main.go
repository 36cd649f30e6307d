// tetrion is a terminal client for the obpf block-stacking simulator.
//
// Usage:
//
//	tetrion                        - Open the menu
//	tetrion play                   - Start a single-player game
//	tetrion connect <host> <port>  - Join a multiplayer game
//	tetrion serve                  - Start SSH server for remote play
//	tetrion scores                 - Show the best results
//	tetrion controls               - Show the key bindings
//
// Global flags:
//
//	--config <path>   - Configuration file
//	--library <path>  - Simulator shared library
//	--seed <value>    - Seed for local single-player games
//	--db <path>       - Result database path
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig  string
	flagLibrary string
	flagSeed    uint64
	flagDBPath  string
	flagFPS     int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tetrion",
	Short: "Tetrion - stack blocks in your terminal",
	Long: `Tetrion is a terminal client for the obpf simulator. The game rules run in
the native libobpf library; tetrion drives it at 60 ticks per second and
draws the board.

Available commands:
  play     - Start a single-player game
  connect  - Join a multiplayer game server
  serve    - Start SSH server for remote play
  scores   - View the best results
  controls - Show or reset the key bindings

Without a command the menu is shown.

Examples:
  tetrion
  tetrion play --seed 42
  tetrion connect localhost 12345
  tetrion serve --ssh :2222
  tetrion scores --mode multi`,
	Run: runMenu,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML (default ~/.tetrion/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLibrary, "library", "", "Path to the simulator library (default from config)")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Seed for local single-player games (0 = random, ignored by serve)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database (default from config)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Render frames per second (default from config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(controlsCmd)
}

// exitf prints an error and exits with status 1.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
