package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetrion/internal/config"
)

var flagResetControls bool

var controlsCmd = &cobra.Command{
	Use:   "controls",
	Short: "Show the key bindings",
	Long: `Print the key bindings and the file they are read from. The file is
created with the default bindings if it does not exist.

Key names are the ones the terminal reports, e.g. "a", "left", "space",
"shift+tab". A key may be bound to one control only.

Examples:
  tetrion controls
  tetrion controls --reset`,
	Args: cobra.NoArgs,
	Run:  runControls,
}

func init() {
	controlsCmd.Flags().BoolVar(&flagResetControls, "reset", false, "Replace the bindings file with the defaults")
}

func runControls(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitf("%v", err)
	}
	path := config.ExpandPath(cfg.Input.Controls)

	if flagResetControls {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			exitf("removing %s: %v", path, err)
		}
	}

	controls, err := config.LoadOrCreateControls(path)
	if err != nil {
		exitf("%v", err)
	}

	fmt.Println(emph("Controls") + " (" + path + ")")
	fmt.Println()
	for _, line := range controls.Lines() {
		fmt.Println("  " + line)
	}
}
