package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetrion/internal/platform/tui"
	"github.com/vovakirdan/tetrion/internal/sim"
	"github.com/vovakirdan/tetrion/internal/storage"
)

var (
	flagScoresMode  string
	flagScoresLimit int
	flagRecent      bool
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the best results",
	Long: `Display the best finished games of one mode, or the most recent games
of all modes.

Examples:
  tetrion scores
  tetrion scores --mode multi --limit 20
  tetrion scores --recent
  tetrion scores --mode single --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresMode, "mode", string(storage.ModeSingle), "Game mode: single or multi")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of results to show")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the most recent games instead of the best")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all results of the mode")
}

var emph = color.New(color.FgBlue, color.Bold).SprintFunc()

func runScores(_ *cobra.Command, _ []string) {
	mode := storage.Mode(flagScoresMode)
	if mode != storage.ModeSingle && mode != storage.ModeMulti {
		exitf("unknown mode %q (want single or multi)", flagScoresMode)
	}

	cfg, err := loadConfig()
	if err != nil {
		exitf("%v", err)
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		exitf("opening results database: %v", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearResults(mode); err != nil {
			store.Close()
			exitf("clearing results: %v", err)
		}
		fmt.Printf("Cleared all %s results.\n", mode)
		return
	}

	var results []storage.Result
	title := fmt.Sprintf("Best results - %s", mode)
	if flagRecent {
		title = "Recent games"
		results, err = store.RecentResults(flagScoresLimit)
	} else {
		results, err = store.TopResults(mode, flagScoresLimit)
	}
	if err != nil {
		store.Close()
		exitf("retrieving results: %v", err)
	}

	fmt.Println(emph(title))
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Run 'tetrion play' to set the first high score!")
		return
	}

	printResults(results, flagRecent)

	if !flagRecent {
		if sum, err := store.Summary(mode); err == nil {
			fmt.Println()
			fmt.Printf("%s games, best %s, %s lines, %s played\n",
				humanize.Comma(int64(sum.Games)),
				emph(humanize.Comma(int64(sum.BestScore))),
				humanize.Comma(int64(sum.TotalLines)),
				tui.FormatElapsed(sim.TickTime(sum.TotalTicks)))
		}
	}
}

func printResults(results []storage.Result, withMode bool) {
	header := []string{"Rank", "Score", "Lines", "Level", "Time", "Seed", "Played"}
	if withMode {
		header = append(header, "Mode")
	}

	data := make([][]string, 0, len(results))
	for i, r := range results {
		seed := fmt.Sprint(r.Seed)
		if r.Mode == storage.ModeMulti {
			seed = "-"
		}
		row := []string{
			fmt.Sprintf("#%d", i+1),
			humanize.Comma(int64(r.Score)),
			fmt.Sprint(r.Lines),
			fmt.Sprint(r.Level),
			tui.FormatElapsed(sim.TickTime(r.Ticks)),
			seed,
			humanize.Time(r.CreatedAt),
		}
		if withMode {
			row = append(row, string(r.Mode))
		}
		data = append(data, row)
	}

	table := tablewriter.NewWriter(os.Stdout)

	table.SetHeader(header)
	table.SetHeaderLine(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(true)

	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnSeparator("  ")
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("     ")

	table.AppendBulk(data)

	table.Render()
}
