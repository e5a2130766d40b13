// coge runs and inspects games described by a configuration file.
//
// Usage:
//
//	coge run <config>                 - Run the game in a window
//	coge run --headless <config>      - Run without a window (CI, replays)
//	coge check <config>               - Load every resource section and report failures
//	coge path <config> <map> x,y x,y  - Print the shortest way between two tiles
//	coge range <config> <map> x,y n   - Print tiles reachable with budget n
//
// Global flags:
//
//	--log-level <level>  - debug, info, warn or error (default: info)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/coge"
)

var flagLogLevel string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "coge",
	Short: "Run and inspect coge games",
	Long: `coge loads a game from an INI or YAML configuration file.

Available commands:
  run    - Run the game
  check  - Validate every resource section
  path   - Find a way across a map
  range  - Show the tiles reachable from a start tile

Examples:
  coge run game.ini
  coge run --headless --frames 600 --test smoke.yaml game.ini
  coge check game.yaml
  coge path game.ini world 0,0 9,9
  coge range game.ini world 4,4 6`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		coge.Logger().SetLevel(lvl)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(rangeCmd)
}
