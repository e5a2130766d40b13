package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/coge"
)

var flagDiagonal bool

var pathCmd = &cobra.Command{
	Use:   "path <config> <map> <from> <to>",
	Short: "Print the shortest way between two tiles",
	Long: `Find the cheapest way between two tiles of a configured map and print it
as a list of tile coordinates followed by a picture of the map.

Tiles are given as x,y.

Examples:
  coge path game.ini world 0,0 9,9
  coge path --diagonal game.ini world 0,0 9,9`,
	Args: cobra.ExactArgs(4),
	RunE: runPath,
}

var rangeCmd = &cobra.Command{
	Use:   "range <config> <map> <from> <budget>",
	Short: "Print the tiles reachable within a movement budget",
	Long: `Spend a movement budget from a start tile and print the remaining budget
of every reachable tile.

Examples:
  coge range game.ini world 4,4 6`,
	Args: cobra.ExactArgs(4),
	RunE: runRange,
}

func init() {
	pathCmd.Flags().BoolVar(&flagDiagonal, "diagonal", false, "Allow diagonal steps (overrides the map setting)")
}

func loadMap(cfgPath, name string) (*coge.GameMap, error) {
	cfg, err := coge.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	mc, err := coge.ReadMapConfig(cfg, name)
	if err != nil {
		return nil, err
	}
	return coge.NewGameMap(mc)
}

func parseTile(s string) (coge.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return coge.Point{}, fmt.Errorf("tile %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return coge.Point{}, fmt.Errorf("tile %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return coge.Point{}, fmt.Errorf("tile %q: %w", s, err)
	}
	return coge.Point{X: x, Y: y}, nil
}

func runPath(cmd *cobra.Command, args []string) error {
	m, err := loadMap(args[0], args[1])
	if err != nil {
		return err
	}
	from, err := parseTile(args[2])
	if err != nil {
		return err
	}
	to, err := parseTile(args[3])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("diagonal") {
		m.SetDiagonal(flagDiagonal)
	}

	way := m.FindWay(from, to)
	if way == nil {
		fmt.Printf("no way from %d,%d to %d,%d\n", from.X, from.Y, to.X, to.Y)
		return nil
	}
	parts := make([]string, len(way))
	onWay := make(map[coge.Point]bool, len(way))
	for i, p := range way {
		parts[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
		onWay[p] = true
	}
	fmt.Printf("%d steps: %s\n\n", len(way)-1, strings.Join(parts, " "))
	printGrid(m, func(x, y int) string {
		switch {
		case x == from.X && y == from.Y:
			return "S"
		case x == to.X && y == to.Y:
			return "E"
		case onWay[coge.Point{X: x, Y: y}]:
			return "*"
		}
		return ""
	})
	return nil
}

func runRange(cmd *cobra.Command, args []string) error {
	m, err := loadMap(args[0], args[1])
	if err != nil {
		return err
	}
	from, err := parseTile(args[2])
	if err != nil {
		return err
	}
	budget, err := strconv.Atoi(args[3])
	if err != nil {
		return fmt.Errorf("budget %q: %w", args[3], err)
	}

	tiles := m.FindRange(from, budget)
	fmt.Printf("%d tiles reachable from %d,%d with budget %d\n\n", len(tiles), from.X, from.Y, budget)
	printGrid(m, func(x, y int) string {
		if r := m.RangeRemaining(x, y); r >= 0 {
			return strconv.Itoa(r % 10)
		}
		return ""
	})
	return nil
}

// printGrid prints one character per tile: mark's result when not empty,
// "#" for blocked tiles and "." otherwise.
func printGrid(m *coge.GameMap, mark func(x, y int) string) {
	var b strings.Builder
	for y := 0; y < m.Rows(); y++ {
		for x := 0; x < m.Columns(); x++ {
			switch s := mark(x, y); {
			case s != "":
				b.WriteString(s)
			case m.TileValue(x, y) < 0:
				b.WriteByte('#')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	fmt.Print(b.String())
}
