package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/coge"
)

var (
	flagHeadless bool
	flagFrames   int
	flagTest     string
	flagStats    bool
	flagNoAudio  bool
)

var runCmd = &cobra.Command{
	Use:   "run <config>",
	Short: "Run a game",
	Long: `Run the game described by the configuration file.

The [window] section sets width, height, title and fullscreen. The [audio]
section sets the output rate; [engine] database names a SQLite file for
saved game data.

Examples:
  coge run game.ini
  coge run --headless --frames 300 game.ini
  coge run --headless --test smoke.yaml --stats game.ini`,
	Args: cobra.ExactArgs(1),
	RunE: runGame,
}

func init() {
	runCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without a window, audio or real-time pacing")
	runCmd.Flags().IntVar(&flagFrames, "frames", 0, "Stop after this many frames when headless (0 = until quit)")
	runCmd.Flags().StringVar(&flagTest, "test", "", "YAML or JSON test script to replay")
	runCmd.Flags().BoolVar(&flagStats, "stats", false, "Print engine statistics on exit")
	runCmd.Flags().BoolVar(&flagNoAudio, "no-audio", false, "Disable audio output")
}

func runGame(cmd *cobra.Command, args []string) error {
	cfg, err := coge.LoadConfig(args[0])
	if err != nil {
		return err
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}

	e, err := coge.NewEngine(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	if flagTest != "" {
		data, err := os.ReadFile(flagTest)
		if err != nil {
			return err
		}
		runner, err := coge.LoadTestScript(data)
		if err != nil {
			return err
		}
		e.SetTestRunner(runner)
	}

	if err := e.Initialize(cfg); err != nil {
		return err
	}
	if err := e.Run(); err != nil {
		return err
	}
	if flagStats {
		fmt.Println(e.Stats())
	}
	if code := e.ExitCode(); code != 0 {
		e.Close()
		os.Exit(code)
	}
	return nil
}

// buildOptions selects the back-ends. The engine closes audio and the
// database on Close.
func buildOptions(cfg coge.Config) (coge.Options, error) {
	w := cfg.ReadInteger("window", "width", 640)
	h := cfg.ReadInteger("window", "height", 480)
	var opts coge.Options

	if flagHeadless {
		opts.Video = coge.NewHeadlessVideo(w, h)
		opts.Clock = &coge.ManualClock{}
		opts.Driver = coge.LoopDriver{MaxFrames: flagFrames}
	} else {
		video := coge.NewEbitenVideo(
			cfg.ReadString("window", "title", "coge"), w, h,
			cfg.ReadBool("window", "fullscreen", false),
		)
		opts.Video = video
		opts.Input = coge.NewEbitenInput()
		opts.Driver = &coge.EbitenDriver{Video: video}
		if !flagNoAudio {
			audio, err := coge.NewBeepAudio(cfg.ReadInteger("audio", "rate", 0))
			if err != nil {
				coge.Logger().Warn("audio disabled", "err", err)
			} else {
				opts.Audio = audio
			}
		}
	}

	if path := cfg.ReadFilePath("engine", "database", ""); path != "" {
		db, err := coge.OpenSQLite(path)
		if err != nil {
			return opts, err
		}
		opts.Database = db
	}
	return opts, nil
}
