package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/coge"
)

var checkCmd = &cobra.Command{
	Use:   "check <config>",
	Short: "Load every resource section and report failures",
	Long: `Load every image, font, path, map, data, anima, sprite and scene section
of the configuration against a headless back-end and report the ones that
fail. Sound sections are listed but not decoded.

Examples:
  coge check game.ini`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

// checkOrder loads dependencies before the sections that use them.
var checkOrder = []string{"image", "font", "path", "map", "data", "anima", "sprite", "scene"}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := coge.LoadConfig(args[0])
	if err != nil {
		return err
	}
	w := cfg.ReadInteger("window", "width", 640)
	h := cfg.ReadInteger("window", "height", 480)
	e, err := coge.NewEngine(coge.Options{Video: coge.NewHeadlessVideo(w, h), Clock: &coge.ManualClock{}})
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.Initialize(cfg); err != nil {
		return fmt.Errorf("[engine]: %w", err)
	}

	byKind := make(map[string][]string)
	for _, sec := range cfg.Sections() {
		kind, name, ok := strings.Cut(sec, ".")
		if ok {
			byKind[kind] = append(byKind[kind], name)
		}
	}

	var errs []error
	loaded := 0
	for _, kind := range checkOrder {
		names := byKind[kind]
		sort.Strings(names)
		for _, name := range names {
			if err := checkOne(e, kind, name); err != nil {
				fmt.Printf("  FAIL  %s.%s: %v\n", kind, name, err)
				errs = append(errs, err)
				continue
			}
			loaded++
			fmt.Printf("  ok    %s.%s\n", kind, name)
		}
	}
	for _, name := range byKind["sound"] {
		fmt.Printf("  skip  sound.%s\n", name)
	}
	fmt.Printf("\n%d loaded, %d failed\n", loaded, len(errs))
	if len(errs) > 0 {
		return errors.New("configuration check failed")
	}
	return nil
}

func checkOne(e *coge.Engine, kind, name string) error {
	switch kind {
	case "image":
		_, err := e.LoadImage(name)
		return err
	case "font":
		_, err := e.LoadFont(name)
		return err
	case "path":
		_, err := e.LoadPath(name)
		return err
	case "map":
		_, err := e.LoadMap(name)
		return err
	case "data":
		_, err := e.LoadGameData(name)
		return err
	case "anima":
		_, err := e.LoadAnima(name)
		return err
	case "sprite":
		sp, err := e.LoadSprite(name)
		if err == nil {
			sp.Free()
		}
		return err
	case "scene":
		if e.Scene(name) != nil {
			return nil
		}
		_, err := e.LoadScene(name)
		return err
	}
	return nil
}
