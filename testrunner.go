package coge

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string `yaml:"action"`
	Label  string `yaml:"label,omitempty"`
	X      int    `yaml:"x,omitempty"`
	Y      int    `yaml:"y,omitempty"`
	FromX  int    `yaml:"fromX,omitempty"`
	FromY  int    `yaml:"fromY,omitempty"`
	ToX    int    `yaml:"toX,omitempty"`
	ToY    int    `yaml:"toY,omitempty"`
	Frames int    `yaml:"frames,omitempty"`
	Key    string `yaml:"key,omitempty"`
	Text   string `yaml:"text,omitempty"`
	Scene  string `yaml:"scene,omitempty"`
	Code   int    `yaml:"code,omitempty"`
}

// testScript is the top-level structure for a test script.
type testScript struct {
	Steps []testStep `yaml:"steps"`
}

var testActions = map[string]bool{
	"screenshot": true, "click": true, "drag": true, "hover": true,
	"wait": true, "key": true, "type": true, "scene": true, "quit": true,
}

// TestRunner sequences injected input events, scene switches and
// screenshots across frames for automated testing. Attach to an Engine via
// SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a YAML or JSON test script and returns a TestRunner
// ready to be attached to an Engine via SetTestRunner.
func LoadTestScript(data []byte) (*TestRunner, error) {
	var script testScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !testActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "key" {
			if _, err := parseKey(st.Key); err != nil {
				return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
			}
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the engine. Its step method runs
// each frame after input is polled and before injected input is applied.
func (e *Engine) SetTestRunner(runner *TestRunner) {
	e.runner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame.
func (r *TestRunner) step(e *Engine) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(e.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		if s := e.active; s != nil {
			s.Screenshot(st.Label)
		}
	case "click":
		e.InjectClick(st.X, st.Y)
	case "hover":
		e.InjectHover(st.X, st.Y)
	case "drag":
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "key":
		k, _ := parseKey(st.Key)
		e.InjectKeyTap(k)
	case "type":
		e.InjectChars(st.Text)
	case "scene":
		if err := e.SetActiveScene(st.Scene); err != nil {
			logger.Warn("test runner", "step", r.cursor-1, "err", err)
		}
	case "quit":
		e.Quit(st.Code)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(e.injectQueue) == 0 {
		r.done = true
	}
}

// parseKey resolves a key name such as "A", "Enter" or "ArrowLeft".
func parseKey(name string) (Key, error) {
	var k Key
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("key %q: %w", name, err)
	}
	return k, nil
}
