package coge

import (
	"testing"
	"time"
)

func TestPlotRunsUntilYield(t *testing.T) {
	var trace []int
	step := func(n int, act PlotAction) PlotStep {
		return func(*Event) PlotAction {
			trace = append(trace, n)
			return act
		}
	}
	var p Plot
	p.enable([]PlotStep{step(0, PlotNext), step(1, PlotYield), step(2, PlotNext)}, 2)

	p.run(&Event{})
	if len(trace) != 2 || p.Cursor() != 2 {
		t.Fatalf("trace %v cursor %d", trace, p.Cursor())
	}
	p.run(&Event{})
	if p.Round() != 1 || p.Cursor() != 0 || !p.Enabled() {
		t.Fatalf("after run 1: round %d cursor %d enabled %v", p.Round(), p.Cursor(), p.Enabled())
	}
	p.run(&Event{})
	p.run(&Event{})
	if p.Enabled() || p.State() != PlotFinished || p.Round() != 2 {
		t.Errorf("after 2 rounds: enabled %v state %v round %d", p.Enabled(), p.State(), p.Round())
	}
	p.run(&Event{})
	if len(trace) != 6 {
		t.Errorf("finished plot kept running: %v", trace)
	}
}

func TestPlotSuspendAndResume(t *testing.T) {
	calls := 0
	var p Plot
	p.enable([]PlotStep{
		func(*Event) PlotAction { calls++; return PlotWaitTimer },
		func(*Event) PlotAction { calls++; return PlotEnd },
	}, 0)

	p.run(&Event{})
	if p.State() != PlotSuspended || p.Waiting() != PlotWaitTimer {
		t.Fatalf("state %v waiting %v", p.State(), p.Waiting())
	}
	p.run(&Event{})
	if calls != 1 {
		t.Errorf("suspended plot ran: calls %d", calls)
	}
	if p.resume(PlotWaitPath) {
		t.Error("resumed on the wrong trigger")
	}
	if !p.resume(PlotWaitTimer) {
		t.Fatal("resume failed")
	}
	p.run(&Event{})
	if calls != 2 || p.Round() != 1 || !p.Enabled() {
		t.Errorf("calls %d round %d enabled %v", calls, p.Round(), p.Enabled())
	}
}

func TestPlotRepeat(t *testing.T) {
	n := 0
	var p Plot
	p.enable([]PlotStep{func(*Event) PlotAction {
		n++
		if n < 3 {
			return PlotRepeat
		}
		return PlotNext
	}}, 1)
	for i := 0; i < 3; i++ {
		p.run(&Event{})
	}
	if n != 3 || p.Enabled() {
		t.Errorf("n %d enabled %v", n, p.Enabled())
	}
}

func TestPlotEmpty(t *testing.T) {
	var p Plot
	if p.enable(nil, 0) || p.Enabled() {
		t.Error("empty plot enabled")
	}
}

func TestSpritePlotWaitsForTimer(t *testing.T) {
	e, _, clock := newTestEngine(t, "")
	s := newRunningScene(t, e, "s")
	var steps []string
	script := NewScript("walker").WithPlot(
		func(*Event) PlotAction { steps = append(steps, "start"); return PlotWaitTimer },
		func(*Event) PlotAction { steps = append(steps, "tick"); return PlotEnd },
	)
	sp := e.NewSprite("walker")
	sp.Script = script
	if !sp.EnablePlot(1) {
		t.Fatal("EnablePlot failed")
	}
	sp.SetTimer(100 * time.Millisecond)
	s.AddSprite(sp, 0, 0, 0)

	runFrames(t, e, 2)
	if len(steps) != 1 {
		t.Fatalf("steps = %v", steps)
	}
	clock.Advance(200 * time.Millisecond)
	runFrames(t, e, 2)
	if len(steps) != 2 || sp.Plot().Enabled() {
		t.Errorf("steps %v enabled %v", steps, sp.Plot().Enabled())
	}
}
