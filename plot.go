package coge

// PlotAction is returned by a plot step to tell the runner what to do next.
type PlotAction uint8

const (
	PlotNext           PlotAction = iota // continue with the next step this frame
	PlotYield                            // continue with the next step next frame
	PlotRepeat                           // run this step again next frame
	PlotWaitTimer                        // suspend until the sprite timer fires
	PlotWaitSceneTimer                   // suspend until the scene timer fires
	PlotWaitPath                         // suspend until the current path finishes
	PlotWaitEffect                       // suspend until timed effects finish
	PlotWaitAnima                        // suspend until the anima finishes
	PlotEnd                              // end this run now
)

// PlotStep is one resumable unit of plot behavior.
type PlotStep func(ev *Event) PlotAction

// PlotState is the execution state of an enabled plot.
type PlotState uint8

const (
	PlotRunning PlotState = iota
	PlotSuspended
	PlotFinished
)

// Plot runs a list of steps as an explicit continuation: the cursor marks
// the step to resume at, and a suspended plot waits for one trigger.
type Plot struct {
	steps   []PlotStep
	cursor  int
	state   PlotState
	wait    PlotAction
	round   int
	rounds  int
	enabled bool
}

// Enabled reports whether the plot is bound and not exhausted.
func (p *Plot) Enabled() bool { return p.enabled }

// State returns the current execution state.
func (p *Plot) State() PlotState { return p.state }

// Round returns the number of completed runs.
func (p *Plot) Round() int { return p.round }

// Cursor returns the index of the step that runs next.
func (p *Plot) Cursor() int { return p.cursor }

// Waiting returns the trigger a suspended plot waits for.
func (p *Plot) Waiting() PlotAction { return p.wait }

// enable binds steps, resets the cursor and starts round 0. rounds <= 0 runs
// without limit.
func (p *Plot) enable(steps []PlotStep, rounds int) bool {
	if len(steps) == 0 {
		return false
	}
	*p = Plot{steps: steps, rounds: rounds, enabled: true, state: PlotRunning}
	return true
}

func (p *Plot) disable() {
	p.enabled = false
	p.state = PlotFinished
	p.wait = PlotNext
}

// resume wakes a plot suspended on trigger. It reports whether it woke.
func (p *Plot) resume(trigger PlotAction) bool {
	if !p.enabled || p.state != PlotSuspended || p.wait != trigger {
		return false
	}
	p.state = PlotRunning
	p.wait = PlotNext
	return true
}

// run executes steps from the cursor until one yields, suspends or the run
// completes. A run completes at most once per call.
func (p *Plot) run(ev *Event) {
	if !p.enabled || p.state != PlotRunning {
		return
	}
	for p.cursor < len(p.steps) {
		act := p.steps[p.cursor](ev)
		switch act {
		case PlotNext:
			p.cursor++
			continue
		case PlotYield:
			p.cursor++
			if p.cursor >= len(p.steps) {
				p.complete()
			}
			return
		case PlotRepeat:
			return
		case PlotEnd:
			p.complete()
			return
		default:
			p.cursor++
			p.state = PlotSuspended
			p.wait = act
			return
		}
	}
	p.complete()
}

// complete finishes a run, counting the round and disabling the plot once
// the configured rounds are used up.
func (p *Plot) complete() {
	p.round++
	p.cursor = 0
	if p.rounds > 0 && p.round >= p.rounds {
		p.disable()
		return
	}
	p.state = PlotRunning
}
