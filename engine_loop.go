package coge

import (
	"errors"
	"time"
)

// defaultCPS is the frame cap used when the configuration names none.
const defaultCPS = 60

// cpsMeter measures cycles per second over windows of at least one second.
type cpsMeter struct {
	start  time.Duration
	frames int
	value  int
}

func (m *cpsMeter) reset(now time.Duration) {
	m.start = now
	m.frames = 0
}

// tick counts a frame at now and refreshes the measured value once a full
// second has elapsed.
func (m *cpsMeter) tick(now time.Duration) {
	m.frames++
	elapsed := now - m.start
	if elapsed < time.Second {
		return
	}
	m.value = int((int64(m.frames)*int64(time.Second) + int64(elapsed)/2) / int64(elapsed))
	m.reset(now)
}

// SetCPS caps the frame rate. Zero or less runs uncapped.
func (e *Engine) SetCPS(cps int) { e.cps = max(cps, 0) }

// CPS returns the configured frame cap.
func (e *Engine) CPS() int { return e.cps }

// MeasuredCPS returns the frame rate measured over the last full second.
func (e *Engine) MeasuredCPS() int { return e.measure.value }

// tickInterval is the minimum time between frames under the cap.
func (e *Engine) tickInterval() time.Duration {
	if e.cps <= 0 {
		return 0
	}
	return time.Duration(1000/e.cps) * time.Millisecond
}

// waitTick blocks until the next frame is due and samples the frame time.
func (e *Engine) waitTick() {
	now := e.clock.Now()
	if interval := e.tickInterval(); interval > 0 {
		for now-e.lastTick < interval {
			e.clock.Sleep(time.Millisecond)
			now = e.clock.Now()
		}
	}
	e.delta = now - e.lastTick
	e.lastTick = now
	e.now = now
	e.frames++
	e.measure.tick(now)
}

// Run drives frames through the driver until Quit or Terminate is called or
// the input source reports a quit. Shutdown runs before Run returns.
func (e *Engine) Run() error {
	if e.state < 0 {
		logger.Error("run refused", "err", ErrNotInitialized)
		return ErrNotInitialized
	}
	logger.Info("engine running", "name", e.Name)
	err := e.driver.Run(e.Frame)
	if errors.Is(err, ErrTerminated) {
		err = nil
	}
	e.shutdown()
	logger.Info("engine stopped", "frames", e.frames, "exit", e.exitCode)
	return err
}

// Frame runs one iteration of the main loop. Drivers call it once per tick;
// it returns ErrTerminated when the run should end.
func (e *Engine) Frame() error {
	if e.state < 0 {
		return ErrNotInitialized
	}
	if e.quit {
		return ErrTerminated
	}
	e.waitTick()

	e.in.beginFrame()
	if !e.input.Poll(&e.in) {
		e.quit = true
	}
	if e.runner != nil {
		e.runner.step(e)
	}
	e.processInjectedInput()
	e.in.arbitrate()

	e.dispatchNet(e.net.Update())

	e.settleInit()
	if e.active == nil && e.next != nil {
		e.commitSwitch()
	}
	if s := e.active; s != nil {
		s.Update()
	}
	e.fire(EventUpdate)

	if e.quit {
		return ErrTerminated
	}
	return nil
}
