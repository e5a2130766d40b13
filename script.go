package coge

// Script supplies behavior for a sprite, scene or engine. Handler returns the
// handler bound to kind, or nil. Plot returns the resumable steps that replace
// the update handler while a plot is enabled; nil when the script has none.
type Script interface {
	Handler(kind EventKind) Handler
	Plot() []PlotStep
}

// ScriptFuncs is a Script built from Go functions.
type ScriptFuncs struct {
	Name     string
	Handlers map[EventKind]Handler
	Steps    []PlotStep
}

// NewScript creates an empty named script.
func NewScript(name string) *ScriptFuncs {
	return &ScriptFuncs{Name: name, Handlers: make(map[EventKind]Handler)}
}

// On binds fn to kind and returns s for chaining.
func (s *ScriptFuncs) On(kind EventKind, fn func(ev *Event)) *ScriptFuncs {
	if s.Handlers == nil {
		s.Handlers = make(map[EventKind]Handler)
	}
	s.Handlers[kind] = HandlerFunc(fn)
	return s
}

// WithPlot sets the plot steps and returns s for chaining.
func (s *ScriptFuncs) WithPlot(steps ...PlotStep) *ScriptFuncs {
	s.Steps = steps
	return s
}

// Handler implements Script.
func (s *ScriptFuncs) Handler(kind EventKind) Handler {
	if s == nil {
		return nil
	}
	return s.Handlers[kind]
}

// Plot implements Script.
func (s *ScriptFuncs) Plot() []PlotStep {
	if s == nil {
		return nil
	}
	return s.Steps
}
