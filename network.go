package coge

// NopNetwork is the Network used when no back-end is configured. It never
// produces events and drops sends.
type NopNetwork struct{}

// Update implements Network.
func (NopNetwork) Update() []NetEvent { return nil }

// Send implements Network.
func (NopNetwork) Send(peer int, data []byte) error { return nil }

// Close implements Network.
func (NopNetwork) Close() error { return nil }

// QueueNetwork is an in-memory Network. Events pushed with Push are returned
// by the next Update; sends are recorded per peer.
type QueueNetwork struct {
	pending []NetEvent
	Sent    map[int][][]byte
}

// Push queues ev for the next Update.
func (q *QueueNetwork) Push(ev NetEvent) { q.pending = append(q.pending, ev) }

// Update implements Network.
func (q *QueueNetwork) Update() []NetEvent {
	out := q.pending
	q.pending = nil
	return out
}

// Send implements Network.
func (q *QueueNetwork) Send(peer int, data []byte) error {
	if q.Sent == nil {
		q.Sent = make(map[int][][]byte)
	}
	q.Sent[peer] = append(q.Sent[peer], append([]byte(nil), data...))
	return nil
}

// Close implements Network.
func (q *QueueNetwork) Close() error {
	q.pending = nil
	return nil
}

// dispatchNet delivers network events to the engine and the active scene.
func (e *Engine) dispatchNet(events []NetEvent) {
	for _, ne := range events {
		ev := Event{Engine: e, Net: ne}
		switch ne.Kind {
		case NetAccept:
			ev.Kind = EventNetAccept
		case NetReceive:
			ev.Kind = EventNetReceive
		case NetDisconnect:
			ev.Kind = EventNetDisconnect
		default:
			continue
		}
		e.hub.dispatch(e.Script, &ev)
		if s := e.active; s != nil {
			ev.Scene = s
			s.hub.dispatch(s.Script, &ev)
		}
	}
}
