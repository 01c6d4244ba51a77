package treectx

import "sync"

// signal is a one-shot, multi-consumer notification. A subscriber's receive
// completes when the signal trips, whether because its owning context was
// cancelled directly or because an ancestor's relay forwarded a
// cancellation into it; subscribers cannot tell the two apart.
type signal struct {
	once sync.Once
	done chan struct{}
}

func newSignal() *signal {
	return &signal{done: make(chan struct{})}
}

// subscribe returns a channel that is closed when the signal trips. The
// channel is shared among subscribers; receiving never consumes the
// notification, so any number of races can watch the same signal.
func (s *signal) subscribe() <-chan struct{} {
	return s.done
}

// trip closes the signal and reports whether this call did the closing.
// A false return means the signal had already tripped; for a relay that is
// the child-already-gone case and must stay a silent no-op.
func (s *signal) trip() bool {
	fired := false
	s.once.Do(func() {
		close(s.done)
		fired = true
	})
	return fired
}
