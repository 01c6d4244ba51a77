package treectx

import "time"

// Outcome classifies how a spawned task's race resolved. Outcomes are
// reported to observers only; Handle.Join deliberately does not distinguish
// OutcomeCancelled from OutcomeDeadline.
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeCancelled
	OutcomeDeadline
	OutcomePanicked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeDeadline:
		return "deadline"
	case OutcomePanicked:
		return "panicked"
	default:
		return "unknown"
	}
}

// Observer receives lifecycle events from contexts, spawned tasks and
// cancellation relays. Implementations must be safe for concurrent use.
type Observer interface {
	// ContextCreated fires once per context. parentID is empty for roots.
	ContextCreated(id, parentID string)
	// ContextCancelled fires once per context, on the call that actually
	// tripped its signal. forwarded is true when an ancestor's relay did
	// the cancelling rather than a direct Cancel.
	ContextCancelled(id string, forwarded bool)
	// RelayDiscarded fires when a relay wakes up and finds its child
	// already cancelled. This is a normal terminal state, not an error.
	RelayDiscarded(parentID, childID string)
	TaskSpawned(ctxID, taskID string)
	TaskFinished(ctxID, taskID string, dur time.Duration, outcome Outcome)
}

// Observers fans events out to each of obs in order. Nil entries are
// skipped.
func Observers(obs ...Observer) Observer {
	flat := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			flat = append(flat, o)
		}
	}
	return flat
}

type multiObserver []Observer

func (m multiObserver) ContextCreated(id, parentID string) {
	for _, o := range m {
		o.ContextCreated(id, parentID)
	}
}

func (m multiObserver) ContextCancelled(id string, forwarded bool) {
	for _, o := range m {
		o.ContextCancelled(id, forwarded)
	}
}

func (m multiObserver) RelayDiscarded(parentID, childID string) {
	for _, o := range m {
		o.RelayDiscarded(parentID, childID)
	}
}

func (m multiObserver) TaskSpawned(ctxID, taskID string) {
	for _, o := range m {
		o.TaskSpawned(ctxID, taskID)
	}
}

func (m multiObserver) TaskFinished(ctxID, taskID string, dur time.Duration, outcome Outcome) {
	for _, o := range m {
		o.TaskFinished(ctxID, taskID, dur, outcome)
	}
}
