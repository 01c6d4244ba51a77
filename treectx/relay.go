package treectx

// relay is the only materialization of a parent→child edge: one goroutine
// holding a subscription to the parent's signal. It fires at most once,
// never retries, and is never joined or explicitly cancelled; after the
// parent trips it either forwards the cancellation into a still-live child
// or discards silently because the child already cancelled itself. A
// never-cancelled parent leaves its relays parked, by design.
func relay(parent, child *Context) {
	sub := parent.sig.subscribe()
	parentID, obs := parent.id, child.obs
	go func() {
		<-sub
		if !child.cancel(true) && obs != nil {
			obs.RelayDiscarded(parentID, child.id)
		}
	}()
}
