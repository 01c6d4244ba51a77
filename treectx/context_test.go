package treectx

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// blockUntilCancelled is the cooperative long-running task used throughout:
// it parks on its context and reports how it exited.
func blockUntilCancelled(ctx context.Context) string {
	<-ctx.Done()
	return "abandoned"
}

func TestCancelResolvesPendingRace(t *testing.T) {
	t.Parallel()
	c := New()
	h := Spawn(c, blockUntilCancelled)
	c.Cancel()
	if _, ok := h.Join(); ok {
		t.Fatal("expected race to resolve as cancelled")
	}
	if err := h.Err(); err != nil {
		t.Fatalf("cancellation must not surface on the failure channel, got %v", err)
	}
}

func TestCancelIdempotent(t *testing.T) {
	t.Parallel()
	c := New()
	h := Spawn(c, blockUntilCancelled)
	c.Cancel()
	c.Cancel()
	if _, ok := h.Join(); ok {
		t.Fatal("expected cancelled outcome")
	}
}

func TestParentCancelReachesChain(t *testing.T) {
	t.Parallel()
	root := New()
	a := root.Child()
	b := a.Child()

	hr := Spawn(root, blockUntilCancelled)
	ha := Spawn(a, blockUntilCancelled)
	hb := Spawn(b, blockUntilCancelled)

	root.Cancel()
	for name, h := range map[string]*Handle[string]{"root": hr, "a": ha, "b": hb} {
		select {
		case <-h.Done():
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("task on %s did not observe cancellation", name)
		}
		if _, ok := h.Join(); ok {
			t.Fatalf("task on %s should have been cancelled", name)
		}
	}
}

func TestChildCancelLeavesParentAndSiblingAlone(t *testing.T) {
	t.Parallel()
	root := New()
	defer root.Cancel()
	left := root.Child()
	right := root.Child()

	hl := Spawn(left, blockUntilCancelled)
	hr := Spawn(right, blockUntilCancelled)
	hp := Spawn(root, blockUntilCancelled)

	left.Cancel()
	if _, ok := hl.Join(); ok {
		t.Fatal("left subtree should be cancelled")
	}
	select {
	case <-hr.Done():
		t.Fatal("sibling was cancelled by a child's cancellation")
	case <-hp.Done():
		t.Fatal("parent was cancelled by a child's cancellation")
	case <-time.After(50 * time.Millisecond):
	}
	right.Cancel()
	_, _ = hr.Join()
	_, _ = hp.Join()
}

func TestStaleRelayIsSilent(t *testing.T) {
	t.Parallel()
	root := New()
	child := root.Child()
	child.Cancel()

	// The relay for the already-cancelled child wakes up here and must
	// discard without affecting anything else.
	h := Spawn(root, blockUntilCancelled)
	root.Cancel()
	if _, ok := h.Join(); ok {
		t.Fatal("expected root task to resolve as cancelled")
	}
}

func TestWithParentAlias(t *testing.T) {
	t.Parallel()
	root := New()
	child := WithParent(root)
	h := Spawn(child, blockUntilCancelled)
	root.Cancel()
	select {
	case <-h.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("WithParent child did not inherit cancellation")
	}
}

func TestChildOfCancelledParent(t *testing.T) {
	t.Parallel()
	root := New()
	root.Cancel()
	child := root.Child()
	h := Spawn(child, blockUntilCancelled)
	select {
	case <-h.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatal("child of a cancelled parent should cancel at the next scheduling round")
	}
	if _, ok := h.Join(); ok {
		t.Fatal("expected cancelled outcome")
	}
}

func TestParentUsableAfterCreatingChildren(t *testing.T) {
	t.Parallel()
	root := New()
	for i := 0; i < 5; i++ {
		root.Child().Cancel()
	}
	h := Spawn(root, func(context.Context) int { return 7 })
	if v, ok := h.Join(); !ok || v != 7 {
		t.Fatalf("expected (7, true), got (%v, %v)", v, ok)
	}
	root.Cancel()
}
