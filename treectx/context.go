package treectx

import "github.com/google/uuid"

type Option func(*Options)

type Options struct {
	Observer Observer
	Name     string
}

func defaultOptions() Options { return Options{} }

// WithObserver attaches an observer to the context and, unless overridden,
// to every context derived from it.
func WithObserver(obs Observer) Option { return func(o *Options) { o.Observer = obs } }

// WithName overrides the generated id used for this context in observer
// events. Names are not inherited by children.
func WithName(name string) Option { return func(o *Options) { o.Name = name } }

// Context is a node in a cancellation tree. It owns exactly one signal, and
// the sole way that signal closes is the context's own cancellation —
// direct or forwarded from an ancestor. A Context stores no parent or child
// pointers; each parent→child edge exists only as a running relay
// goroutine, so destroying a child never involves its parent.
type Context struct {
	sig  *signal
	id   string
	opts Options
	obs  Observer
}

// New creates a root context with no ancestry.
func New(optFns ...Option) *Context {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return newContext(opts, "")
}

// Child creates a context whose lifetime is bounded by the caller's:
// cancelling the caller, or any of its ancestors, eventually cancels the
// child, while cancelling the child leaves the caller and every sibling
// untouched. The caller stays usable. Options default to the caller's.
func (c *Context) Child(optFns ...Option) *Context {
	childOpts := c.opts
	childOpts.Name = ""
	for _, fn := range optFns {
		fn(&childOpts)
	}
	child := newContext(childOpts, c.id)
	relay(c, child)
	return child
}

// WithParent is parent.Child; it exists for call-site symmetry with New.
func WithParent(parent *Context, optFns ...Option) *Context {
	return parent.Child(optFns...)
}

// Cancel cancels every not-yet-resolved race spawned through this context
// and, level by level, through its live descendants. Cancelling twice is a
// no-op. Cancellation is irreversible and cannot be queried; it is
// observable only through the races it resolves.
func (c *Context) Cancel() {
	c.cancel(false)
}

func (c *Context) cancel(forwarded bool) bool {
	if !c.sig.trip() {
		return false
	}
	if c.obs != nil {
		c.obs.ContextCancelled(c.id, forwarded)
	}
	return true
}

func newContext(opts Options, parentID string) *Context {
	c := &Context{sig: newSignal(), opts: opts, obs: opts.Observer}
	c.id = opts.Name
	if c.id == "" {
		c.id = uuid.NewString()
	}
	if c.obs != nil {
		c.obs.ContextCreated(c.id, parentID)
	}
	return c
}
