package comb

// Backtrace records the failure that made the most progress across all the
// alternatives attempted since the last Clear or Restore.
//
// Recorded errors are never mutated in place, so a Checkpoint is just the
// current pointer.
type Backtrace struct {
	best *Error
}

// Checkpoint is a snapshot of a Backtrace.
type Checkpoint struct {
	best *Error
}

// NewBacktrace returns an empty backtrace.
func NewBacktrace() *Backtrace {
	return &Backtrace{}
}

// Record folds e into the backtrace. A failure further along replaces the
// current one, a failure at the same token adds its expectations, and a
// failure behind the current one is ignored.
func (b *Backtrace) Record(e *Error) {
	switch {
	case b.best == nil || e.Pos > b.best.Pos:
		b.best = e.clone()
	case e.Pos == b.best.Pos:
		b.best = b.best.merge(e)
	}
}

// Best returns the furthest failure, or nil.
func (b *Backtrace) Best() *Error {
	return b.best
}

// Checkpoint captures the current state.
func (b *Backtrace) Checkpoint() Checkpoint {
	return Checkpoint{best: b.best}
}

// Restore rolls back to a checkpoint, forgetting everything recorded since.
func (b *Backtrace) Restore(cp Checkpoint) {
	b.best = cp.best
}

// Settle forgets what was recorded since cp when all of it lies before rest.
// Call it after a parser succeeded and consumed up to rest: failures inside
// input that has since been matched no longer describe anything.
func (b *Backtrace) Settle(cp Checkpoint, rest Input) {
	if b.best != cp.best && b.best != nil && b.best.Pos < rest.Pos() {
		b.best = cp.best
	}
}

// Changed reports whether anything was recorded since cp.
func (b *Backtrace) Changed(cp Checkpoint) bool {
	return b.best != cp.best
}

// Clear forgets every recorded failure.
func (b *Backtrace) Clear() {
	b.best = nil
}

func (b *Backtrace) addContext(pos int, ctx string) {
	if b.best == nil || b.best.Pos != pos {
		return
	}
	if n := len(b.best.Contexts); n > 0 && b.best.Contexts[n-1] == ctx {
		return
	}
	c := b.best.clone()
	c.Contexts = append(c.Contexts, ctx)
	b.best = c
}
