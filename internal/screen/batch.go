package screen

// Batch tracks a group of asynchronous operations and fires one completion
// callback when all of them have finished. It is used from the UI loop only.
type Batch struct {
	Total     int
	Completed int
	Failed    int

	done  func(Batch)
	fired bool
}

// NewBatch returns a batch of total operations. An empty batch completes
// immediately.
func NewBatch(total int, done func(Batch)) *Batch {
	b := &Batch{Total: max(total, 0), done: done}
	b.check()
	return b
}

// Finish records one finished operation. A non-nil err counts as failed.
// Calls after completion are ignored.
func (b *Batch) Finish(err error) {
	if b.fired {
		return
	}
	b.Completed++
	if err != nil {
		b.Failed++
	}
	b.check()
}

// Done reports whether the completion callback has fired.
func (b *Batch) Done() bool { return b.fired }

// OK reports whether every operation succeeded.
func (b *Batch) OK() bool { return b.fired && b.Failed == 0 }

func (b *Batch) check() {
	if b.fired || b.Completed < b.Total {
		return
	}
	b.fired = true
	if b.done != nil {
		b.done(*b)
	}
}
