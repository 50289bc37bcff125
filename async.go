package tableau

import (
	"context"
	"sync"
)

// opKind groups asynchronous operations that compete for the same state.
type opKind uint8

const (
	opItem       opKind = iota // item file reads; every ticket is applied
	opBackground               // background reads; only the newest applies
	opArchive                  // archive imports; only the newest applies
	opExport                   // archive exports; every ticket is applied
)

func (k opKind) superseding() bool { return k == opBackground || k == opArchive }

// ticket is one submitted operation. apply is set when the work finishes.
type ticket struct {
	seq   uint64
	kind  opKind
	done  bool
	apply func()
}

// opQueue runs work off the main flow and hands the results back in
// submission order. Work functions must not touch shared state; the
// closure they return is run by drain on the main flow.
type opQueue struct {
	mu      sync.Mutex
	pending []*ticket
	nextSeq uint64
	latest  map[opKind]uint64
	signal  chan struct{}
}

func newOpQueue() *opQueue {
	return &opQueue{
		latest: make(map[opKind]uint64),
		signal: make(chan struct{}, 1),
	}
}

// submit starts work on a goroutine. The returned closure, if non-nil, is
// applied by a later drain.
func (q *opQueue) submit(ctx context.Context, kind opKind, work func(context.Context) func()) {
	q.mu.Lock()
	q.nextSeq++
	t := &ticket{seq: q.nextSeq, kind: kind}
	q.pending = append(q.pending, t)
	q.latest[kind] = t.seq
	q.mu.Unlock()

	go func() {
		apply := work(ctx)
		q.mu.Lock()
		t.apply = apply
		t.done = true
		q.mu.Unlock()
		q.notify()
	}()
}

func (q *opQueue) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// drain applies every completed ticket at the head of the queue. A ticket
// that is still running holds back all tickets submitted after it.
// Superseded tickets are discarded without being applied. It returns the
// number of tickets retired.
func (q *opQueue) drain() int {
	var ready []func()
	q.mu.Lock()
	n := 0
	for n < len(q.pending) && q.pending[n].done {
		t := q.pending[n]
		if t.apply != nil && !(t.kind.superseding() && q.latest[t.kind] != t.seq) {
			ready = append(ready, t.apply)
		}
		q.pending[n] = nil
		n++
	}
	q.pending = q.pending[n:]
	q.mu.Unlock()

	for _, fn := range ready {
		fn()
	}
	return n
}

// len returns the number of tickets not yet retired.
func (q *opQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// wait drains on the calling goroutine until the queue is empty.
func (q *opQueue) wait(ctx context.Context) error {
	for {
		q.drain()
		if q.len() == 0 {
			return nil
		}
		select {
		case <-q.signal:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
