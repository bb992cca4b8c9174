package object

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// PromiseState is one of the three one-shot, monotonic states of spec.md
// §3.3.
type PromiseState int

const (
	Pending PromiseState = iota
	Resolved
	Rejected
)

func (s PromiseState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// Continuation is invoked once a Promise settles, carrying its final
// state, value (if Resolved) and reason (if Rejected).
type Continuation func(state PromiseState, value Value, reason Value)

// Promise is a single-assignment future value (spec.md §3.3, §4.7). State
// transitions are guarded by mu and are one-shot: once settled, Resolve/
// Reject are no-ops, and continuations registered afterward fire
// immediately with the settled outcome. Grounded on the mutex-guarded,
// one-shot state-transition idiom of
// pkg/parsley/evaluator/connection_cache.go, adapted from a connection
// pool entry to a single future value.
type Promise struct {
	ID string

	mu       sync.Mutex
	state    PromiseState
	value    Value
	reason   Value
	done     chan struct{}
	onSettle []Continuation
}

// NewPromise creates a Promise in the pending state.
func NewPromise() *Promise {
	return &Promise{ID: uuid.NewString(), done: make(chan struct{})}
}

func (p *Promise) Kind() Kind { return PromiseKind }

func (p *Promise) Inspect() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fmt.Sprintf("#<promise:%s>", p.state)
}

// Resolve settles p as Resolved(v). A no-op if p is already settled.
func (p *Promise) Resolve(v Value) { p.settle(Resolved, v, nil) }

// Reject settles p as Rejected(reason). A no-op if p is already settled.
func (p *Promise) Reject(reason Value) { p.settle(Rejected, nil, reason) }

func (p *Promise) settle(state PromiseState, value, reason Value) {
	p.mu.Lock()
	if p.state != Pending {
		p.mu.Unlock()
		return
	}
	p.state, p.value, p.reason = state, value, reason
	callbacks := p.onSettle
	p.onSettle = nil
	close(p.done)
	p.mu.Unlock()

	// Invoked outside the lock, in registration order: no callback runs
	// inside another callback's (or this settle call's) critical section,
	// per spec.md §4.7's concurrency contract.
	for _, cb := range callbacks {
		cb(state, value, reason)
	}
}

// OnSettle registers a continuation to run when p settles, in
// registration order relative to other OnSettle calls (spec.md §5: "then
// callbacks on a single promise fire in the order they were registered").
// If p is already settled, cb runs immediately (still outside any lock).
func (p *Promise) OnSettle(cb Continuation) {
	p.mu.Lock()
	if p.state != Pending {
		state, value, reason := p.state, p.value, p.reason
		p.mu.Unlock()
		cb(state, value, reason)
		return
	}
	p.onSettle = append(p.onSettle, cb)
	p.mu.Unlock()
}

// Await blocks the calling goroutine until p settles and returns its
// outcome. Per spec.md §4.7/§5, this must not hold any evaluator-wide
// lock while waiting — it only ever blocks on p's own done channel.
func (p *Promise) Await() (state PromiseState, value Value, reason Value) {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.value, p.reason
}

// State reports the current state without blocking.
func (p *Promise) State() PromiseState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// NewResolvedPromise builds an already-resolved promise, for (resolve v).
func NewResolvedPromise(v Value) *Promise {
	p := NewPromise()
	p.Resolve(v)
	return p
}

// NewRejectedPromise builds an already-rejected promise, for (reject r).
func NewRejectedPromise(r Value) *Promise {
	p := NewPromise()
	p.Reject(r)
	return p
}
