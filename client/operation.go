package client

import (
	"context"
	"sync"

	"github.com/hyperclient/jsonapi"
)

// OperationState is an operation's position in its single-shot lifecycle:
// Ready → Executing → Finished. A cancelled operation jumps straight from
// Ready or Executing to Finished.
type OperationState int

const (
	StateReady OperationState = iota
	StateExecuting
	StateFinished
)

// baseOperation is the lifecycle/cancellation bookkeeping shared by every
// concrete operation ([FetchOperation], [DeleteOperation], [SaveOperation],
// [RelationshipOperation]), grounded on the cancellable, context-tracked
// unit of work in SpaceCafe-gobox's terminator.
type baseOperation struct {
	mu        sync.Mutex
	state     OperationState
	ctx       context.Context
	cancelFn  context.CancelFunc
	cancelled bool
}

func newBaseOperation(parent context.Context) baseOperation {
	ctx, cancel := context.WithCancel(parent)
	return baseOperation{state: StateReady, ctx: ctx, cancelFn: cancel}
}

// State reports the operation's current lifecycle state.
func (o *baseOperation) State() OperationState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Cancel transitions the operation directly to Finished. It is safe to call
// from any goroutine and more than once.
func (o *baseOperation) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateFinished {
		return
	}
	o.cancelled = true
	o.state = StateFinished
	o.cancelFn()
}

// begin transitions Ready → Executing, or reports that the operation was
// already cancelled before it got a chance to run.
func (o *baseOperation) begin() (context.Context, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateFinished {
		return o.ctx, false
	}
	o.state = StateExecuting
	return o.ctx, true
}

// finish transitions Executing → Finished, unless a concurrent Cancel
// already did so.
func (o *baseOperation) finish() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = StateFinished
	o.cancelFn()
}

// wasCancelled reports whether Cancel ran before or during execution.
func (o *baseOperation) wasCancelled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cancelled
}

// cancelledError is the [jsonapi.ClientError] every operation's future
// completes with when cancelled.
var cancelledError = &jsonapi.ClientError{Kind: jsonapi.ErrCancelled}
