package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ai_detector/internal/logger"
)

type Phase int

const (
	Idle Phase = iota
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

var (
	ErrBusy  = errors.New("a submission is already in progress")
	ErrStale = errors.New("submission is no longer current")
)

// State is a snapshot of one workflow instance. Result is set only when
// Phase is Succeeded. Err holds the transport error in Failed, or a
// validation error while Idle.
type State[Out any] struct {
	Phase  Phase
	Result *Out
	Err    error
	Ticket uuid.UUID
}

func (s State[Out]) Message() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Outcome describes a settled submission.
type Outcome[In, Out any] struct {
	Ticket     uuid.UUID
	Input      In
	Result     *Out
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

type Validator[In any] func(in In) error

type Submitter[In, Out any] func(ctx context.Context, ticket uuid.UUID, in In) (Out, error)

type Options[In, Out any] struct {
	Name     string
	Validate Validator[In]
	Submit   Submitter[In, Out]
	Logger   logger.Logger
	// OnChange receives every snapshot in transition order. It must not start
	// another transition on the same controller synchronously.
	OnChange  func(State[Out])
	OnSettled func(Outcome[In, Out])
}

// Controller runs the idle -> submitting -> succeeded|failed cycle for one
// workflow instance. Instances share nothing.
type Controller[In, Out any] struct {
	mu sync.Mutex

	name      string
	validate  Validator[In]
	submit    Submitter[In, Out]
	log       logger.Logger
	onChange  func(State[Out])
	onSettled func(Outcome[In, Out])

	input     In
	inflight  In
	startedAt time.Time
	state     State[Out]
	seq       uint64

	// turn is the sequence number of the next snapshot to deliver.
	notifyMu sync.Mutex
	notified *sync.Cond
	turn     uint64
}

func New[In, Out any](opts Options[In, Out]) *Controller[In, Out] {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	c := &Controller[In, Out]{
		name:      opts.Name,
		validate:  opts.Validate,
		submit:    opts.Submit,
		log:       log.With(logger.String("workflow", opts.Name)),
		onChange:  opts.OnChange,
		onSettled: opts.OnSettled,
	}
	c.notified = sync.NewCond(&c.notifyMu)
	return c
}

func (c *Controller[In, Out]) Name() string {
	return c.name
}

func (c *Controller[In, Out]) State() State[Out] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller[In, Out]) Input() In {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// SetInput replaces the input. The input is locked while a submission is in
// flight.
func (c *Controller[In, Out]) SetInput(in In) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase == Submitting {
		return ErrBusy
	}
	c.input = in
	return nil
}

// CanSubmit reports whether the submit control should be enabled.
func (c *Controller[In, Out]) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Phase != Submitting
}

// Reject surfaces a validation error without touching the network. Any
// previous result is dropped.
func (c *Controller[In, Out]) Reject(err error) error {
	c.mu.Lock()
	if c.state.Phase == Submitting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = State[Out]{Phase: Idle, Err: err}
	snap, seq := c.snapshot()
	c.mu.Unlock()

	if err != nil {
		c.log.Debug("input rejected", logger.Error(err))
	}
	c.notify(seq, snap)
	return nil
}

// Dismiss clears result and error but keeps the input, e.g. when a new file
// is picked.
func (c *Controller[In, Out]) Dismiss() error {
	return c.Reject(nil)
}

// Begin validates the current input and enters Submitting. The previous
// result and error are cleared before the call starts.
func (c *Controller[In, Out]) Begin() (uuid.UUID, error) {
	c.mu.Lock()
	if c.state.Phase == Submitting {
		c.mu.Unlock()
		return uuid.Nil, ErrBusy
	}
	if c.validate != nil {
		if err := c.validate(c.input); err != nil {
			c.state = State[Out]{Phase: Idle, Err: err}
			snap, seq := c.snapshot()
			c.mu.Unlock()
			c.log.Debug("submission rejected", logger.Error(err))
			c.notify(seq, snap)
			return uuid.Nil, err
		}
	}
	ticket := uuid.New()
	c.inflight = c.input
	c.startedAt = time.Now()
	c.state = State[Out]{Phase: Submitting, Ticket: ticket}
	snap, seq := c.snapshot()
	c.mu.Unlock()

	c.log.Info("submission started", logger.String("request_id", ticket.String()))
	c.notify(seq, snap)
	return ticket, nil
}

// Call runs the submitter for ticket against the input captured by Begin.
// It does not change state; pass the outcome to Resolve.
func (c *Controller[In, Out]) Call(ctx context.Context, ticket uuid.UUID) (Out, error) {
	var zero Out
	c.mu.Lock()
	if c.state.Phase != Submitting || c.state.Ticket != ticket {
		c.mu.Unlock()
		return zero, ErrStale
	}
	in := c.inflight
	c.mu.Unlock()

	if c.submit == nil {
		return zero, fmt.Errorf("workflow %s: no submitter configured", c.name)
	}
	return c.submit(ctx, ticket, in)
}

// Resolve commits the outcome of ticket. Responses for a ticket that is no
// longer current (reset, or superseded) are discarded with ErrStale.
func (c *Controller[In, Out]) Resolve(ticket uuid.UUID, out Out, callErr error) error {
	c.mu.Lock()
	if c.state.Phase != Submitting || c.state.Ticket != ticket {
		c.mu.Unlock()
		c.log.Debug("discarding stale response", logger.String("request_id", ticket.String()))
		return ErrStale
	}
	outcome := Outcome[In, Out]{
		Ticket:     ticket,
		Input:      c.inflight,
		Err:        callErr,
		StartedAt:  c.startedAt,
		FinishedAt: time.Now(),
	}
	if callErr != nil {
		c.state = State[Out]{Phase: Failed, Err: callErr, Ticket: ticket}
	} else {
		res := out
		c.state = State[Out]{Phase: Succeeded, Result: &res, Ticket: ticket}
		outcome.Result = &res
	}
	var zero In
	c.inflight = zero
	snap, seq := c.snapshot()
	c.mu.Unlock()

	elapsed := outcome.FinishedAt.Sub(outcome.StartedAt)
	if callErr != nil {
		c.log.Warn("submission failed",
			logger.String("request_id", ticket.String()),
			logger.Duration("elapsed", elapsed),
			logger.Error(callErr))
	} else {
		c.log.Info("submission succeeded",
			logger.String("request_id", ticket.String()),
			logger.Duration("elapsed", elapsed))
	}
	c.notify(seq, snap)
	if c.onSettled != nil {
		c.onSettled(outcome)
	}
	return nil
}

// Submit is Begin, Call and Resolve in one blocking step.
func (c *Controller[In, Out]) Submit(ctx context.Context) (State[Out], error) {
	ticket, err := c.Begin()
	if err != nil {
		return c.State(), err
	}
	out, callErr := c.Call(ctx, ticket)
	if err := c.Resolve(ticket, out, callErr); err != nil {
		return c.State(), err
	}
	st := c.State()
	return st, st.Err
}

// Reset returns to Idle and drops input, result and error together. An
// in-flight response arriving afterwards is discarded by Resolve.
func (c *Controller[In, Out]) Reset() {
	c.mu.Lock()
	var zeroIn In
	wasSubmitting := c.state.Phase == Submitting
	c.input = zeroIn
	c.inflight = zeroIn
	c.state = State[Out]{Phase: Idle}
	snap, seq := c.snapshot()
	c.mu.Unlock()

	c.log.Debug("workflow reset", logger.Bool("abandoned_inflight", wasSubmitting))
	c.notify(seq, snap)
}

// snapshot copies the state and numbers it. Callers hold mu.
func (c *Controller[In, Out]) snapshot() (State[Out], uint64) {
	seq := c.seq
	c.seq++
	return c.state, seq
}

// notify hands s to the observer once every earlier snapshot has been
// delivered, so concurrent transitions are observed in the order they happened.
func (c *Controller[In, Out]) notify(seq uint64, s State[Out]) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	for c.turn != seq {
		c.notified.Wait()
	}
	defer func() {
		c.turn++
		c.notified.Broadcast()
	}()
	if c.onChange != nil {
		c.onChange(s)
	}
}
