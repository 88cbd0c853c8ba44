package nav

import (
	"context"
	"errors"
	"sync"
)

// ErrLoopClosed is returned by Send once the loop has stopped.
var ErrLoopClosed = errors.New("navigation loop closed")

// Event is a navigation input processed by a Loop.
type Event interface {
	apply(c *Controller) Result
}

// Result is the outcome of one event.
type Result struct {
	// State is the snapshot after the event.
	State State
	// Applied is false when the event left the state untouched on purpose,
	// such as the echo of a commit or an unknown data source.
	Applied bool
	// Written is the fragment written to the location by a Commit.
	Written string
}

// HashChange reports a fragment change from the address bar.
type HashChange struct {
	Fragment string
}

func (e HashChange) apply(c *Controller) Result {
	return Result{Applied: c.HashChanged(e.Fragment)}
}

// SelectDataSource picks a data source by name.
type SelectDataSource struct {
	Name string
}

func (e SelectDataSource) apply(c *Controller) Result {
	return Result{Applied: c.SelectByName(e.Name)}
}

// Commit writes the current state to the address bar.
type Commit struct {
	Suffix string
}

func (e Commit) apply(c *Controller) Result {
	return Result{Applied: true, Written: c.Commit(e.Suffix)}
}

// SetDrawer opens or closes the side drawer.
type SetDrawer struct {
	Open bool
}

func (e SetDrawer) apply(c *Controller) Result {
	c.SetDrawerOpen(e.Open)
	return Result{Applied: true}
}

// Snapshot reads the state without changing it.
type Snapshot struct{}

func (Snapshot) apply(*Controller) Result {
	return Result{}
}

type request struct {
	event Event
	reply chan Result
}

// Loop owns a Controller on a dedicated goroutine. Every event goes through
// one ordered channel, so external hash changes and local actions never
// interleave.
type Loop struct {
	ctrl      *Controller
	requests  chan request
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop starts a loop around c. The loop runs until ctx is cancelled or
// Close is called.
func NewLoop(ctx context.Context, c *Controller) *Loop {
	l := &Loop{
		ctrl:     c,
		requests: make(chan request),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go l.run(ctx)
	return l
}

func (l *Loop) run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		case req := <-l.requests:
			res := req.event.apply(l.ctrl)
			res.State = l.ctrl.State()
			req.reply <- res
		}
	}
}

// Send processes ev and returns its result.
func (l *Loop) Send(ctx context.Context, ev Event) (Result, error) {
	req := request{event: ev, reply: make(chan Result, 1)}
	select {
	case l.requests <- req:
	case <-l.done:
		return Result{}, ErrLoopClosed
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
	select {
	case res := <-req.reply:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Close stops the loop and waits for it to exit.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.stop) })
	<-l.done
}

// Done is closed when the loop has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
