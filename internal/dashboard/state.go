package dashboard

import (
	"context"
	"log"
	"sync"
	"time"
)

// Phase is the lifecycle stage of a fetch controller.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhaseRefreshing Phase = "refreshing"
	PhaseReady      Phase = "ready"
	PhaseFailed     Phase = "failed"
)

// FetchState is the externally visible state of a single data panel.
// During PhaseRefreshing the previous good data is retained so the panel
// never has to blank while a refresh is in flight.
type FetchState[T any] struct {
	Phase   Phase  `json:"phase"`
	Data    T      `json:"data,omitempty"`
	HasData bool   `json:"hasData"`
	Err     string `json:"error,omitempty"`
}

// Target is the input a controller fetches for: the shared coordinate plus
// an optional integer parameter (the historical lookback window).
type Target struct {
	Coord  Coordinate
	Params int
}

// FetchFunc loads data of one kind for a target.
type FetchFunc[T any] func(ctx context.Context, target Target) (T, error)

// Controller drives the fetch lifecycle for one kind of weather data.
// Each data kind gets its own instance; controllers never block each other.
//
// Only the most recently initiated fetch may mutate state: every new target
// or refresh bumps a sequence counter, and a completion whose sequence no
// longer matches is discarded. That keeps a slow, superseded request from
// overwriting the result of a newer one.
type Controller[T any] struct {
	name    string
	fetch   FetchFunc[T]
	timeout time.Duration

	mu        sync.Mutex
	state     FetchState[T]
	target    Target
	hasTarget bool
	seq       uint64
	closed    bool
}

// NewController creates a controller in the idle phase.
func NewController[T any](name string, fetch FetchFunc[T]) *Controller[T] {
	return &Controller[T]{
		name:    name,
		fetch:   fetch,
		timeout: 10 * time.Second,
		state:   FetchState[T]{Phase: PhaseIdle},
	}
}

// State returns a snapshot of the current fetch state.
func (c *Controller[T]) State() FetchState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Target returns the target of the most recent fetch, if any.
func (c *Controller[T]) Target() (Target, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target, c.hasTarget
}

// SetLocation points the controller at a new coordinate. A coordinate equal
// to the current target is a no-op; anything else starts a fresh loading
// cycle, discarding whatever was on screen.
func (c *Controller[T]) SetLocation(coord Coordinate) {
	c.setTarget(Target{Coord: coord, Params: c.currentParams()})
}

// SetTarget replaces coordinate and parameters at once. A change of
// parameters counts as a new query shape, so it loads rather than refreshes.
func (c *Controller[T]) SetTarget(target Target) {
	c.setTarget(target)
}

func (c *Controller[T]) currentParams() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target.Params
}

func (c *Controller[T]) setTarget(target Target) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.hasTarget && c.target == target {
		c.mu.Unlock()
		return
	}
	c.target = target
	c.hasTarget = true
	c.seq++
	seq := c.seq
	c.state = FetchState[T]{Phase: PhaseLoading}
	c.mu.Unlock()

	go c.run(seq, target)
}

// Refresh re-issues the fetch for the current target, keeping the prior data
// visible until the new result arrives. It is a no-op without a target or
// while a fetch is already in flight.
func (c *Controller[T]) Refresh() {
	c.mu.Lock()
	if c.closed || !c.hasTarget {
		c.mu.Unlock()
		return
	}
	if c.state.Phase == PhaseLoading || c.state.Phase == PhaseRefreshing {
		c.mu.Unlock()
		return
	}
	c.seq++
	seq := c.seq
	target := c.target
	c.state = FetchState[T]{
		Phase:   PhaseRefreshing,
		Data:    c.state.Data,
		HasData: c.state.HasData,
	}
	c.mu.Unlock()

	go c.run(seq, target)
}

func (c *Controller[T]) run(seq uint64, target Target) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	data, err := c.fetch(ctx, target)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || seq != c.seq {
		// Superseded by a newer fetch or torn down; drop the result.
		return
	}
	if err != nil {
		log.Printf("%s: fetch failed for %s: %v", c.name, target.Coord.Key(), err)
		c.state = FetchState[T]{Phase: PhaseFailed, Err: err.Error()}
		return
	}
	c.state = FetchState[T]{Phase: PhaseReady, Data: data, HasData: true}
}

// Close tears the controller down. Fetches already in flight run to
// completion but their results are ignored.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}
