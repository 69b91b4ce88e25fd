package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"econsim/core"
	"econsim/engine"
	"econsim/logging"
)

// Errors returned by the runner.
var (
	// ErrAgentExists is returned by Start on an identifier collision.
	ErrAgentExists = errors.New("runner: agent already registered")
	// ErrAgentNotFound is returned for operations on unknown handles.
	ErrAgentNotFound = errors.New("runner: agent not found")
	// ErrStillRunning is returned by Remove while the loop is alive.
	ErrStillRunning = errors.New("runner: agent loop still running")
	// ErrClosed is returned by Start after the runner has been closed.
	ErrClosed = errors.New("runner: closed")
)

// command is sent to a loop over its command channel and read at cycle
// boundaries only, never mid-cycle.
type command int

const cmdStop command = iota

// Handle is the opaque reference returned for a running or stopped agent
// loop. Status reads go through the runner so they never block the loop.
type Handle struct {
	AgentID string

	entry *entry
}

// Done is closed when the loop has fully terminated and its terminal
// Stopped event has been emitted.
func (h *Handle) Done() <-chan struct{} { return h.entry.done }

// entry is the registry record of one loop. The status cell is the only
// state shared between the loop and status readers; it is lock-protected.
type entry struct {
	agent *engine.Agent
	cmdCh chan command
	done  chan struct{}

	mu     sync.RWMutex
	status core.StatusSnapshot
}

func (en *entry) setStatus(s core.StatusSnapshot) {
	en.mu.Lock()
	en.status = s
	en.mu.Unlock()
}

func (en *entry) getStatus() core.StatusSnapshot {
	en.mu.RLock()
	defer en.mu.RUnlock()
	return en.status
}

func (en *entry) running() bool {
	select {
	case <-en.done:
		return false
	default:
		return true
	}
}

// Options holds configuration overrides passed to New.
type Options struct {
	// EventBufferSize sets channel buffering for the observer stream.
	EventBufferSize int
	// CycleInterval adds a pause between consecutive cycles of every loop.
	CycleInterval time.Duration
	// Logger receives runner diagnostics.
	Logger logging.Logger
}

// Runner owns zero or more independently executing agent loops. Public
// methods are safe for concurrent use; no loop ever touches another loop's
// agent state.
type Runner struct {
	executor        *engine.Executor
	eventBufferSize int
	cycleInterval   time.Duration
	logger          logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	entries map[string]*entry
	closed  bool

	events chan core.Event
}

// New constructs a Runner around a cycle executor.
func New(executor *engine.Executor, optFns ...func(o *Options)) *Runner {
	opts := Options{
		EventBufferSize: 100,
		Logger:          logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		executor:        executor,
		eventBufferSize: opts.EventBufferSize,
		cycleInterval:   opts.CycleInterval,
		logger:          opts.Logger,
		ctx:             ctx,
		cancel:          cancel,
		entries:         make(map[string]*entry),
		events:          make(chan core.Event, opts.EventBufferSize),
	}
}

// Events returns the observer stream. Per-agent event ordering is preserved;
// events from different agents interleave arbitrarily. The channel is closed
// by Close.
func (r *Runner) Events() <-chan core.Event { return r.events }

// Start registers a new background loop for the agent and returns its
// handle. It fails on an identifier collision or after Close.
func (r *Runner) Start(a *engine.Agent) (*Handle, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	if _, exists := r.entries[a.ID]; exists {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrAgentExists, a.ID)
	}

	en := &entry{
		agent:  a,
		cmdCh:  make(chan command, 1),
		done:   make(chan struct{}),
		status: a.Snapshot(),
	}
	r.entries[a.ID] = en
	r.mu.Unlock()

	go r.loop(en)

	r.logger.Info("agent loop started", "agent_id", a.ID, "name", a.Name)
	return &Handle{AgentID: a.ID, entry: en}, nil
}

// Stop sends a cooperative stop command. The loop finishes its current
// cycle, emits a terminal Stopped event and terminates; in-flight work is
// never interrupted. Stopping an already stopped loop is a no-op.
func (r *Runner) Stop(h *Handle) error {
	en, err := r.lookup(h)
	if err != nil {
		return err
	}
	select {
	case en.cmdCh <- cmdStop:
	default:
		// A stop is already pending or the loop has terminated.
	}
	return nil
}

// StopWait stops the loop and blocks until its terminal event was emitted.
func (r *Runner) StopWait(ctx context.Context, h *Handle) error {
	if err := r.Stop(h); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-h.entry.done:
		return nil
	}
}

// Status returns the last known snapshot without blocking the running loop.
func (r *Runner) Status(h *Handle) (core.StatusSnapshot, error) {
	en, err := r.lookup(h)
	if err != nil {
		return core.StatusSnapshot{}, err
	}
	return en.getStatus(), nil
}

// List enumerates the handles of all known loops, running or stopped.
func (r *Runner) List() []*Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handles := make([]*Handle, 0, len(r.entries))
	for id, en := range r.entries {
		handles = append(handles, &Handle{AgentID: id, entry: en})
	}
	return handles
}

// Remove deletes a stopped agent from the registry.
func (r *Runner) Remove(h *Handle) error {
	en, err := r.lookup(h)
	if err != nil {
		return err
	}
	if en.running() {
		return fmt.Errorf("%w: %s", ErrStillRunning, h.AgentID)
	}
	r.mu.Lock()
	delete(r.entries, h.AgentID)
	r.mu.Unlock()
	return nil
}

// StopAll stops every running loop and waits for all of them to terminate.
func (r *Runner) StopAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, h := range r.List() {
		g.Go(func() error { return r.StopWait(ctx, h) })
	}
	return g.Wait()
}

// Close stops all loops, waits for their terminal events and closes the
// observer stream. The runner cannot be reused afterwards.
func (r *Runner) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	err := r.StopAll(ctx)
	r.cancel()

	// The stream is closed only once every loop goroutine has exited, so a
	// late emitter can never hit a closed channel. If the caller's context
	// expired while a loop was still delivering, closing completes in the
	// background as soon as that delivery lands.
	handles := r.List()
	go func() {
		for _, h := range handles {
			<-h.entry.done
		}
		close(r.events)
	}()
	return err
}

func (r *Runner) lookup(h *Handle) (*entry, error) {
	if h == nil {
		return nil, ErrAgentNotFound
	}
	r.mu.RLock()
	en, ok := r.entries[h.AgentID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, h.AgentID)
	}
	return en, nil
}

// loop is the per-agent goroutine: strictly sequential cycles with a command
// check at every cycle boundary. Cancellation is cooperative only; a cycle
// in flight always completes before the loop observes the stop.
func (r *Runner) loop(en *entry) {
	defer close(en.done)
	a := en.agent

	r.emit(core.NewStartedEvent(a.ID, en.getStatus()))

	for {
		select {
		case <-en.cmdCh:
			r.finish(en, core.StopReasonCommand)
			return
		case <-r.ctx.Done():
			r.finish(en, core.StopReasonCommand)
			return
		default:
		}

		result := r.executor.RunCycle(r.ctx, a)
		en.setStatus(a.Snapshot())
		r.emit(core.NewCycleEvent(a.ID, result, en.getStatus()))
		if result.Failed() {
			r.emit(core.NewErrorEvent(a.ID, errors.New(result.Err), en.getStatus()))
		}

		if !a.State.IsActive {
			r.finish(en, engine.StopReasonFor(a))
			return
		}

		if r.cycleInterval > 0 {
			select {
			case <-r.ctx.Done():
			case <-time.After(r.cycleInterval):
			}
		}
	}
}

// finish marks the agent inactive, freezes the terminal status and emits the
// Stopped event. Terminal events are never dropped.
func (r *Runner) finish(en *entry, reason core.StopReason) {
	a := en.agent
	a.State.IsActive = false

	status := a.Snapshot()
	status.StopReason = string(reason)
	en.setStatus(status)

	r.emit(core.NewStoppedEvent(a.ID, reason, status))
	r.logger.Info("agent loop stopped", "agent_id", a.ID, "reason", string(reason))
}

// emit delivers an event to the observer stream, blocking until there is
// room so per-agent ordering is preserved. Once shutdown begins, cycle and
// error events may be dropped when the buffer is full, but terminal Stopped
// events are always delivered: the stream stays open until every loop has
// exited, so the blocking send below cannot race a closed channel.
func (r *Runner) emit(ev core.Event) {
	select {
	case r.events <- ev:
		return
	case <-r.ctx.Done():
	}

	if ev.IsTerminal() {
		r.events <- ev
		return
	}
	select {
	case r.events <- ev:
	default:
		r.logger.Warn("event dropped during shutdown", "agent_id", ev.AgentID, "kind", string(ev.Kind))
	}
}
