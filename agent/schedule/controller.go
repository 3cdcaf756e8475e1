// Package schedule owns the lifecycle of the periodic posting job: one
// worker goroutine that runs an iteration immediately on start and then at
// a fixed interval until stopped.
package schedule

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/postforge/postforge/agent"
)

// DefaultInterval is the pause between scheduled iterations.
const DefaultInterval = 30 * time.Minute

// State describes the controller lifecycle. Transitions are
// Idle -> Running -> StopRequested -> Idle.
type State string

const (
	StateIdle          State = "idle"
	StateRunning       State = "running"
	StateStopRequested State = "stop_requested"
)

// Runner executes one scheduled iteration. *agent.Agent satisfies it.
type Runner interface {
	RunScheduled(ctx context.Context, spec agent.JobSpec)
}

// Controller starts and stops the scheduled posting job. All mutable
// control state (state, job snapshot, cancellation) lives behind one mutex;
// there are no free-floating flags. At most one worker goroutine exists at
// a time.
type Controller struct {
	runner   Runner
	interval time.Duration
	logger   *zap.SugaredLogger

	mu        sync.Mutex
	state     State
	spec      agent.JobSpec
	cancel    context.CancelFunc
	done      chan struct{}
	lastRunAt time.Time
	runs      int64
}

// NewController creates an idle controller. An interval of zero or below
// falls back to DefaultInterval. A nil logger disables logging.
func NewController(runner Runner, interval time.Duration, logger *zap.SugaredLogger) *Controller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Controller{
		runner:   runner,
		interval: interval,
		logger:   logger,
		state:    StateIdle,
	}
}

// Start launches the scheduled job with a snapshot of spec and reports
// whether this call started it. While a job is running or stopping, Start
// is a no-op: the active job keeps its snapshot, and adopting a new topic
// requires Stop then Start. The first iteration runs immediately.
func (c *Controller) Start(spec agent.JobSpec) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateIdle {
		c.logger.Infow("scheduled job already active, start ignored",
			"state", c.state,
			"topic", c.spec.Topic,
		)
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.state = StateRunning
	c.spec = spec.Clone()
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.run(ctx, c.spec, c.done)

	c.logger.Infow("scheduled job started",
		"topic", c.spec.Topic,
		"interval", c.interval,
	)
	return true
}

// Stop signals the running job to stop and returns immediately, reporting
// whether this call initiated a stop. The worker observes the signal at its
// next wait point; an in-flight iteration always completes. Stopping an
// idle controller is a no-op.
func (c *Controller) Stop() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateRunning {
		c.logger.Debugw("stop ignored", "state", c.state)
		return false
	}

	c.state = StateStopRequested
	c.cancel()
	c.logger.Infow("scheduled job stop requested", "topic", c.spec.Topic)
	return true
}

// Wait blocks until the worker goroutine has exited. It returns immediately
// if no job was ever started. Call it after Stop during process shutdown.
func (c *Controller) Wait() {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

// run is the worker loop: execute an iteration, then wait out the interval
// or a stop signal, whichever comes first. The iteration itself gets a
// context detached from the stop signal so generate and publish calls are
// never cut off mid-flight.
func (c *Controller) run(ctx context.Context, spec agent.JobSpec, done chan struct{}) {
	defer close(done)
	defer c.finish()

	for {
		if ctx.Err() != nil {
			return
		}

		c.markRun()
		c.runner.RunScheduled(context.WithoutCancel(ctx), spec)

		timer := time.NewTimer(c.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// finish returns the controller to Idle once the worker has exited.
func (c *Controller) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateIdle
	c.cancel = nil
	c.logger.Infow("scheduled job stopped", "runs", c.runs)
}

func (c *Controller) markRun() {
	c.mu.Lock()
	c.lastRunAt = time.Now()
	c.runs++
	c.mu.Unlock()
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Spec returns the snapshot the active (or last) job runs with.
func (c *Controller) Spec() agent.JobSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spec.Clone()
}

// Interval returns the pause between iterations.
func (c *Controller) Interval() time.Duration {
	return c.interval
}

// LastRunAt returns when the most recent iteration started, or the zero
// time if none has.
func (c *Controller) LastRunAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRunAt
}

// Runs returns how many iterations have started since process start.
func (c *Controller) Runs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}
