package springmass

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// stopPollInterval is how often Stop checks for the in-flight step
const stopPollInterval = time.Millisecond

var (
	// ErrStopTimeout is returned by Stop when a step is still running after the timeout
	ErrStopTimeout = errors.New("springmass: step still running after stop timeout")
	// ErrAlreadyRunning is returned by Start on a running driver
	ErrAlreadyRunning = errors.New("springmass: driver already running")
)

// Stepper is anything advanced by fixed steps, *System being the main one
type Stepper interface {
	Update(dt float64)
}

// Driver calls a Stepper from a periodic timer. At most one step is in flight:
// a tick firing while the previous step runs is dropped.
type Driver struct {
	Stepper  Stepper
	Interval time.Duration
	// TimeStep is the dt handed to every step
	TimeStep float64
	Logger   *log.Logger

	busy    atomic.Bool
	stopped atomic.Bool
	steps   atomic.Uint64
	dropped atomic.Uint64

	mu     sync.Mutex
	ticker *time.Ticker
	stop   chan struct{}
	done   chan struct{}
}

// NewDriver creates a driver stepping stepper by dt every interval
func NewDriver(stepper Stepper, interval time.Duration, dt float64) *Driver {
	return &Driver{
		Stepper:  stepper,
		Interval: interval,
		TimeStep: dt,
		Logger:   log.Default(),
	}
}

// Start launches the timer. Cancelling ctx stops new ticks, like Stop, without waiting.
// A driver whose context was cancelled can be started again.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ticker != nil {
		select {
		case <-d.done:
			// the previous run ended with its context
			d.ticker = nil
		default:
			return ErrAlreadyRunning
		}
	}
	if d.Interval <= 0 {
		d.Interval = time.Second / 60
	}

	d.stopped.Store(false)
	d.ticker = time.NewTicker(d.Interval)
	d.stop = make(chan struct{})
	d.done = make(chan struct{})

	go d.loop(ctx, d.ticker, d.stop, d.done)

	return nil
}

func (d *Driver) loop(ctx context.Context, ticker *time.Ticker, stop, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			d.stopped.Store(true)
			ticker.Stop()
			return
		case <-stop:
			return
		case <-ticker.C:
			go d.Tick()
		}
	}
}

// Tick runs one step unless a step is already running or the driver was stopped.
// It reports whether the step ran.
func (d *Driver) Tick() bool {
	if !d.busy.CompareAndSwap(false, true) {
		d.dropped.Add(1)
		return false
	}
	defer d.busy.Store(false)

	if d.stopped.Load() {
		return false
	}

	d.Stepper.Update(d.TimeStep)
	d.steps.Add(1)

	return true
}

// Stop stops accepting ticks, then waits up to timeout for the running step to complete.
// Stopping a driver that is not running only waits for a manual Tick.
func (d *Driver) Stop(timeout time.Duration) error {
	d.stopped.Store(true)

	d.mu.Lock()
	if d.ticker != nil {
		d.ticker.Stop()
		close(d.stop)
		<-d.done
		d.ticker = nil
	}
	d.mu.Unlock()

	deadline := time.Now().Add(timeout)
	for d.busy.Load() {
		if time.Now().After(deadline) {
			return ErrStopTimeout
		}
		time.Sleep(stopPollInterval)
	}

	if dropped := d.dropped.Load(); dropped > 0 && d.Logger != nil {
		d.Logger.Printf("[Driver] stopped after %d steps, %d ticks dropped", d.steps.Load(), dropped)
	}

	return nil
}

// IsBusy reports whether a step is running
func (d *Driver) IsBusy() bool {
	return d.busy.Load()
}

// Steps returns the number of steps run
func (d *Driver) Steps() uint64 {
	return d.steps.Load()
}

// Dropped returns the number of ticks dropped because a step was running
func (d *Driver) Dropped() uint64 {
	return d.dropped.Load()
}
