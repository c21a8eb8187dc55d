package usecases

import (
	"errors"
	"sync"
	"time"

	"github.com/samirrijal/searoute/internal/core/domain"
)

// ErrStepperRunning is returned by Start while a run is in progress.
var ErrStepperRunning = errors.New("stepper already running")

// Ticker is the subset of *time.Ticker the stepper needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every d.
type TickerFactory func(d time.Duration) Ticker

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

type stepRun struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Stepper advances through a route one waypoint per tick on its own
// goroutine. Callbacks run on that goroutine, so ticks never overlap.
// Callbacks must not call Stop.
type Stepper struct {
	interval  time.Duration
	newTicker TickerFactory

	mu      sync.Mutex
	current *stepRun
}

// NewStepper creates an idle stepper. A nil factory uses real tickers.
func NewStepper(interval time.Duration, newTicker TickerFactory) *Stepper {
	if newTicker == nil {
		newTicker = NewTimeTicker
	}
	return &Stepper{interval: interval, newTicker: newTicker}
}

// Start begins a run over route. Each tick advances the index by one and
// calls onStep with the new index and waypoint; the tick that reaches the
// last waypoint also calls onDone, after which the stepper is idle. A
// single-point route calls onDone without waiting for a tick.
func (s *Stepper) Start(route domain.Route, onStep func(int, domain.Waypoint), onDone func()) error {
	if len(route) == 0 {
		return domain.ErrNoActiveRoute
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return ErrStepperRunning
	}

	run := &stepRun{stop: make(chan struct{}), done: make(chan struct{})}
	s.current = run
	go s.loop(run, route, onStep, onDone)
	return nil
}

func (s *Stepper) loop(run *stepRun, route domain.Route, onStep func(int, domain.Waypoint), onDone func()) {
	defer func() {
		s.mu.Lock()
		if s.current == run {
			s.current = nil
		}
		s.mu.Unlock()
		close(run.done)
	}()

	if len(route) == 1 {
		select {
		case <-run.stop:
		default:
			onDone()
		}
		return
	}

	ticker := s.newTicker(s.interval)
	defer ticker.Stop()

	index := 0
	for {
		select {
		case <-run.stop:
			return
		case <-ticker.C():
			select {
			case <-run.stop:
				return
			default:
			}

			index++
			onStep(index, route[index])
			if index == len(route)-1 {
				onDone()
				return
			}
		}
	}
}

// Stop cancels the current run and waits for its goroutine to exit. After
// Stop returns no callback of that run fires. Stop on an idle stepper is a no-op.
func (s *Stepper) Stop() {
	s.mu.Lock()
	run := s.current
	s.mu.Unlock()
	if run == nil {
		return
	}
	run.stopOnce.Do(func() { close(run.stop) })
	<-run.done
}

// State reports whether a run is in progress.
func (s *Stepper) State() domain.StepperState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return domain.StepperRunning
	}
	return domain.StepperIdle
}

// Done returns a channel closed when the current run ends. It is already
// closed when the stepper is idle.
func (s *Stepper) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return s.current.done
	}
	ch := make(chan struct{})
	close(ch)
	return ch
}
