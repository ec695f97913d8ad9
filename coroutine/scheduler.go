// scheduler.go implements the tick-driven task registry.  Start, Stop and
// StopAll may be called from any goroutine — including from inside a task
// body during its own resume — because they never touch the live task maps:
// they append to a pending-op log guarded by the mutex, and the log is
// drained at the start of the next Update.  Update itself runs on a single
// designated engine goroutine.
//
// Blocking tasks are pumped on the engine goroutine during the tick;
// parallel tasks run to completion on their own goroutines, bounded by a
// weighted semaphore, and are reaped when their future signals readiness.
// Errors from task bodies are accumulated under the mutex and surfaced as
// one combined error at the end of the tick that observed them.
//
// © 2025 calyx authors. MIT License.

package coroutine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/calyx-engine/calyx/containers"
	"github.com/calyx-engine/calyx/internal/mathutil"
)

type opKind uint8

const (
	opAdd opKind = iota
	opRemove
	opRemoveAll
)

type pendingOp struct {
	kind     opKind
	key      string
	co       *Coroutine
	parallel bool
}

// future tracks one parallel task: done is closed by its runner goroutine
// after the final resume.
type future struct {
	co   *Coroutine
	done chan struct{}
}

func (f *future) ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Scheduler is the cooperative task registry. Construct with New.
type Scheduler struct {
	mu               sync.Mutex
	pendingOps       *containers.SList[pendingOp]
	pendingAdditions int
	aggregate        error
	idCounter        uint64

	// The task maps are only written while draining the pending-op log in
	// step 1 of Update, and read without the lock during steps 2 and 3;
	// nothing else may touch them.
	blocking *containers.HashMap[string, *Coroutine]
	parallel *containers.HashMap[string, *future]

	clock   func() time.Time
	logger  *zap.Logger
	metrics metricsSink
	sem     *semaphore.Weighted
}

/* -------------------------------------------------------------------------
   Options
   ------------------------------------------------------------------------- */

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithLogger plugs an external zap.Logger. Only task lifecycle events are
// logged, never the per-tick hot path.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics on the given registry. Passing nil
// disables metrics (default).
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Scheduler) {
		s.metrics = newMetricsSink(reg)
	}
}

// WithClock overrides the monotonic time source consulted at the start of
// each pump phase. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithParallelLimit bounds how many parallel task runners execute
// concurrently. Zero or negative means no bound.
func WithParallelLimit(n int64) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.sem = semaphore.NewWeighted(n)
		}
	}
}

// New constructs an empty scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		pendingOps: containers.NewSList[pendingOp](),
		blocking:   containers.NewHashMapCap[string, *Coroutine](1),
		parallel:   containers.NewHashMapCap[string, *future](1),
		clock:      time.Now,
		logger:     zap.NewNop(),
		metrics:    noopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

/* -------------------------------------------------------------------------
   Public operations — callable from any goroutine
   ------------------------------------------------------------------------- */

// Start registers fn as a blocking task under a generated key, which is
// returned.
func (s *Scheduler) Start(fn Func) string {
	return s.startKeyed("", fn, false)
}

// StartParallel registers fn as a parallel task under a generated key.
func (s *Scheduler) StartParallel(fn Func) string {
	return s.startKeyed("", fn, true)
}

// StartNamed registers fn under the caller's key. The registration takes
// effect at the next Update.
func (s *Scheduler) StartNamed(key string, fn Func, parallel bool) {
	s.startKeyed(key, fn, parallel)
}

func (s *Scheduler) startKeyed(key string, fn Func, parallel bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == "" {
		key = strconv.FormatUint(s.idCounter, 10)
		s.idCounter++
	}
	s.pendingOps.PushBack(pendingOp{kind: opAdd, key: key, co: NewCoroutine(fn), parallel: parallel})
	s.pendingAdditions++
	s.metrics.incStarted(parallel)
	return key
}

// Stop requests removal of the task under key at the next Update. Stopping
// an unknown key is harmless. A running parallel task is not preempted; it
// runs to completion and is reaped when its future becomes ready.
func (s *Scheduler) Stop(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingOps.PushBack(pendingOp{kind: opRemove, key: key})
	mathutil.Decrement(&s.pendingAdditions)
}

// StopAll discards every pending operation and requests removal of all
// tasks at the next Update.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingOps.Clear()
	s.pendingOps.PushBack(pendingOp{kind: opRemoveAll})
	s.pendingAdditions = 0
}

// Len returns the number of registered tasks. Meaningful on the engine
// goroutine between ticks.
func (s *Scheduler) Len() int {
	return s.blocking.Size() + s.parallel.Size()
}

/* -------------------------------------------------------------------------
   Update — engine goroutine only
   ------------------------------------------------------------------------- */

// Update performs one tick: apply pending operations, pump blocking tasks,
// reap finished parallel tasks, then surface any errors the tick observed
// as a single combined error.
func (s *Scheduler) Update() error {
	tickStart := time.Now()
	s.applyPending()

	// Pump blocking tasks. Wake times compare against one clock read; a
	// task body calling Start/Stop only appends to the pending log, so the
	// map is safe to iterate.
	now := s.clock()
	resumes := 0
	for key, co := range s.blocking.All() {
		alive, err := co.Resume(now)
		resumes++
		if err != nil {
			s.collect(fmt.Errorf("task %q: %w", key, err))
		}
		if !alive {
			s.Stop(key)
		}
	}
	s.metrics.incResumes(resumes)

	// Reap parallel tasks whose futures are ready. Futures are append-only
	// outside step 1, so no lock is needed to poll them.
	for key, fut := range s.parallel.All() {
		if fut.ready() {
			s.Stop(key)
		}
	}

	s.metrics.setLive(s.blocking.Size(), s.parallel.Size())
	s.metrics.observeTick(time.Since(tickStart).Seconds())

	s.mu.Lock()
	err := s.aggregate
	s.aggregate = nil
	s.mu.Unlock()
	if err != nil {
		n := len(multierr.Errors(err))
		s.metrics.incTaskErrors(n)
		s.logger.Warn("coroutine tick collected task errors", zap.Int("count", n))
		return fmt.Errorf("coroutine tick: %w", err)
	}
	return nil
}

// Errors unpacks an aggregate error returned by Update into the individual
// task errors.
func Errors(err error) []error {
	var group interface{ Errors() []error }
	if errors.As(err, &group) {
		return group.Errors()
	}
	return multierr.Errors(err)
}

// collect appends a task error to the tick aggregate under the lock.
func (s *Scheduler) collect(err error) {
	s.mu.Lock()
	s.aggregate = multierr.Append(s.aggregate, err)
	s.mu.Unlock()
}

// applyPending drains the pending-op log in order, pre-sizing both maps so
// the additions cannot exceed their bucket counts mid-drain.
func (s *Scheduler) applyPending() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.blocking.Size()+s.pendingAdditions > s.blocking.BucketCount() {
		s.blocking.Resize(mathutil.NextPrime(s.blocking.Size() + s.pendingAdditions))
	}
	if s.parallel.Size()+s.pendingAdditions > s.parallel.BucketCount() {
		s.parallel.Resize(mathutil.NextPrime(s.parallel.Size() + s.pendingAdditions))
	}
	s.pendingAdditions = 0

	for op := range s.pendingOps.All() {
		switch op.kind {
		case opAdd:
			if op.parallel {
				fut := &future{co: op.co, done: make(chan struct{})}
				s.parallel.Emplace(op.key, fut)
				go s.runParallel(op.key, fut)
			} else {
				s.blocking.Emplace(op.key, op.co)
			}
			s.logger.Debug("coroutine started", zap.String("key", op.key), zap.Bool("parallel", op.parallel))

		case opRemove:
			if co, err := s.blocking.At(op.key); err == nil {
				co.Cancel()
			}
			removed := s.blocking.Remove(op.key)
			if s.parallel.Remove(op.key) {
				removed = true
			}
			if removed {
				s.metrics.incStopped()
				s.logger.Debug("coroutine removed", zap.String("key", op.key))
			}

		case opRemoveAll:
			for _, co := range s.blocking.All() {
				co.Cancel()
			}
			s.blocking.Clear()
			s.blocking.Resize(1)
			s.parallel.Clear()
			s.parallel.Resize(1)
			s.logger.Debug("all coroutines removed")
		}
	}
	s.pendingOps.Clear()
}

// runParallel drives one parallel task to completion on its own goroutine,
// honoring yield delays with real sleeps and the configured concurrency
// bound.
func (s *Scheduler) runParallel(key string, fut *future) {
	if s.sem != nil {
		_ = s.sem.Acquire(context.Background(), 1)
		defer s.sem.Release(1)
	}
	defer close(fut.done)
	for {
		alive, err := fut.co.Resume(time.Now())
		if err != nil {
			s.collect(fmt.Errorf("parallel task %q: %w", key, err))
		}
		if !alive {
			return
		}
		if d := fut.co.YieldDelay(); d > 0 {
			time.Sleep(d)
		}
	}
}

/* -------------------------------------------------------------------------
   Package-level default scheduler
   ------------------------------------------------------------------------- */

var defaultScheduler = New()

// Default returns the process-wide scheduler used by the package-level
// functions.
func Default() *Scheduler { return defaultScheduler }

// Start registers fn as a blocking task on the default scheduler.
func Start(fn Func) string { return defaultScheduler.Start(fn) }

// StartParallel registers fn as a parallel task on the default scheduler.
func StartParallel(fn Func) string { return defaultScheduler.StartParallel(fn) }

// StartNamed registers fn under key on the default scheduler.
func StartNamed(key string, fn Func, parallel bool) {
	defaultScheduler.StartNamed(key, fn, parallel)
}

// Stop requests removal of key from the default scheduler.
func Stop(key string) { defaultScheduler.Stop(key) }

// StopAll requests removal of every task from the default scheduler.
func StopAll() { defaultScheduler.StopAll() }

// Update ticks the default scheduler.
func Update() error { return defaultScheduler.Update() }
