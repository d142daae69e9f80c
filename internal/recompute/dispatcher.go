package recompute

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrDispatcherClosed = errors.New("recompute dispatcher is closed")

// Trigger schedules an asynchronous course recomputation and returns an
// identifier of the scheduled run.
type Trigger interface {
	Enqueue(ctx context.Context, courseID string) (string, error)
}

// Runner performs a single course recomputation.
type Runner interface {
	RecomputeCourse(ctx context.Context, courseID string) (Summary, error)
}

// Job is a scheduled recomputation. Several submissions may share a Job.
type Job struct {
	ID       string
	CourseID string

	done    chan struct{}
	summary Summary
	err     error
}

func newJob(courseID string) *Job {
	return &Job{
		ID:       uuid.NewString(),
		CourseID: courseID,
		done:     make(chan struct{}),
	}
}

func (j *Job) finish(summary Summary, err error) {
	j.summary = summary
	j.err = err
	close(j.done)
}

// Wait blocks until the job ran or ctx is done.
func (j *Job) Wait(ctx context.Context) (Summary, error) {
	select {
	case <-j.done:
		return j.summary, j.err
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	}
}

// Done is closed once the job finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

type DispatcherConfig struct {
	Workers int
	// RunTimeout bounds a single recomputation. Zero means no limit.
	RunTimeout time.Duration
}

func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		Workers:    4,
		RunTimeout: 5 * time.Minute,
	}
}

// Dispatcher runs recomputations on a bounded worker pool. Runs for one course
// never overlap: submissions for a queued course share the queued job and
// submissions during a run schedule exactly one follow-up run.
type Dispatcher struct {
	runner Runner
	cfg    DispatcherConfig

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []*Job
	pending  map[string]*Job
	running  map[string]struct{}
	followUp map[string]*Job
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDispatcher(runner Runner, cfg DispatcherConfig) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		runner:   runner,
		cfg:      cfg,
		pending:  make(map[string]*Job),
		running:  make(map[string]struct{}),
		followUp: make(map[string]*Job),
		ctx:      ctx,
		cancel:   cancel,
	}
	d.cond = sync.NewCond(&d.mu)

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.work()
	}
	return d
}

// Submit schedules a recomputation of courseID and returns without waiting.
func (d *Dispatcher) Submit(ctx context.Context, courseID string) *Job {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		job := newJob(courseID)
		job.finish(Summary{CourseID: courseID}, ErrDispatcherClosed)
		return job
	}

	if job, ok := d.pending[courseID]; ok {
		return job
	}
	if _, ok := d.running[courseID]; ok {
		if job, ok := d.followUp[courseID]; ok {
			return job
		}
		job := newJob(courseID)
		d.followUp[courseID] = job
		slog.DebugContext(ctx, "Recompute follow-up scheduled", "course_id", courseID, "job_id", job.ID)
		return job
	}

	job := newJob(courseID)
	d.pending[courseID] = job
	d.queue = append(d.queue, job)
	d.cond.Signal()
	slog.DebugContext(ctx, "Recompute queued", "course_id", courseID, "job_id", job.ID)
	return job
}

func (d *Dispatcher) Enqueue(ctx context.Context, courseID string) (string, error) {
	job := d.Submit(ctx, courseID)
	select {
	case <-job.Done():
		if errors.Is(job.err, ErrDispatcherClosed) {
			return "", job.err
		}
	default:
	}
	return job.ID, nil
}

// Close stops accepting submissions and waits until queued and follow-up
// jobs have run.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.cond.Broadcast()
	d.mu.Unlock()

	d.wg.Wait()
	d.cancel()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()

	for {
		d.mu.Lock()
		for len(d.queue) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		job := d.queue[0]
		d.queue[0] = nil
		d.queue = d.queue[1:]
		delete(d.pending, job.CourseID)
		d.running[job.CourseID] = struct{}{}
		d.mu.Unlock()

		for job != nil {
			d.run(job)

			d.mu.Lock()
			next, ok := d.followUp[job.CourseID]
			if ok {
				delete(d.followUp, job.CourseID)
			} else {
				delete(d.running, job.CourseID)
			}
			d.mu.Unlock()
			job = next
		}
	}
}

func (d *Dispatcher) run(job *Job) {
	ctx := d.ctx
	if d.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.RunTimeout)
		defer cancel()
	}

	var (
		summary Summary
		err     error
	)
	func() {
		defer func() {
			if p := recover(); p != nil {
				err = errors.New("recompute panicked")
				slog.Error("Recompute panicked", "course_id", job.CourseID, "job_id", job.ID, "panic", p)
			}
		}()
		summary, err = d.runner.RecomputeCourse(ctx, job.CourseID)
	}()

	if err != nil {
		slog.Error("Recompute failed", "course_id", job.CourseID, "job_id", job.ID, "error", err)
	}
	job.finish(summary, err)
}
