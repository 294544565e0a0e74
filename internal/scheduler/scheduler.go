// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

var (
	// ErrUnknownJob is returned by RunNamed for names that were never registered.
	ErrUnknownJob = errors.New("unknown job")
	// ErrAlreadyRunning is returned when a run is requested while the previous one is in progress.
	ErrAlreadyRunning = errors.New("job already running")
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// JobInfo describes a registered job.
type JobInfo struct {
	Name     string    `json:"name"`
	Schedule string    `json:"schedule"`
	Next     time.Time `json:"next,omitempty"`
	Prev     time.Time `json:"prev,omitempty"`
}

type registration struct {
	job      Job
	schedule string
	entry    cron.EntryID
	mu       sync.Mutex
}

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
	jobs map[string]*registration
	mu   sync.RWMutex
	log  zerolog.Logger
}

// New creates a new scheduler evaluating schedules in loc. Schedules carry a
// seconds field.
func New(loc *time.Location, log zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		jobs: make(map[string]*registration),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.Jobs())).Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a new job with cron schedule
// Schedule examples:
//   - "0 */5 * * * *"      - Every 5 minutes
//   - "0 30 23 * * SUN"    - Sundays at 23:30
//   - "@every 30s"         - Every 30 seconds
func (s *Scheduler) AddJob(schedule string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name()]; exists {
		return fmt.Errorf("job %s already registered", job.Name())
	}

	reg := &registration{job: job, schedule: schedule}
	id, err := s.cron.AddFunc(schedule, func() {
		if err := s.run(reg, "schedule"); err != nil && !errors.Is(err, ErrAlreadyRunning) {
			s.log.Error().Err(err).Str("job", job.Name()).Msg("Job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, job.Name(), err)
	}
	reg.entry = id
	s.jobs[job.Name()] = reg

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")

	return nil
}

// RunNow executes a job immediately (outside schedule)
func (s *Scheduler) RunNow(job Job) error {
	s.mu.RLock()
	reg, ok := s.jobs[job.Name()]
	s.mu.RUnlock()
	if !ok {
		reg = &registration{job: job}
	}
	return s.run(reg, "manual")
}

// RunNamed executes a registered job immediately.
func (s *Scheduler) RunNamed(name string) error {
	s.mu.RLock()
	reg, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.run(reg, "manual")
}

// Has reports whether a job with name is registered.
func (s *Scheduler) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.jobs[name]
	return ok
}

// Jobs lists registered jobs ordered by name.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for name, reg := range s.jobs {
		entry := s.cron.Entry(reg.entry)
		infos = append(infos, JobInfo{
			Name:     name,
			Schedule: reg.schedule,
			Next:     entry.Next,
			Prev:     entry.Prev,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// run executes reg's job unless a previous run is still in progress.
func (s *Scheduler) run(reg *registration, trigger string) error {
	if !reg.mu.TryLock() {
		s.log.Warn().Str("job", reg.job.Name()).Str("trigger", trigger).Msg("Job still running, skipping")
		return fmt.Errorf("%w: %s", ErrAlreadyRunning, reg.job.Name())
	}
	defer reg.mu.Unlock()

	log := s.log.With().Str("job", reg.job.Name()).Str("trigger", trigger).Logger()
	log.Debug().Msg("Running job")
	start := time.Now()

	if err := reg.job.Run(); err != nil {
		return err
	}

	log.Debug().Dur("duration", time.Since(start)).Msg("Job completed")
	return nil
}
