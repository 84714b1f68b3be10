package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
)

// JobStatus represents the status of a job.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusScheduled JobStatus = "scheduled"
)

// JobInfo contains information about a scheduled job.
type JobInfo struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      JobStatus  `json:"status"`
	LastRun     time.Time  `json:"lastRun"`
	NextRun     time.Time  `json:"nextRun"`
	RunCount    int        `json:"runCount"`
	ErrorCount  int        `json:"errorCount"`
	LastError   string     `json:"lastError,omitempty"`
	GocronJob   gocron.Job `json:"-"`
}

// JobFunc represents a function that can be scheduled.
type JobFunc func(ctx context.Context) error

// Scheduler manages periodic jobs.
type Scheduler struct {
	gocron gocron.Scheduler
	mu     sync.RWMutex
	jobs   map[string]*JobInfo
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new scheduler.
func New() (*Scheduler, error) {
	gocronScheduler, err := gocron.NewScheduler(gocron.WithLogger(newLogger()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		gocron: gocronScheduler,
		jobs:   make(map[string]*JobInfo),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// AddJob registers a job that runs at the given interval. Only one instance
// of a job runs at a time.
func (s *Scheduler) AddJob(name, description string, interval time.Duration, jobFunc JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	info := &JobInfo{
		Name:        name,
		Description: description,
		Status:      JobStatusScheduled,
	}

	job, err := s.gocron.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			s.runJob(name, jobFunc)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", name, err)
	}

	info.GocronJob = job
	s.jobs[name] = info
	return nil
}

func (s *Scheduler) runJob(name string, jobFunc JobFunc) {
	s.mu.Lock()
	info, ok := s.jobs[name]
	if ok {
		info.Status = JobStatusRunning
		info.LastRun = time.Now()
		info.RunCount++
	}
	s.mu.Unlock()

	log.Debug("running scheduled job", "job", name)
	err := jobFunc(s.ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		return
	}
	if err != nil {
		log.Error("scheduled job failed", "job", name, "error", err)
		info.Status = JobStatusFailed
		info.ErrorCount++
		info.LastError = err.Error()
	} else {
		info.Status = JobStatusCompleted
		info.LastError = ""
	}
	if nextRun, err := info.GocronJob.NextRun(); err == nil {
		info.NextRun = nextRun
	}
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.gocron.Start()

	s.mu.Lock()
	defer s.mu.Unlock()
	for name, info := range s.jobs {
		if nextRun, err := info.GocronJob.NextRun(); err == nil {
			info.NextRun = nextRun
		} else {
			log.Warn("failed to get next run time for job", "job", name, "error", err)
		}
	}
}

// Jobs returns a snapshot of all registered jobs.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]JobInfo, 0, len(s.jobs))
	for _, info := range s.jobs {
		jobs = append(jobs, *info)
	}
	return jobs
}

// Shutdown stops the scheduler and cancels running jobs.
func (s *Scheduler) Shutdown() error {
	s.cancel()
	return s.gocron.Shutdown()
}
