package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	robfig "github.com/robfig/cron/v3"
)

// Job represents a scheduled job
type Job struct {
	Name string
	Spec string
	Fn   func(ctx context.Context) error
}

// Scheduler runs jobs on cron expressions in a fixed location
type Scheduler struct {
	cron   *robfig.Cron
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewScheduler creates a scheduler evaluating specs in loc
func NewScheduler(loc *time.Location) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   robfig.New(robfig.WithLocation(loc)),
		jobs:   make([]Job, 0),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers fn under a standard five field cron spec
func (s *Scheduler) AddJob(name, spec string, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := Job{Name: name, Spec: spec, Fn: fn}
	if _, err := s.cron.AddFunc(spec, func() { s.executeJob(job) }); err != nil {
		return fmt.Errorf("unable to schedule %s: %w", name, err)
	}
	s.jobs = append(s.jobs, job)
	slog.Info("Cron job registered", "name", name, "spec", spec)
	return nil
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	<-s.cron.Stop().Done()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) executeJob(job Job) {
	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	if err := job.Fn(s.ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Info("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce runs all jobs once (useful for testing)
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if err := job.Fn(ctx); err != nil {
			slog.Error("Cron job failed", "name", job.Name, "error", err)
		}
	}
}
