package worker

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled task. Spec uses the six-field cron format with
// seconds, matching the schedules the jobs were written against.
type Job struct {
	Name string
	Spec string
	Run  func()
}

// Registry owns the process cron scheduler. Job names are unique;
// registering the same name twice is an error.
type Registry struct {
	cron *cron.Cron
	jobs map[string]cron.EntryID
	log  *zap.Logger
}

func NewRegistry(timezone string, log *zap.Logger) (*Registry, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
	}
	return &Registry{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.DefaultLogger)),
		),
		jobs: make(map[string]cron.EntryID),
		log:  log,
	}, nil
}

func (r *Registry) Register(job Job) error {
	if job.Name == "" {
		return fmt.Errorf("job name required")
	}
	if _, exists := r.jobs[job.Name]; exists {
		return fmt.Errorf("job %q already registered", job.Name)
	}

	name := job.Name
	run := job.Run
	id, err := r.cron.AddFunc(job.Spec, func() {
		r.log.Info("job tick", zap.String("job", name))
		run()
	})
	if err != nil {
		return fmt.Errorf("scheduling job %q: %w", job.Name, err)
	}

	r.jobs[job.Name] = id
	r.log.Info("job registered", zap.String("job", job.Name), zap.String("spec", job.Spec))
	return nil
}

func (r *Registry) Start() {
	r.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (r *Registry) Stop() {
	<-r.cron.Stop().Done()
}
