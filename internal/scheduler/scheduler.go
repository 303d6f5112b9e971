// Package scheduler runs housekeeping tasks on cron specs.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

type Task func(ctx context.Context) error

type entry struct {
	spec string
	name string
	task Task
}

// Scheduler collects tasks and runs them while Run's context is alive.
type Scheduler struct {
	entries []entry
}

func New() *Scheduler {
	return &Scheduler{}
}

// Add registers task under a standard cron spec ("0 3 * * *", "@daily",
// "@every 6h").
func (s *Scheduler) Add(spec, name string, task Task) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("task %s: bad schedule %q: %w", name, spec, err)
	}
	s.entries = append(s.entries, entry{spec: spec, name: name, task: task})
	return nil
}

func (s *Scheduler) Len() int { return len(s.entries) }

// Run starts every task once right away, then on its schedule, and blocks
// until ctx is done. A run still in progress when the next tick fires is not
// doubled up.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.entries) == 0 {
		<-ctx.Done()
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	for _, e := range s.entries {
		if _, err := c.AddFunc(e.spec, func() { runTask(ctx, e) }); err != nil {
			return fmt.Errorf("cron.AddFunc: %w", err)
		}
	}

	c.Start()
	log.Printf("[scheduler] started tasks=%d", len(s.entries))

	for _, e := range s.entries {
		go runTask(ctx, e)
	}

	<-ctx.Done()
	<-c.Stop().Done()
	log.Println("[scheduler] stopped")
	return nil
}

func runTask(ctx context.Context, e entry) {
	if ctx.Err() != nil {
		return
	}
	if err := e.task(ctx); err != nil {
		log.Printf("[%s] error: %v", e.name, err)
	}
}
