// Package workers runs the background jobs the match engine leans on:
// the round poller that finalizes timed-out rounds for idle matches, and
// the registry sweep that drops old terminal matches.
package workers

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/apexarena/gridrace/game/match"
)

const (
	pollInterval    = 5 * time.Second
	cleanupInterval = 10 * time.Minute
	retainFinished  = 24 * time.Hour
)

// RoundPoller periodically re-evaluates every in-round match. Round
// completion is otherwise detected lazily on move submission, so a match
// whose entrants all went silent still settles once its budget runs out.
type RoundPoller struct {
	registry  *match.Registry
	scheduler gocron.Scheduler
}

// NewRoundPoller builds the poller over the given registry.
func NewRoundPoller(registry *match.Registry) (*RoundPoller, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &RoundPoller{
		registry:  registry,
		scheduler: sched,
	}, nil
}

// Start schedules the evaluation and cleanup jobs and begins running them.
func (p *RoundPoller) Start() error {
	if _, err := p.scheduler.NewJob(
		gocron.DurationJob(pollInterval),
		gocron.NewTask(p.evaluateActive),
	); err != nil {
		return err
	}

	if _, err := p.scheduler.NewJob(
		gocron.DurationJob(cleanupInterval),
		gocron.NewTask(func() {
			p.registry.Cleanup(retainFinished)
		}),
	); err != nil {
		return err
	}

	p.scheduler.Start()
	log.Printf("round poller started (interval %s)", pollInterval)
	return nil
}

// Stop shuts the scheduler down and waits for running jobs.
func (p *RoundPoller) Stop() {
	if err := p.scheduler.Shutdown(); err != nil {
		log.Printf("round poller shutdown: %v", err)
	}
}

func (p *RoundPoller) evaluateActive() {
	for _, m := range p.registry.Active() {
		before := m.Status()
		snap := m.Evaluate()
		if snap.Status != before {
			log.Printf("poller advanced match %s: %s -> %s", snap.ID, before, snap.Status)
		}
	}
}
