package schedule

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a task on a cron schedule in a fixed timezone.
type Scheduler struct {
	cron *cron.Cron
	spec string
	loc  *time.Location
}

// New creates a scheduler for the given cron spec and timezone name
// ("Local" or an IANA name like "Europe/Berlin").
func New(spec, timezone string) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
	}

	// Validate the spec up front so a bad config fails at startup.
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		spec: spec,
		loc:  loc,
	}, nil
}

// Add registers the task to run on the schedule.
func (s *Scheduler) Add(task func()) error {
	if _, err := s.cron.AddFunc(s.spec, task); err != nil {
		return fmt.Errorf("adding cron entry: %w", err)
	}
	log.Printf("Scheduled run: %q (%s)", s.spec, s.loc)
	return nil
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
