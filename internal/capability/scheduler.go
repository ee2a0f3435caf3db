package capability

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler periodically rebuilds a Registry from discovery so that
// CapabilityStatus.LastVerifiedAtMs stays fresh without requiring callers
// to rebuild manually after provider (re)registration.
//
// Built on robfig/cron/v3; the
// scheduling idiom itself is also used by aristath-sentinel for periodic
// recurring jobs.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// NewScheduler wires registry.RebuildFromDiscovery to spec, a 6-field cron
// expression whose leading field is seconds (e.g. "0 */15 * * * *", every
// 15 minutes), parsed via cron.WithSeconds. Start must be called to
// begin running.
func NewScheduler(registry *Registry, spec string, log zerolog.Logger) (*Scheduler, error) {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(spec, func() {
		if err := registry.RebuildFromDiscovery(); err != nil {
			log.Warn().Err(err).Msg("capability registry periodic rebuild failed")
			return
		}
		log.Debug().Msg("capability registry revalidated")
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c, log: log}, nil
}

// Start begins running the schedule in the background.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the schedule, waiting for any in-flight rebuild to finish.
func (s *Scheduler) Stop() { <-s.cron.Stop().Done() }
