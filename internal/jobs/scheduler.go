// Package jobs runs the background housekeeping. The vote budget rolls
// over lazily on read; the nightly job only trims the rows nobody touched
// again so the table does not grow with dead installs.
package jobs

import (
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"spurningar/internal/services"
)

type Scheduler struct {
	cron    *cron.Cron
	limiter *services.VoteLimiter
}

func NewScheduler(limiter *services.VoteLimiter) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		limiter: limiter,
	}
}

// Start registers and launches the jobs.
func (s *Scheduler) Start() {
	_, err := s.cron.AddFunc("30 3 * * *", func() {
		pruned, err := s.limiter.PruneStale()
		if err != nil {
			log.WithError(err).Error("[CRON] Vote budget pruning failed")
			return
		}
		log.WithField("pruned", pruned).Info("[CRON] Stale vote budgets pruned")
	})
	if err != nil {
		log.WithError(err).Error("[CRON] Failed to register vote budget pruning")
	}

	s.cron.Start()
	log.Info("Background scheduler started")
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Background scheduler stopped")
}
