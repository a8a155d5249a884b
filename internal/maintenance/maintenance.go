// Package maintenance runs scheduled background jobs.
package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OrphanCounter is implemented by the comments repository.
type OrphanCounter interface {
	CountOrphans(ctx context.Context) (map[string]int, error)
}

// Scheduler periodically audits comments left behind by deleted texts.
// Orphans are tolerated by the product, so the job only reports them.
type Scheduler struct {
	comments OrphanCounter
	spec     string
	log      *zap.Logger
	cron     *cron.Cron
}

func NewScheduler(comments OrphanCounter, spec string, log *zap.Logger) *Scheduler {
	return &Scheduler{comments: comments, spec: spec, log: log}
}

// Start registers the audit job and starts the cron loop.
func (s *Scheduler) Start() error {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(s.spec, s.runOrphanAudit)
	if err != nil {
		return err
	}

	s.log.Info("maintenance scheduler started", zap.String("spec", s.spec))
	c.Start()
	s.cron = c
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Scheduler) runOrphanAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	orphans, err := s.comments.CountOrphans(ctx)
	if err != nil {
		s.log.Error("orphan audit failed", zap.Error(err))
		return
	}

	if len(orphans) == 0 {
		s.log.Info("orphan audit: no orphaned comments")
		return
	}
	for workspaceID, count := range orphans {
		s.log.Warn("orphaned comments found",
			zap.String("workspace_id", workspaceID),
			zap.Int("count", count))
	}
}
