package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type OverdueMarker interface {
	MarkOverdue(ctx context.Context, asOf time.Time) (int, error)
}

// Scheduler runs the periodic job that flags reservations past their
// estimated return date as delayed.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func NewScheduler(spec string, svc OverdueMarker, log *zap.Logger) (*Scheduler, error) {
	log = log.Named("jobs")
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := svc.MarkOverdue(ctx, time.Now().UTC())
		if err != nil {
			log.Error("mark overdue", zap.Error(err))
			return
		}
		if n > 0 {
			log.Info("reservations marked delayed", zap.Int("count", n))
		}
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{cron: c, log: log}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
