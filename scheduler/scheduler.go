package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DigestJob is one run of a periodic report. It returns how many items the
// report covered.
type DigestJob interface {
	Run(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	job     DigestJob
	spec    string
	timeout time.Duration
	logger  *zap.Logger
}

// New schedules job on a standard five field cron expression.
func New(spec string, job DigestJob, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:    cron.New(),
		job:     job,
		spec:    spec,
		timeout: 2 * time.Minute,
		logger:  logger,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runDigest); err != nil {
		return fmt.Errorf("schedule low stock digest %q: %w", s.spec, err)
	}
	s.logger.Info("starting scheduler", zap.String("spec", s.spec))
	s.cron.Start()
	return nil
}

// Stop waits for a running digest to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.job.Run(ctx)
	if err != nil {
		s.logger.Error("low stock digest failed", zap.Error(err))
		return
	}
	s.logger.Info("low stock digest finished", zap.Int("items", n))
}
