package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
)

var (
	ErrEmptyJobName  = errors.New("job name is required")
	ErrInvalidPeriod = errors.New("job period must be > 0")
	ErrNilTask       = errors.New("job task is required")
)

// Service wraps a gocron scheduler. Jobs receive a context that is cancelled on Stop.
type Service struct {
	scheduler gocron.Scheduler
	logger    *logging.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	stopOnce  sync.Once
	stopErr   error
}

func New(logger *logging.Logger) (*Service, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("scheduler")

	sched, err := gocron.NewScheduler(
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					logger.Error("scheduler job panicked",
						"job_id", jobID.String(),
						"job_name", jobName,
						"panic", recoverData,
					)
				}),
			),
		),
	)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		scheduler: sched,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// AddInterval registers task to run every period, first run immediately.
// A run that is still going when the next tick fires makes that tick a no-op.
func (s *Service) AddInterval(name string, period time.Duration, task func(context.Context)) (gocron.Job, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyJobName
	}
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if task == nil {
		return nil, ErrNilTask
	}

	jobLogger := s.logger.With("job_name", name, "period", period.String())
	wrapped := func() {
		started := time.Now()
		jobLogger.Debug("scheduler job started")
		task(s.ctx)
		jobLogger.Debug("scheduler job completed", "elapsed", time.Since(started).String())
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(period),
		gocron.NewTask(wrapped),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		jobLogger.Error("failed to register scheduler job", "error", err)
		return nil, err
	}
	jobLogger.Info("scheduler job registered")
	return job, nil
}

func (s *Service) Start() {
	s.logger.Info("scheduler starting")
	s.scheduler.Start()
}

// Stop cancels running jobs' context and waits for them to return.
func (s *Service) Stop() error {
	s.stopOnce.Do(func() {
		s.logger.Info("scheduler stopping")
		s.cancel()
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}
