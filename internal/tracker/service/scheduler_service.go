package service

import (
	"context"
	"time"

	"stock-tracker/internal/entity"
	"stock-tracker/internal/tracker/config"
	"stock-tracker/pkg/logger"
	"stock-tracker/pkg/telegram"
	"stock-tracker/pkg/utils"

	"github.com/robfig/cron/v3"
)

// SchedulerService runs the price updater on a fixed interval.
type SchedulerService interface {
	Start(ctx context.Context)
	Stop()
}

// NewSchedulerService creates a new scheduler service. The notifier may be
// nil, in which case run reports are only logged.
func NewSchedulerService(updater UpdaterService, notifier telegram.Notifier, log *logger.Logger, cfg *config.Config) SchedulerService {
	return &schedulerService{
		updater:  updater,
		notifier: notifier,
		log:      log,
		cfg:      cfg,
	}
}

type schedulerService struct {
	updater  UpdaterService
	notifier telegram.Notifier
	log      *logger.Logger
	cfg      *config.Config
	cron     *cron.Cron
}

// Start schedules the periodic update and returns immediately. A run that is
// still in progress when the next tick fires is not started twice.
func (s *schedulerService) Start(ctx context.Context) {
	interval := time.Duration(s.cfg.Updater.UpdateIntervalMinutes) * time.Minute
	cronLog := &cronLogger{log: s.log}

	s.cron = cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cronLog)),
	)
	s.cron.Schedule(cron.Every(interval), cron.FuncJob(func() {
		s.runUpdate(ctx, entity.TriggerScheduled)
	}))
	s.cron.Start()
	s.log.Info("Scheduler started", logger.Field("interval", interval.String()))

	if s.cfg.Updater.RunOnStartup {
		utils.GoSafe(func() {
			s.runUpdate(ctx, entity.TriggerStartup)
		})
	}
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (s *schedulerService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("Scheduler stopped")
}

func (s *schedulerService) runUpdate(ctx context.Context, triggeredBy string) {
	result, err := s.updater.RunUpdate(ctx, triggeredBy)
	if err != nil {
		s.log.Error("Scheduled update failed", logger.ErrorField(err), logger.StringField("triggered_by", triggeredBy))
		s.notify(telegram.FormatErrorAlert(time.Now(), "price update", err))
		return
	}
	s.notify(telegram.FormatUpdateReport(result, triggeredBy))
}

func (s *schedulerService) notify(text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendMessage(text); err != nil {
		s.log.Error("Failed to send Telegram notification", logger.ErrorField(err))
	}
}

// cronLogger adapts pkg/logger to the cron.Logger interface.
type cronLogger struct {
	log *logger.Logger
}

func (c *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug(msg, logger.Field("details", keysAndValues))
}

func (c *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error(msg, logger.ErrorField(err), logger.Field("details", keysAndValues))
}
