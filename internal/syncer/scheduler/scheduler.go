package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/itsprade/good-morning/internal/syncer/usecase"
	"github.com/itsprade/good-morning/pkg/logger"
)

// DailySyncer is the job run once a day
type DailySyncer interface {
	DailySync(ctx context.Context) (*usecase.BatchResult, error)
}

// Scheduler runs the daily batch sync in-process
type Scheduler struct {
	cron   *cron.Cron
	syncer DailySyncer
	logger *zap.Logger
}

func NewScheduler(loc *time.Location, syncer DailySyncer) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		syncer: syncer,
		logger: logger.Named("sync_scheduler"),
	}
}

// ScheduleDaily registers the daily sync at HH:MM in the scheduler's timezone.
func (s *Scheduler) ScheduleDaily(timeStr string) (cron.EntryID, error) {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return 0, err
	}
	s.logger.Info("daily sync scheduled", zap.String("at", timeStr))
	return s.cron.AddFunc(spec, s.run)
}

func (s *Scheduler) run() {
	batch, err := s.syncer.DailySync(context.Background())
	if err != nil {
		s.logger.Error("scheduled daily sync failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled daily sync done",
		zap.Int("users", len(batch.Results)),
		zap.Int("synced", batch.SyncedUsers))
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(strings.TrimSpace(timeStr), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
