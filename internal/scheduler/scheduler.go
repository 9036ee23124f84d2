package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-co-op/gocron/v2"
	"github.com/scoutkit/analysis/internal/service"
)

// Scheduler runs the unattended jobs: pulling data off registered devices
// on the configured cadence and posting the end-of-day missing-records
// check.
type Scheduler struct {
	s        gocron.Scheduler
	scouting *service.ScoutingService
	syncCron string

	sendMessage func(string) error
}

func NewScheduler(scouting *service.ScoutingService, syncCron string, sendMessage func(string) error) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		scouting:    scouting,
		syncCron:    syncCron,
		sendMessage: sendMessage,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.CronJob(s.syncCron, false),
		gocron.NewTask(s.syncDevices),
	)
	if err != nil {
		return fmt.Errorf("failed to create device sync job: %w", err)
	}

	// Missing-records check after the last qualification matches wrap up.
	_, err = s.s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(18, 30, 0))),
		gocron.NewTask(s.sendMissing),
	)
	if err != nil {
		return fmt.Errorf("failed to create missing records job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) syncDevices() {
	report, err := s.scouting.SyncDevices(context.Background())
	if err != nil {
		slog.Error("Failed to sync devices", "error", err)
		return
	}
	changed := 0
	for _, st := range report {
		changed += st.Accepted + st.Updated
	}
	if changed == 0 {
		return
	}
	s.sendMessage(service.MergeReportText(report))
}

func (s *Scheduler) sendMissing() {
	report, err := s.scouting.MissingReport()
	if err != nil {
		slog.Error("Failed to build missing records report", "error", err)
		return
	}
	s.sendMessage(report)
}
