package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ReconciliationSweepJob runs the periodic reconciliation pass: assign
// waiting orders oldest first and clear stuck courier busy flags.
//
// The job is single-flow. A mutex with TryLock guards each tick, so a pass
// that outlives the interval causes subsequent ticks to be skipped instead of
// piling up overlapping sweeps.
type ReconciliationSweepJob struct {
	handler commands.SweepCommandHandler
	cron    *cron.Cron
	running sync.Mutex
	logger  *slog.Logger
}

// NewReconciliationSweepJob creates the periodic sweep job.
func NewReconciliationSweepJob(
	handler commands.SweepCommandHandler, logger *slog.Logger,
) *ReconciliationSweepJob {
	return &ReconciliationSweepJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "reconciliation_sweep_job"),
	}
}

// Start begins the sweep job, ticking every intervalSeconds.
func (j *ReconciliationSweepJob) Start(intervalSeconds int) error {
	if intervalSeconds <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %d", intervalSeconds)
	}

	spec := fmt.Sprintf("@every %ds", intervalSeconds)
	_, err := j.cron.AddFunc(spec, j.tick)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reconciliation sweep job started",
		"intervalSeconds", intervalSeconds)
	return nil
}

// Stop stops the sweep job. A pass already in flight finishes on its own.
func (j *ReconciliationSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Reconciliation sweep job stopped")
}

// tick runs one pass unless a previous pass is still in progress.
func (j *ReconciliationSweepJob) tick() {
	if !j.running.TryLock() {
		j.logger.Info("Sweep tick skipped, previous pass still running")
		return
	}
	defer j.running.Unlock()

	ctx := context.Background()

	cmd, err := commands.NewSweepCommand()
	if err != nil {
		j.logger.ErrorContext(ctx, "Sweep command construction failed", "error", err)
		return
	}

	if _, err = j.handler.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "Reconciliation sweep failed", "error", err)
	}
}
