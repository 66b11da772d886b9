package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"medialog/internal/controllers"
	"medialog/internal/models"
)

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron           *cron.Cron
	trendingCtrl   *controllers.TrendingController
	db             *models.Database
	backupDir      string
	refreshMinutes int
	logger         *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(
	trendingCtrl *controllers.TrendingController,
	db *models.Database,
	backupDir string,
	refreshMinutes int,
	logger *logrus.Logger,
) *Scheduler {
	return &Scheduler{
		cron:           cron.New(),
		trendingCtrl:   trendingCtrl,
		db:             db,
		backupDir:      backupDir,
		refreshMinutes: refreshMinutes,
		logger:         logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Refresh trending rankings so requests never hit a cold cache
	spec := fmt.Sprintf("*/%d * * * *", s.refreshMinutes)
	_, err := s.cron.AddFunc(spec, func() {
		s.runTrendingRefresh()
	})
	if err != nil {
		return fmt.Errorf("failed to add trending refresh job: %w", err)
	}

	// Nightly database backup
	_, err = s.cron.AddFunc("0 3 * * *", func() {
		s.runBackup()
	})
	if err != nil {
		return fmt.Errorf("failed to add backup job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Warm the trending cache immediately
	go s.runTrendingRefresh()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runTrendingRefresh recomputes the trending rankings
func (s *Scheduler) runTrendingRefresh() {
	s.logger.Debug("Running scheduled trending refresh")
	s.trendingCtrl.Refresh()
}

// runBackup snapshots the database into the backup directory
func (s *Scheduler) runBackup() {
	s.logger.Info("Running scheduled database backup")

	if err := os.MkdirAll(s.backupDir, 0755); err != nil {
		s.logger.WithError(err).Error("Failed to create backup directory")
		return
	}

	path := filepath.Join(s.backupDir, fmt.Sprintf("medialog-%s.db", time.Now().Format("20060102-150405")))
	if err := s.db.Backup(path); err != nil {
		s.logger.WithError(err).Error("Database backup failed")
		return
	}

	s.logger.WithField("path", path).Info("Database backup completed")
}
