package services

import (
	"fmt"
	"time"

	"github.com/flickmobile/navigation-backend/internal/database"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CronService manages scheduled background jobs: the stale-session sweeper,
// data retention cleanup, and refresh token cleanup
type CronService struct {
	cron             *cron.Cron
	navigationSvc    *NavigationService
	rateLimitSvc     *RateLimitService
	historyRepo      *database.SearchHistoryRepository
	tripRepo         *database.TripLogRepository
	tokenRepo        *database.RefreshTokenRepository
	logger           *logrus.Logger
	staleAfter       time.Duration
	historyRetention int // days
	tripLogRetention int // days
}

// NewCronService creates a new CronService
func NewCronService(
	navigationSvc *NavigationService,
	rateLimitSvc *RateLimitService,
	historyRepo *database.SearchHistoryRepository,
	tripRepo *database.TripLogRepository,
	tokenRepo *database.RefreshTokenRepository,
	logger *logrus.Logger,
	staleAfter time.Duration,
	historyRetentionDays, tripLogRetentionDays int,
) *CronService {
	return &CronService{
		cron:             cron.New(cron.WithSeconds()),
		navigationSvc:    navigationSvc,
		rateLimitSvc:     rateLimitSvc,
		historyRepo:      historyRepo,
		tripRepo:         tripRepo,
		tokenRepo:        tokenRepo,
		logger:           logger,
		staleAfter:       staleAfter,
		historyRetention: historyRetentionDays,
		tripLogRetention: tripLogRetentionDays,
	}
}

// Start schedules and starts all cron jobs
func (s *CronService) Start() error {
	// Job 1: sweep stale navigation sessions every minute
	// Cron format: second minute hour day month weekday
	_, err := s.cron.AddFunc("0 * * * * *", s.sweepSessionsJob)
	if err != nil {
		return fmt.Errorf("failed to schedule session sweeper: %w", err)
	}

	// Job 2: retention cleanup daily at 3 AM
	_, err = s.cron.AddFunc("0 0 3 * * *", s.retentionCleanupJob)
	if err != nil {
		return fmt.Errorf("failed to schedule retention cleanup: %w", err)
	}

	// Job 3: expired refresh token and rate limit cleanup hourly
	_, err = s.cron.AddFunc("0 0 * * * *", s.tokenCleanupJob)
	if err != nil {
		return fmt.Errorf("failed to schedule token cleanup: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Cron service started")

	return nil
}

// Stop stops all cron jobs and waits for running ones to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// sweepSessionsJob ends navigation sessions with no recent position updates
func (s *CronService) sweepSessionsJob() {
	swept := s.navigationSvc.SweepStaleSessions(s.staleAfter)
	if swept > 0 {
		s.logger.WithField("swept", swept).Info("Stale navigation sessions swept")
	}
}

// retentionCleanupJob deletes search history and trip logs past retention
func (s *CronService) retentionCleanupJob() {
	startTime := time.Now()

	historyDeleted, err := s.historyRepo.DeleteOlderThan(s.historyRetention)
	if err != nil {
		s.logger.WithError(err).Error("Failed to cleanup search history")
	}

	tripsDeleted, err := s.tripRepo.DeleteOlderThan(s.tripLogRetention)
	if err != nil {
		s.logger.WithError(err).Error("Failed to cleanup trip logs")
	}

	s.logger.WithFields(logrus.Fields{
		"history_deleted": historyDeleted,
		"trips_deleted":   tripsDeleted,
		"duration":        time.Since(startTime).String(),
	}).Info("Retention cleanup completed")
}

// tokenCleanupJob deletes expired refresh tokens and old rate limit rows
func (s *CronService) tokenCleanupJob() {
	tokensDeleted, err := s.tokenRepo.CleanupExpiredTokens()
	if err != nil {
		s.logger.WithError(err).Error("Failed to cleanup refresh tokens")
	}

	limitsDeleted, err := s.rateLimitSvc.CleanupExpiredRateLimits()
	if err != nil {
		s.logger.WithError(err).Error("Failed to cleanup rate limits")
	}

	if tokensDeleted > 0 || limitsDeleted > 0 {
		s.logger.WithFields(logrus.Fields{
			"tokens_deleted": tokensDeleted,
			"limits_deleted": limitsDeleted,
		}).Info("Token cleanup completed")
	}
}

// RunSweepNow runs the session sweeper immediately
func (s *CronService) RunSweepNow() {
	s.logger.Info("Running session sweep now")
	s.sweepSessionsJob()
}

// RunCleanupNow runs retention and token cleanup immediately
func (s *CronService) RunCleanupNow() {
	s.logger.Info("Running cleanup now")
	s.retentionCleanupJob()
	s.tokenCleanupJob()
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
