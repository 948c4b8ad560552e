package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const auditRetention = 90 * 24 * time.Hour

// Cleaner is any component that can drop idle state and report how much it dropped
type Cleaner interface {
	Cleanup() int
}

// TokenCleaner purges expired or revoked refresh tokens
type TokenCleaner interface {
	CleanupExpiredTokens() (int64, error)
}

// CronService manages scheduled background jobs
type CronService struct {
	cron      *cron.Cron
	flightSvc *FlightService
	resetSvc  *PasswordResetService
	auditSvc  *AuditService
	tokens    TokenCleaner
	limiter   Cleaner
	logger    *logrus.Logger
}

// NewCronService creates a new CronService. limiter may be nil.
func NewCronService(
	flightSvc *FlightService,
	resetSvc *PasswordResetService,
	auditSvc *AuditService,
	tokens TokenCleaner,
	limiter Cleaner,
	logger *logrus.Logger,
) *CronService {
	return &CronService{
		cron:      cron.New(cron.WithSeconds()),
		flightSvc: flightSvc,
		resetSvc:  resetSvc,
		auditSvc:  auditSvc,
		tokens:    tokens,
		limiter:   limiter,
		logger:    logger,
	}
}

// Start schedules all jobs and starts the scheduler
func (s *CronService) Start() error {
	s.logger.Info("Starting cron service...")

	// Cron format: second minute hour day month weekday
	jobs := []struct {
		spec string
		name string
		fn   func()
	}{
		{"0 */5 * * * *", "Mark departed flights (every 5 minutes)", s.markDepartedJob},
		{"0 */15 * * * *", "Purge expired credentials (every 15 minutes)", s.purgeCredentialsJob},
		{"0 0 4 * * 0", "Cleanup old audit logs (Sundays at 4:00 AM)", s.cleanupAuditLogsJob},
	}

	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.spec, job.fn); err != nil {
			return fmt.Errorf("failed to schedule %q: %w", job.name, err)
		}
		s.logger.WithField("job", job.name).Info("Scheduled cron job")
	}

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// markDepartedJob moves flights whose departure time has passed to departed
func (s *CronService) markDepartedJob() {
	startTime := time.Now()

	count, err := s.flightSvc.MarkDepartedFlights(context.Background())
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Failed to mark departed flights")
		return
	}

	if count > 0 {
		s.logger.WithFields(logrus.Fields{
			"flights":  count,
			"duration": time.Since(startTime).String(),
		}).Info("[CRON] Marked flights departed")
	}
}

// purgeCredentialsJob drops expired reset codes, dead refresh tokens and idle limiter entries
func (s *CronService) purgeCredentialsJob() {
	fields := logrus.Fields{}

	if codes, err := s.resetSvc.CleanupExpired(); err != nil {
		s.logger.WithError(err).Error("[CRON] Failed to purge password reset codes")
	} else {
		fields["reset_codes"] = codes
	}

	if tokens, err := s.tokens.CleanupExpiredTokens(); err != nil {
		s.logger.WithError(err).Error("[CRON] Failed to purge refresh tokens")
	} else {
		fields["refresh_tokens"] = tokens
	}

	if s.limiter != nil {
		fields["limiter_entries"] = s.limiter.Cleanup()
	}

	s.logger.WithFields(fields).Debug("[CRON] Purged expired credentials")
}

// cleanupAuditLogsJob keeps the last 90 days of audit logs
func (s *CronService) cleanupAuditLogsJob() {
	removed, err := s.auditSvc.CleanupOldAuditLogs(auditRetention)
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Failed to cleanup audit logs")
		return
	}
	s.logger.WithField("removed", removed).Info("[CRON] Cleaned up old audit logs")
}

// RunNow runs every job once, in schedule order
func (s *CronService) RunNow() {
	s.logger.Info("[MANUAL] Running all cron jobs now...")
	s.markDepartedJob()
	s.purgeCredentialsJob()
	s.cleanupAuditLogsJob()
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
