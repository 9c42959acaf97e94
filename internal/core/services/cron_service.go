package services

import (
	"context"
	"time"

	"vpcs-backend/internal/adapters/persistence/repositories"
	"vpcs-backend/internal/config"
	"vpcs-backend/internal/pkg/format"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const cronJobTimeout = 2 * time.Minute

// CronService runs housekeeping jobs on a schedule
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
	cashflow         *CashflowService
	cfg              config.CronConfig
}

// NewCronService creates a new cron service
func NewCronService(refreshTokenRepo repositories.RefreshTokenRepository, cashflow *CashflowService, cfg config.CronConfig) *CronService {
	return &CronService{
		cron:             cron.New(cron.WithChain(cron.Recover(cronLogger{}))),
		refreshTokenRepo: refreshTokenRepo,
		cashflow:         cashflow,
		cfg:              cfg,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	jobs := []struct {
		name string
		spec string
		fn   func(context.Context)
	}{
		{"token-cleanup", s.cfg.TokenCleanupSpec, s.PurgeExpiredTokens},
		{"ledger-snapshot", s.cfg.LedgerSnapshotSpec, s.LogLedgerSnapshot},
	}

	for _, j := range jobs {
		if j.spec == "" {
			continue
		}
		fn := j.fn
		if _, err := s.cron.AddFunc(j.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), cronJobTimeout)
			defer cancel()
			fn(ctx)
		}); err != nil {
			config.LogError(config.GetLogger(), "cron", "Start", "Invalid schedule for "+j.name, j.spec, err)
			return err
		}
		config.GetLogger().WithFields(logrus.Fields{"job": j.name, "spec": j.spec}).Info("✅ Cron job scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	config.GetLogger().Info("🛑 Cron stopped")
}

// PurgeExpiredTokens deletes refresh tokens past their expiry
func (s *CronService) PurgeExpiredTokens(ctx context.Context) {
	n, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		config.LogError(config.GetLogger(), "cron", "PurgeExpiredTokens", "Error deleting expired tokens", nil, err)
		return
	}
	config.GetLogger().WithField("deleted", n).Info("✅ Expired refresh tokens purged")
}

// LogLedgerSnapshot logs the day's closing cash position
func (s *CronService) LogLedgerSnapshot(ctx context.Context) {
	sum, err := s.cashflow.Snapshot(ctx)
	if err != nil {
		config.LogError(config.GetLogger(), "cron", "LogLedgerSnapshot", "Error totalling ledger", nil, err)
		return
	}
	config.GetLogger().WithFields(logrus.Fields{
		"inflow":       format.INR(sum.TotalInflow),
		"outflow":      format.INR(sum.TotalOutflow),
		"cash_in_hand": format.INR(sum.CashInHand),
		"entries":      sum.Count,
	}).Info("📒 Ledger snapshot")
}

// cronLogger adapts logrus to cron.Logger
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	config.GetLogger().WithFields(kvFields(keysAndValues)).Debug(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	config.GetLogger().WithFields(kvFields(keysAndValues)).WithError(err).Error("❌ " + msg)
}

func kvFields(kv []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			f[k] = kv[i+1]
		}
	}
	return f
}
