package cron

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/mileusna/crontab"
	"veriscan.ai/verify-api-gateway/app/domain/quota"
	"veriscan.ai/verify-api-gateway/app/domain/verification"
	"veriscan.ai/verify-api-gateway/app/infrastructure/cache"
	"veriscan.ai/verify-api-gateway/app/utils/logger"
	"veriscan.ai/verify-api-gateway/config/environment_variables"
)

type CronService struct {
	CacheService *verification.CacheService
	QuotaService *quota.QuotaService
	KV           cache.CacheService
}

func NewService(cacheService *verification.CacheService, quotaService *quota.QuotaService, kv cache.CacheService) *CronService {
	return &CronService{
		CacheService: cacheService,
		QuotaService: quotaService,
		KV:           kv,
	}
}

func (cs *CronService) Start(ctx context.Context, ctab *crontab.Crontab) {
	cs.sweepExpiredEntries(ctx)

	ctab.AddJob(environment_variables.EnvironmentVariables.SWEEP_CRON_SPEC, func() {
		cs.sweepExpiredEntries(ctx)
	})
	ctab.AddJob("30 0 * * *", func() {
		cs.collectPastQuotaDays(ctx)
	})
	ctab.AddJob("* * * * *", func() {
		environment_variables.EnvironmentVariables.LoadFromEnv()
	})
}

func (cs *CronService) sweepExpiredEntries(ctx context.Context) {
	if cs == nil || cs.CacheService == nil {
		return
	}
	cs.withLock(cache.SweepLockKey, func() {
		removed, err := cs.CacheService.Sweep(ctx)
		if err != nil {
			logger.GetLogger().Warnf("cron service: cache sweep failed: %v", err)
			return
		}
		if removed > 0 {
			logger.GetLogger().Infof("cron service: swept %d expired cache entries", removed)
		}
	})
}

func (cs *CronService) collectPastQuotaDays(ctx context.Context) {
	if cs == nil || cs.QuotaService == nil {
		return
	}
	cs.withLock(cache.QuotaGCLockKey, func() {
		removed, err := cs.QuotaService.CollectPastDays(ctx)
		if err != nil {
			logger.GetLogger().Warnf("cron service: quota counter cleanup failed: %v", err)
			return
		}
		if removed > 0 {
			logger.GetLogger().Infof("cron service: removed %d stale quota counters", removed)
		}
	})
}

// withLock runs fn under a distributed mutex so only one instance performs
// the job. Backends without cross-process locking return a nil mutex and fn
// runs unguarded.
func (cs *CronService) withLock(name string, fn func()) {
	var mutex *redsync.Mutex
	if cs.KV != nil {
		mutex = cs.KV.NewMutex(name, redsync.WithExpiry(2*time.Minute))
	}
	if mutex == nil {
		fn()
		return
	}
	if err := mutex.Lock(); err != nil {
		logger.GetLogger().Debugf("cron service: %s held elsewhere, skipping", name)
		return
	}
	defer mutex.Unlock()
	fn()
}
