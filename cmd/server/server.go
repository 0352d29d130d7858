package main

import (
	"context"
	"time"

	"github.com/mileusna/crontab"
	"veriscan.ai/verify-api-gateway/app/domain/cron"
	"veriscan.ai/verify-api-gateway/app/domain/quota"
	"veriscan.ai/verify-api-gateway/app/domain/verification"
	"veriscan.ai/verify-api-gateway/app/infrastructure/cache"
	"veriscan.ai/verify-api-gateway/app/infrastructure/classifier"
	"veriscan.ai/verify-api-gateway/app/infrastructure/database/repository/quotarepo"
	"veriscan.ai/verify-api-gateway/app/infrastructure/database/repository/verificationcacherepo"
	infradatabase "veriscan.ai/verify-api-gateway/app/infrastructure/database"
	"veriscan.ai/verify-api-gateway/app/interfaces/http"
	"veriscan.ai/verify-api-gateway/app/interfaces/http/routes/v1"
	"veriscan.ai/verify-api-gateway/app/interfaces/http/routes/v1/admin"
	"veriscan.ai/verify-api-gateway/app/interfaces/http/routes/v1/verify"
	"veriscan.ai/verify-api-gateway/app/utils/httpclients/serper"
	"veriscan.ai/verify-api-gateway/app/utils/logger"
	"veriscan.ai/verify-api-gateway/config/environment_variables"
)

type Application struct {
	HttpServer *http.HttpServer
}

func (application *Application) Start() {
	if err := application.HttpServer.Run(); err != nil {
		panic(err)
	}
}

func init() {
	environment_variables.EnvironmentVariables.LoadFromEnv()
	serper.Init()
}

func main() {
	env := environment_variables.EnvironmentVariables

	db, err := infradatabase.NewDB()
	if err != nil {
		panic(err)
	}
	kv := cache.NewCacheService()

	var cacheRepo verification.CacheRepository
	var quotaRepo quota.Repository
	if db != nil {
		cacheRepo = verificationcacherepo.NewVerificationCacheGormRepository(db)
		quotaRepo = quotarepo.NewQuotaGormRepository(db)
	} else {
		logger.GetLogger().Warn("no database configured, cache entries and quota counters are process-local")
		cacheRepo = verificationcacherepo.NewMemoryRepository()
		quotaRepo = quotarepo.NewMemoryRepository()
	}
	// Quota counters move to redis when it is available so that every
	// instance charges against the same daily ceiling.
	if _, ok := kv.(*cache.RedisCacheService); ok {
		quotaRepo = quotarepo.NewQuotaRedisRepository(kv)
	}

	cacheService := verification.NewCacheService(cacheRepo)
	quotaService := quota.NewService(quotaRepo, env.DAILY_VERIFY_LIMIT)
	openaiClassifier := classifier.NewOpenAIClassifier(serper.NewClient())
	verificationService := verification.NewService(
		cacheService,
		quotaService,
		openaiClassifier,
		time.Duration(env.CLASSIFY_TIMEOUT_SECONDS)*time.Second,
	)

	cronService := cron.NewService(cacheService, quotaService, kv)
	ctab := crontab.New()
	crontabContext := context.Background()
	cronService.Start(crontabContext, ctab)

	verifyRoute := verify.NewVerifyRoute(verificationService, quotaService)
	cacheRoute := admin.NewCacheRoute(cacheService)
	v1Route := v1.NewV1Route(verifyRoute, cacheRoute)

	application := Application{
		HttpServer: http.NewHttpServer(v1Route),
	}
	application.Start()
}
