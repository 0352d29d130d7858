package cache

import (
	"veriscan.ai/verify-api-gateway/app/utils/logger"
	"veriscan.ai/verify-api-gateway/config/environment_variables"
)

// NewCacheService creates a cache service based on configuration
func NewCacheService() CacheService {
	if environment_variables.EnvironmentVariables.REDIS_URL == "" {
		logger.GetLogger().Warn("REDIS_URL not set, running with no-op cache service")
		return &NoOpCacheService{}
	}
	return NewRedisCacheService()
}
