package admin

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"veriscan.ai/verify-api-gateway/app/domain/query"
	"veriscan.ai/verify-api-gateway/app/domain/verification"
	"veriscan.ai/verify-api-gateway/app/interfaces/http/responses"
	"veriscan.ai/verify-api-gateway/app/utils/functional"
	"veriscan.ai/verify-api-gateway/app/utils/logger"
	"veriscan.ai/verify-api-gateway/config/environment_variables"
)

// CacheRoute exposes administrative cache operations.
type CacheRoute struct {
	cacheService *verification.CacheService
}

// NewCacheRoute constructs a CacheRoute instance.
func NewCacheRoute(cacheService *verification.CacheService) *CacheRoute {
	return &CacheRoute{
		cacheService: cacheService,
	}
}

// RegisterRouter wires the administrative cache endpoints.
func (route *CacheRoute) RegisterRouter(router gin.IRouter) {
	adminRouter := router.Group("/admin", AdminKeyMiddleware())

	adminRouter.POST("/cache/invalidate", route.InvalidateEntry)
	adminRouter.POST("/cache/sweep", route.SweepExpired)
	adminRouter.GET("/cache/entries", route.ListEntries)
	adminRouter.GET("/cache/stats", route.GetStats)
}

// AdminKeyMiddleware rejects requests that do not present the configured
// admin API key. Admin endpoints are disabled when no key is configured.
func AdminKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		adminKey := environment_variables.EnvironmentVariables.ADMIN_API_KEY
		presented := c.GetHeader("X-Admin-API-Key")
		if adminKey == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(adminKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{
				Code: "e8b4f2d6-0a19-4c73-b5e1-8d2c6f4a7903",
			})
			return
		}
		c.Next()
	}
}

type InvalidateRequest struct {
	Content string `json:"content" binding:"required"`
	Kind    string `json:"kind"`
}

// CacheOperationResponse represents the result of an administrative cache request.
type CacheOperationResponse struct {
	Object  string `json:"object"`
	Status  string `json:"status"`
	Removed int64  `json:"removed,omitempty"`
}

// InvalidateEntry godoc
// @Summary     Invalidate one cached verdict
// @Description Removes the cached verification result for the given content so the next request runs the pipeline again.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       request body InvalidateRequest true "content whose cache entry is removed"
// @Success     200 {object} CacheOperationResponse "entry removed"
// @Failure     400 {object} responses.ErrorResponse "invalid payload"
// @Router      /v1/admin/cache/invalidate [post]
func (route *CacheRoute) InvalidateEntry(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var request InvalidateRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "b0c4f1c8-2a3b-4ad4-8b1d-7a2124d7c7b1",
			Error: "Invalid request payload",
		})
		return
	}

	kind := verification.KindText
	if request.Kind == "url" {
		kind = verification.KindURL
	}
	key, err := verification.NormalizeContent(request.Content, kind)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "a1d5e8f2-7c36-4b90-8e4d-f62b3a9c0517",
			Error: err.Error(),
		})
		return
	}

	if err := route.cacheService.Invalidate(ctx, key); err != nil {
		logger.GetLogger().Errorf("admin cache: failed to invalidate %s: %v", key, err)
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code:  "f3c7a2b8-9d14-4e56-a0c3-5b8e1f6d2a94",
			Error: "failed to invalidate cache entry",
		})
		return
	}

	reqCtx.JSON(http.StatusOK, CacheOperationResponse{
		Object: "cache.invalidation",
		Status: "ok",
	})
}

// SweepExpired godoc
// @Summary     Sweep expired cache entries
// @Description Removes every cache entry whose TTL has elapsed. The sweeper cron runs this on a schedule; the endpoint triggers it on demand.
// @Tags        admin
// @Produce     json
// @Success     200 {object} CacheOperationResponse "sweep result"
// @Router      /v1/admin/cache/sweep [post]
func (route *CacheRoute) SweepExpired(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	removed, err := route.cacheService.Sweep(ctx)
	if err != nil {
		logger.GetLogger().Errorf("admin cache: sweep failed: %v", err)
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code:  "0d9b6e4a-3f82-41c7-95ab-c7e2d8f1b063",
			Error: "failed to sweep cache",
		})
		return
	}

	reqCtx.JSON(http.StatusOK, CacheOperationResponse{
		Object:  "cache.sweep",
		Status:  "ok",
		Removed: removed,
	})
}

// CacheEntrySummary is the admin-facing projection of one cache entry.
type CacheEntrySummary struct {
	ID        uint       `json:"id"`
	Key       string     `json:"key"`
	Status    string     `json:"status"`
	CachedAt  time.Time  `json:"cached_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	HitCount  uint       `json:"hit_count"`
	LastHitAt *time.Time `json:"last_hit_at,omitempty"`
}

// ListEntries godoc
// @Summary     List cached verdicts
// @Description Pages through stored cache entries by id cursor.
// @Tags        admin
// @Produce     json
// @Param       limit query int    false "page size"    default(20)
// @Param       after query int    false "id cursor"
// @Param       order query string false "asc or desc"  default(asc)
// @Success     200 {object} responses.ListResponse[CacheEntrySummary] "cache entries"
// @Failure     400 {object} responses.ErrorResponse "invalid pagination"
// @Router      /v1/admin/cache/entries [get]
func (route *CacheRoute) ListEntries(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	pagination, err := query.GetPaginationFromQuery(reqCtx)
	if err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "9c5e1a7f-4b28-4d63-8a0f-e3d6c2b9f148",
			Error: err.Error(),
		})
		return
	}

	entries, total, err := route.cacheService.List(ctx, pagination)
	if err != nil {
		logger.GetLogger().Errorf("admin cache: failed to list entries: %v", err)
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code:  "2b7d4f90-8e1c-4a35-b6d2-f9a0c5e3d817",
			Error: "failed to list cache entries",
		})
		return
	}

	results := functional.Map(entries, func(entry *verification.CacheEntry) CacheEntrySummary {
		return CacheEntrySummary{
			ID:        entry.ID,
			Key:       entry.Key,
			Status:    string(entry.Result.Status),
			CachedAt:  entry.CachedAt,
			ExpiresAt: entry.ExpiresAt,
			HitCount:  entry.HitCount,
			LastHitAt: entry.LastHitAt,
		}
	})
	reqCtx.JSON(http.StatusOK, responses.ListResponse[CacheEntrySummary]{
		Status:  "ok",
		Total:   total,
		Results: results,
	})
}

// CacheStatsResponse reports aggregate cache effectiveness counters.
type CacheStatsResponse struct {
	Object    string `json:"object"`
	Entries   int64  `json:"entries"`
	TotalHits int64  `json:"total_hits"`
}

// GetStats godoc
// @Summary     Get cache statistics
// @Description Returns the number of live cache entries and the total hits they have served.
// @Tags        admin
// @Produce     json
// @Success     200 {object} CacheStatsResponse "cache statistics"
// @Router      /v1/admin/cache/stats [get]
func (route *CacheRoute) GetStats(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	stats, err := route.cacheService.Stats(ctx)
	if err != nil {
		logger.GetLogger().Errorf("admin cache: failed to read stats: %v", err)
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code:  "6a2f8c1d-e5b9-4073-8f6e-1c4d7a9b2e58",
			Error: "failed to read cache stats",
		})
		return
	}

	reqCtx.JSON(http.StatusOK, CacheStatsResponse{
		Object:    "cache.stats",
		Entries:   stats.Entries,
		TotalHits: stats.TotalHits,
	})
}
