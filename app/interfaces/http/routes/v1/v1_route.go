package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"veriscan.ai/verify-api-gateway/app/interfaces/http/routes/v1/admin"
	"veriscan.ai/verify-api-gateway/app/interfaces/http/routes/v1/verify"
	"veriscan.ai/verify-api-gateway/config"
)

type V1Route struct {
	verifyRoute *verify.VerifyRoute
	cacheRoute  *admin.CacheRoute
}

func NewV1Route(
	verifyRoute *verify.VerifyRoute,
	cacheRoute *admin.CacheRoute,
) *V1Route {
	return &V1Route{
		verifyRoute,
		cacheRoute,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)
	v1Route.verifyRoute.RegisterRouter(v1Router)
	v1Route.cacheRoute.RegisterRouter(v1Router)
}

// GetVersion godoc
// @Summary     Get API build version
// @Description Returns the current build version of the API server.
// @Tags        system
// @Produce     json
// @Success     200 {object} map[string]string "version info"
// @Router      /v1/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": config.Version,
	})
}
