package verify

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"veriscan.ai/verify-api-gateway/app/domain/auth"
	"veriscan.ai/verify-api-gateway/app/domain/quota"
	"veriscan.ai/verify-api-gateway/app/domain/verification"
	"veriscan.ai/verify-api-gateway/app/interfaces/http/middleware"
	"veriscan.ai/verify-api-gateway/app/interfaces/http/responses"
	"veriscan.ai/verify-api-gateway/app/utils/logger"
)

type VerifyRoute struct {
	verificationService *verification.VerificationService
	quotaService        *quota.QuotaService
}

func NewVerifyRoute(
	verificationService *verification.VerificationService,
	quotaService *quota.QuotaService,
) *VerifyRoute {
	return &VerifyRoute{
		verificationService,
		quotaService,
	}
}

func (route *VerifyRoute) RegisterRouter(router gin.IRouter) {
	verifyRouter := router.Group("", middleware.IdentityMiddleware())
	verifyRouter.POST("/verify", route.Verify)
	verifyRouter.GET("/quota", route.GetQuota)
}

type VerifyRequest struct {
	Content string `json:"content" binding:"required"`
	Kind    string `json:"kind"`
}

type VerifyResponse struct {
	Object string                          `json:"object"`
	Status string                          `json:"status"`
	Cached bool                            `json:"cached"`
	Result *verification.VerificationResult `json:"result,omitempty"`
	Reason string                          `json:"reason,omitempty"`
}

// Verify godoc
// @Summary     Verify a piece of content
// @Description Runs the fact-checking pipeline against the submitted text or URL, serving cached verdicts when available.
// @Tags        verify
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body VerifyRequest true "content to verify"
// @Success     200 {object} VerifyResponse "verdict"
// @Failure     400 {object} responses.ErrorResponse "invalid payload"
// @Failure     429 {object} VerifyResponse "daily quota exhausted"
// @Failure     502 {object} VerifyResponse "pipeline failure"
// @Router      /v1/verify [post]
func (route *VerifyRoute) Verify(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var request VerifyRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "3f1de3a4-9e0c-4b62-8a6f-74cf1f0d6b11",
			Error: "Invalid request payload",
		})
		return
	}

	kind, ok := parseContentKind(request.Kind)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusBadRequest, responses.ErrorResponse{
			Code:  "8f6b2a0e-5c1d-4e9a-b3f7-2d8e4a6c9f01",
			Error: "kind must be 'text' or 'url'",
		})
		return
	}

	outcome := route.verificationService.Verify(ctx, verification.VerifyRequest{
		Content:   request.Content,
		Kind:      kind,
		Identity:  reqCtx.GetString(auth.ContextIdentity),
		IsPremium: reqCtx.GetBool(auth.ContextPremium),
	})

	switch outcome.Status {
	case verification.OutcomeDenied:
		reqCtx.JSON(http.StatusTooManyRequests, VerifyResponse{
			Object: "verification",
			Status: string(outcome.Status),
			Reason: outcome.Reason,
		})
	case verification.OutcomeFailed:
		reqCtx.JSON(http.StatusBadGateway, VerifyResponse{
			Object: "verification",
			Status: string(outcome.Status),
			Reason: outcome.Reason,
		})
	default:
		reqCtx.JSON(http.StatusOK, VerifyResponse{
			Object: "verification",
			Status: string(outcome.Status),
			Cached: outcome.Status == verification.OutcomeHit,
			Result: outcome.Result,
		})
	}
}

type QuotaResponse struct {
	Object    string `json:"object"`
	Identity  string `json:"identity"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Premium   bool   `json:"premium"`
}

// GetQuota godoc
// @Summary     Get remaining daily quota
// @Description Returns how many fresh verification runs the caller has left today. Premium callers report an unlimited quota.
// @Tags        verify
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} QuotaResponse "quota state"
// @Router      /v1/quota [get]
func (route *VerifyRoute) GetQuota(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity := reqCtx.GetString(auth.ContextIdentity)
	premium := reqCtx.GetBool(auth.ContextPremium)

	remaining, err := route.quotaService.Remaining(ctx, identity, premium)
	if err != nil {
		logger.GetLogger().Errorf("verify route: failed to read quota for %s: %v", identity, err)
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, responses.ErrorResponse{
			Code:  "7e3c5f91-2d84-4b07-a6e8-f0b1d9c2a355",
			Error: "failed to read quota",
		})
		return
	}

	limit := route.quotaService.Limit()
	if premium {
		limit = quota.Unlimited
	}
	reqCtx.JSON(http.StatusOK, QuotaResponse{
		Object:    "quota",
		Identity:  identity,
		Limit:     limit,
		Remaining: remaining,
		Premium:   premium,
	})
}

func parseContentKind(kind string) (verification.ContentKind, bool) {
	switch kind {
	case "", "text":
		return verification.KindText, true
	case "url":
		return verification.KindURL, true
	default:
		return "", false
	}
}
