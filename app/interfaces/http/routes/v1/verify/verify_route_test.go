package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"veriscan.ai/verify-api-gateway/app/domain/auth"
	"veriscan.ai/verify-api-gateway/app/domain/quota"
	"veriscan.ai/verify-api-gateway/app/domain/verification"
	"veriscan.ai/verify-api-gateway/app/infrastructure/database/repository/quotarepo"
	"veriscan.ai/verify-api-gateway/app/infrastructure/database/repository/verificationcacherepo"
	"veriscan.ai/verify-api-gateway/config/environment_variables"
)

type staticClassifier struct {
	result *verification.VerificationResult
	err    error
}

func (c *staticClassifier) Classify(ctx context.Context, content string) (*verification.VerificationResult, error) {
	return c.result, c.err
}

func newTestRouter(t *testing.T, classifier verification.Classifier, limit int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	environment_variables.EnvironmentVariables.JWT_SECRET = []byte("test-secret")

	cacheService := verification.NewCacheService(verificationcacherepo.NewMemoryRepository())
	quotaService := quota.NewService(quotarepo.NewMemoryRepository(), limit)
	verificationService := verification.NewService(cacheService, quotaService, classifier, time.Second)

	router := gin.New()
	route := NewVerifyRoute(verificationService, quotaService)
	route.RegisterRouter(router.Group("/v1"))
	return router
}

func postVerify(router *gin.Engine, body map[string]any, headers map[string]string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/v1/verify", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestVerifyEndpointRequiresIdentity(t *testing.T) {
	router := newTestRouter(t, &staticClassifier{result: &verification.VerificationResult{Status: verification.StatusTrue}}, 3)

	w := postVerify(router, map[string]any{"content": "some claim"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyEndpointFreshThenHit(t *testing.T) {
	router := newTestRouter(t, &staticClassifier{result: &verification.VerificationResult{Status: verification.StatusFalse, Summary: "debunked"}}, 3)
	headers := map[string]string{"X-Device-ID": "device-1"}

	w := postVerify(router, map[string]any{"content": "Vaccine causes X"}, headers)
	require.Equal(t, http.StatusOK, w.Code)
	var resp VerifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "FRESH", resp.Status)
	require.False(t, resp.Cached)
	require.Equal(t, "debunked", resp.Result.Summary)

	w = postVerify(router, map[string]any{"content": "  vaccine   causes x "}, headers)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "HIT", resp.Status)
	require.True(t, resp.Cached)
}

func TestVerifyEndpointDeniesOverQuota(t *testing.T) {
	router := newTestRouter(t, &staticClassifier{result: &verification.VerificationResult{Status: verification.StatusTrue}}, 1)
	headers := map[string]string{"X-Device-ID": "device-2"}

	w := postVerify(router, map[string]any{"content": "first claim"}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = postVerify(router, map[string]any{"content": "second claim"}, headers)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var resp VerifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "DENIED", resp.Status)
	require.Equal(t, "QUOTA_EXHAUSTED", resp.Reason)
}

func TestVerifyEndpointPipelineFailure(t *testing.T) {
	router := newTestRouter(t, &staticClassifier{err: context.DeadlineExceeded}, 3)

	w := postVerify(router, map[string]any{"content": "a claim"}, map[string]string{"X-Device-ID": "device-3"})
	require.Equal(t, http.StatusBadGateway, w.Code)
	var resp VerifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "FAILED", resp.Status)
}

func TestVerifyEndpointValidation(t *testing.T) {
	router := newTestRouter(t, &staticClassifier{result: &verification.VerificationResult{Status: verification.StatusTrue}}, 3)
	headers := map[string]string{"X-Device-ID": "device-4"}

	w := postVerify(router, map[string]any{}, headers)
	require.Equal(t, http.StatusBadRequest, w.Code, "content is required")

	w = postVerify(router, map[string]any{"content": "x", "kind": "video"}, headers)
	require.Equal(t, http.StatusBadRequest, w.Code, "unknown kind is rejected")
}

func TestVerifyEndpointPremiumToken(t *testing.T) {
	router := newTestRouter(t, &staticClassifier{result: &verification.VerificationResult{Status: verification.StatusTrue}}, 1)

	token, err := auth.CreateJwtSignedString(auth.UserClaim{
		Premium: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)
	headers := map[string]string{"Authorization": "Bearer " + token}

	// Premium callers run fresh verifications past the non-premium limit.
	for _, content := range []string{"claim one", "claim two", "claim three"} {
		w := postVerify(router, map[string]any{"content": content}, headers)
		require.Equal(t, http.StatusOK, w.Code)
		var resp VerifyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, "FRESH", resp.Status)
	}
}

func TestVerifyEndpointRejectsBadToken(t *testing.T) {
	router := newTestRouter(t, &staticClassifier{result: &verification.VerificationResult{Status: verification.StatusTrue}}, 3)

	w := postVerify(router, map[string]any{"content": "claim"}, map[string]string{"Authorization": "Bearer not-a-token"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = postVerify(router, map[string]any{"content": "claim"}, map[string]string{"Authorization": "Token abc"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQuotaEndpoint(t *testing.T) {
	router := newTestRouter(t, &staticClassifier{result: &verification.VerificationResult{Status: verification.StatusTrue}}, 3)
	headers := map[string]string{"X-Device-ID": "device-5"}

	req := httptest.NewRequest(http.MethodGet, "/v1/quota", nil)
	req.Header.Set("X-Device-ID", "device-5")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp QuotaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "guest:device-5", resp.Identity)
	require.Equal(t, 3, resp.Limit)
	require.Equal(t, 3, resp.Remaining)
	require.False(t, resp.Premium)

	postVerify(router, map[string]any{"content": "a claim"}, headers)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Remaining)
}
