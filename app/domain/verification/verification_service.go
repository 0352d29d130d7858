package verification

import (
	"context"
	"errors"
	"time"

	"veriscan.ai/verify-api-gateway/app/domain/common"
	"veriscan.ai/verify-api-gateway/app/domain/quota"
	"veriscan.ai/verify-api-gateway/app/utils/logger"
)

// OutcomeStatus is the caller-visible disposition of a verify request.
type OutcomeStatus string

const (
	OutcomeHit    OutcomeStatus = "HIT"
	OutcomeFresh  OutcomeStatus = "FRESH"
	OutcomeDenied OutcomeStatus = "DENIED"
	OutcomeFailed OutcomeStatus = "FAILED"
)

const ReasonQuotaExhausted = "QUOTA_EXHAUSTED"

type VerifyRequest struct {
	Content   string
	Kind      ContentKind
	Identity  string
	IsPremium bool
}

type VerifyOutcome struct {
	Status OutcomeStatus
	Result *VerificationResult
	Reason string
}

// VerificationService composes normalizer, cache, quota and coalescer in
// front of the classifier. Quota gates fresh pipeline executions only:
// cache hits and coalesced followers are never charged.
type VerificationService struct {
	cache      *CacheService
	quota      *quota.QuotaService
	classifier Classifier
	flights    *FlightGroup
	timeout    time.Duration
}

func NewService(cache *CacheService, quotaService *quota.QuotaService, classifier Classifier, timeout time.Duration) *VerificationService {
	return &VerificationService{
		cache:      cache,
		quota:      quotaService,
		classifier: classifier,
		flights:    NewFlightGroup(),
		timeout:    timeout,
	}
}

// Verify answers one verification request: cache lookup, quota reservation,
// coalesced classifier call, cache write-back. Callers only ever see the
// four outcome variants; nothing here panics the process.
func (s *VerificationService) Verify(ctx context.Context, req VerifyRequest) *VerifyOutcome {
	key := s.normalize(req)

	if entry, ok := s.cache.Lookup(ctx, key); ok {
		return &VerifyOutcome{Status: OutcomeHit, Result: &entry.Result}
	}

	allowed, err := s.quota.CheckAndReserve(ctx, req.Identity, req.IsPremium)
	if err != nil {
		return &VerifyOutcome{Status: OutcomeFailed, Reason: err.Error()}
	}
	if !allowed {
		return &VerifyOutcome{Status: OutcomeDenied, Reason: ReasonQuotaExhausted}
	}

	result, leader, err := s.flights.Do(ctx, key, func(flightCtx context.Context) (*VerificationResult, error) {
		classifyCtx, cancel := context.WithTimeout(flightCtx, s.timeout)
		defer cancel()
		return s.classifier.Classify(classifyCtx, req.Content)
	})

	if !leader {
		// No fresh pipeline execution happened on this caller's behalf,
		// so hand the reservation back and treat the shared outcome like
		// a cache-equivalent hit.
		s.releaseQuota(ctx, req)
		if err != nil {
			return &VerifyOutcome{Status: OutcomeFailed, Reason: err.Error()}
		}
		return &VerifyOutcome{Status: OutcomeHit, Result: result}
	}

	if err != nil {
		// Failed attempts are neither charged nor cached.
		s.releaseQuota(ctx, req)
		return &VerifyOutcome{Status: OutcomeFailed, Reason: classifyFailureReason(err)}
	}

	if storeErr := s.cache.Store(ctx, key, result); storeErr != nil {
		logger.GetLogger().Errorf("caching verification result failed for %s: %v", key, storeErr)
	}
	return &VerifyOutcome{Status: OutcomeFresh, Result: result}
}

// normalize derives the cache key, falling back to text normalization when
// a URL submission does not parse.
func (s *VerificationService) normalize(req VerifyRequest) string {
	key, err := NormalizeContent(req.Content, req.Kind)
	if err != nil {
		logger.GetLogger().Warnf("url normalization failed, falling back to text: %v", err)
		return NormalizeText(req.Content)
	}
	return key
}

func (s *VerificationService) releaseQuota(ctx context.Context, req VerifyRequest) {
	if req.IsPremium {
		return
	}
	if err := s.quota.Release(ctx, req.Identity); err != nil {
		logger.GetLogger().Warnf("quota release failed for %s: %v", req.Identity, err)
	}
}

func classifyFailureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "pipeline failure: classifier timed out"
	}
	if errors.Is(err, common.ErrPipelineFailure) {
		return err.Error()
	}
	return common.ErrPipelineFailure.Error() + ": " + err.Error()
}
