package verification

import (
	"context"
	"encoding/json"
	"time"

	"veriscan.ai/verify-api-gateway/app/domain/query"
)

// VerificationStatus is the verdict of the classification pipeline.
type VerificationStatus string

const (
	StatusTrue          VerificationStatus = "TRUE"
	StatusFalse         VerificationStatus = "FALSE"
	StatusIndeterminate VerificationStatus = "INDETERMINATE"
	StatusError         VerificationStatus = "ERROR"
)

// Confidence qualifies how certain the pipeline is about its verdict.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// ContentKind tells the normalizer how to canonicalize a submission.
type ContentKind string

const (
	KindText ContentKind = "TEXT"
	KindURL  ContentKind = "URL"
)

// VerificationResult is the outcome of classifying one piece of content.
// SourceMeta is carried through opaquely; this subsystem never interprets it.
type VerificationResult struct {
	Status       VerificationStatus `json:"status"`
	Summary      string             `json:"summary"`
	RelatedFacts []string           `json:"related_facts,omitempty"`
	Confidence   Confidence         `json:"confidence,omitempty"`
	SourceMeta   json.RawMessage    `json:"source_meta,omitempty"`
}

// CacheEntry is a stored verification result together with its expiry and
// hit statistics. ExpiresAt is always strictly after CachedAt. ID is
// assigned by the repository and only used as a pagination cursor.
type CacheEntry struct {
	ID        uint
	Key       string
	Result    VerificationResult
	CachedAt  time.Time
	ExpiresAt time.Time
	HitCount  uint
	LastHitAt *time.Time
}

// CacheStats summarizes the cache for the admin surface.
type CacheStats struct {
	Entries   int64 `json:"entries"`
	TotalHits int64 `json:"total_hits"`
}

// CacheRepository is the durable-store contract for cache entries.
// FindByKey returns (nil, nil) when the key is absent; expiry is the
// service's concern, not the repository's. Delete and DeleteExpired are
// idempotent so concurrent sweepers are safe.
type CacheRepository interface {
	FindByKey(ctx context.Context, key string) (*CacheEntry, error)
	Upsert(ctx context.Context, entry *CacheEntry) error
	RegisterHit(ctx context.Context, key string, at time.Time) error
	Delete(ctx context.Context, key string) error
	DeleteExpired(ctx context.Context, before time.Time, batchSize int) (int64, error)
	List(ctx context.Context, pagination *query.Pagination) ([]*CacheEntry, int64, error)
	Stats(ctx context.Context) (*CacheStats, error)
}

// Classifier is the external verification pipeline. Implementations are
// slow and metered; callers must apply their own timeout. Failures and
// timeouts are reported as common.ErrPipelineFailure.
type Classifier interface {
	Classify(ctx context.Context, content string) (*VerificationResult, error)
}
