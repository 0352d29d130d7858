package dbschema

import (
	"encoding/json"
	"time"

	"veriscan.ai/verify-api-gateway/app/domain/verification"
	"veriscan.ai/verify-api-gateway/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(VerificationCache{})
}

type VerificationCache struct {
	BaseModel
	Key       string `gorm:"size:128;uniqueIndex"`
	Result    []byte `gorm:"type:jsonb"`
	CachedAt  time.Time
	ExpiresAt time.Time `gorm:"index"`
	HitCount  uint
	LastHitAt *time.Time
}

func NewSchemaVerificationCache(e *verification.CacheEntry) (*VerificationCache, error) {
	result, err := json.Marshal(e.Result)
	if err != nil {
		return nil, err
	}
	return &VerificationCache{
		Key:       e.Key,
		Result:    result,
		CachedAt:  e.CachedAt,
		ExpiresAt: e.ExpiresAt,
		HitCount:  e.HitCount,
		LastHitAt: e.LastHitAt,
	}, nil
}

func (c *VerificationCache) EtoD() (*verification.CacheEntry, error) {
	var result verification.VerificationResult
	if err := json.Unmarshal(c.Result, &result); err != nil {
		return nil, err
	}
	return &verification.CacheEntry{
		ID:        c.ID,
		Key:       c.Key,
		Result:    result,
		CachedAt:  c.CachedAt,
		ExpiresAt: c.ExpiresAt,
		HitCount:  c.HitCount,
		LastHitAt: c.LastHitAt,
	}, nil
}
