package dbschema

import (
	"veriscan.ai/verify-api-gateway/app/domain/quota"
	"veriscan.ai/verify-api-gateway/app/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(QuotaCounter{})
}

type QuotaCounter struct {
	BaseModel
	Identity string `gorm:"size:190;uniqueIndex:idx_quota_identity_day"`
	Day      string `gorm:"size:10;uniqueIndex:idx_quota_identity_day;index"`
	Consumed int
	DayLimit int
}

func (c *QuotaCounter) EtoD() *quota.Counter {
	return &quota.Counter{
		Identity: c.Identity,
		Day:      c.Day,
		Consumed: c.Consumed,
		Limit:    c.DayLimit,
	}
}
