package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
	"veriscan.ai/verify-api-gateway/app/utils/logger"
	"veriscan.ai/verify-api-gateway/config/environment_variables"
)

var SchemaRegistry []interface{}

func RegisterSchemaForAutoMigrate(models ...interface{}) {
	SchemaRegistry = append(SchemaRegistry, models...)
}

var DB *gorm.DB

// NewDB opens the durable store. Returns (nil, nil) when no DSN is
// configured; callers fall back to in-memory repositories.
func NewDB() (*gorm.DB, error) {
	writeDSN := environment_variables.EnvironmentVariables.DB_POSTGRESQL_WRITE_DSN
	if writeDSN == "" {
		logger.GetLogger().Warn("DB_POSTGRESQL_WRITE_DSN not set, running without durable store")
		return nil, nil
	}

	db, err := gorm.Open(postgres.Open(writeDSN), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		logger.GetLogger().
			WithField("error_code", "7f2f2a74-6e3c-4ab0-9184-3c2b07a4d111").
			Errorf("unable to connect to database: %v", err)
		return nil, err
	}

	if readDSN := environment_variables.EnvironmentVariables.DB_POSTGRESQL_READ1_DSN; readDSN != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(readDSN)},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			logger.GetLogger().
				WithField("error_code", "2b9a64b0-51d4-45a0-9a37-09f6a9a2a4ce").
				Errorf("unable to register read replica: %v", err)
			return nil, err
		}
	}

	for _, model := range SchemaRegistry {
		if err := db.AutoMigrate(model); err != nil {
			logger.GetLogger().
				WithField("error_code", "bb1b3d4e-b0de-4c3e-9d08-25d2f9c52b43").
				Errorf("failed to auto migrate schema %T: %v", model, err)
			return nil, err
		}
	}

	DB = db
	return DB, nil
}
