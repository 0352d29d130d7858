package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"veriscan.ai/verify-api-gateway/config/environment_variables"
)

var (
	log  *logrus.Logger
	once sync.Once
)

// GetLogger returns the process-wide logrus instance.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		log = logrus.New()
		log.SetOutput(os.Stdout)
		log.SetFormatter(&logrus.JSONFormatter{})
		level, err := logrus.ParseLevel(environment_variables.EnvironmentVariables.LOG_LEVEL)
		if err != nil {
			level = logrus.InfoLevel
		}
		log.SetLevel(level)
	})
	return log
}
