package environment_variables

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
)

type EnvironmentVariable struct {
	API_PORT                 int
	DB_POSTGRESQL_WRITE_DSN  string
	DB_POSTGRESQL_READ1_DSN  string
	REDIS_URL                string
	REDIS_PASSWORD           string
	REDIS_DB                 string
	OPENAI_API_KEY           string
	OPENAI_BASE_URL          string
	OPENAI_MODEL             string
	SERPER_API_URL           string
	SERPER_API_KEY           string
	JWT_SECRET               []byte
	ADMIN_API_KEY            string
	ALLOWED_CORS_HOSTS       []string
	DAILY_VERIFY_LIMIT       int
	CLASSIFY_TIMEOUT_SECONDS int
	SWEEP_CRON_SPEC          string
	LOG_LEVEL                string
}

func (ev *EnvironmentVariable) LoadFromEnv() {
	v := reflect.ValueOf(ev).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		envKey := field.Name
		envValue := os.Getenv(envKey)
		if envValue == "" {
			fmt.Printf("Missing SYSENV: %s\n", envKey)
			continue
		}
		switch v.Field(i).Interface().(type) {
		case string:
			v.Field(i).SetString(envValue)
		case int:
			if n, err := strconv.Atoi(envValue); err == nil {
				v.Field(i).SetInt(int64(n))
			}
		case bool:
			if b, err := strconv.ParseBool(envValue); err == nil {
				v.Field(i).SetBool(b)
			}
		case []byte:
			v.Field(i).SetBytes([]byte(envValue))
		case []string:
			parts := strings.Split(envValue, ",")
			for j := range parts {
				parts[j] = strings.TrimSpace(parts[j])
			}
			v.Field(i).Set(reflect.ValueOf(parts))
		}
	}
	ev.applyDefaults()
}

func (ev *EnvironmentVariable) applyDefaults() {
	if ev.API_PORT == 0 {
		ev.API_PORT = 8080
	}
	if ev.OPENAI_MODEL == "" {
		ev.OPENAI_MODEL = "gpt-4o-mini"
	}
	if ev.DAILY_VERIFY_LIMIT == 0 {
		ev.DAILY_VERIFY_LIMIT = 3
	}
	if ev.CLASSIFY_TIMEOUT_SECONDS == 0 {
		ev.CLASSIFY_TIMEOUT_SECONDS = 60
	}
	if ev.SWEEP_CRON_SPEC == "" {
		ev.SWEEP_CRON_SPEC = "*/5 * * * *"
	}
}

// Singleton
var EnvironmentVariables = EnvironmentVariable{}
