package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// MQTT
	MQTTBroker     string
	MQTTClientID   string
	MQTTUsername   string
	MQTTPassword   string
	StatusTopic    string
	JobTopicPrefix string

	// HTTP
	HTTPPort string

	// Engine
	CycleInterval   time.Duration
	AlarmToggles    []string
	DefaultPriority []string

	// Application
	LogLevel       string
	TimeoutSeconds int
	Timeout        time.Duration
}

func Load() (*Config, error) {
	// .env 파일 로드 (없으면 환경변수만 사용)
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	timeoutSeconds, err := strconv.Atoi(getEnv("TIMEOUT_SECONDS", "30"))
	if err != nil || timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	cycleSeconds, err := strconv.Atoi(getEnv("CYCLE_INTERVAL_SECONDS", "5"))
	if err != nil || cycleSeconds <= 0 {
		cycleSeconds = 5
	}

	return &Config{
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "password"),
		DBName:          getEnv("DB_NAME", "fleet"),
		RedisHost:       getEnv("REDIS_HOST", "localhost"),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         redisDB,
		MQTTBroker:      getEnv("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTClientID:    getEnv("MQTT_CLIENT_ID", "FLEET_ORCHESTRATOR"),
		MQTTUsername:    getEnv("MQTT_USERNAME", ""),
		MQTTPassword:    getEnv("MQTT_PASSWORD", ""),
		StatusTopic:     getEnv("STATUS_TOPIC", "fleet/v1/+/status"),
		JobTopicPrefix:  getEnv("JOB_TOPIC_PREFIX", "fleet/v1"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		CycleInterval:   time.Duration(cycleSeconds) * time.Second,
		AlarmToggles:    getEnvList("ALARM_TOGGLES", "error,emergency_button"),
		DefaultPriority: getEnvList("DEFAULT_PRIORITY", "batteryLevel,distance"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		TimeoutSeconds:  timeoutSeconds,
		Timeout:         time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList 콤마로 구분된 환경변수를 목록으로 파싱
func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	items := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
