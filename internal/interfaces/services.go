// internal/interfaces/services.go
package interfaces

import (
	"context"
	"errors"
	"fleet-orchestrator/internal/models"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ErrCacheMiss 캐시에 키/필드가 없음 (정상 상황)
var ErrCacheMiss = errors.New("cache: key not found")

// DatabaseService 영속 레코드 저장소 인터페이스
type DatabaseService interface {
	// Alarm 관련
	RegisterAlarm(alarm *models.Alarm) error
	ClearAlarm(facilityID, alarmType string) (int64, error)
	ListActiveAlarms(facilityID string) ([]models.Alarm, error)

	// ChargeHistory 관련
	RegisterChargeHistory(history *models.ChargeHistory) error
	EditChargeHistory(history *models.ChargeHistory) error
	ListChargeHistories(facilityID string, limit int) ([]models.ChargeHistory, error)

	// WorkOrder 관련
	UpsertWorkOrder(record *models.WorkOrderRecord) error
}

// CacheService Redis 공유 상태 저장소 인터페이스
type CacheService interface {
	// Hash operations
	HSet(ctx context.Context, key, field string, value interface{}) error
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error

	Ping(ctx context.Context) error
}

// MessagePublisher MQTT 메시지 발행 인터페이스
type MessagePublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) error
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) error
	IsConnected() bool
	Disconnect(quiesce uint)
}

// JobSubmitter 로봇 작업 지시 채널 인터페이스
type JobSubmitter interface {
	SubmitJob(ctx context.Context, title string, target models.JobTarget, instructions []models.Instruction, mode string, metadata map[string]interface{}) (string, error)
}

// ConfigProvider 설정 제공 인터페이스
type ConfigProvider interface {
	GetJobTopicPrefix() string
	GetStatusTopic() string
	GetAlarmToggles() []string
	GetDefaultPriority() []models.PriorityKey
	GetCycleInterval() time.Duration
	GetHTTPPort() string
	GetLogLevel() string
	GetTimeout() time.Duration
}

// Logger 로깅 인터페이스
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
}

// HeaderIDGenerator 헤더 ID 생성 인터페이스
type HeaderIDGenerator interface {
	GetNextHeaderID() int64
}

// UniqueIDGenerator 고유 ID 생성 인터페이스
type UniqueIDGenerator interface {
	GenerateUniqueID() string
}
