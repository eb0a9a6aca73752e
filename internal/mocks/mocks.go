// internal/mocks/mocks.go
package mocks

import (
	"context"
	"fleet-orchestrator/internal/interfaces"
	"fleet-orchestrator/internal/models"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// =============================================================================
// Config
// =============================================================================

type MockConfigProvider struct {
	JobTopicPrefix  string
	StatusTopic     string
	AlarmToggles    []string
	DefaultPriority []models.PriorityKey
	CycleInterval   time.Duration
	HTTPPort        string
	LogLevel        string
	Timeout         time.Duration
}

func NewMockConfigProvider() *MockConfigProvider {
	return &MockConfigProvider{
		JobTopicPrefix:  "fleet/v1",
		StatusTopic:     "fleet/v1/+/status",
		AlarmToggles:    []string{models.AlarmTypeError, models.AlarmTypeEmergencyButton},
		DefaultPriority: []models.PriorityKey{models.PriorityBatteryLevel, models.PriorityDistance},
		CycleInterval:   time.Second,
		LogLevel:        "debug",
		Timeout:         30 * time.Second,
	}
}

func (m *MockConfigProvider) GetJobTopicPrefix() string                { return m.JobTopicPrefix }
func (m *MockConfigProvider) GetStatusTopic() string                   { return m.StatusTopic }
func (m *MockConfigProvider) GetAlarmToggles() []string                { return m.AlarmToggles }
func (m *MockConfigProvider) GetDefaultPriority() []models.PriorityKey { return m.DefaultPriority }
func (m *MockConfigProvider) GetCycleInterval() time.Duration          { return m.CycleInterval }
func (m *MockConfigProvider) GetHTTPPort() string                      { return m.HTTPPort }
func (m *MockConfigProvider) GetLogLevel() string                      { return m.LogLevel }
func (m *MockConfigProvider) GetTimeout() time.Duration                { return m.Timeout }

// =============================================================================
// Database
// =============================================================================

type MockDatabaseService struct {
	mu         sync.Mutex
	Alarms     []models.Alarm
	Histories  map[string]models.ChargeHistory
	WorkOrders map[string]models.WorkOrderRecord

	// AlarmErr 설정 시 RegisterAlarm / ClearAlarm 이 이 오류를 반환
	AlarmErr error
}

func NewMockDatabaseService() *MockDatabaseService {
	return &MockDatabaseService{
		Histories:  make(map[string]models.ChargeHistory),
		WorkOrders: make(map[string]models.WorkOrderRecord),
	}
}

func (m *MockDatabaseService) RegisterAlarm(alarm *models.Alarm) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AlarmErr != nil {
		return m.AlarmErr
	}
	alarm.ID = uint(len(m.Alarms) + 1)
	alarm.Active = true
	if alarm.RaisedAt.IsZero() {
		alarm.RaisedAt = time.Now()
	}
	m.Alarms = append(m.Alarms, *alarm)
	return nil
}

func (m *MockDatabaseService) ClearAlarm(facilityID, alarmType string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AlarmErr != nil {
		return 0, m.AlarmErr
	}
	var rows int64
	now := time.Now()
	for i := range m.Alarms {
		a := &m.Alarms[i]
		if a.FacilityID == facilityID && a.AlarmType == alarmType && a.Active {
			a.Active = false
			a.ClearedAt = &now
			rows++
		}
	}
	return rows, nil
}

func (m *MockDatabaseService) ListActiveAlarms(facilityID string) ([]models.Alarm, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]models.Alarm, 0)
	for _, a := range m.Alarms {
		if a.FacilityID == facilityID && a.Active {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *MockDatabaseService) RegisterChargeHistory(history *models.ChargeHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Histories[history.ID]; exists {
		return fmt.Errorf("duplicate charge history %s", history.ID)
	}
	m.Histories[history.ID] = *history
	return nil
}

func (m *MockDatabaseService) EditChargeHistory(history *models.ChargeHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Histories[history.ID] = *history
	return nil
}

func (m *MockDatabaseService) ListChargeHistories(facilityID string, limit int) ([]models.ChargeHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]models.ChargeHistory, 0)
	for _, h := range m.Histories {
		if h.FacilityID == facilityID {
			result = append(result, h)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockDatabaseService) UpsertWorkOrder(record *models.WorkOrderRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WorkOrders[record.ID] = *record
	return nil
}

// 테스트 헬퍼 메서드들

// AlarmsOf 설비의 알람 목록 (해제 포함)
func (m *MockDatabaseService) AlarmsOf(facilityID string) []models.Alarm {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]models.Alarm, 0)
	for _, a := range m.Alarms {
		if a.FacilityID == facilityID {
			result = append(result, a)
		}
	}
	return result
}

// =============================================================================
// Cache
// =============================================================================

type MockCacheService struct {
	mu       sync.Mutex
	hashData map[string]map[string]string
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		hashData: make(map[string]map[string]string),
	}
}

func (m *MockCacheService) HSet(ctx context.Context, key, field string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hashData[key] == nil {
		m.hashData[key] = make(map[string]string)
	}
	m.hashData[key][field] = fmt.Sprintf("%v", value)
	return nil
}

func (m *MockCacheService) HGet(ctx context.Context, key, field string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hash, ok := m.hashData[key]; ok {
		if value, ok := hash[field]; ok {
			return value, nil
		}
	}
	return "", interfaces.ErrCacheMiss
}

func (m *MockCacheService) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make(map[string]string)
	for field, value := range m.hashData[key] {
		result[field] = value
	}
	return result, nil
}

func (m *MockCacheService) HDel(ctx context.Context, key string, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hash, ok := m.hashData[key]; ok {
		for _, field := range fields {
			delete(hash, field)
		}
	}
	return nil
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return nil
}

// =============================================================================
// Message Publisher
// =============================================================================

type MockMessage struct {
	Topic   string
	Payload interface{}
}

type MockMessagePublisher struct {
	mu                sync.Mutex
	publishedMessages []MockMessage
	subscriptions     map[string]mqtt.MessageHandler
	connected         bool
}

func NewMockMessagePublisher() *MockMessagePublisher {
	return &MockMessagePublisher{
		publishedMessages: make([]MockMessage, 0),
		subscriptions:     make(map[string]mqtt.MessageHandler),
		connected:         true,
	}
}

func (m *MockMessagePublisher) Publish(topic string, qos byte, retained bool, payload interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedMessages = append(m.publishedMessages, MockMessage{Topic: topic, Payload: payload})
	return nil
}

func (m *MockMessagePublisher) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions[topic] = callback
	return nil
}

func (m *MockMessagePublisher) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *MockMessagePublisher) Disconnect(quiesce uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
}

func (m *MockMessagePublisher) GetPublishedMessages() []MockMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockMessage(nil), m.publishedMessages...)
}

func (m *MockMessagePublisher) Subscription(topic string) (mqtt.MessageHandler, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	handler, ok := m.subscriptions[topic]
	return handler, ok
}

// =============================================================================
// Job Submitter
// =============================================================================

type SubmittedJob struct {
	Title        string
	Target       models.JobTarget
	Instructions []models.Instruction
	Mode         string
	Metadata     map[string]interface{}
}

type MockJobSubmitter struct {
	mu   sync.Mutex
	jobs []SubmittedJob
	Err  error
}

func NewMockJobSubmitter() *MockJobSubmitter {
	return &MockJobSubmitter{}
}

func (m *MockJobSubmitter) SubmitJob(ctx context.Context, title string, target models.JobTarget, instructions []models.Instruction, mode string, metadata map[string]interface{}) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.jobs = append(m.jobs, SubmittedJob{
		Title:        title,
		Target:       target,
		Instructions: instructions,
		Mode:         mode,
		Metadata:     metadata,
	})
	return fmt.Sprintf("job-%d", len(m.jobs)), nil
}

func (m *MockJobSubmitter) Jobs() []SubmittedJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SubmittedJob(nil), m.jobs...)
}

// =============================================================================
// Logger
// =============================================================================

type MockLogger struct {
	mu   sync.Mutex
	logs []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{logs: make([]string, 0)}
}

func (m *MockLogger) add(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, line)
}

func (m *MockLogger) Debug(args ...interface{}) { m.add(fmt.Sprintf("DEBUG: %v", args)) }
func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.add(fmt.Sprintf("DEBUG: "+format, args...))
}
func (m *MockLogger) Info(args ...interface{}) { m.add(fmt.Sprintf("INFO: %v", args)) }
func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.add(fmt.Sprintf("INFO: "+format, args...))
}
func (m *MockLogger) Warn(args ...interface{}) { m.add(fmt.Sprintf("WARN: %v", args)) }
func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.add(fmt.Sprintf("WARN: "+format, args...))
}
func (m *MockLogger) Error(args ...interface{}) { m.add(fmt.Sprintf("ERROR: %v", args)) }
func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.add(fmt.Sprintf("ERROR: "+format, args...))
}
func (m *MockLogger) Fatal(args ...interface{}) { m.add(fmt.Sprintf("FATAL: %v", args)) }
func (m *MockLogger) Fatalf(format string, args ...interface{}) {
	m.add(fmt.Sprintf("FATAL: "+format, args...))
}

func (m *MockLogger) ContainsLog(substring string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, log := range m.logs {
		if strings.Contains(log, substring) {
			return true
		}
	}
	return false
}

func (m *MockLogger) GetLogs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.logs...)
}
