// internal/services/implementations.go
package services

import (
	"context"
	"errors"
	"fleet-orchestrator/internal/config"
	"fleet-orchestrator/internal/interfaces"
	"fleet-orchestrator/internal/models"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// =============================================================================
// Database Service Implementation
// =============================================================================

type DatabaseServiceImpl struct {
	db *gorm.DB
}

func NewDatabaseService(db *gorm.DB) interfaces.DatabaseService {
	return &DatabaseServiceImpl{db: db}
}

// Alarm 관련 메서드들
func (d *DatabaseServiceImpl) RegisterAlarm(alarm *models.Alarm) error {
	if alarm.RaisedAt.IsZero() {
		alarm.RaisedAt = time.Now()
	}
	alarm.Active = true
	return d.db.Create(alarm).Error
}

func (d *DatabaseServiceImpl) ClearAlarm(facilityID, alarmType string) (int64, error) {
	result := d.db.Model(&models.Alarm{}).
		Where("facility_id = ? AND alarm_type = ? AND active = ?", facilityID, alarmType, true).
		Updates(map[string]interface{}{
			"active":     false,
			"cleared_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (d *DatabaseServiceImpl) ListActiveAlarms(facilityID string) ([]models.Alarm, error) {
	var alarms []models.Alarm
	err := d.db.Where("facility_id = ? AND active = ?", facilityID, true).
		Order("raised_at DESC").Find(&alarms).Error
	return alarms, err
}

// ChargeHistory 관련 메서드들
func (d *DatabaseServiceImpl) RegisterChargeHistory(history *models.ChargeHistory) error {
	return d.db.Create(history).Error
}

func (d *DatabaseServiceImpl) EditChargeHistory(history *models.ChargeHistory) error {
	return d.db.Save(history).Error
}

func (d *DatabaseServiceImpl) ListChargeHistories(facilityID string, limit int) ([]models.ChargeHistory, error) {
	var histories []models.ChargeHistory
	query := d.db.Where("facility_id = ?", facilityID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&histories).Error
	return histories, err
}

// WorkOrder 관련 메서드들
func (d *DatabaseServiceImpl) UpsertWorkOrder(record *models.WorkOrderRecord) error {
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"state", "data", "facility_id", "updated_at"}),
	}).Create(record).Error
}

// =============================================================================
// Cache Service Implementation
// =============================================================================

type CacheServiceImpl struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) interfaces.CacheService {
	return &CacheServiceImpl{client: client}
}

func (c *CacheServiceImpl) HSet(ctx context.Context, key, field string, value interface{}) error {
	return c.client.HSet(ctx, key, field, value).Err()
}

func (c *CacheServiceImpl) HGet(ctx context.Context, key, field string) (string, error) {
	return missToSentinel(c.client.HGet(ctx, key, field).Result())
}

func (c *CacheServiceImpl) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return c.client.HGetAll(ctx, key).Result()
}

func (c *CacheServiceImpl) HDel(ctx context.Context, key string, fields ...string) error {
	return c.client.HDel(ctx, key, fields...).Err()
}

func (c *CacheServiceImpl) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// missToSentinel redis.Nil 을 ErrCacheMiss 로 변환
func missToSentinel(value string, err error) (string, error) {
	if errors.Is(err, redis.Nil) {
		return "", interfaces.ErrCacheMiss
	}
	return value, err
}

// =============================================================================
// Message Publisher Implementation
// =============================================================================

type MessagePublisherImpl struct {
	client mqtt.Client
}

func NewMessagePublisher(client mqtt.Client) interfaces.MessagePublisher {
	return &MessagePublisherImpl{client: client}
}

func (m *MessagePublisherImpl) Publish(topic string, qos byte, retained bool, payload interface{}) error {
	token := m.client.Publish(topic, qos, retained, payload)
	token.Wait()
	return token.Error()
}

func (m *MessagePublisherImpl) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) error {
	token := m.client.Subscribe(topic, qos, callback)
	token.Wait()
	return token.Error()
}

func (m *MessagePublisherImpl) IsConnected() bool {
	return m.client.IsConnected()
}

func (m *MessagePublisherImpl) Disconnect(quiesce uint) {
	m.client.Disconnect(quiesce)
}

// =============================================================================
// Config Provider Implementation
// =============================================================================

type ConfigProviderImpl struct {
	cfg *config.Config
}

func NewConfigProvider(cfg *config.Config) interfaces.ConfigProvider {
	return &ConfigProviderImpl{cfg: cfg}
}

func (c *ConfigProviderImpl) GetJobTopicPrefix() string {
	return c.cfg.JobTopicPrefix
}

func (c *ConfigProviderImpl) GetStatusTopic() string {
	return c.cfg.StatusTopic
}

func (c *ConfigProviderImpl) GetAlarmToggles() []string {
	return c.cfg.AlarmToggles
}

func (c *ConfigProviderImpl) GetDefaultPriority() []models.PriorityKey {
	return models.ParsePriorityKeys(c.cfg.DefaultPriority)
}

func (c *ConfigProviderImpl) GetCycleInterval() time.Duration {
	return c.cfg.CycleInterval
}

func (c *ConfigProviderImpl) GetHTTPPort() string {
	return c.cfg.HTTPPort
}

func (c *ConfigProviderImpl) GetLogLevel() string {
	return c.cfg.LogLevel
}

func (c *ConfigProviderImpl) GetTimeout() time.Duration {
	return c.cfg.Timeout
}

// =============================================================================
// Logger Implementation
// =============================================================================

type LoggerImpl struct {
	logger *logrus.Logger
}

func NewLogger(level string) interfaces.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	switch level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "info":
		logger.SetLevel(logrus.InfoLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	return &LoggerImpl{logger: logger}
}

func (l *LoggerImpl) Debug(args ...interface{}) {
	l.logger.Debug(args...)
}

func (l *LoggerImpl) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

func (l *LoggerImpl) Info(args ...interface{}) {
	l.logger.Info(args...)
}

func (l *LoggerImpl) Infof(format string, args ...interface{}) {
	l.logger.Infof(format, args...)
}

func (l *LoggerImpl) Warn(args ...interface{}) {
	l.logger.Warn(args...)
}

func (l *LoggerImpl) Warnf(format string, args ...interface{}) {
	l.logger.Warnf(format, args...)
}

func (l *LoggerImpl) Error(args ...interface{}) {
	l.logger.Error(args...)
}

func (l *LoggerImpl) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

func (l *LoggerImpl) Fatal(args ...interface{}) {
	l.logger.Fatal(args...)
}

func (l *LoggerImpl) Fatalf(format string, args ...interface{}) {
	l.logger.Fatalf(format, args...)
}

// =============================================================================
// ID Generators Implementation
// =============================================================================

type HeaderIDGeneratorImpl struct {
	counter int64
}

func NewHeaderIDGenerator() interfaces.HeaderIDGenerator {
	return &HeaderIDGeneratorImpl{}
}

func (h *HeaderIDGeneratorImpl) GetNextHeaderID() int64 {
	return atomic.AddInt64(&h.counter, 1)
}

type UniqueIDGeneratorImpl struct{}

func NewUniqueIDGenerator() interfaces.UniqueIDGenerator {
	return &UniqueIDGeneratorImpl{}
}

func (u *UniqueIDGeneratorImpl) GenerateUniqueID() string {
	return uuid.New().String()
}
