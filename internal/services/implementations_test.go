package services

import (
	"errors"
	"testing"
	"time"

	"fleet-orchestrator/internal/config"
	"fleet-orchestrator/internal/interfaces"
	"fleet-orchestrator/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissToSentinel(t *testing.T) {
	_, err := missToSentinel("", redis.Nil)
	assert.ErrorIs(t, err, interfaces.ErrCacheMiss)

	boom := errors.New("connection refused")
	_, err = missToSentinel("", boom)
	assert.ErrorIs(t, err, boom)

	value, err := missToSentinel("v", nil)
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}

func TestConfigProvider(t *testing.T) {
	provider := NewConfigProvider(&config.Config{
		StatusTopic:     "fleet/v1/+/status",
		JobTopicPrefix:  "fleet/v1",
		HTTPPort:        "8080",
		CycleInterval:   5 * time.Second,
		AlarmToggles:    []string{"error"},
		DefaultPriority: []string{"distance", "unknown", "batteryLevel"},
		Timeout:         30 * time.Second,
	})

	assert.Equal(t, "fleet/v1/+/status", provider.GetStatusTopic())
	assert.Equal(t, "fleet/v1", provider.GetJobTopicPrefix())
	assert.Equal(t, "8080", provider.GetHTTPPort())
	assert.Equal(t, 5*time.Second, provider.GetCycleInterval())
	assert.Equal(t, []string{"error"}, provider.GetAlarmToggles())
	assert.Equal(t, []models.PriorityKey{models.PriorityDistance, models.PriorityBatteryLevel}, provider.GetDefaultPriority())
}

func TestIDGenerators(t *testing.T) {
	headers := NewHeaderIDGenerator()
	assert.Equal(t, int64(1), headers.GetNextHeaderID())
	assert.Equal(t, int64(2), headers.GetNextHeaderID())

	ids := NewUniqueIDGenerator()
	first := ids.GenerateUniqueID()
	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, ids.GenerateUniqueID())
}
