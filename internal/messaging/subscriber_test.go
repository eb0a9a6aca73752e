package messaging

import (
	"testing"

	"fleet-orchestrator/internal/config"
	"fleet-orchestrator/internal/mocks"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeAll(t *testing.T) {
	publisher := mocks.NewMockMessagePublisher()
	subscriber := NewSubscriber(publisher, mocks.NewMockLogger())

	called := false
	handler := func(client mqtt.Client, msg mqtt.Message) { called = true }

	err := subscriber.SubscribeAll([]Subscription{
		{Topic: "fleet/v1/+/status", QoS: 1, Description: "Robot status", Handler: handler},
	})
	require.NoError(t, err)

	registered, ok := publisher.Subscription("fleet/v1/+/status")
	require.True(t, ok)
	registered(nil, nil)
	assert.True(t, called)
}

func TestSubscribeAllRejectsMissingHandler(t *testing.T) {
	subscriber := NewSubscriber(mocks.NewMockMessagePublisher(), mocks.NewMockLogger())

	err := subscriber.SubscribeAll([]Subscription{{Topic: "fleet/v1/+/status"}})
	assert.Error(t, err)
}

func TestNewClientOptions(t *testing.T) {
	cfg := &config.Config{
		MQTTBroker:   "tcp://broker:1883",
		MQTTClientID: "FLEET_TEST",
		MQTTUsername: "user",
	}

	opts := NewClientOptions(cfg, mocks.NewMockLogger())

	require.Len(t, opts.Servers, 1)
	assert.Equal(t, "broker:1883", opts.Servers[0].Host)
	assert.Equal(t, "FLEET_TEST", opts.ClientID)
	assert.Equal(t, "user", opts.Username)
	assert.False(t, opts.Order)
	assert.True(t, opts.AutoReconnect)
}
