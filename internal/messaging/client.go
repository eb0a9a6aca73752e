// internal/messaging/client.go
package messaging

import (
	"fleet-orchestrator/internal/config"
	"fleet-orchestrator/internal/interfaces"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// NewClientOptions 브로커 연결 옵션.
// 로봇별 상태 핸들러가 서로를 기다리지 않도록 메시지 순서 보장을 끈다.
func NewClientOptions(cfg *config.Config, logger interfaces.Logger) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBroker)
	opts.SetClientID(cfg.MQTTClientID)
	opts.SetUsername(cfg.MQTTUsername)
	opts.SetPassword(cfg.MQTTPassword)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(10 * time.Second)
	opts.SetOrderMatters(false)

	// 연결 상태 콜백
	opts.SetOnConnectHandler(func(c mqtt.Client) {
		logger.Infof("MQTT client connected to %s", cfg.MQTTBroker)
	})
	opts.SetConnectionLostHandler(func(c mqtt.Client, err error) {
		logger.Errorf("MQTT connection lost: %v", err)
	})

	return opts
}

// NewMQTTClient 브로커에 연결된 클라이언트 생성
func NewMQTTClient(cfg *config.Config, logger interfaces.Logger) (mqtt.Client, error) {
	client := mqtt.NewClient(NewClientOptions(cfg, logger))

	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return client, nil
}
