// internal/messaging/subscriber.go
package messaging

import (
	"fleet-orchestrator/internal/interfaces"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Subscription 구독 토픽과 핸들러
type Subscription struct {
	Topic       string
	QoS         byte
	Description string
	Handler     mqtt.MessageHandler
}

// Subscriber MQTT 구독 관리자
type Subscriber struct {
	publisher interfaces.MessagePublisher
	logger    interfaces.Logger
}

// NewSubscriber 새 구독자 생성
func NewSubscriber(publisher interfaces.MessagePublisher, logger interfaces.Logger) *Subscriber {
	return &Subscriber{
		publisher: publisher,
		logger:    logger,
	}
}

// SubscribeAll 모든 토픽 구독. 하나라도 실패하면 중단.
func (s *Subscriber) SubscribeAll(subscriptions []Subscription) error {
	for _, sub := range subscriptions {
		if sub.Handler == nil {
			return fmt.Errorf("no handler for topic %s", sub.Topic)
		}
		if err := s.publisher.Subscribe(sub.Topic, sub.QoS, sub.Handler); err != nil {
			s.logger.Errorf("Subscription failed: %s - %v", sub.Topic, err)
			return fmt.Errorf("failed to subscribe to %s: %w", sub.Topic, err)
		}
		s.logger.Infof("Subscribed to %s (%s)", sub.Topic, sub.Description)
	}
	return nil
}
