// internal/handlers/status.go
package handlers

import (
	"context"
	"encoding/json"
	"fleet-orchestrator/internal/engine"
	"fleet-orchestrator/internal/interfaces"
	"fleet-orchestrator/internal/models"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// StatusProcessor 상태 메시지 처리기 (engine.Engine 이 구현)
type StatusProcessor interface {
	HandleStatus(ctx context.Context, msg *models.StatusMessage) (*engine.StatusResult, error)
}

// =============================================================================
// Status Handler
// =============================================================================

type StatusHandler struct {
	processor StatusProcessor
	config    interfaces.ConfigProvider
	logger    interfaces.Logger
}

func NewStatusHandler(
	processor StatusProcessor,
	config interfaces.ConfigProvider,
	logger interfaces.Logger,
) *StatusHandler {
	return &StatusHandler{
		processor: processor,
		config:    config,
		logger:    logger,
	}
}

// HandleStatus fleet/v1/{code}/status 메시지 처리
func (h *StatusHandler) HandleStatus(client mqtt.Client, msg mqtt.Message) {
	var status models.StatusMessage
	if err := json.Unmarshal(msg.Payload(), &status); err != nil {
		h.logger.Errorf("Failed to parse status message on %s: %v", msg.Topic(), err)
		return
	}
	if status.Code == "" {
		status.Code = CodeFromTopic(msg.Topic())
	}
	if status.FacilityID == "" {
		h.logger.Warnf("Status message from %s has no facility id, dropped", status.Code)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.GetTimeout())
	defer cancel()

	result, err := h.processor.HandleStatus(ctx, &status)
	if err != nil {
		h.logger.Warnf("Status update for %s abandoned: %v", status.FacilityID, err)
		return
	}

	h.logger.Debugf("Status processed: facility=%s status=%s battery=%d charging=%v",
		status.FacilityID, status.Status, status.BatteryLevel, status.NowCharging)
	if result.Charge != nil {
		h.logger.Infof("Facility %s sent to charger %s", status.FacilityID, result.Charge.Selection.Charger.ID)
	}
}

// CodeFromTopic 토픽 끝에서 두 번째 세그먼트 (fleet/v1/{code}/status)
func CodeFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}
