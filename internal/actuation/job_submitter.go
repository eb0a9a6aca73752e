// internal/actuation/job_submitter.go
package actuation

import (
	"context"
	"encoding/json"
	"fleet-orchestrator/internal/interfaces"
	"fleet-orchestrator/internal/models"
	"fmt"
	"time"
)

// GetJobTopic 로봇 작업 토픽
func GetJobTopic(prefix, code string) string {
	return fmt.Sprintf("%s/%s/job", prefix, code)
}

// MQTTJobSubmitter MQTT 로 로봇 작업을 발행하는 액추에이션 채널
type MQTTJobSubmitter struct {
	publisher   interfaces.MessagePublisher
	config      interfaces.ConfigProvider
	headerIDGen interfaces.HeaderIDGenerator
	uniqueIDGen interfaces.UniqueIDGenerator
	logger      interfaces.Logger
}

func NewMQTTJobSubmitter(
	publisher interfaces.MessagePublisher,
	config interfaces.ConfigProvider,
	headerIDGen interfaces.HeaderIDGenerator,
	uniqueIDGen interfaces.UniqueIDGenerator,
	logger interfaces.Logger,
) *MQTTJobSubmitter {
	return &MQTTJobSubmitter{
		publisher:   publisher,
		config:      config,
		headerIDGen: headerIDGen,
		uniqueIDGen: uniqueIDGen,
		logger:      logger,
	}
}

// SubmitJob 작업 메시지를 생성해 대상 로봇 토픽으로 발행 (응답은 기다리지 않음)
func (s *MQTTJobSubmitter) SubmitJob(
	ctx context.Context,
	title string,
	target models.JobTarget,
	instructions []models.Instruction,
	mode string,
	metadata map[string]interface{},
) (string, error) {
	if target.Code == "" {
		return "", fmt.Errorf("job target %q has no code", target.ID)
	}

	msg := &models.JobMessage{
		HeaderID:     s.headerIDGen.GetNextHeaderID(),
		Timestamp:    time.Now().Format(time.RFC3339Nano),
		JobID:        s.uniqueIDGen.GenerateUniqueID(),
		Title:        title,
		Target:       target,
		Mode:         mode,
		Instructions: instructions,
		Metadata:     metadata,
	}

	msgData, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job message: %w", err)
	}

	topic := GetJobTopic(s.config.GetJobTopicPrefix(), target.Code)
	if err := s.publisher.Publish(topic, 1, false, msgData); err != nil {
		return "", fmt.Errorf("failed to publish job %s to %s: %w", msg.JobID, topic, err)
	}

	s.logger.Infof("Job '%s' (%s) sent to %s with %d instruction(s)", title, msg.JobID, target.Code, len(instructions))
	return msg.JobID, nil
}
