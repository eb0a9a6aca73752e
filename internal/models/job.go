// internal/models/job.go
package models

import "time"

// JobKind 로봇에 내려간 작업 종류
type JobKind string

const (
	JobKindTransport JobKind = "transport"
	JobKindCharge    JobKind = "charge"

	// JobKindChargeDone 충전 세션 종료 후의 충전 작업 (재충전 판단을 막지 않음)
	JobKindChargeDone JobKind = "charge_done"
)

// 작업 제목
const (
	JobTitlePickup   = "pickup"
	JobTitleDelivery = "delivery"
	JobTitleCharge   = "charge"
)

// 작업 실행 모드
const (
	JobModeSequential = "sequential"
	JobModeImmediate  = "immediate"
)

// InstructionAction 지시 단계 동작
type InstructionAction string

const (
	InstructionMove     InstructionAction = "move"
	InstructionWait     InstructionAction = "wait"
	InstructionCharge   InstructionAction = "charge"
	InstructionPickup   InstructionAction = "pickup"
	InstructionDelivery InstructionAction = "delivery"
)

// Instruction 로봇 지시 단계
type Instruction struct {
	Step   int                    `json:"step"`
	Action InstructionAction      `json:"action"`
	Target string                 `json:"target"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// JobTarget 작업 대상 로봇
type JobTarget struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// JobMessage 액추에이션 채널로 발행되는 작업 메시지
type JobMessage struct {
	HeaderID     int64                  `json:"headerId"`
	Timestamp    string                 `json:"timestamp"`
	JobID        string                 `json:"jobId"`
	Title        string                 `json:"title"`
	Target       JobTarget              `json:"target"`
	Mode         string                 `json:"mode"`
	Instructions []Instruction          `json:"instructions"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// RecentJob 로봇별 최근 작업 포인터
type RecentJob struct {
	JobID        string    `json:"jobId,omitempty"`
	Title        string    `json:"title"`
	Kind         JobKind   `json:"kind"`
	WorkOrderID  string    `json:"workOrderId,omitempty"`
	ChargerID    string    `json:"chargerId,omitempty"`
	DispatchedAt time.Time `json:"dispatchedAt"`
}

// IsCharge 충전 작업 여부
func (r *RecentJob) IsCharge() bool {
	return r != nil && r.Kind == JobKindCharge
}
