// internal/models/work_order.go
package models

import (
	"encoding/json"
	"time"
)

// WorkOrderState 작업 지시 상태
type WorkOrderState string

const (
	WorkOrderStateRegistered WorkOrderState = "registered"
	WorkOrderStatePending1   WorkOrderState = "pending1"
	WorkOrderStatePending2   WorkOrderState = "pending2"
	WorkOrderStateCompleted  WorkOrderState = "completed"
	WorkOrderStateCancelled  WorkOrderState = "cancelled"
)

// WorkOrder 픽업 → 배송 운반 작업
type WorkOrder struct {
	ID             string          `json:"id"`
	FromFacilityID string          `json:"fromFacilityId"`
	ToFacilityID   string          `json:"toFacilityId"`
	Level          int             `json:"level"`
	State          WorkOrderState  `json:"state"`
	CreatedAt      time.Time       `json:"createdAt"`
	Data           json.RawMessage `json:"data,omitempty"`
	FacilityID     string          `json:"facilityId,omitempty"`
}

// IsAssignable 배정 가능 여부 (registered 상태만)
func (w *WorkOrder) IsAssignable() bool {
	return w.State == WorkOrderStateRegistered
}

// WorkOrderRecord 작업 지시 영속 레코드 (DB 저장용)
type WorkOrderRecord struct {
	ID             string    `gorm:"primaryKey;size:64" json:"id"`
	FromFacilityID string    `gorm:"size:64;not null" json:"from_facility_id"`
	ToFacilityID   string    `gorm:"size:64;not null" json:"to_facility_id"`
	FacilityID     string    `gorm:"size:64;index" json:"facility_id"`
	Level          int       `gorm:"default:0" json:"level"`
	State          string    `gorm:"size:20;not null;index" json:"state"`
	Data           string    `gorm:"type:jsonb" json:"data"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToRecord DB 레코드로 변환
func (w *WorkOrder) ToRecord() *WorkOrderRecord {
	data := string(w.Data)
	if data == "" {
		data = "null"
	}
	return &WorkOrderRecord{
		ID:             w.ID,
		FromFacilityID: w.FromFacilityID,
		ToFacilityID:   w.ToFacilityID,
		FacilityID:     w.FacilityID,
		Level:          w.Level,
		State:          string(w.State),
		Data:           data,
		CreatedAt:      w.CreatedAt,
	}
}
