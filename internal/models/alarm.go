// internal/models/alarm.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// 알람 타입 상수
const (
	AlarmTypeBattery         = "battery"
	AlarmTypeError           = "error"
	AlarmTypeEmergencyButton = "emergency_button"
)

// Alarm 설비 알람 (DB 저장용)
type Alarm struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	FacilityID   string         `gorm:"size:64;not null;index" json:"facility_id"`
	FacilityCode string         `gorm:"size:64;index" json:"facility_code"`
	AlarmType    string         `gorm:"size:50;not null;index" json:"alarm_type"`
	Message      string         `gorm:"size:500" json:"message"`
	Blocking     bool           `gorm:"default:false" json:"blocking"`
	Active       bool           `gorm:"default:true;index" json:"active"`
	RaisedAt     time.Time      `gorm:"not null" json:"raised_at"`
	ClearedAt    *time.Time     `json:"cleared_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
