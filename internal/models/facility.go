// internal/models/facility.go
package models

import (
	"sort"
	"time"
)

// FacilityType 설비 종류
type FacilityType string

const (
	FacilityTypeRobot     FacilityType = "robot"
	FacilityTypeEquipment FacilityType = "equipment"
)

// FacilityStatus 설비 실시간 상태
type FacilityStatus string

const (
	FacilityStatusIdle       FacilityStatus = "idle"
	FacilityStatusBusy       FacilityStatus = "busy"
	FacilityStatusIdleOnHold FacilityStatus = "idle_on_hold"
)

// IsValid 정의된 상태인지 확인
func (s FacilityStatus) IsValid() bool {
	switch s {
	case FacilityStatusIdle, FacilityStatusBusy, FacilityStatusIdleOnHold:
		return true
	default:
		return false
	}
}

// Pose2D 2차원 위치 정보
type Pose2D struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Theta float64 `json:"theta"`
}

// Facility 로봇 또는 고정 설비
type Facility struct {
	ID              string       `json:"id"`
	Code            string       `json:"code"`
	Type            FacilityType `json:"type"`
	FacilityGroupID string       `json:"facilityGroupId,omitempty"`
	ChargerID       string       `json:"chargerId,omitempty"`
	RealTime        RealTime     `json:"realTime"`
}

// RealTime 설비 실시간 스냅샷
type RealTime struct {
	Status       FacilityStatus  `json:"status"`
	BatteryLevel int             `json:"battery_level"`
	NowCharging  bool            `json:"now_charging"`
	Pose2D       *Pose2D         `json:"pose2d,omitempty"`
	StatusToggle map[string]bool `json:"status_toggle,omitempty"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// IsRobot 이동 로봇 여부
func (f *Facility) IsRobot() bool {
	return f.Type == FacilityTypeRobot
}

// ActiveToggles 활성화된 상태 토글 이름 목록 (정렬됨)
func (r RealTime) ActiveToggles() []string {
	active := make([]string, 0, len(r.StatusToggle))
	for name, on := range r.StatusToggle {
		if on {
			active = append(active, name)
		}
	}
	sort.Strings(active)
	return active
}

// FacilityGroup 설비 그룹 (구역 단위 부하 제한)
type FacilityGroup struct {
	ID          string   `json:"id"`
	Name        string   `json:"name,omitempty"`
	LoadRate    *float64 `json:"loadRate,omitempty"`
	FacilityIDs []string `json:"facilityIds"`
}

// DefaultLoadRate 그룹 부하율 기본값 (%)
const DefaultLoadRate = 100.0

// EffectiveLoadRate 설정이 없으면 기본값 반환
func (g *FacilityGroup) EffectiveLoadRate() float64 {
	if g == nil || g.LoadRate == nil {
		return DefaultLoadRate
	}
	return *g.LoadRate
}

// StatusMessage 설비 상태 피드 메시지 (MQTT)
type StatusMessage struct {
	HeaderID     int64           `json:"headerId"`
	Timestamp    string          `json:"timestamp"`
	FacilityID   string          `json:"facilityId"`
	Code         string          `json:"code"`
	Status       FacilityStatus  `json:"status"`
	BatteryLevel int             `json:"battery_level"`
	NowCharging  bool            `json:"now_charging"`
	Pose2D       *Pose2D         `json:"pose2d,omitempty"`
	StatusToggle map[string]bool `json:"status_toggle,omitempty"`
}
