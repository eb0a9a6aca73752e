// internal/models/charger.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// ChargerState 충전기 상태
type ChargerState string

const (
	ChargerStateStandby  ChargerState = "standby"
	ChargerStateCharging ChargerState = "charging"
	ChargerStateWaiting  ChargerState = "waiting"
)

// Charger 충전 스테이션
type Charger struct {
	ID           string       `json:"id"`
	Code         string       `json:"code"`
	State        ChargerState `json:"state"`
	Active       bool         `json:"active"`
	Emergency    bool         `json:"emergency"`
	DockingLocID string       `json:"dockingLocId,omitempty"`
	LocationID   string       `json:"locationId,omitempty"`
	Pose2D       *Pose2D      `json:"pose2d,omitempty"`
}

// IsStandby 대기 상태 여부
func (c *Charger) IsStandby() bool {
	return c.State == ChargerStateStandby
}

// RequiresDocking 도킹 위치 경유 필요 여부
func (c *Charger) RequiresDocking() bool {
	return c.DockingLocID != ""
}

// ChargeHistory 충전 세션 (상태 저장소의 진행 중 세션 + DB 이력 공용)
type ChargeHistory struct {
	ID           string         `gorm:"primaryKey;size:64" json:"id"`
	ChargerID    string         `gorm:"size:64;not null;index" json:"chargerId"`
	FacilityID   string         `gorm:"size:64;not null;index" json:"facilityId"`
	ChargerState ChargerState   `gorm:"size:20;not null" json:"chargerState"`
	StartBattery *int           `json:"startBattery"`
	EndBattery   *int           `json:"endBattery"`
	StartDate    *time.Time     `json:"startDate"`
	EndDate      *time.Time     `json:"endDate"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsStarted 충전 시작 여부
func (h *ChargeHistory) IsStarted() bool {
	return h.StartDate != nil
}
