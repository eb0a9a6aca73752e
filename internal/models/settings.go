// internal/models/settings.go
package models

// PriorityKey 후보 로봇 선정 기준
type PriorityKey string

const (
	PriorityBatteryLevel PriorityKey = "batteryLevel"
	PriorityDistance     PriorityKey = "distance"
)

// ParsePriorityKeys 알 수 없는 키는 제외하고 변환
func ParsePriorityKeys(raw []string) []PriorityKey {
	keys := make([]PriorityKey, 0, len(raw))
	for _, r := range raw {
		switch k := PriorityKey(r); k {
		case PriorityBatteryLevel, PriorityDistance:
			keys = append(keys, k)
		}
	}
	return keys
}

// ChargingSettings 충전 관련 전역 설정
type ChargingSettings struct {
	NewTaskMinBattery      int `json:"newTaskMinBattery"`
	ChargingTaskMinBattery int `json:"chargingTaskMinBattery"`
}

// AssignmentSettings 배정 관련 전역 설정
type AssignmentSettings struct {
	Priority []PriorityKey `json:"priority"`
}
