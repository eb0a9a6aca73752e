// internal/common/redis/keys.go
package redis

import (
	"fmt"
	"strings"
)

// Redis Hash Keys 공유 상태 저장소 해시 키
const (
	FacilityKey         = "facility"          // field: facility id
	FacilityGroupKey    = "facility_group"    // field: group id
	ChargerKey          = "charger"           // field: charger id
	SettingKey          = "setting"           // field: SettingField*
	WorkOrderKey        = "work_order"        // field: work order id
	ChargeHistoryKey    = "charge_history"    // field: facility id (진행 중 세션)
	StatusToggleKey     = "status_toggle"     // field: facility code
	RecentJobKey        = "recent_job"        // field: facility id
	RouteInstructionKey = "route_instruction" // field: RouteInstructionField
)

// Setting Hash Fields 설정 필드
const (
	SettingFieldCharging   = "charging"
	SettingFieldAssignment = "assignment"
)

// RouteInstructionPattern 로봇 → 설비 경로 지시 필드 패턴
const RouteInstructionPattern = "%s:%s"

// RouteInstructionField 로봇 기준 대상 설비 경로 지시 필드 생성
func RouteInstructionField(robotID, facilityID string) string {
	return fmt.Sprintf(RouteInstructionPattern, robotID, facilityID)
}

// ParseRouteInstructionField 필드에서 로봇 ID 와 설비 ID 추출
func ParseRouteInstructionField(field string) (robotID, facilityID string, ok bool) {
	parts := strings.SplitN(field, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// KeyType 키 타입 정의
type KeyType string

const (
	KeyTypeFacility         KeyType = FacilityKey
	KeyTypeFacilityGroup    KeyType = FacilityGroupKey
	KeyTypeCharger          KeyType = ChargerKey
	KeyTypeSetting          KeyType = SettingKey
	KeyTypeWorkOrder        KeyType = WorkOrderKey
	KeyTypeChargeHistory    KeyType = ChargeHistoryKey
	KeyTypeStatusToggle     KeyType = StatusToggleKey
	KeyTypeRecentJob        KeyType = RecentJobKey
	KeyTypeRouteInstruction KeyType = RouteInstructionKey
)

// GetKeyType 키에서 타입 추출
func GetKeyType(key string) KeyType {
	switch KeyType(key) {
	case KeyTypeFacility, KeyTypeFacilityGroup, KeyTypeCharger, KeyTypeSetting,
		KeyTypeWorkOrder, KeyTypeChargeHistory, KeyTypeStatusToggle,
		KeyTypeRecentJob, KeyTypeRouteInstruction:
		return KeyType(key)
	default:
		return ""
	}
}
