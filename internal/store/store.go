// internal/store/store.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fleet-orchestrator/internal/interfaces"
	"fleet-orchestrator/internal/models"
	"fmt"
	"sort"

	keys "fleet-orchestrator/internal/common/redis"
)

// Store 공유 상태 저장소의 타입 지정 저장소.
// 조회 결과가 없거나 파싱에 실패하면 (nil, false) 를 반환하며 오류로 취급하지 않는다.
type Store struct {
	cache  interfaces.CacheService
	logger interfaces.Logger
}

// NewStore 새 상태 저장소 생성
func NewStore(cache interfaces.CacheService, logger interfaces.Logger) *Store {
	return &Store{cache: cache, logger: logger}
}

// =============================================================================
// Facility
// =============================================================================

func (s *Store) Facility(ctx context.Context, id string) (*models.Facility, bool) {
	var facility models.Facility
	if !s.getField(ctx, keys.FacilityKey, id, &facility) {
		return nil, false
	}
	return &facility, true
}

func (s *Store) Facilities(ctx context.Context) ([]models.Facility, bool) {
	return getAll[models.Facility](ctx, s, keys.FacilityKey)
}

func (s *Store) SaveFacility(ctx context.Context, facility *models.Facility) error {
	return s.setField(ctx, keys.FacilityKey, facility.ID, facility)
}

func (s *Store) FacilityGroups(ctx context.Context) (map[string]models.FacilityGroup, bool) {
	groups, ok := getAll[models.FacilityGroup](ctx, s, keys.FacilityGroupKey)
	if !ok {
		return nil, false
	}
	byID := make(map[string]models.FacilityGroup, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}
	return byID, true
}

// =============================================================================
// Charger
// =============================================================================

func (s *Store) Charger(ctx context.Context, id string) (*models.Charger, bool) {
	if id == "" {
		return nil, false
	}
	var charger models.Charger
	if !s.getField(ctx, keys.ChargerKey, id, &charger) {
		return nil, false
	}
	return &charger, true
}

func (s *Store) Chargers(ctx context.Context) ([]models.Charger, bool) {
	return getAll[models.Charger](ctx, s, keys.ChargerKey)
}

func (s *Store) SaveCharger(ctx context.Context, charger *models.Charger) error {
	return s.setField(ctx, keys.ChargerKey, charger.ID, charger)
}

// =============================================================================
// Settings
// =============================================================================

func (s *Store) ChargingSettings(ctx context.Context) (*models.ChargingSettings, bool) {
	var settings models.ChargingSettings
	if !s.getField(ctx, keys.SettingKey, keys.SettingFieldCharging, &settings) {
		return nil, false
	}
	return &settings, true
}

func (s *Store) AssignmentSettings(ctx context.Context) (*models.AssignmentSettings, bool) {
	var settings models.AssignmentSettings
	if !s.getField(ctx, keys.SettingKey, keys.SettingFieldAssignment, &settings) {
		return nil, false
	}
	return &settings, true
}

// =============================================================================
// WorkOrder
// =============================================================================

func (s *Store) WorkOrders(ctx context.Context) ([]models.WorkOrder, bool) {
	return getAll[models.WorkOrder](ctx, s, keys.WorkOrderKey)
}

func (s *Store) SaveWorkOrder(ctx context.Context, order *models.WorkOrder) error {
	return s.setField(ctx, keys.WorkOrderKey, order.ID, order)
}

// RouteInstruction 로봇 위치 기준 대상 설비까지의 대기 지시 페이로드
func (s *Store) RouteInstruction(ctx context.Context, robotID, facilityID string) ([]models.Instruction, bool) {
	var instructions []models.Instruction
	if !s.getField(ctx, keys.RouteInstructionKey, keys.RouteInstructionField(robotID, facilityID), &instructions) {
		return nil, false
	}
	if len(instructions) == 0 {
		return nil, false
	}
	return instructions, true
}

func (s *Store) SaveRouteInstruction(ctx context.Context, robotID, facilityID string, instructions []models.Instruction) error {
	return s.setField(ctx, keys.RouteInstructionKey, keys.RouteInstructionField(robotID, facilityID), instructions)
}

// =============================================================================
// ChargeHistory (진행 중 세션)
// =============================================================================

func (s *Store) OpenChargeSession(ctx context.Context, facilityID string) (*models.ChargeHistory, bool) {
	var session models.ChargeHistory
	if !s.getField(ctx, keys.ChargeHistoryKey, facilityID, &session) {
		return nil, false
	}
	return &session, true
}

func (s *Store) SaveChargeSession(ctx context.Context, session *models.ChargeHistory) error {
	return s.setField(ctx, keys.ChargeHistoryKey, session.FacilityID, session)
}

func (s *Store) DeleteChargeSession(ctx context.Context, facilityID string) error {
	return s.cache.HDel(ctx, keys.ChargeHistoryKey, facilityID)
}

// =============================================================================
// Status toggle / Recent job
// =============================================================================

func (s *Store) StatusToggles(ctx context.Context, code string) ([]string, bool) {
	var toggles []string
	if !s.getField(ctx, keys.StatusToggleKey, code, &toggles) {
		return nil, false
	}
	return toggles, true
}

func (s *Store) SaveStatusToggles(ctx context.Context, code string, toggles []string) error {
	if toggles == nil {
		toggles = []string{}
	}
	return s.setField(ctx, keys.StatusToggleKey, code, toggles)
}

func (s *Store) RecentJob(ctx context.Context, facilityID string) (*models.RecentJob, bool) {
	var job models.RecentJob
	if !s.getField(ctx, keys.RecentJobKey, facilityID, &job) {
		return nil, false
	}
	return &job, true
}

func (s *Store) SaveRecentJob(ctx context.Context, facilityID string, job *models.RecentJob) error {
	return s.setField(ctx, keys.RecentJobKey, facilityID, job)
}

// =============================================================================
// helpers
// =============================================================================

func (s *Store) getField(ctx context.Context, key, field string, out interface{}) bool {
	raw, err := s.cache.HGet(ctx, key, field)
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			s.logger.Warnf("state store read %s/%s failed: %v", key, field, err)
		}
		return false
	}
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.Errorf("malformed value at %s/%s: %v", key, field, err)
		return false
	}
	return true
}

func (s *Store) setField(ctx context.Context, key, field string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s/%s: %w", key, field, err)
	}
	if err := s.cache.HSet(ctx, key, field, string(data)); err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", key, field, err)
	}
	return nil
}

// getAll 해시 전체 조회. 필드 순서로 정렬해 결정적인 결과를 반환한다.
func getAll[T any](ctx context.Context, s *Store, key string) ([]T, bool) {
	raw, err := s.cache.HGetAll(ctx, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			s.logger.Warnf("state store read %s failed: %v", key, err)
		}
		return nil, false
	}
	if len(raw) == 0 {
		return nil, false
	}

	fields := make([]string, 0, len(raw))
	for field := range raw {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	items := make([]T, 0, len(raw))
	for _, field := range fields {
		var item T
		if err := json.Unmarshal([]byte(raw[field]), &item); err != nil {
			s.logger.Errorf("malformed value at %s/%s: %v", key, field, err)
			continue
		}
		items = append(items, item)
	}
	return items, true
}
