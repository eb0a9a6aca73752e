package engine

import (
	"context"
	"fleet-orchestrator/internal/interfaces"
	"fleet-orchestrator/internal/models"
	"fmt"
	"sort"
	"time"
)

// AlarmDelta 한 번의 상태 갱신으로 발생/해제된 알람 타입
type AlarmDelta struct {
	Raised  []string
	Cleared []string
}

// IsEmpty 변경 없음 여부
func (d AlarmDelta) IsEmpty() bool {
	return len(d.Raised) == 0 && len(d.Cleared) == 0
}

// AlarmTracker 로봇의 상태 토글 집합을 직전 집합과 비교해 알람 발생/해제를 중복 없이 기록
type AlarmTracker struct {
	store    StateStore
	database interfaces.DatabaseService
	allowed  map[string]bool
	logger   interfaces.Logger
	now      func() time.Time
}

func NewAlarmTracker(store StateStore, database interfaces.DatabaseService, config interfaces.ConfigProvider, logger interfaces.Logger) *AlarmTracker {
	allowed := make(map[string]bool)
	for _, t := range config.GetAlarmToggles() {
		allowed[t] = true
	}
	return &AlarmTracker{
		store:    store,
		database: database,
		allowed:  allowed,
		logger:   logger,
		now:      time.Now,
	}
}

// Track previous 는 직전 스냅샷 (없으면 nil), current 는 방금 수신한 스냅샷
func (a *AlarmTracker) Track(ctx context.Context, previous, current *models.Facility) AlarmDelta {
	delta := AlarmDelta{}

	wasCharging := previous != nil && previous.RealTime.NowCharging
	if current.RealTime.NowCharging && !wasCharging {
		a.clear(current, models.AlarmTypeBattery)
	}

	next := a.filter(current.RealTime.ActiveToggles())
	stored, _ := a.store.StatusToggles(ctx, current.Code)
	raised, cleared := diffToggles(stored, next)

	// 저장 집합은 DB 에 반영된 결과 기준: 발생 실패 플래그는 빼고 해제 실패 플래그는 남겨 다음 갱신에서 재시도
	saved := make(map[string]bool, len(next))
	for _, t := range next {
		saved[t] = true
	}

	for _, t := range raised {
		alarm := &models.Alarm{
			FacilityID:   current.ID,
			FacilityCode: current.Code,
			AlarmType:    t,
			Message:      alarmMessage(current.Code, t),
			Blocking:     true,
			Active:       true,
			RaisedAt:     a.now(),
		}
		if err := a.database.RegisterAlarm(alarm); err != nil {
			a.logger.Errorf("Failed to register %s alarm for %s: %v", t, current.Code, err)
			delete(saved, t)
			continue
		}
		a.logger.Warnf("Alarm raised: %s", alarm.Message)
		delta.Raised = append(delta.Raised, t)
	}
	for _, t := range cleared {
		if !a.clear(current, t) {
			saved[t] = true
			continue
		}
		delta.Cleared = append(delta.Cleared, t)
	}

	toggles := make([]string, 0, len(saved))
	for t := range saved {
		toggles = append(toggles, t)
	}
	sort.Strings(toggles)
	if err := a.store.SaveStatusToggles(ctx, current.Code, toggles); err != nil {
		a.logger.Warnf("Failed to persist status toggles for %s: %v", current.Code, err)
	}
	return delta
}

func (a *AlarmTracker) filter(toggles []string) []string {
	kept := make([]string, 0, len(toggles))
	for _, t := range toggles {
		if a.allowed[t] {
			kept = append(kept, t)
		}
	}
	return kept
}

func (a *AlarmTracker) clear(facility *models.Facility, alarmType string) bool {
	rows, err := a.database.ClearAlarm(facility.ID, alarmType)
	if err != nil {
		a.logger.Errorf("Failed to clear %s alarm for %s: %v", alarmType, facility.Code, err)
		return false
	}
	if rows > 0 {
		a.logger.Infof("Alarm cleared: %s on %s (%d record(s))", alarmType, facility.Code, rows)
	}
	return true
}

// diffToggles 대칭 차집합. 개수가 같아도 항목 단위로 비교한다.
func diffToggles(previous, current []string) (raised, cleared []string) {
	prev := make(map[string]bool, len(previous))
	for _, t := range previous {
		prev[t] = true
	}
	cur := make(map[string]bool, len(current))
	for _, t := range current {
		cur[t] = true
		if !prev[t] {
			raised = append(raised, t)
		}
	}
	for _, t := range previous {
		if !cur[t] {
			cleared = append(cleared, t)
		}
	}
	sort.Strings(raised)
	sort.Strings(cleared)
	return raised, cleared
}

func alarmMessage(code, alarmType string) string {
	switch alarmType {
	case models.AlarmTypeError:
		return fmt.Sprintf("Robot %s reported an error", code)
	case models.AlarmTypeEmergencyButton:
		return fmt.Sprintf("Emergency button pressed on robot %s", code)
	default:
		return fmt.Sprintf("Robot %s raised %s", code, alarmType)
	}
}
