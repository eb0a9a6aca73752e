package engine

import (
	"context"
	"fleet-orchestrator/internal/interfaces"
	"fleet-orchestrator/internal/models"
	"time"

	"github.com/looplab/fsm"
)

// 충전 세션 상태 / 이벤트
const (
	SessionWaiting  = "waiting"
	SessionCharging = "charging"
	SessionClosed   = "closed"

	eventStartCharging = "start_charging"
	eventStopCharging  = "stop_charging"
)

// ChargeHistoryTracker 로봇 상태 갱신으로 열린 충전 세션의 시작/종료를 기록
type ChargeHistoryTracker struct {
	store    StateStore
	database interfaces.DatabaseService
	logger   interfaces.Logger
	now      func() time.Time
}

func NewChargeHistoryTracker(store StateStore, database interfaces.DatabaseService, logger interfaces.Logger) *ChargeHistoryTracker {
	return &ChargeHistoryTracker{
		store:    store,
		database: database,
		logger:   logger,
		now:      time.Now,
	}
}

// sessionMachine 세션 1건에 대한 FSM. 갱신마다 세션 기록에서 현재 상태를 복원한다.
type sessionMachine struct {
	FSM     *fsm.FSM
	tracker *ChargeHistoryTracker
	robot   *models.Facility
	session *models.ChargeHistory
}

func (t *ChargeHistoryTracker) newSessionMachine(robot *models.Facility, session *models.ChargeHistory) *sessionMachine {
	sm := &sessionMachine{tracker: t, robot: robot, session: session}

	initial := SessionWaiting
	if session.IsStarted() {
		initial = SessionCharging
	}

	sm.FSM = fsm.NewFSM(
		initial,
		fsm.Events{
			{Name: eventStartCharging, Src: []string{SessionWaiting}, Dst: SessionCharging},
			{Name: eventStopCharging, Src: []string{SessionCharging}, Dst: SessionClosed},
		},
		fsm.Callbacks{
			"enter_state":    sm.onEnterState,
			"enter_charging": sm.onEnterCharging,
			"enter_closed":   sm.onEnterClosed,
		},
	)
	return sm
}

// Update 열린 세션이 있는 로봇의 now_charging 피드백을 세션 상태에 반영.
// 이미 시작된 세션에 대한 반복 충전 피드백은 아무것도 바꾸지 않는다.
func (t *ChargeHistoryTracker) Update(ctx context.Context, robot *models.Facility) (string, bool) {
	session, ok := t.store.OpenChargeSession(ctx, robot.ID)
	if !ok {
		return "", false
	}

	sm := t.newSessionMachine(robot, session)
	var event string
	switch {
	case robot.RealTime.NowCharging && sm.FSM.Is(SessionWaiting):
		event = eventStartCharging
	case !robot.RealTime.NowCharging && sm.FSM.Is(SessionCharging):
		event = eventStopCharging
	default:
		return sm.FSM.Current(), false
	}

	if err := sm.FSM.Event(ctx, event); err != nil {
		t.logger.Warnf("Charge session %s: event %s rejected: %v", session.ID, event, err)
		return sm.FSM.Current(), false
	}
	return sm.FSM.Current(), true
}

func (sm *sessionMachine) onEnterState(ctx context.Context, e *fsm.Event) {
	sm.tracker.logger.Infof("Charge session %s (robot %s): %s -> %s (Event: %s)",
		sm.session.ID, sm.robot.Code, e.Src, e.Dst, e.Event)
}

func (sm *sessionMachine) onEnterCharging(ctx context.Context, e *fsm.Event) {
	t := sm.tracker
	now := t.now()
	battery := sm.robot.RealTime.BatteryLevel

	sm.session.StartBattery = &battery
	sm.session.StartDate = &now
	sm.session.ChargerState = models.ChargerStateCharging
	sm.session.UpdatedAt = now

	t.mirrorCharger(ctx, sm.session.ChargerID, models.ChargerStateCharging)
	if err := t.store.SaveChargeSession(ctx, sm.session); err != nil {
		t.logger.Errorf("Charge session %s: failed to save start: %v", sm.session.ID, err)
	}
	if err := t.database.EditChargeHistory(sm.session); err != nil {
		t.logger.Warnf("Charge session %s: failed to persist start: %v", sm.session.ID, err)
	}
}

func (sm *sessionMachine) onEnterClosed(ctx context.Context, e *fsm.Event) {
	t := sm.tracker
	now := t.now()
	battery := sm.robot.RealTime.BatteryLevel

	sm.session.EndBattery = &battery
	sm.session.EndDate = &now
	sm.session.ChargerState = models.ChargerStateStandby
	sm.session.UpdatedAt = now

	t.mirrorCharger(ctx, sm.session.ChargerID, models.ChargerStateStandby)
	if err := t.database.EditChargeHistory(sm.session); err != nil {
		t.logger.Warnf("Charge session %s: failed to persist end: %v", sm.session.ID, err)
	}
	if err := t.store.DeleteChargeSession(ctx, sm.robot.ID); err != nil {
		t.logger.Errorf("Charge session %s: failed to delete open session: %v", sm.session.ID, err)
	}
	t.releaseRecentJob(ctx, sm.robot)
}

// releaseRecentJob 최근 작업이 충전이면 완료로 표시해 다음 충전 판단이 가능하게 한다
func (t *ChargeHistoryTracker) releaseRecentJob(ctx context.Context, robot *models.Facility) {
	recent, ok := t.store.RecentJob(ctx, robot.ID)
	if !ok || !recent.IsCharge() {
		return
	}
	recent.Kind = models.JobKindChargeDone
	if err := t.store.SaveRecentJob(ctx, robot.ID, recent); err != nil {
		t.logger.Warnf("Robot %s: failed to release recent charge job: %v", robot.Code, err)
	}
}

func (t *ChargeHistoryTracker) mirrorCharger(ctx context.Context, chargerID string, state models.ChargerState) {
	charger, ok := t.store.Charger(ctx, chargerID)
	if !ok {
		t.logger.Warnf("Charger %s not found, cached state not updated", chargerID)
		return
	}
	charger.State = state
	if err := t.store.SaveCharger(ctx, charger); err != nil {
		t.logger.Warnf("Failed to update charger %s state: %v", chargerID, err)
	}
}
