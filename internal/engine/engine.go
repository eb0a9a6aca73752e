package engine

import (
	"context"
	"fleet-orchestrator/internal/interfaces"
	"fleet-orchestrator/internal/models"
	"fmt"
	"time"
)

// StatusResult 상태 갱신 1건의 처리 결과
type StatusResult struct {
	Alarms  AlarmDelta
	Charge  *ChargeDispatch
	Session string
	Cycle   CycleReport
}

// Engine 로봇 상태 갱신마다 알람 → 충전 판단 → 충전 이력 순으로 처리하고,
// 주기적으로 (그리고 갱신 직후) 배정 사이클을 실행한다.
type Engine struct {
	store      StateStore
	alarms     *AlarmTracker
	charging   *ChargingEngine
	history    *ChargeHistoryTracker
	dispatcher *Dispatcher
	config     interfaces.ConfigProvider
	logger     interfaces.Logger
}

// NewEngine 새 엔진 생성
func NewEngine(
	store StateStore,
	database interfaces.DatabaseService,
	jobs interfaces.JobSubmitter,
	idGen interfaces.UniqueIDGenerator,
	config interfaces.ConfigProvider,
	logger interfaces.Logger,
) *Engine {
	return &Engine{
		store:      store,
		alarms:     NewAlarmTracker(store, database, config, logger),
		charging:   NewChargingEngine(store, database, jobs, idGen, logger),
		history:    NewChargeHistoryTracker(store, database, logger),
		dispatcher: NewDispatcher(store, database, jobs, config, logger),
		config:     config,
		logger:     logger,
	}
}

// Dispatcher 배정 사이클 실행기
func (e *Engine) Dispatcher() *Dispatcher {
	return e.dispatcher
}

// TriggerCycle 배정 사이클을 즉시 1회 실행
func (e *Engine) TriggerCycle(ctx context.Context) CycleReport {
	return e.dispatcher.RunCycle(ctx)
}

// HandleStatus 로봇 상태 메시지 1건 처리. 등록되지 않은 설비면 오류 반환 후 처리 중단.
func (e *Engine) HandleStatus(ctx context.Context, msg *models.StatusMessage) (*StatusResult, error) {
	if msg.FacilityID == "" {
		return nil, fmt.Errorf("status message without facility id (code=%s)", msg.Code)
	}
	if msg.Status != "" && !msg.Status.IsValid() {
		return nil, fmt.Errorf("facility %s: unknown status %q", msg.FacilityID, msg.Status)
	}

	previous, ok := e.store.Facility(ctx, msg.FacilityID)
	if !ok {
		return nil, fmt.Errorf("facility %s not found in state store", msg.FacilityID)
	}

	current := applyStatus(*previous, msg)
	if err := e.store.SaveFacility(ctx, &current); err != nil {
		e.logger.Warnf("Facility %s: failed to save snapshot: %v", current.Code, err)
	}

	result := &StatusResult{}
	if current.IsRobot() {
		result.Alarms = e.alarms.Track(ctx, previous, &current)
		result.Charge = e.charging.Evaluate(ctx, &current)
		result.Session, _ = e.history.Update(ctx, &current)
	}
	result.Cycle = e.dispatcher.RunCycle(ctx)
	return result, nil
}

// Run 설정된 주기로 배정 사이클을 실행. ctx 가 취소되면 반환.
func (e *Engine) Run(ctx context.Context) {
	interval := e.config.GetCycleInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.logger.Infof("Assignment scheduler started (interval %s)", interval)
	for {
		select {
		case <-ctx.Done():
			e.logger.Infof("Assignment scheduler stopped")
			return
		case <-ticker.C:
			e.dispatcher.RunCycle(ctx)
		}
	}
}

// applyStatus 이전 스냅샷에 상태 메시지를 덮어쓴 새 스냅샷
func applyStatus(facility models.Facility, msg *models.StatusMessage) models.Facility {
	if msg.Code != "" {
		facility.Code = msg.Code
	}
	rt := facility.RealTime
	if msg.Status != "" {
		rt.Status = msg.Status
	}
	rt.BatteryLevel = msg.BatteryLevel
	rt.NowCharging = msg.NowCharging
	if msg.Pose2D != nil {
		pose := *msg.Pose2D
		rt.Pose2D = &pose
	}
	rt.StatusToggle = make(map[string]bool, len(msg.StatusToggle))
	for k, v := range msg.StatusToggle {
		rt.StatusToggle[k] = v
	}
	rt.UpdatedAt = time.Now()
	facility.RealTime = rt
	return facility
}
