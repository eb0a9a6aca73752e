package engine

import (
	"context"
	"fleet-orchestrator/internal/interfaces"
	"fleet-orchestrator/internal/models"
	"fmt"
	"time"
)

// MaxWorkingPercent 충전 목표 상한 (%)
const MaxWorkingPercent = 100

// ChargerSelection 충전기 선택 결과와 선택 근거
type ChargerSelection struct {
	Charger models.Charger
	Reason  string
}

// 충전기 선택 근거
const (
	SelectionEmergency = "emergency"
	SelectionHome      = "home"
	SelectionNearest   = "nearest"
)

// ChargeDispatch 충전 작업 발행 결과
type ChargeDispatch struct {
	JobID          string
	Selection      ChargerSelection
	Instructions   []models.Instruction
	WorkingPercent int
	Session        *models.ChargeHistory
}

// ChargingEngine 유휴 저전력 로봇의 충전 여부와 충전기를 결정
type ChargingEngine struct {
	store    StateStore
	database interfaces.DatabaseService
	jobs     interfaces.JobSubmitter
	idGen    interfaces.UniqueIDGenerator
	logger   interfaces.Logger
	now      func() time.Time
}

func NewChargingEngine(
	store StateStore,
	database interfaces.DatabaseService,
	jobs interfaces.JobSubmitter,
	idGen interfaces.UniqueIDGenerator,
	logger interfaces.Logger,
) *ChargingEngine {
	return &ChargingEngine{
		store:    store,
		database: database,
		jobs:     jobs,
		idGen:    idGen,
		logger:   logger,
		now:      time.Now,
	}
}

// Evaluate 로봇 상태 갱신마다 호출. 충전 작업을 발행했으면 결과를, 아니면 nil 반환.
func (c *ChargingEngine) Evaluate(ctx context.Context, robot *models.Facility) *ChargeDispatch {
	if !robot.IsRobot() || robot.RealTime.Status != models.FacilityStatusIdle {
		return nil
	}
	if _, open := c.store.OpenChargeSession(ctx, robot.ID); open {
		return nil
	}

	settings, ok := c.store.ChargingSettings(ctx)
	if !ok {
		c.logger.Warnf("Charging settings missing, skip charge evaluation for %s", robot.Code)
		return nil
	}
	recent, _ := c.store.RecentJob(ctx, robot.ID)
	if recent.IsCharge() || robot.RealTime.NowCharging || robot.RealTime.BatteryLevel >= settings.NewTaskMinBattery {
		return nil
	}

	c.raiseBatteryAlarm(robot, settings.NewTaskMinBattery)

	chargers, _ := c.store.Chargers(ctx)
	selection, ok := SelectCharger(robot, chargers)
	if !ok {
		c.logger.Errorf("No charger available for robot %s (battery %d%%)", robot.Code, robot.RealTime.BatteryLevel)
		return nil
	}

	return c.dispatch(ctx, robot, selection, settings.ChargingTaskMinBattery)
}

// SelectCharger 충전기 선택 우선순위:
// 비상 충전기 중 최근접 → 로봇 전용 충전기(standby) → 가용 충전기 중 최근접
func SelectCharger(robot *models.Facility, chargers []models.Charger) (ChargerSelection, bool) {
	pose := robot.RealTime.Pose2D

	emergency := make([]models.Charger, 0)
	available := make([]models.Charger, 0)
	var home *models.Charger
	for i := range chargers {
		ch := chargers[i]
		if robot.ChargerID != "" && ch.ID == robot.ChargerID {
			home = &chargers[i]
		}
		if !ch.IsStandby() || !ch.Active {
			continue
		}
		available = append(available, ch)
		if ch.Emergency {
			emergency = append(emergency, ch)
		}
	}

	if len(emergency) > 0 {
		return ChargerSelection{Charger: nearestCharger(emergency, pose), Reason: SelectionEmergency}, true
	}
	if home != nil && home.IsStandby() {
		return ChargerSelection{Charger: *home, Reason: SelectionHome}, true
	}
	if len(available) > 0 {
		return ChargerSelection{Charger: nearestCharger(available, pose), Reason: SelectionNearest}, true
	}
	return ChargerSelection{}, false
}

// nearestCharger 가장 가까운 충전기. 거리를 알 수 없으면 첫 번째 충전기.
func nearestCharger(chargers []models.Charger, pose *models.Pose2D) models.Charger {
	idx, ok := nearestIndex(len(chargers), func(i int) *models.Pose2D {
		return chargers[i].Pose2D
	}, pose)
	if !ok {
		idx = 0
	}
	return chargers[idx]
}

// BuildChargeInstructions 도킹 위치가 있으면 이동 → 해제 신호 대기 → 충전 3단계, 아니면 충전 1단계
func BuildChargeInstructions(charger models.Charger, workingPercent int) []models.Instruction {
	charge := models.Instruction{
		Action: models.InstructionCharge,
		Target: charger.ID,
		Params: map[string]interface{}{
			"workingPercent": workingPercent,
			"resource":       charger.Code,
		},
	}
	if !charger.RequiresDocking() {
		charge.Step = 1
		return []models.Instruction{charge}
	}

	charge.Step = 3
	return []models.Instruction{
		{Step: 1, Action: models.InstructionMove, Target: charger.DockingLocID},
		{
			Step:   2,
			Action: models.InstructionWait,
			Target: charger.ID,
			Params: map[string]interface{}{"signal": fmt.Sprintf("charger/%s/release", charger.ID)},
		},
		charge,
	}
}

func clampWorkingPercent(percent int) int {
	if percent > MaxWorkingPercent {
		return MaxWorkingPercent
	}
	return percent
}

func (c *ChargingEngine) raiseBatteryAlarm(robot *models.Facility, threshold int) {
	alarm := &models.Alarm{
		FacilityID:   robot.ID,
		FacilityCode: robot.Code,
		AlarmType:    models.AlarmTypeBattery,
		Message:      fmt.Sprintf("Robot %s battery low: %d%% (threshold %d%%)", robot.Code, robot.RealTime.BatteryLevel, threshold),
		Blocking:     false,
		RaisedAt:     c.now(),
	}
	if err := c.database.RegisterAlarm(alarm); err != nil {
		c.logger.Errorf("Failed to register battery alarm for %s: %v", robot.Code, err)
	}
}

func (c *ChargingEngine) dispatch(ctx context.Context, robot *models.Facility, selection ChargerSelection, chargingTaskMinBattery int) *ChargeDispatch {
	charger := selection.Charger
	workingPercent := clampWorkingPercent(chargingTaskMinBattery)
	instructions := BuildChargeInstructions(charger, workingPercent)

	jobID, err := c.jobs.SubmitJob(ctx, models.JobTitleCharge,
		models.JobTarget{ID: robot.ID, Code: robot.Code},
		instructions, models.JobModeImmediate,
		map[string]interface{}{
			"chargerId":      charger.ID,
			"workingPercent": workingPercent,
			"selection":      selection.Reason,
		})
	if err != nil {
		c.logger.Errorf("Failed to submit charge job for %s to charger %s: %v", robot.Code, charger.ID, err)
		return nil
	}

	charger.State = models.ChargerStateWaiting
	if err := c.store.SaveCharger(ctx, &charger); err != nil {
		c.logger.Warnf("Failed to update charger %s state: %v", charger.ID, err)
	}

	now := c.now()
	session := &models.ChargeHistory{
		ID:           c.idGen.GenerateUniqueID(),
		ChargerID:    charger.ID,
		FacilityID:   robot.ID,
		ChargerState: models.ChargerStateWaiting,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := c.store.SaveChargeSession(ctx, session); err != nil {
		c.logger.Errorf("Failed to open charge session for %s: %v", robot.Code, err)
	}
	if err := c.database.RegisterChargeHistory(session); err != nil {
		c.logger.Warnf("Failed to persist charge history %s: %v", session.ID, err)
	}

	if err := c.store.SaveRecentJob(ctx, robot.ID, &models.RecentJob{
		JobID:        jobID,
		Title:        models.JobTitleCharge,
		Kind:         models.JobKindCharge,
		ChargerID:    charger.ID,
		DispatchedAt: now,
	}); err != nil {
		c.logger.Warnf("Robot %s: failed to record recent job: %v", robot.Code, err)
	}

	c.logger.Infof("Charge job sent: robot %s → charger %s (%s, target %d%%)", robot.Code, charger.ID, selection.Reason, workingPercent)
	return &ChargeDispatch{
		JobID:          jobID,
		Selection:      ChargerSelection{Charger: charger, Reason: selection.Reason},
		Instructions:   instructions,
		WorkingPercent: workingPercent,
		Session:        session,
	}
}
