package engine

import (
	"context"
	"encoding/json"
	"fleet-orchestrator/internal/interfaces"
	"fleet-orchestrator/internal/models"
	"sync/atomic"
	"time"
)

// Assignment 한 사이클에서 확정된 작업 지시 → 로봇 배정
type Assignment struct {
	WorkOrderID   string
	FacilityID    string
	PickupJobID   string
	DeliveryJobID string
}

// CycleReport 배정 사이클 결과
type CycleReport struct {
	Skipped     bool
	Aborted     bool
	Assignments []Assignment
}

// routePayload 배정된 작업 지시의 data 에 저장되는 지시 페이로드
type routePayload struct {
	FacilityID string               `json:"facilityId"`
	Pickup     []models.Instruction `json:"pickup"`
	Delivery   []models.Instruction `json:"delivery"`
	AssignedAt time.Time            `json:"assignedAt"`
}

// Dispatcher 대기 중인 작업 지시를 가용 로봇에 배정하는 사이클 실행기
type Dispatcher struct {
	store    StateStore
	database interfaces.DatabaseService
	jobs     interfaces.JobSubmitter
	config   interfaces.ConfigProvider
	logger   interfaces.Logger
	now      func() time.Time

	running atomic.Bool
}

func NewDispatcher(
	store StateStore,
	database interfaces.DatabaseService,
	jobs interfaces.JobSubmitter,
	config interfaces.ConfigProvider,
	logger interfaces.Logger,
) *Dispatcher {
	return &Dispatcher{
		store:    store,
		database: database,
		jobs:     jobs,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// RunCycle 배정 사이클 1회 실행. 이미 실행 중이면 아무것도 하지 않는다.
func (d *Dispatcher) RunCycle(ctx context.Context) CycleReport {
	if !d.running.CompareAndSwap(false, true) {
		d.logger.Debugf("Assignment cycle already in progress, skipping")
		return CycleReport{Skipped: true}
	}
	defer d.running.Store(false)

	orders, ok := d.store.WorkOrders(ctx)
	if !ok {
		d.logger.Debugf("No work orders in state store, cycle aborted")
		return CycleReport{Aborted: true}
	}
	facilities, ok := d.store.Facilities(ctx)
	if !ok {
		d.logger.Warnf("No facility snapshots in state store, cycle aborted")
		return CycleReport{Aborted: true}
	}

	groups, _ := d.store.FacilityGroups(ctx)
	priority := d.priority(ctx)
	minBattery := -1
	if settings, ok := d.store.ChargingSettings(ctx); ok {
		minBattery = settings.NewTaskMinBattery
	}

	byID := make(map[string]models.Facility, len(facilities))
	robots := make([]models.Facility, 0, len(facilities))
	candidates := make([]models.Facility, 0, len(facilities))
	for _, f := range facilities {
		byID[f.ID] = f
		if !f.IsRobot() {
			continue
		}
		robots = append(robots, f)
		if f.RealTime.Status == models.FacilityStatusIdle && f.RealTime.BatteryLevel >= minBattery {
			candidates = append(candidates, f)
		}
	}
	pool := FilterByGroupLoad(candidates, robots, groups)

	pending := make([]models.WorkOrder, 0, len(orders))
	for _, o := range orders {
		if o.IsAssignable() {
			pending = append(pending, o)
		}
	}

	report := CycleReport{}
	for _, order := range PrioritizeWorkOrders(pending) {
		if len(pool) == 0 {
			d.logger.Debugf("No assignable robots left, remaining work orders wait for next cycle")
			break
		}

		var origin *models.Pose2D
		if from, ok := byID[order.FromFacilityID]; ok {
			origin = from.RealTime.Pose2D
		}
		robot, ok := RankCandidates(pool, priority, origin)
		if !ok {
			d.logger.Debugf("No candidate selected for work order %s", order.ID)
			continue
		}

		assignment, ok := d.assign(ctx, order, robot)
		if !ok {
			continue
		}
		report.Assignments = append(report.Assignments, assignment)
		pool = removeFacility(pool, robot.ID)
	}

	if len(report.Assignments) > 0 {
		d.logger.Infof("Assignment cycle finished: %d work order(s) assigned", len(report.Assignments))
	}
	return report
}

// IsRunning 사이클 실행 중 여부
func (d *Dispatcher) IsRunning() bool {
	return d.running.Load()
}

func (d *Dispatcher) priority(ctx context.Context) []models.PriorityKey {
	if settings, ok := d.store.AssignmentSettings(ctx); ok && len(settings.Priority) > 0 {
		return settings.Priority
	}
	return d.config.GetDefaultPriority()
}

func (d *Dispatcher) assign(ctx context.Context, order models.WorkOrder, robot *models.Facility) (Assignment, bool) {
	pickup, ok := d.store.RouteInstruction(ctx, robot.ID, order.FromFacilityID)
	if !ok {
		d.logger.Warnf("Work order %s: no pickup instruction for robot %s to %s", order.ID, robot.Code, order.FromFacilityID)
		return Assignment{}, false
	}
	delivery, ok := d.store.RouteInstruction(ctx, robot.ID, order.ToFacilityID)
	if !ok {
		d.logger.Warnf("Work order %s: no delivery instruction for robot %s to %s", order.ID, robot.Code, order.ToFacilityID)
		return Assignment{}, false
	}

	target := models.JobTarget{ID: robot.ID, Code: robot.Code}
	pickupJobID, err := d.jobs.SubmitJob(ctx, models.JobTitlePickup, target, pickup, models.JobModeSequential,
		map[string]interface{}{"workOrderId": order.ID, "step": 1})
	if err != nil {
		d.logger.Errorf("Work order %s: failed to submit pickup job: %v", order.ID, err)
		return Assignment{}, false
	}
	deliveryJobID, err := d.jobs.SubmitJob(ctx, models.JobTitleDelivery, target, delivery, models.JobModeSequential,
		map[string]interface{}{"workOrderId": order.ID, "step": 2})
	if err != nil {
		d.logger.Errorf("Work order %s: failed to submit delivery job: %v", order.ID, err)
		return Assignment{}, false
	}

	now := d.now()
	data, err := json.Marshal(routePayload{
		FacilityID: robot.ID,
		Pickup:     pickup,
		Delivery:   delivery,
		AssignedAt: now,
	})
	if err != nil {
		d.logger.Errorf("Work order %s: failed to encode instruction payload: %v", order.ID, err)
		return Assignment{}, false
	}

	order.State = models.WorkOrderStatePending1
	order.FacilityID = robot.ID
	order.Data = data
	if err := d.store.SaveWorkOrder(ctx, &order); err != nil {
		d.logger.Errorf("Work order %s: failed to write back: %v", order.ID, err)
	}
	if err := d.database.UpsertWorkOrder(order.ToRecord()); err != nil {
		d.logger.Warnf("Work order %s: failed to persist record: %v", order.ID, err)
	}
	if err := d.store.SaveRecentJob(ctx, robot.ID, &models.RecentJob{
		JobID:        pickupJobID,
		Title:        models.JobTitlePickup,
		Kind:         models.JobKindTransport,
		WorkOrderID:  order.ID,
		DispatchedAt: now,
	}); err != nil {
		d.logger.Warnf("Robot %s: failed to record recent job: %v", robot.Code, err)
	}

	d.logger.Infof("Work order %s (level %d) assigned to robot %s", order.ID, order.Level, robot.Code)
	return Assignment{
		WorkOrderID:   order.ID,
		FacilityID:    robot.ID,
		PickupJobID:   pickupJobID,
		DeliveryJobID: deliveryJobID,
	}, true
}

func removeFacility(pool []models.Facility, id string) []models.Facility {
	kept := make([]models.Facility, 0, len(pool))
	for _, f := range pool {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	return kept
}
