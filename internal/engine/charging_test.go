package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleet-orchestrator/internal/models"
	"fleet-orchestrator/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func charger(id string, state models.ChargerState, active, emergency bool, x float64) models.Charger {
	return models.Charger{
		ID:        id,
		Code:      "CH-" + id,
		State:     state,
		Active:    active,
		Emergency: emergency,
		Pose2D:    &models.Pose2D{X: x},
	}
}

func (e *testEnv) chargingEngine() *ChargingEngine {
	c := NewChargingEngine(e.store, e.db, e.jobs, services.NewUniqueIDGenerator(), e.logger)
	c.now = fixedClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	return c
}

func TestSelectChargerPrecedence(t *testing.T) {
	r := robot("R1", models.FacilityStatusIdle, 10, 0, 0)
	r.ChargerID = "HOME"

	tests := []struct {
		name     string
		chargers []models.Charger
		expected string
		reason   string
	}{
		{
			name: "emergency beats closer normal charger",
			chargers: []models.Charger{
				charger("NORMAL", models.ChargerStateStandby, true, false, 2),
				charger("EMERGENCY", models.ChargerStateStandby, true, true, 10),
			},
			expected: "EMERGENCY",
			reason:   SelectionEmergency,
		},
		{
			name: "home charger beats nearest",
			chargers: []models.Charger{
				charger("NEAR", models.ChargerStateStandby, true, false, 1),
				charger("HOME", models.ChargerStateStandby, true, false, 30),
			},
			expected: "HOME",
			reason:   SelectionHome,
		},
		{
			name: "busy home charger falls back to nearest",
			chargers: []models.Charger{
				charger("HOME", models.ChargerStateCharging, true, false, 0),
				charger("FAR", models.ChargerStateStandby, true, false, 9),
				charger("NEAR", models.ChargerStateStandby, true, false, 4),
			},
			expected: "NEAR",
			reason:   SelectionNearest,
		},
		{
			name: "inactive or busy emergency chargers are ignored",
			chargers: []models.Charger{
				charger("E-OFF", models.ChargerStateStandby, false, true, 1),
				charger("E-BUSY", models.ChargerStateWaiting, true, true, 1),
				charger("HOME", models.ChargerStateStandby, true, false, 50),
			},
			expected: "HOME",
			reason:   SelectionHome,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selection, ok := SelectCharger(&r, tt.chargers)
			require.True(t, ok)
			assert.Equal(t, tt.expected, selection.Charger.ID)
			assert.Equal(t, tt.reason, selection.Reason)
		})
	}
}

func TestSelectChargerNoneAvailable(t *testing.T) {
	r := robot("R1", models.FacilityStatusIdle, 10, 0, 0)
	_, ok := SelectCharger(&r, []models.Charger{
		charger("C1", models.ChargerStateCharging, true, false, 1),
		charger("C2", models.ChargerStateStandby, false, false, 1),
	})
	assert.False(t, ok)

	_, ok = SelectCharger(&r, nil)
	assert.False(t, ok)
}

func TestSelectChargerWithoutRobotPose(t *testing.T) {
	r := robot("R1", models.FacilityStatusIdle, 10, 0, 0)
	r.RealTime.Pose2D = nil

	selection, ok := SelectCharger(&r, []models.Charger{
		charger("C1", models.ChargerStateStandby, true, false, 1),
		charger("C2", models.ChargerStateStandby, true, false, 2),
	})
	require.True(t, ok)
	assert.Equal(t, "C1", selection.Charger.ID)
}

func TestBuildChargeInstructions(t *testing.T) {
	single := BuildChargeInstructions(charger("C1", models.ChargerStateStandby, true, false, 0), 80)
	require.Len(t, single, 1)
	assert.Equal(t, models.InstructionCharge, single[0].Action)
	assert.Equal(t, 80, single[0].Params["workingPercent"])

	docking := charger("C2", models.ChargerStateStandby, true, false, 0)
	docking.DockingLocID = "DOCK-2"
	steps := BuildChargeInstructions(docking, 90)
	require.Len(t, steps, 3)
	assert.Equal(t, models.InstructionMove, steps[0].Action)
	assert.Equal(t, "DOCK-2", steps[0].Target)
	assert.Equal(t, models.InstructionWait, steps[1].Action)
	assert.Equal(t, models.InstructionCharge, steps[2].Action)
	assert.Equal(t, 3, steps[2].Step)
	assert.Equal(t, 90, steps[2].Params["workingPercent"])
}

func TestEvaluateDispatchesToHomeCharger(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	r := robot("R", models.FacilityStatusIdle, 15, 0, 0)
	r.ChargerID = "C"
	env.seedChargers(t, charger("C", models.ChargerStateStandby, true, false, 7))
	env.seedChargingSettings(t, 20, 85)

	dispatch := env.chargingEngine().Evaluate(ctx, &r)
	require.NotNil(t, dispatch)

	alarms := env.db.AlarmsOf("R")
	require.Len(t, alarms, 1)
	assert.Equal(t, models.AlarmTypeBattery, alarms[0].AlarmType)
	assert.False(t, alarms[0].Blocking)

	jobs := env.jobs.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, models.JobTitleCharge, jobs[0].Title)
	assert.Equal(t, models.JobModeImmediate, jobs[0].Mode)
	assert.Equal(t, models.JobTarget{ID: "R", Code: "R-R"}, jobs[0].Target)
	require.Len(t, jobs[0].Instructions, 1)
	assert.Equal(t, "C", jobs[0].Instructions[0].Target)
	assert.Equal(t, 85, jobs[0].Instructions[0].Params["workingPercent"])
	assert.Equal(t, 85, dispatch.WorkingPercent)

	stored, ok := env.store.Charger(ctx, "C")
	require.True(t, ok)
	assert.Equal(t, models.ChargerStateWaiting, stored.State)

	session, ok := env.store.OpenChargeSession(ctx, "R")
	require.True(t, ok)
	assert.Equal(t, "C", session.ChargerID)
	assert.Equal(t, models.ChargerStateWaiting, session.ChargerState)
	assert.Nil(t, session.StartDate)
	assert.Nil(t, session.StartBattery)
	assert.Contains(t, env.db.Histories, session.ID)

	recent, ok := env.store.RecentJob(ctx, "R")
	require.True(t, ok)
	assert.True(t, recent.IsCharge())
	assert.Equal(t, dispatch.JobID, recent.JobID)
}

func TestEvaluateClampsWorkingPercent(t *testing.T) {
	env := newTestEnv()
	r := robot("R", models.FacilityStatusIdle, 5, 0, 0)
	env.seedChargers(t, charger("C", models.ChargerStateStandby, true, false, 1))
	env.seedChargingSettings(t, 20, 150)

	dispatch := env.chargingEngine().Evaluate(context.Background(), &r)
	require.NotNil(t, dispatch)
	assert.Equal(t, MaxWorkingPercent, dispatch.WorkingPercent)
}

func TestEvaluateSkips(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, env *testEnv, r *models.Facility)
	}{
		{"battery above threshold", func(t *testing.T, env *testEnv, r *models.Facility) {
			r.RealTime.BatteryLevel = 20
		}},
		{"robot not idle", func(t *testing.T, env *testEnv, r *models.Facility) {
			r.RealTime.Status = models.FacilityStatusBusy
		}},
		{"already charging", func(t *testing.T, env *testEnv, r *models.Facility) {
			r.RealTime.NowCharging = true
		}},
		{"recent job is a charge", func(t *testing.T, env *testEnv, r *models.Facility) {
			require.NoError(t, env.store.SaveRecentJob(context.Background(), r.ID, &models.RecentJob{Kind: models.JobKindCharge}))
		}},
		{"open session exists", func(t *testing.T, env *testEnv, r *models.Facility) {
			require.NoError(t, env.store.SaveChargeSession(context.Background(), &models.ChargeHistory{ID: "S0", FacilityID: r.ID, ChargerID: "C"}))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			r := robot("R", models.FacilityStatusIdle, 10, 0, 0)
			env.seedChargers(t, charger("C", models.ChargerStateStandby, true, false, 1))
			env.seedChargingSettings(t, 20, 80)
			tt.setup(t, env, &r)

			assert.Nil(t, env.chargingEngine().Evaluate(context.Background(), &r))
			assert.Empty(t, env.jobs.Jobs())
			assert.Empty(t, env.db.AlarmsOf("R"))
		})
	}
}

func TestEvaluateWithoutSettings(t *testing.T) {
	env := newTestEnv()
	r := robot("R", models.FacilityStatusIdle, 10, 0, 0)
	env.seedChargers(t, charger("C", models.ChargerStateStandby, true, false, 1))

	assert.Nil(t, env.chargingEngine().Evaluate(context.Background(), &r))
	assert.True(t, env.logger.ContainsLog("Charging settings missing"))
}

func TestEvaluateNoChargerStillRaisesAlarm(t *testing.T) {
	env := newTestEnv()
	r := robot("R", models.FacilityStatusIdle, 10, 0, 0)
	env.seedChargers(t, charger("C", models.ChargerStateCharging, true, false, 1))
	env.seedChargingSettings(t, 20, 80)

	assert.Nil(t, env.chargingEngine().Evaluate(context.Background(), &r))
	assert.Len(t, env.db.AlarmsOf("R"), 1)
	assert.Empty(t, env.jobs.Jobs())
	assert.True(t, env.logger.ContainsLog("No charger available"))
}

func TestEvaluateSubmitFailureLeavesStateUntouched(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	r := robot("R", models.FacilityStatusIdle, 10, 0, 0)
	env.seedChargers(t, charger("C", models.ChargerStateStandby, true, false, 1))
	env.seedChargingSettings(t, 20, 80)
	env.jobs.Err = errors.New("broker down")

	assert.Nil(t, env.chargingEngine().Evaluate(ctx, &r))

	stored, ok := env.store.Charger(ctx, "C")
	require.True(t, ok)
	assert.Equal(t, models.ChargerStateStandby, stored.State)
	_, open := env.store.OpenChargeSession(ctx, "R")
	assert.False(t, open)
}
