package engine

import (
	"math"
	"testing"

	"fleet-orchestrator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var batteryThenDistance = []models.PriorityKey{models.PriorityBatteryLevel, models.PriorityDistance}

func TestRankCandidatesBatteryThenDistance(t *testing.T) {
	origin := &models.Pose2D{X: 0, Y: 0}
	pool := []models.Facility{
		robot("far", models.FacilityStatusIdle, 80, 5, 0),
		robot("near", models.FacilityStatusIdle, 80, 0, 3),
		robot("nearest-low", models.FacilityStatusIdle, 60, 1, 0),
	}

	selected, ok := RankCandidates(pool, batteryThenDistance, origin)
	require.True(t, ok)
	assert.Equal(t, "near", selected.ID)

	assert.Equal(t, "far", pool[0].ID, "pool must not be reordered")
	assert.Len(t, pool, 3)
}

func TestRankCandidatesBatterySingleton(t *testing.T) {
	pool := []models.Facility{
		robot("a", models.FacilityStatusIdle, 70, 1, 0),
		robot("b", models.FacilityStatusIdle, 95, 100, 0),
	}
	pool[1].RealTime.Pose2D = nil

	selected, ok := RankCandidates(pool, batteryThenDistance, &models.Pose2D{})
	require.True(t, ok)
	assert.Equal(t, "b", selected.ID)
}

func TestRankCandidatesDistanceFirst(t *testing.T) {
	pool := []models.Facility{
		robot("full", models.FacilityStatusIdle, 100, 10, 0),
		robot("close", models.FacilityStatusIdle, 40, 2, 0),
	}

	selected, ok := RankCandidates(pool, []models.PriorityKey{models.PriorityDistance, models.PriorityBatteryLevel}, &models.Pose2D{})
	require.True(t, ok)
	assert.Equal(t, "close", selected.ID)
}

func TestRankCandidatesUnreachable(t *testing.T) {
	pool := []models.Facility{
		robot("a", models.FacilityStatusIdle, 80, 1, 0),
		robot("b", models.FacilityStatusIdle, 80, 2, 0),
	}

	_, ok := RankCandidates(pool, batteryThenDistance, nil)
	assert.False(t, ok, "unknown pickup position selects nobody")

	pool[0].RealTime.Pose2D = nil
	pool[1].RealTime.Pose2D = nil
	_, ok = RankCandidates(pool, batteryThenDistance, &models.Pose2D{})
	assert.False(t, ok)
}

func TestRankCandidatesTieKeepsFirst(t *testing.T) {
	pool := []models.Facility{
		robot("first", models.FacilityStatusIdle, 80, 3, 0),
		robot("second", models.FacilityStatusIdle, 80, -3, 0),
	}

	selected, ok := RankCandidates(pool, batteryThenDistance, &models.Pose2D{})
	require.True(t, ok)
	assert.Equal(t, "first", selected.ID)
}

func TestRankCandidatesNoSingleton(t *testing.T) {
	pool := []models.Facility{
		robot("a", models.FacilityStatusIdle, 80, 1, 0),
		robot("b", models.FacilityStatusIdle, 80, 2, 0),
	}

	_, ok := RankCandidates(pool, []models.PriorityKey{models.PriorityBatteryLevel}, &models.Pose2D{})
	assert.False(t, ok)

	_, ok = RankCandidates(nil, batteryThenDistance, &models.Pose2D{})
	assert.False(t, ok)
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(&models.Pose2D{X: 3, Y: 4}, &models.Pose2D{}), 1e-9)
	assert.True(t, math.IsInf(Distance(nil, &models.Pose2D{}), 1))
	assert.Equal(t, Unreachable, Distance(&models.Pose2D{}, nil))
}
