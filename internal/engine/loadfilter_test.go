package engine

import (
	"fmt"
	"testing"

	"fleet-orchestrator/internal/models"

	"github.com/stretchr/testify/assert"
)

// zoneMembers idle 대, busy 대로 구성된 그룹 구성원
func zoneMembers(group string, idle, busy int) []models.Facility {
	members := make([]models.Facility, 0, idle+busy)
	for i := 0; i < idle; i++ {
		r := robot(fmt.Sprintf("%s-idle-%d", group, i), models.FacilityStatusIdle, 90, 0, 0)
		r.FacilityGroupID = group
		members = append(members, r)
	}
	for i := 0; i < busy; i++ {
		status := models.FacilityStatusBusy
		if i%2 == 1 {
			status = models.FacilityStatusIdleOnHold
		}
		r := robot(fmt.Sprintf("%s-busy-%d", group, i), status, 90, 0, 0)
		r.FacilityGroupID = group
		members = append(members, r)
	}
	return members
}

func loadRate(v float64) *float64 { return &v }

func TestComputeGroupLoad(t *testing.T) {
	load := ComputeGroupLoad(zoneMembers("Z", 3, 7), 70)
	assert.Equal(t, 3, load.Idle)
	assert.Equal(t, 7, load.Busy)
	assert.InDelta(t, 70.0, load.CurrentLoad, 1e-9)
	assert.False(t, load.Admits(), "70 is not below 70")

	load = ComputeGroupLoad(zoneMembers("Z", 3, 7), 71)
	assert.True(t, load.Admits())

	tests := []struct {
		name     string
		idle     int
		busy     int
		rate     float64
		expected bool
	}{
		{"29 of 100 at 29", 71, 29, 29, false},
		{"29 of 100 at 30", 71, 29, 30, true},
		{"57 of 100 at 57", 43, 57, 57, false},
		{"57 of 100 at 57.5", 43, 57, 57.5, true},
		{"all busy at 100", 0, 4, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeGroupLoad(zoneMembers("Z", tt.idle, tt.busy), tt.rate).Admits())
		})
	}

	empty := ComputeGroupLoad(nil, 0.5)
	assert.Zero(t, empty.CurrentLoad)
	assert.True(t, empty.Admits())
}

func TestFilterByGroupLoad(t *testing.T) {
	members := zoneMembers("Z", 3, 7)
	candidates := members[:3]

	tests := []struct {
		name     string
		groups   map[string]models.FacilityGroup
		expected int
	}{
		{"load equals rate", map[string]models.FacilityGroup{"Z": {ID: "Z", LoadRate: loadRate(70)}}, 0},
		{"load below rate", map[string]models.FacilityGroup{"Z": {ID: "Z", LoadRate: loadRate(71)}}, 3},
		{"unknown group uses default rate", map[string]models.FacilityGroup{}, 3},
		{"group without rate uses default", map[string]models.FacilityGroup{"Z": {ID: "Z"}}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, FilterByGroupLoad(candidates, members, tt.groups), tt.expected)
		})
	}
}

func TestFilterByGroupLoadKeepsUngroupedAndOrder(t *testing.T) {
	full := zoneMembers("FULL", 1, 9)
	free := robot("free", models.FacilityStatusIdle, 50, 0, 0)
	other := zoneMembers("OPEN", 2, 0)

	members := append(append(append([]models.Facility{}, full...), free), other...)
	candidates := []models.Facility{other[1], full[0], free, other[0]}
	groups := map[string]models.FacilityGroup{
		"FULL": {ID: "FULL", LoadRate: loadRate(50)},
		"OPEN": {ID: "OPEN", LoadRate: loadRate(50)},
	}

	filtered := FilterByGroupLoad(candidates, members, groups)

	ids := make([]string, len(filtered))
	for i, f := range filtered {
		ids[i] = f.ID
	}
	assert.Equal(t, []string{other[1].ID, "free", other[0].ID}, ids)
}

func TestFilterByGroupLoadDropsNonIdleCandidates(t *testing.T) {
	busy := robot("busy", models.FacilityStatusBusy, 90, 0, 0)
	idle := robot("idle", models.FacilityStatusIdle, 90, 0, 0)

	filtered := FilterByGroupLoad([]models.Facility{busy, idle}, []models.Facility{busy, idle}, nil)
	assert.Len(t, filtered, 1)
	assert.Equal(t, "idle", filtered[0].ID)
}
