package engine

import "fleet-orchestrator/internal/models"

// GroupLoad 그룹 부하 계산 결과
type GroupLoad struct {
	Idle        int
	Busy        int
	CurrentLoad float64
	LoadRate    float64
}

// Admits 현재 부하가 부하율 미만이면 유휴 로봇을 배정 풀에 포함.
// CurrentLoad 는 표시용이며 비교는 busy*100 < loadRate*total 로 한다.
// 구성원이 없는 그룹은 부하 0 으로 항상 포함.
func (l GroupLoad) Admits() bool {
	total := l.Idle + l.Busy
	if total == 0 {
		return true
	}
	return float64(l.Busy*100) < l.LoadRate*float64(total)
}

// ComputeGroupLoad 그룹 구성원의 유휴/작업중 비율(%) 계산. 구성원이 없으면 0.
func ComputeGroupLoad(members []models.Facility, loadRate float64) GroupLoad {
	load := GroupLoad{LoadRate: loadRate}
	for _, m := range members {
		switch m.RealTime.Status {
		case models.FacilityStatusIdle:
			load.Idle++
		case models.FacilityStatusBusy, models.FacilityStatusIdleOnHold:
			load.Busy++
		}
	}
	if total := load.Idle + load.Busy; total > 0 {
		load.CurrentLoad = float64(load.Busy) / float64(total) * 100
	}
	return load
}

// FilterByGroupLoad 부하율에 도달한 그룹의 유휴 로봇을 후보에서 제외.
// members 는 그룹 부하 계산에 쓰이는 전체 설비 목록이며, 그룹 설정이 없으면 기본 부하율을 쓴다.
// 그룹이 없는 로봇은 항상 포함되며 입력 순서를 유지한다.
func FilterByGroupLoad(candidates, members []models.Facility, groups map[string]models.FacilityGroup) []models.Facility {
	byGroup := make(map[string][]models.Facility)
	for _, m := range members {
		if m.FacilityGroupID != "" {
			byGroup[m.FacilityGroupID] = append(byGroup[m.FacilityGroupID], m)
		}
	}

	admitted := make(map[string]bool)
	for _, c := range candidates {
		groupID := c.FacilityGroupID
		if groupID == "" {
			continue
		}
		if _, seen := admitted[groupID]; seen {
			continue
		}
		group, ok := groups[groupID]
		loadRate := models.DefaultLoadRate
		if ok {
			loadRate = group.EffectiveLoadRate()
		}
		admitted[groupID] = ComputeGroupLoad(byGroup[groupID], loadRate).Admits()
	}

	filtered := make([]models.Facility, 0, len(candidates))
	for _, c := range candidates {
		if c.RealTime.Status != models.FacilityStatusIdle {
			continue
		}
		if c.FacilityGroupID == "" || admitted[c.FacilityGroupID] {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
