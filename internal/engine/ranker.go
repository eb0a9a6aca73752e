package engine

import "fleet-orchestrator/internal/models"

// RankCandidates 우선순위 키 순서대로 후보를 좁혀 한 대를 선택.
// 단일 후보가 정해지지 않으면 (nil, false). 입력 슬라이스는 변경하지 않는다.
func RankCandidates(pool []models.Facility, priority []models.PriorityKey, origin *models.Pose2D) (*models.Facility, bool) {
	working := make([]models.Facility, len(pool))
	copy(working, pool)

	for _, key := range priority {
		if len(working) == 0 {
			return nil, false
		}
		switch key {
		case models.PriorityBatteryLevel:
			working = keepMaxBattery(working)
			if len(working) == 1 {
				selected := working[0]
				return &selected, true
			}
		case models.PriorityDistance:
			if idx, ok := nearestIndex(len(working), func(i int) *models.Pose2D {
				return working[i].RealTime.Pose2D
			}, origin); ok {
				selected := working[idx]
				return &selected, true
			}
		}
	}
	return nil, false
}

// keepMaxBattery 최대 배터리 값과 정확히 같은 후보만 남김
func keepMaxBattery(candidates []models.Facility) []models.Facility {
	maxLevel := candidates[0].RealTime.BatteryLevel
	for _, c := range candidates[1:] {
		if c.RealTime.BatteryLevel > maxLevel {
			maxLevel = c.RealTime.BatteryLevel
		}
	}

	kept := make([]models.Facility, 0, len(candidates))
	for _, c := range candidates {
		if c.RealTime.BatteryLevel == maxLevel {
			kept = append(kept, c)
		}
	}
	return kept
}

// nearestIndex origin 에서 가장 가까운 항목의 인덱스. 동일 거리면 앞선 항목.
// 최소 거리가 Unreachable 이면 선택하지 않는다.
func nearestIndex(n int, poseAt func(int) *models.Pose2D, origin *models.Pose2D) (int, bool) {
	best, bestDist := -1, Unreachable
	for i := 0; i < n; i++ {
		if d := Distance(poseAt(i), origin); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist == Unreachable {
		return -1, false
	}
	return best, true
}
