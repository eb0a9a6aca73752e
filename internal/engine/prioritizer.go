package engine

import (
	"fleet-orchestrator/internal/models"
	"sort"
)

// PrioritizeWorkOrders 배정 순서대로 정렬된 새 슬라이스 반환.
// level 내림차순, 같으면 createdAt 오름차순. 동일 키는 입력 순서 유지.
func PrioritizeWorkOrders(orders []models.WorkOrder) []models.WorkOrder {
	sorted := make([]models.WorkOrder, len(orders))
	copy(sorted, orders)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Level != sorted[j].Level {
			return sorted[i].Level > sorted[j].Level
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}
