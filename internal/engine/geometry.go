package engine

import (
	"fleet-orchestrator/internal/models"
	"math"
)

// Unreachable 위치 정보가 없을 때의 거리 값
var Unreachable = math.Inf(1)

// Distance 두 위치 사이의 직선 거리. 어느 한쪽이라도 없으면 Unreachable.
func Distance(a, b *models.Pose2D) float64 {
	if a == nil || b == nil {
		return Unreachable
	}
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
