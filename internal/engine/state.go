package engine

import (
	"context"
	"fleet-orchestrator/internal/models"
)

// StateStore 엔진이 사용하는 공유 상태 저장소 연산 (store.Store 가 구현).
// 조회 결과가 없으면 false 를 반환하며 오류가 아니다.
type StateStore interface {
	Facility(ctx context.Context, id string) (*models.Facility, bool)
	Facilities(ctx context.Context) ([]models.Facility, bool)
	SaveFacility(ctx context.Context, facility *models.Facility) error
	FacilityGroups(ctx context.Context) (map[string]models.FacilityGroup, bool)

	Charger(ctx context.Context, id string) (*models.Charger, bool)
	Chargers(ctx context.Context) ([]models.Charger, bool)
	SaveCharger(ctx context.Context, charger *models.Charger) error

	ChargingSettings(ctx context.Context) (*models.ChargingSettings, bool)
	AssignmentSettings(ctx context.Context) (*models.AssignmentSettings, bool)

	WorkOrders(ctx context.Context) ([]models.WorkOrder, bool)
	SaveWorkOrder(ctx context.Context, order *models.WorkOrder) error
	RouteInstruction(ctx context.Context, robotID, facilityID string) ([]models.Instruction, bool)

	OpenChargeSession(ctx context.Context, facilityID string) (*models.ChargeHistory, bool)
	SaveChargeSession(ctx context.Context, session *models.ChargeHistory) error
	DeleteChargeSession(ctx context.Context, facilityID string) error

	StatusToggles(ctx context.Context, code string) ([]string, bool)
	SaveStatusToggles(ctx context.Context, code string, toggles []string) error

	RecentJob(ctx context.Context, facilityID string) (*models.RecentJob, bool)
	SaveRecentJob(ctx context.Context, facilityID string, job *models.RecentJob) error
}
