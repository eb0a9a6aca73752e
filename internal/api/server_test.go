package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fleet-orchestrator/internal/engine"
	"fleet-orchestrator/internal/mocks"
	"fleet-orchestrator/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTrigger struct {
	report engine.CycleReport
	calls  int
}

func (s *stubTrigger) TriggerCycle(ctx context.Context) engine.CycleReport {
	s.calls++
	return s.report
}

func newTestServer(trigger CycleTrigger) (*Server, *mocks.MockDatabaseService) {
	db := mocks.NewMockDatabaseService()
	srv := NewServer(trigger, db, mocks.NewMockCacheService(), mocks.NewMockMessagePublisher(), mocks.NewMockLogger())
	return srv, db
}

func serve(t *testing.T, srv *Server, method, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(&stubTrigger{})

	rec, body := serve(t, srv, http.MethodGet, "/api/v1/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["mqtt_connected"])
	assert.Equal(t, true, data["redis_ok"])
}

func TestRunAssignmentCycle(t *testing.T) {
	trigger := &stubTrigger{report: engine.CycleReport{Assignments: []engine.Assignment{
		{WorkOrderID: "WO-1", FacilityID: "R1", PickupJobID: "job-1", DeliveryJobID: "job-2"},
	}}}
	srv, _ := newTestServer(trigger)

	rec, body := serve(t, srv, http.MethodPost, "/api/v1/assignment/cycle")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, trigger.calls)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])
}

func TestRunAssignmentCycleConflictWhenBusy(t *testing.T) {
	srv, _ := newTestServer(&stubTrigger{report: engine.CycleReport{Skipped: true}})

	rec, body := serve(t, srv, http.MethodPost, "/api/v1/assignment/cycle")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "error", body["status"])
}

func TestGetActiveAlarms(t *testing.T) {
	srv, db := newTestServer(&stubTrigger{})
	require.NoError(t, db.RegisterAlarm(&models.Alarm{FacilityID: "R1", AlarmType: models.AlarmTypeError, RaisedAt: time.Now()}))
	require.NoError(t, db.RegisterAlarm(&models.Alarm{FacilityID: "R1", AlarmType: models.AlarmTypeBattery, RaisedAt: time.Now()}))
	_, err := db.ClearAlarm("R1", models.AlarmTypeBattery)
	require.NoError(t, err)

	rec, body := serve(t, srv, http.MethodGet, "/api/v1/facilities/R1/alarms")
	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])
	alarms := data["alarms"].([]interface{})
	assert.Equal(t, models.AlarmTypeError, alarms[0].(map[string]interface{})["alarm_type"])
}

func TestGetChargeHistories(t *testing.T) {
	srv, db := newTestServer(&stubTrigger{})
	for _, id := range []string{"S1", "S2", "S3"} {
		require.NoError(t, db.RegisterChargeHistory(&models.ChargeHistory{ID: id, FacilityID: "R1", ChargerID: "C1"}))
	}

	rec, body := serve(t, srv, http.MethodGet, "/api/v1/facilities/R1/charge-histories?limit=2")
	assert.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])
	assert.Equal(t, float64(2), data["limit"])

	rec, _ = serve(t, srv, http.MethodGet, "/api/v1/facilities/R1/charge-histories")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = serve(t, srv, http.MethodGet, "/api/v1/facilities/R1/charge-histories?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
}
