// internal/api/server.go
package api

import (
	"context"
	"fleet-orchestrator/internal/engine"
	"fleet-orchestrator/internal/interfaces"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// DefaultHistoryLimit 충전 이력 조회 기본 건수
const DefaultHistoryLimit = 20

// CycleTrigger 배정 사이클 수동 실행 (engine.Engine 이 구현)
type CycleTrigger interface {
	TriggerCycle(ctx context.Context) engine.CycleReport
}

// StandardResponse API 공통 응답
type StandardResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func successResponse(message string, data interface{}) StandardResponse {
	return StandardResponse{Status: "success", Message: message, Data: data}
}

func errorResponse(message string) StandardResponse {
	return StandardResponse{Status: "error", Message: message}
}

// Server 운영 조회/제어용 HTTP API
type Server struct {
	echo      *echo.Echo
	trigger   CycleTrigger
	database  interfaces.DatabaseService
	cache     interfaces.CacheService
	publisher interfaces.MessagePublisher
	logger    interfaces.Logger
}

// NewServer 라우트가 등록된 API 서버 생성
func NewServer(
	trigger CycleTrigger,
	database interfaces.DatabaseService,
	cache interfaces.CacheService,
	publisher interfaces.MessagePublisher,
	logger interfaces.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:      e,
		trigger:   trigger,
		database:  database,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.echo.Group("/api/v1")
	api.GET("/health", s.HealthCheck)
	api.POST("/assignment/cycle", s.RunAssignmentCycle)
	api.GET("/facilities/:id/alarms", s.GetActiveAlarms)
	api.GET("/facilities/:id/charge-histories", s.GetChargeHistories)
}

// Handler 테스트 및 외부 서버 연결용 http.Handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start addr 에서 서빙 시작 (블로킹)
func (s *Server) Start(addr string) error {
	s.logger.Infof("HTTP API listening on %s", addr)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown 진행 중 요청을 마치고 종료
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ===================================================================
// HEALTH CHECK
// ===================================================================

// HealthCheck 서비스 및 외부 연결 상태
func (s *Server) HealthCheck(c echo.Context) error {
	redisOK := s.cache.Ping(c.Request().Context()) == nil
	data := map[string]interface{}{
		"service":        "fleet-orchestrator",
		"mqtt_connected": s.publisher.IsConnected(),
		"redis_ok":       redisOK,
		"timestamp":      time.Now().Format(time.RFC3339),
	}
	if !redisOK {
		return c.JSON(http.StatusServiceUnavailable, StandardResponse{Status: "error", Message: "State store unreachable", Data: data})
	}
	return c.JSON(http.StatusOK, successResponse("Service is healthy", data))
}

// ===================================================================
// ASSIGNMENT
// ===================================================================

// RunAssignmentCycle 배정 사이클 즉시 실행. 이미 실행 중이면 409.
func (s *Server) RunAssignmentCycle(c echo.Context) error {
	report := s.trigger.TriggerCycle(c.Request().Context())
	if report.Skipped {
		return c.JSON(http.StatusConflict, errorResponse("Assignment cycle already in progress"))
	}

	data := map[string]interface{}{
		"aborted":     report.Aborted,
		"assignments": report.Assignments,
		"count":       len(report.Assignments),
	}
	return c.JSON(http.StatusOK, successResponse("Assignment cycle finished", data))
}

// ===================================================================
// FACILITY RECORDS
// ===================================================================

// GetActiveAlarms 설비의 활성 알람 목록
func (s *Server) GetActiveAlarms(c echo.Context) error {
	facilityID := c.Param("id")
	alarms, err := s.database.ListActiveAlarms(facilityID)
	if err != nil {
		s.logger.Errorf("Failed to list alarms for %s: %v", facilityID, err)
		return c.JSON(http.StatusInternalServerError, errorResponse(err.Error()))
	}
	data := map[string]interface{}{
		"alarms": alarms,
		"count":  len(alarms),
	}
	return c.JSON(http.StatusOK, successResponse("Active alarms retrieved successfully", data))
}

// GetChargeHistories 설비의 최근 충전 이력 (?limit=N)
func (s *Server) GetChargeHistories(c echo.Context) error {
	facilityID := c.Param("id")

	limit := DefaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, errorResponse("limit must be a positive integer"))
		}
		limit = parsed
	}

	histories, err := s.database.ListChargeHistories(facilityID, limit)
	if err != nil {
		s.logger.Errorf("Failed to list charge histories for %s: %v", facilityID, err)
		return c.JSON(http.StatusInternalServerError, errorResponse(err.Error()))
	}
	data := map[string]interface{}{
		"histories": histories,
		"count":     len(histories),
		"limit":     limit,
	}
	return c.JSON(http.StatusOK, successResponse("Charge histories retrieved successfully", data))
}
