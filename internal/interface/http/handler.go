// Package http exposes scans, flights and statistics as a JSON API
package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"flightlog-service/internal/domain/entity"
	"flightlog-service/internal/domain/repository"
	"flightlog-service/internal/usecase"
	"flightlog-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Scanner runs a mailbox scan
type Scanner interface {
	Scan(ctx context.Context, userEmail string) (*usecase.ScanReport, error)
}

// ManualFlightAdder stores user-entered flights
type ManualFlightAdder interface {
	AddManualFlight(ctx context.Context, userID string, flight *entity.ExtractedFlight) (*entity.Flight, usecase.SkipReason, error)
}

// Handler serves the API
type Handler struct {
	scanner    Scanner
	adder      ManualFlightAdder
	flightRepo repository.FlightRepository
	userRepo   repository.UserRepository
	syncRepo   repository.SyncStatusRepository
	logRepo    repository.ScanLogRepository
	logger     logger.Logger
}

// NewHandler creates a new API handler. scanner may be nil when no mail
// provider is configured; scan requests then return 503.
func NewHandler(
	scanner Scanner,
	adder ManualFlightAdder,
	flightRepo repository.FlightRepository,
	userRepo repository.UserRepository,
	syncRepo repository.SyncStatusRepository,
	logRepo repository.ScanLogRepository,
	logger logger.Logger,
) *Handler {
	return &Handler{
		scanner:    scanner,
		adder:      adder,
		flightRepo: flightRepo,
		userRepo:   userRepo,
		syncRepo:   syncRepo,
		logRepo:    logRepo,
		logger:     logger,
	}
}

// NewRouter registers every route. metricsHandler is mounted on /metrics when non-nil.
func NewRouter(h *Handler, metricsHandler http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	api := r.Group("/api/v1")
	{
		api.POST("/scans", h.startScan)
		api.GET("/scans/:id/logs", h.scanLogs)

		users := api.Group("/users/:email")
		users.GET("/flights", h.listFlights)
		users.POST("/flights", h.addFlight)
		users.GET("/stats", h.flightStats)
		users.GET("/sync-status", h.syncStatus)
	}

	return r
}

type scanRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *Handler) startScan(c *gin.Context) {
	if h.scanner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "mail provider not configured"})
		return
	}

	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil || !strings.Contains(req.Email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a valid email is required"})
		return
	}

	report, err := h.scanner.Scan(c.Request.Context(), req.Email)
	if err != nil {
		h.logger.Error("Scan failed", "email", req.Email, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to scan emails"})
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) scanLogs(c *gin.Context) {
	entries, err := h.logRepo.FindByScanID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to get scan logs", "scanID", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get scan logs"})
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "scan not found"})
		return
	}

	summary := usecase.NewScanLogger()
	for _, entry := range entries {
		summary.Record(entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"scanId":  c.Param("id"),
		"summary": summary.Summary(),
		"entries": entries,
	})
}

func (h *Handler) listFlights(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	flights, err := h.flightRepo.FindByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list flights", "userID", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list flights"})
		return
	}
	if flights == nil {
		flights = []*entity.Flight{}
	}

	c.JSON(http.StatusOK, gin.H{"flights": flights})
}

type manualFlightRequest struct {
	ConfirmationCode string `json:"confirmationCode"`
	Airline          string `json:"airline"`
	FlightNumber     string `json:"flightNumber" binding:"required"`
	DepartureAirport string `json:"departureAirport" binding:"required"`
	ArrivalAirport   string `json:"arrivalAirport" binding:"required"`
	DepartureDate    string `json:"departureDate"`
	ArrivalDate      string `json:"arrivalDate"`
}

func (h *Handler) addFlight(c *gin.Context) {
	var req manualFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "flightNumber, departureAirport and arrivalAirport are required"})
		return
	}

	flight := &entity.ExtractedFlight{
		ConfirmationCode: strings.ToUpper(strings.TrimSpace(req.ConfirmationCode)),
		Airline:          strings.TrimSpace(req.Airline),
		FlightNumber:     req.FlightNumber,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
	}

	var err error
	if flight.DepartureDate, err = parseDate(req.DepartureDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "departureDate must be YYYY-MM-DD"})
		return
	}
	if flight.ArrivalDate, err = parseDate(req.ArrivalDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arrivalDate must be YYYY-MM-DD"})
		return
	}

	user, err := h.userRepo.Upsert(c.Request.Context(), &entity.User{Email: c.Param("email")})
	if err != nil {
		h.logger.Error("Failed to upsert user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	stored, reason, err := h.adder.AddManualFlight(c.Request.Context(), user.ID, flight)
	switch {
	case errors.Is(err, usecase.ErrInvalidAirport), errors.Is(err, usecase.ErrMissingFlightNumber):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		h.logger.Error("Failed to add flight", "userID", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add flight"})
	case reason != usecase.SkipNone:
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate flight", "reason": string(reason)})
	default:
		c.JSON(http.StatusCreated, stored)
	}
}

func (h *Handler) flightStats(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	flights, err := h.flightRepo.FindByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to list flights", "userID", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, usecase.CalculateFlightStats(flights))
}

func (h *Handler) syncStatus(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	status, err := h.syncRepo.GetByUserID(c.Request.Context(), user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusOK, entity.EmailSyncStatus{UserID: user.ID, SyncStatus: entity.SyncStatusPending})
		return
	}
	if err != nil {
		h.logger.Error("Failed to get sync status", "userID", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get sync status"})
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *Handler) lookupUser(c *gin.Context) (*entity.User, bool) {
	user, err := h.userRepo.GetByEmail(c.Request.Context(), c.Param("email"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return nil, false
	}
	if err != nil {
		h.logger.Error("Failed to get user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return nil, false
	}
	return user, true
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String())
	}
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
