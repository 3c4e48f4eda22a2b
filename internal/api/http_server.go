package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"sportclub/internal/config"
	"sportclub/internal/domain"
	"sportclub/internal/logging"
	"sportclub/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// Pinger reports storage readiness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services groups what the handlers call into.
type Services struct {
	Fields       domain.FieldService
	Bookings     domain.BookingService
	Availability domain.AvailabilityResolver
	Maintenance  domain.MaintenanceService
	Failed       domain.NotificationAuditor
	DB           Pinger
}

// HTTPServer exposes the public booking API and the admin endpoints.
type HTTPServer struct {
	cfg       config.APIConfig
	svc       Services
	validator *RequestValidator
	server    *http.Server
	auth      *HTTPAuth
	logger    *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, svc Services, logger *zerolog.Logger) *HTTPServer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	srv := &HTTPServer{
		cfg:       cfg,
		svc:       svc,
		validator: NewRequestValidator(),
		auth:      NewHTTPAuth(cfg),
		logger:    logging.Component(logger, "http"),
	}

	mux := http.NewServeMux()
	srv.routes(mux)

	handler := srv.loggingMiddleware(corsMiddleware(srv.auth.Wrap(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)

	mux.HandleFunc("GET /api/v1/fields", s.handleListFields)
	mux.HandleFunc("GET /api/v1/fields/{id}", s.handleGetField)
	mux.HandleFunc("GET /api/v1/fields/{id}/availability", s.handleAvailability)
	mux.HandleFunc("GET /api/v1/fields/{id}/schedules", s.handleListSchedules)

	mux.HandleFunc("POST /api/v1/reservations", s.handleCreateReservation)
	mux.HandleFunc("GET /api/v1/reservations/{id}", s.handleGetReservation)
	mux.HandleFunc("POST /api/v1/reservations/{id}/cancel", s.handleCancelReservation)
	mux.HandleFunc("GET /api/v1/users/{id}/reservations", s.handleUserReservations)

	mux.HandleFunc("POST /api/v1/admin/fields", s.handleCreateField)
	mux.HandleFunc("PUT /api/v1/admin/fields/{id}", s.handleUpdateField)
	mux.HandleFunc("DELETE /api/v1/admin/fields/{id}", s.handleDeleteField)
	mux.HandleFunc("POST /api/v1/admin/fields/{id}/schedules", s.handleCreateSchedule)
	mux.HandleFunc("PUT /api/v1/admin/schedules/{id}", s.handleUpdateSchedule)
	mux.HandleFunc("DELETE /api/v1/admin/schedules/{id}", s.handleDeleteSchedule)
	mux.HandleFunc("GET /api/v1/admin/reservations", s.handleListReservations)
	mux.HandleFunc("GET /api/v1/admin/reservations/export", s.handleExportReservations)
	mux.HandleFunc("PATCH /api/v1/admin/reservations/{id}/status", s.handleChangeStatus)
	mux.HandleFunc("DELETE /api/v1/admin/reservations/{id}", s.handleDeleteReservation)
	mux.HandleFunc("POST /api/v1/admin/maintenance/run", s.handleRunMaintenance)
	mux.HandleFunc("GET /api/v1/admin/notifications/failed", s.handleFailedNotifications)
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.svc.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.svc.DB.PingContext(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
func (s *HTTPServer) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := s.validator.Struct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID returns the id assigned by the logging middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		req := r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID))
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, req)

		route := req.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.IncHTTP(route)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": verrs.Error(), "details": verrs})
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
