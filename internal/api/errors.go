package api

import (
	"errors"
	"net/http"
	"strconv"

	"sportclub/internal/database"
	"sportclub/internal/models"
	"sportclub/internal/service"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrSlotConflict), errors.Is(err, database.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrInvalidWeekday),
		errors.Is(err, service.ErrFieldNameRequired):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrPastSlot),
		errors.Is(err, service.ErrLeadTime),
		errors.Is(err, service.ErrDateTooFar),
		errors.Is(err, service.ErrSlotNotScheduled),
		errors.Is(err, service.ErrFieldInactive),
		errors.Is(err, service.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("request_id", RequestID(r.Context())).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, code, "internal error")
		return
	}
	writeError(w, code, err.Error())
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(w http.ResponseWriter, r *http.Request, name string, fallback models.Date) (models.Date, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name+"; expected YYYY-MM-DD")
		return models.Date{}, false
	}
	return d, true
}
