package api

import (
	"net/http"

	"sportclub/internal/models"
)

const fallbackNextDay = "next_day"

func (s *HTTPServer) handleListFields(w http.ResponseWriter, r *http.Request) {
	fields, err := s.svc.Fields.ListFields(r.Context(), false)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": fields})
}

func (s *HTTPServer) handleGetField(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	field, err := s.svc.Fields.GetField(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, field)
}

func (s *HTTPServer) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rows, err := s.svc.Fields.ListSchedules(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schedules": rows})
}

// handleAvailability resolves one day. With fallback=next_day an empty today
// is replaced by tomorrow; the response date says which day was resolved.
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	today := s.svc.Availability.Today()
	date, ok := queryDate(w, r, "date", today)
	if !ok {
		return
	}
	fallback := r.URL.Query().Get("fallback")
	if fallback != "" && fallback != fallbackNextDay {
		writeError(w, http.StatusBadRequest, "fallback must be next_day")
		return
	}

	ctx := r.Context()
	if _, err := s.svc.Fields.GetField(ctx, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	slots, err := s.svc.Availability.GetAvailability(ctx, id, date)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if fallback == fallbackNextDay && len(slots) == 0 && date.Equal(today.Time) {
		date = date.AddDays(1)
		if slots, err = s.svc.Availability.GetAvailability(ctx, id, date); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, models.FieldAvailability{FieldID: id, Date: date, Slots: slots})
}

func (s *HTTPServer) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	reservation := req.Reservation()
	if err := s.svc.Bookings.CreateReservation(r.Context(), reservation); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (s *HTTPServer) handleGetReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	reservation, err := s.svc.Bookings.GetReservation(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (s *HTTPServer) handleCancelReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req CancelReservationRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	reservation, err := s.svc.Bookings.CancelReservation(r.Context(), id, req.Version, &req.UserID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (s *HTTPServer) handleUserReservations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	list, err := s.svc.Bookings.GetUserReservations(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": list})
}
