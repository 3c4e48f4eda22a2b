package api

import (
	"bytes"
	"fmt"
	"net/http"

	"sportclub/internal/export"
	"sportclub/internal/models"
)

const defaultRangeDays = 30

func (s *HTTPServer) handleCreateField(w http.ResponseWriter, r *http.Request) {
	var req FieldRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	field := req.Field(0)
	if err := s.svc.Fields.CreateField(r.Context(), field); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, field)
}

func (s *HTTPServer) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req FieldRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	field := req.Field(id)
	if err := s.svc.Fields.UpdateField(r.Context(), field); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, field)
}

func (s *HTTPServer) handleDeleteField(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Fields.DeleteField(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	fieldID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ScheduleRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	row := req.Schedule(0, fieldID)
	if err := s.svc.Fields.CreateSchedule(r.Context(), row); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (s *HTTPServer) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ScheduleRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	row := req.Schedule(id, 0)
	if err := s.svc.Fields.UpdateSchedule(r.Context(), row); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

func (s *HTTPServer) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Fields.DeleteSchedule(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// dateRange reads from/to, defaulting to today and the following 30 days.
func (s *HTTPServer) dateRange(w http.ResponseWriter, r *http.Request) (from, to models.Date, ok bool) {
	if from, ok = queryDate(w, r, "from", s.svc.Availability.Today()); !ok {
		return from, to, false
	}
	if to, ok = queryDate(w, r, "to", from.AddDays(defaultRangeDays)); !ok {
		return from, to, false
	}
	if to.Before(from.Time) {
		writeError(w, http.StatusBadRequest, "to must not be before from")
		return from, to, false
	}
	return from, to, true
}

func (s *HTTPServer) handleListReservations(w http.ResponseWriter, r *http.Request) {
	from, to, ok := s.dateRange(w, r)
	if !ok {
		return
	}
	list, err := s.svc.Bookings.GetReservationsByDateRange(r.Context(), from, to)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": list})
}

func (s *HTTPServer) handleExportReservations(w http.ResponseWriter, r *http.Request) {
	from, to, ok := s.dateRange(w, r)
	if !ok {
		return
	}
	list, err := s.svc.Bookings.GetReservationsByDateRange(r.Context(), from, to)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Reservations(&buf, list, from, to); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	fileName := fmt.Sprintf("prenotazioni_%s_%s.xlsx", from, to)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *HTTPServer) handleChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req StatusChangeRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}
	reservation, err := s.svc.Bookings.ChangeStatus(r.Context(), id, req.Version, req.Status)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (s *HTTPServer) handleDeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Bookings.DeleteReservation(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) handleRunMaintenance(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Maintenance.Run(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *HTTPServer) handleFailedNotifications(w http.ResponseWriter, r *http.Request) {
	if s.svc.Failed == nil {
		writeJSON(w, http.StatusOK, map[string]any{"tasks": []models.NotificationTask{}})
		return
	}
	tasks, err := s.svc.Failed.GetFailedNotificationTasks(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if tasks == nil {
		tasks = []models.NotificationTask{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}
