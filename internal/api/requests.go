package api

import (
	"strings"

	"sportclub/internal/models"
)

type CreateReservationRequest struct {
	FieldID        int64  `json:"field_id" validate:"required,gt=0"`
	UserID         *int64 `json:"user_id" validate:"omitempty,gt=0"`
	TeamID         *int64 `json:"team_id" validate:"omitempty,gt=0"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime      string `json:"start_time" validate:"required,timeofday"`
	EndTime        string `json:"end_time" validate:"required,timeofday"`
	ActivityType   string `json:"activity_type" validate:"max=64"`
	Notes          string `json:"notes" validate:"max=1000"`
	Phone          string `json:"phone" validate:"required,max=32"`
	DocumentType   string `json:"document_type" validate:"omitempty,oneof=CF ID"`
	DocumentNumber string `json:"document_number" validate:"max=32"`
}

// Reservation converts a validated request.
func (req *CreateReservationRequest) Reservation() *models.Reservation {
	return &models.Reservation{
		FieldID:        req.FieldID,
		UserID:         req.UserID,
		TeamID:         req.TeamID,
		Date:           models.MustDate(req.Date),
		StartTime:      models.MustTimeOfDay(req.StartTime),
		EndTime:        models.MustTimeOfDay(req.EndTime),
		ActivityType:   strings.TrimSpace(req.ActivityType),
		Notes:          strings.TrimSpace(req.Notes),
		Phone:          strings.TrimSpace(req.Phone),
		DocumentType:   req.DocumentType,
		DocumentNumber: strings.ToUpper(strings.TrimSpace(req.DocumentNumber)),
	}
}

// CancelReservationRequest is the public cancellation; the caller must name
// the booking user so ownership can be checked.
type CancelReservationRequest struct {
	Version int64 `json:"version" validate:"required,gt=0"`
	UserID  int64 `json:"user_id" validate:"required,gt=0"`
}

type StatusChangeRequest struct {
	Status  string `json:"status" validate:"required,oneof=pending confirmed cancelled expired"`
	Version int64  `json:"version" validate:"required,gt=0"`
}

type FieldRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Address     string `json:"address" validate:"max=255"`
	SurfaceType string `json:"surface_type" validate:"max=50"`
	Indoor      bool   `json:"indoor"`
	Lighting    bool   `json:"lighting"`
	Active      *bool  `json:"active"`
	Description string `json:"description" validate:"max=2000"`
}

func (req *FieldRequest) Field(id int64) *models.Field {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &models.Field{
		ID:          id,
		Name:        req.Name,
		Address:     req.Address,
		SurfaceType: req.SurfaceType,
		Indoor:      req.Indoor,
		Lighting:    req.Lighting,
		Active:      active,
		Description: req.Description,
	}
}

type ScheduleRequest struct {
	Weekday   *int   `json:"weekday" validate:"omitempty,min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,timeofday"`
	EndTime   string `json:"end_time" validate:"required,timeofday"`
	Active    *bool  `json:"active"`
}

func (req *ScheduleRequest) Schedule(id, fieldID int64) *models.FieldSchedule {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &models.FieldSchedule{
		ID:        id,
		FieldID:   fieldID,
		Weekday:   req.Weekday,
		StartTime: models.MustTimeOfDay(req.StartTime),
		EndTime:   models.MustTimeOfDay(req.EndTime),
		Active:    active,
	}
}
