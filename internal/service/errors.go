package service

import "errors"

var (
	ErrPastSlot          = errors.New("slot is in the past")
	ErrLeadTime          = errors.New("slot starts too soon")
	ErrDateTooFar        = errors.New("date is too far in the future")
	ErrSlotNotScheduled  = errors.New("slot does not match the field schedule")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrFieldInactive     = errors.New("field is not active")
	ErrInvalidTimeRange  = errors.New("start time must be before end time")
	ErrInvalidWeekday    = errors.New("weekday must be between 0 and 6")
	ErrFieldNameRequired = errors.New("field name is required")
	ErrRateLimited       = errors.New("too many booking requests")
	ErrNotOwner          = errors.New("reservation belongs to another user")
)
