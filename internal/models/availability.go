package models

// AvailabilitySlot is a candidate booking window derived from a schedule row.
type AvailabilitySlot struct {
	StartTime TimeOfDay `json:"start_time"`
	EndTime   TimeOfDay `json:"end_time"`
	Bookable  bool      `json:"bookable"`
}

// FieldAvailability is the API view of a resolved day.
type FieldAvailability struct {
	FieldID int64              `json:"field_id"`
	Date    Date               `json:"date"`
	Slots   []AvailabilitySlot `json:"slots"`
}
