package database

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrSlotConflict           = errors.New("slot overlaps an existing reservation")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)
