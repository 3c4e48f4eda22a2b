package database

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"sportclub/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentReservation(t *testing.T) {
	logger := zerolog.Nop()
	dbPath := filepath.Join(t.TempDir(), "concurrency.db")
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	field := createTestField(t, db, "Campo A")
	date := models.MustDate("2025-06-01")

	const numGoroutines = 10
	var wg sync.WaitGroup
	wg.Add(numGoroutines)

	results := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			userID := int64(id)
			// every request wants a window that intersects 10:00-11:00
			r := &models.Reservation{
				FieldID:   field.ID,
				UserID:    &userID,
				Date:      date,
				StartTime: models.MustTimeOfDay("10:00") + models.TimeOfDay(id%3*10),
				EndTime:   models.MustTimeOfDay("11:00"),
				Phone:     "1",
			}
			results <- db.CreateReservation(ctx, r)
		}(i)
	}

	wg.Wait()
	close(results)

	successCount := 0
	conflictCount := 0
	for err := range results {
		switch {
		case err == nil:
			successCount++
		case errors.Is(err, ErrSlotConflict):
			conflictCount++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successCount, "Only one reservation should win the slot")
	assert.Equal(t, numGoroutines-1, conflictCount, "All other reservations should conflict")

	active, err := db.GetReservations(ctx, field.ID, date, models.ActiveStatuses)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestConcurrentStatusUpdate(t *testing.T) {
	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "versions.db"), &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	field := createTestField(t, db, "Campo A")
	r := createTestReservation(t, db, field.ID, "2025-06-01", "10:00", "11:00", models.StatusPending)

	const workers = 5
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := db.UpdateReservationStatus(ctx, r.ID, r.Version, models.StatusConfirmed); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrConcurrentModification)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	got, err := db.GetReservation(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
}
