package worker

import (
	"context"
	"sync"
	"time"

	"sportclub/internal/domain"
	"sportclub/internal/models"

	"github.com/rs/zerolog"
)

// ReminderRepository is the storage subset the reminder loop needs.
type ReminderRepository interface {
	GetReservationsForReminder(ctx context.Context, date models.Date, from, to models.TimeOfDay) ([]*models.Reservation, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

// ReminderWorker periodically enqueues reminders for confirmed reservations
// starting within before ± window from now. Each scan resumes where the
// previous one ended, so late or sparse ticks leave no gaps.
type ReminderWorker struct {
	repo     ReminderRepository
	enqueuer domain.NotificationEnqueuer
	loc      *time.Location
	before   time.Duration
	window   time.Duration
	interval time.Duration
	now      func() time.Time
	logger   *zerolog.Logger

	mu          sync.Mutex
	scannedUpTo time.Time
}

func NewReminderWorker(repo ReminderRepository, enqueuer domain.NotificationEnqueuer, loc *time.Location, before, window, interval time.Duration, logger *zerolog.Logger) *ReminderWorker {
	if loc == nil {
		loc = time.UTC
	}
	if before <= 0 {
		before = models.DefaultReminderBefore
	}
	if window <= 0 {
		window = models.DefaultReminderWindow
	}
	if interval <= 0 {
		interval = window
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &ReminderWorker{
		repo:     repo,
		enqueuer: enqueuer,
		loc:      loc,
		before:   before,
		window:   window,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	w.logger.Info().Dur("interval", w.interval).Msg("Reminder worker started")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			w.logger.Error().Err(err).Msg("Reminder run failed")
		}
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Reminder worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce enqueues reminders for the current window and returns how many were sent.
func (w *ReminderWorker) RunOnce(ctx context.Context) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	from, to := w.scanRange(w.now().In(w.loc))
	sent := 0
	for _, win := range reminderWindows(from, to) {
		list, err := w.repo.GetReservationsForReminder(ctx, win.date, win.from, win.to)
		if err != nil {
			return sent, err
		}
		for _, r := range list {
			if err := w.enqueuer.Enqueue(ctx, models.NotifyReminder, r); err != nil {
				w.logger.Error().Err(err).Int64("reservation_id", r.ID).Msg("Enqueue reminder failed")
				continue
			}
			if err := w.repo.MarkReminderSent(ctx, r.ID); err != nil {
				w.logger.Error().Err(err).Int64("reservation_id", r.ID).Msg("Mark reminder sent failed")
				continue
			}
			sent++
		}
	}
	w.scannedUpTo = to
	if sent > 0 {
		w.logger.Info().Int("count", sent).Msg("Reminders enqueued")
	}
	return sent, nil
}

// scanRange is [now+before-window, now+before+window], stretched back to the
// end of the previous scan when ticks fell further apart than the window.
// Starts already in the past are not reminded.
func (w *ReminderWorker) scanRange(now time.Time) (from, to time.Time) {
	target := now.Add(w.before)
	from, to = target.Add(-w.window), target.Add(w.window)
	if !w.scannedUpTo.IsZero() && w.scannedUpTo.Before(from) {
		from = w.scannedUpTo.In(w.loc)
	}
	if from.Before(now) {
		from = now
	}
	return from, to
}

type reminderWindow struct {
	date     models.Date
	from, to models.TimeOfDay
}

// reminderWindows splits [from, to] into per-day ranges of wall-clock times
// in the location of from and to.
func reminderWindows(from, to time.Time) []reminderWindow {
	if to.Before(from) {
		return nil
	}
	first, last := models.DateOf(from), models.DateOf(to)
	var out []reminderWindow
	for d := first; !d.After(last.Time); d = d.AddDays(1) {
		win := reminderWindow{date: d, from: 0, to: models.EndOfDay}
		if d.Equal(first.Time) {
			win.from = models.TimeOfDayOf(from)
		}
		if d.Equal(last.Time) {
			win.to = models.TimeOfDayOf(to)
		}
		out = append(out, win)
	}
	return out
}
