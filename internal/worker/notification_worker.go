package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sportclub/internal/domain"
	"sportclub/internal/metrics"
	"sportclub/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	notificationQueueKey      = "sportclub:notifications:queue"
	notificationDeadLetterKey = "sportclub:notifications:deadletter"
)

// NotificationWorker consumes notification_queue tasks and hands them to a Notifier.
// Tasks are persisted first, then pushed to Redis or an in-memory channel;
// polling the table picks up anything the fast paths missed.
type NotificationWorker struct {
	repo          domain.NotificationQueueRepository
	notifier      domain.Notifier
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan models.NotificationTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	batchSize     int
	logger        *zerolog.Logger
}

// NewNotificationWorker builds a worker with sane defaults.
func NewNotificationWorker(repo domain.NotificationQueueRepository, notifier domain.Notifier, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *NotificationWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &NotificationWorker{
		repo:          repo,
		notifier:      notifier,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan models.NotificationTask, models.WorkerQueueSize),
		redisQueueKey: notificationQueueKey,
		deadLetterKey: notificationDeadLetterKey,
		pollInterval:  2 * time.Second,
		batchSize:     20,
		logger:        logger,
	}
}

// Enqueue persists a notification about r and schedules it for delivery.
func (w *NotificationWorker) Enqueue(ctx context.Context, kind string, r *models.Reservation) error {
	if kind == "" {
		return errors.New("notification kind is required")
	}
	if r == nil || r.ID == 0 {
		return errors.New("reservation id is required")
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	task := models.NotificationTask{
		Kind:          kind,
		ReservationID: r.ID,
		Payload:       string(payload),
		Status:        models.TaskPending,
	}
	if err := w.repo.CreateNotificationTask(ctx, &task); err != nil {
		return fmt.Errorf("persist notification task: %w", err)
	}

	// Try redis first for durability.
	if w.redis != nil {
		if err := w.pushRedis(ctx, w.redisQueueKey, &task); err != nil {
			w.logger.Warn().Err(err).Int64("task_id", task.ID).Msg("Redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	// Fallback to in-memory queue if redis missing or failed.
	select {
	case w.queue <- task:
	default:
		w.logger.Warn().Int64("task_id", task.ID).Msg("In-memory queue full, task left to polling")
	}

	return nil
}

// Start launches main loop; stops when ctx is done.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("Notification worker started")
	defer w.logger.Info().Msg("Notification worker stopped")

	for {
		if ctx.Err() != nil {
			return
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processQueued(ctx, &t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processQueued(ctx, &t)
			continue
		}

		n, err := w.ProcessPending(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("Fetch pending notifications failed")
		}
		if err != nil || n == 0 {
			w.sleep(ctx)
		}
	}
}

// ProcessPending delivers one batch of due tasks from the table.
func (w *NotificationWorker) ProcessPending(ctx context.Context) (int, error) {
	tasks, err := w.repo.GetPendingNotificationTasks(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}
	for i := range tasks {
		w.processTask(ctx, &tasks[i])
	}
	return len(tasks), nil
}

func (w *NotificationWorker) sleep(ctx context.Context) {
	timer := time.NewTimer(w.pollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (w *NotificationWorker) tryLocalQueue() (models.NotificationTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return models.NotificationTask{}, false
	}
}

func (w *NotificationWorker) tryRedis(ctx context.Context) (models.NotificationTask, bool) {
	if w.redis == nil {
		return models.NotificationTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return models.NotificationTask{}, false
		}
		w.logger.Error().Err(err).Msg("Redis BRPOP failed")
		return models.NotificationTask{}, false
	}
	if len(res) != 2 {
		return models.NotificationTask{}, false
	}
	var task models.NotificationTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("Decode redis task failed")
		return models.NotificationTask{}, false
	}
	return task, true
}

// processQueued reloads a task that came through a fast path; polling may
// already have delivered it.
func (w *NotificationWorker) processQueued(ctx context.Context, task *models.NotificationTask) {
	current, err := w.repo.GetNotificationTask(ctx, task.ID)
	if err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Reload queued task failed")
		return
	}
	if current.Status != models.TaskPending && current.Status != models.TaskRetry {
		return
	}
	w.processTask(ctx, current)
}

func (w *NotificationWorker) processTask(ctx context.Context, task *models.NotificationTask) {
	var reservation models.Reservation
	if err := json.Unmarshal([]byte(task.Payload), &reservation); err != nil {
		w.failTask(ctx, task, fmt.Errorf("decode payload: %w", err))
		return
	}

	if err := w.notifier.Notify(ctx, task.Kind, &reservation); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	metrics.IncNotification("sent")
	if err := w.repo.UpdateNotificationTaskStatus(ctx, task.ID, models.TaskCompleted, "", nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Mark notification completed failed")
	}
}

func (w *NotificationWorker) retryOrFail(ctx context.Context, task *models.NotificationTask, cause error) {
	attempt := task.RetryCount + 1
	if w.retryPolicy.Exhausted(attempt) {
		w.failTask(ctx, task, cause)
		return
	}

	metrics.IncNotification("retry")
	nextTime := time.Now().Add(w.retryPolicy.NextDelay(attempt))
	w.logger.Warn().Err(cause).Int64("task_id", task.ID).Int("attempt", attempt).Time("next_retry_at", nextTime).Msg("Notification failed, will retry")
	if err := w.repo.UpdateNotificationTaskStatus(ctx, task.ID, models.TaskRetry, cause.Error(), &nextTime); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Mark notification retry failed")
	}
}

func (w *NotificationWorker) failTask(ctx context.Context, task *models.NotificationTask, cause error) {
	metrics.IncNotification("failed")
	w.logger.Error().Err(cause).Int64("task_id", task.ID).Str("kind", task.Kind).Msg("Notification failed permanently")
	if err := w.repo.UpdateNotificationTaskStatus(ctx, task.ID, models.TaskFailed, cause.Error(), nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Mark notification failed failed")
	}
	if w.redis != nil {
		if err := w.pushRedis(ctx, w.deadLetterKey, task); err != nil {
			w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Dead letter push failed")
		}
	}
}

func (w *NotificationWorker) pushRedis(ctx context.Context, key string, task *models.NotificationTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, key, data).Err()
}
