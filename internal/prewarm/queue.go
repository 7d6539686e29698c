package prewarm

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/marcelobragadossantos/api-realtime/internal/core/window"
)

const taskTimeout = 5 * time.Minute

// Enqueuer dispatches month prewarm tasks onto the queue. It satisfies
// report.Dispatcher: the enqueue returns immediately and the task runs on the
// worker, decoupled from the triggering request and its cancellation.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer creates an enqueuer with its own Redis connection.
func NewEnqueuer(redisOpt asynq.RedisClientOpt) *Enqueuer {
	return &Enqueuer{client: asynq.NewClient(redisOpt)}
}

// DispatchMonthPrewarm enqueues one prewarm task for the month containing ref.
// At most one task per triggering request; there is no dedup across concurrent
// requests for the same month. Duplicate prewarms recompute the same
// deterministic query and last-write-wins on the shared key.
func (e *Enqueuer) DispatchMonthPrewarm(ref time.Time) error {
	payload := Payload{
		ReferenceDate: ref.In(window.Location).Format(window.DateLayout),
		EnqueuedAt:    time.Now().In(window.Location),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode prewarm payload: %w", err)
	}

	// MaxRetry(0): a failed prewarm is logged by the handler and discarded,
	// never retried.
	_, err = e.client.Enqueue(
		asynq.NewTask(TypeMonthPrewarm, data),
		asynq.Queue(QueueName),
		asynq.MaxRetry(0),
		asynq.Timeout(taskTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue month prewarm: %w", err)
	}
	return nil
}

// Close closes the underlying queue client.
func (e *Enqueuer) Close() error {
	return e.client.Close()
}
