package prewarm

import (
	"context"

	"github.com/hibiken/asynq"
)

// Worker runs the prewarm queue consumer. It holds its own Redis connection,
// so a dispatched task keeps running even after the triggering HTTP request
// is gone.
type Worker struct {
	srv     *asynq.Server
	handler *Handler
}

// NewWorker creates a worker consuming only the prewarm queue.
func NewWorker(redisOpt asynq.RedisClientOpt, handler *Handler, concurrency int) *Worker {
	if concurrency <= 0 {
		concurrency = 1
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueName: 1},
	})

	return &Worker{srv: srv, handler: handler}
}

// Run blocks processing tasks until ctx is cancelled, then drains in-flight
// tasks and returns.
func (w *Worker) Run(ctx context.Context) error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeMonthPrewarm, w.handler.HandleMonthPrewarm)

	go func() {
		<-ctx.Done()
		w.srv.Shutdown()
	}()

	return w.srv.Run(mux)
}
