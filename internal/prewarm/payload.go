// Package prewarm proactively populates the month-window cache entry after a
// single-day query, as a fire-and-forget background task.
package prewarm

import "time"

// TypeMonthPrewarm is the task type for month cache prewarming.
const TypeMonthPrewarm = "report:prewarm_month"

// QueueName is the dedicated queue for prewarm tasks.
const QueueName = "prewarm"

// Payload is the wire payload for a month prewarm task.
type Payload struct {
	ReferenceDate string    `json:"reference_date"` // YYYY-MM-DD
	EnqueuedAt    time.Time `json:"enqueued_at"`
}
