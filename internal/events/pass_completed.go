package events

import "time"

const PassCompletedTopic = "hostel.pass.completed.v1"

// PassCompletedEvent is emitted when a student's return is recorded and the
// request is archived to history.
type PassCompletedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	Kind       string    `json:"kind"`
	PassID     string    `json:"pass_id"`
	StudentID  string    `json:"student_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
