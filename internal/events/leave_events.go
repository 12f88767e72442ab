package events

import "time"

const (
	LeaveRequestedTopic     = "hotel.leave.requested.v1"
	LeaveStatusChangedTopic = "hotel.leave.status_changed.v1"

	LeaveRequestedType     = "leave_requested"
	LeaveStatusChangedType = "leave_status_changed"
)

type LeaveRequestedEvent struct {
	EventType   string    `json:"event_type"`
	RequestID   string    `json:"request_id,omitempty"`
	LeaveID     string    `json:"leave_id"`
	ReferenceNo string    `json:"reference_no"`
	CompanyID   string    `json:"company_id"`
	StaffID     string    `json:"staff_id"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	TotalDays   int       `json:"total_days"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// LeaveStatusChangedEvent is emitted once per approve or reject. Dates are
// YYYY-MM-DD so consumers do not depend on the producer's time zone.
type LeaveStatusChangedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	LeaveID    string    `json:"leave_id"`
	CompanyID  string    `json:"company_id"`
	StaffID    string    `json:"staff_id"`
	Status     string    `json:"status"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
