package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsActive reports whether the status blocks a new request for the same staff.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo only allows the single pending -> approved|rejected step.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next.IsTerminal()
}

type LeaveType string

const (
	TypeVacation    LeaveType = "Vacation"
	TypeSick        LeaveType = "Sick"
	TypeEmergency   LeaveType = "Emergency"
	TypeMaternity   LeaveType = "Maternity"
	TypePaternity   LeaveType = "Paternity"
	TypeBereavement LeaveType = "Bereavement"
	TypeOther       LeaveType = "Other"
)

var leaveTypes = []LeaveType{
	TypeVacation, TypeSick, TypeEmergency, TypeMaternity, TypePaternity, TypeBereavement, TypeOther,
}

func ParseLeaveType(v string) (LeaveType, bool) {
	for _, t := range leaveTypes {
		if string(t) == v {
			return t, true
		}
	}
	return "", false
}

type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_company_status"`
	StaffID     uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_staff_dates"`
	ReferenceNo string    `gorm:"type:varchar(20);not null"`

	// snapshot of the staff record at request time
	FullName       string `gorm:"type:varchar(150);not null"`
	Classification string `gorm:"type:varchar(80)"`

	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_staff_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_staff_dates"`
	LeaveType LeaveType `gorm:"type:varchar(20);not null;default:'Vacation'"`
	TotalDays *int      `gorm:"type:int"`
	Notes     *string   `gorm:"type:text"`

	Status          Status     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_company_status"`
	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// WorkingDays returns the cached TotalDays, or recomputes it from the range.
func (l LeaveRequest) WorkingDays() int {
	if l.TotalDays != nil {
		return *l.TotalDays
	}
	return CalculateLeaveDays(l.StartDate, l.EndDate)
}

// Covers reports whether the inclusive [StartDate, EndDate] contains day.
func (l LeaveRequest) Covers(day time.Time) bool {
	d := DateOnly(day)
	return !d.Before(DateOnly(l.StartDate)) && !d.After(DateOnly(l.EndDate))
}

// Overlaps reports whether the request shares at least one calendar day with [from, to].
func (l LeaveRequest) Overlaps(from, to time.Time) bool {
	return !DateOnly(l.EndDate).Before(DateOnly(from)) && !DateOnly(l.StartDate).After(DateOnly(to))
}
