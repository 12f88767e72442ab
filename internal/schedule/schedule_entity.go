package schedule

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Shift string

const (
	ShiftMorning   Shift = "MORNING"
	ShiftAfternoon Shift = "AFTERNOON"
	ShiftNight     Shift = "NIGHT"
)

func ParseShift(v string) (Shift, bool) {
	switch s := Shift(strings.ToUpper(strings.TrimSpace(v))); s {
	case ShiftMorning, ShiftAfternoon, ShiftNight:
		return s, true
	}
	return "", false
}

type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	// StatusConflict marks a slot whose staff member later had leave approved.
	StatusConflict Status = "CONFLICT"
)

type Schedule struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"column:company_id;type:uuid;not null;index;uniqueIndex:uq_schedules_slot,priority:1"`
	StaffID   uuid.UUID `gorm:"column:staff_id;type:uuid;not null;index;uniqueIndex:uq_schedules_slot,priority:2"`
	Date      time.Time `gorm:"column:schedule_date;type:date;not null;index;uniqueIndex:uq_schedules_slot,priority:3"`
	Shift     Shift     `gorm:"column:shift;type:varchar(20);not null;uniqueIndex:uq_schedules_slot,priority:4"`
	Status    Status    `gorm:"column:status;type:varchar(20);not null;default:SCHEDULED"`
	Notes     *string   `gorm:"column:notes;type:text"`
	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Staff     *StaffRef      `gorm:"foreignKey:StaffID;references:ID"`
}

func (Schedule) TableName() string {
	return "schedules"
}

type StaffRef struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName       string    `gorm:"column:full_name"`
	Classification string    `gorm:"column:classification"`
}

func (StaffRef) TableName() string {
	return "staff"
}
