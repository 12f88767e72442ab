package staff

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Staff struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_staff_email,priority:1"`
	FullName       string    `gorm:"type:varchar(150);not null"`
	Classification string    `gorm:"type:varchar(80)"`
	Email          string    `gorm:"type:varchar(150);uniqueIndex:uq_staff_email,priority:2"`
	Phone          string    `gorm:"type:varchar(30)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Staff) TableName() string {
	return "staff"
}
