package schedule

import (
	"context"
	"database/sql"
	"time"

	"go-hotel-staff/internal/leave"
	"go-hotel-staff/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateMany(ctx context.Context, schedules []Schedule) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Schedule, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Schedule, error)
	Delete(ctx context.Context, companyID, id string) error
	FlagConflicts(ctx context.Context, companyID, staffID string, start, end time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) CreateMany(ctx context.Context, schedules []Schedule) error {
	if len(schedules) == 0 {
		return nil
	}
	return r.conn(ctx).Omit("Staff").Create(&schedules).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Schedule, error) {
	var rows []Schedule
	err := r.conn(ctx).
		Preload("Staff").
		Scopes(tenant.Scope(companyID)).
		Order("schedule_date ASC, shift ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Schedule, error) {
	var s Schedule
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Schedule{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FlagConflicts marks the staff member's scheduled slots inside [start, end]
// as CONFLICT and returns how many rows changed.
func (r *repository) FlagConflicts(ctx context.Context, companyID, staffID string, start, end time.Time) (int64, error) {
	res := r.conn(ctx).
		Model(&Schedule{}).
		Scopes(tenant.Scope(companyID)).
		Where("staff_id = ?", staffID).
		Where("schedule_date BETWEEN ? AND ?", start.Format(leave.DateLayout), end.Format(leave.DateLayout)).
		Where("status = ?", StatusScheduled).
		Updates(map[string]any{
			"status":     StatusConflict,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}
