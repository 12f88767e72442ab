package leave

import (
	"context"
	"database/sql"
	"time"

	"go-hotel-staff/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusChange is the single pending -> approved|rejected write.
type StatusChange struct {
	To              Status
	ActorID         uuid.UUID
	At              time.Time
	RejectionReason *string
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAllByCompany(ctx context.Context, companyID string) ([]LeaveRequest, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error)
	TransitionStatus(ctx context.Context, companyID, id string, change StatusChange) (bool, error)
	DeletePending(ctx context.Context, companyID, id string) (bool, error)
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

// conn routes statements through the bound *sql.Tx when there is one.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeaveRequest, error) {
	var requests []LeaveRequest
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("start_date DESC").
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// TransitionStatus only touches rows that are still pending, so two
// concurrent approvals cannot both win. It reports whether a row changed.
func (r *repository) TransitionStatus(ctx context.Context, companyID, id string, change StatusChange) (bool, error) {
	updates := map[string]any{
		"status":     change.To,
		"updated_at": change.At,
	}
	switch change.To {
	case StatusApproved:
		updates["approved_by"] = change.ActorID
		updates["approved_at"] = change.At
	case StatusRejected:
		updates["rejection_reason"] = change.RejectionReason
	}

	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) DeletePending(ctx context.Context, companyID, id string) (bool, error) {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("status = ?", StatusPending).
		Delete(&LeaveRequest{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
