package counter

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
)

// Counter types, one sequence per company each.
const (
	TypeLeaveRequest = "leave_request"
)

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	// WithTx allocates inside tx, so a rolled back insert returns its number.
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error)
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

const nextValueSQL = `
INSERT INTO company_counters (company_id, counter_type, last_value, updated_at)
VALUES (?, ?, 1, now())
ON CONFLICT (company_id, counter_type) DO UPDATE
SET last_value = company_counters.last_value + 1, updated_at = now()
RETURNING last_value`

// GetNextValue bumps the company's sequence. The row lock is held until the
// surrounding transaction ends.
func (r *repository) GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error) {
	var next int64
	if err := r.conn(ctx).Raw(nextValueSQL, companyID, counterType).Scan(&next).Error; err != nil {
		return 0, fmt.Errorf("next %s value for company %s: %w", counterType, companyID, err)
	}
	return next, nil
}

// Reference renders a counter value as a human reference, e.g. LV-000042.
func Reference(prefix string, value int64) string {
	return fmt.Sprintf("%s-%06d", prefix, value)
}
