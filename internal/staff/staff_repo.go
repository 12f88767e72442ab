package staff

import (
	"context"
	"database/sql"

	"go-hotel-staff/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=staff_repo.go -destination=mock/staff_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Staff) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Staff, error)
	FindOptionsByCompany(ctx context.Context, companyID string) ([]Staff, error)
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Staff, error)
	Update(ctx context.Context, s *Staff) error
	Delete(ctx context.Context, companyID string, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, s *Staff) error {
	return r.conn(ctx).Create(s).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Staff, error) {
	var members []Staff
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("full_name ASC").
		Find(&members).Error
	return members, err
}

func (r *repository) FindOptionsByCompany(ctx context.Context, companyID string) ([]Staff, error) {
	var members []Staff
	err := r.conn(ctx).
		Select("id", "company_id", "full_name", "classification").
		Scopes(tenant.Scope(companyID)).
		Order("full_name ASC").
		Find(&members).Error
	return members, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Staff, error) {
	var s Staff
	err := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *Staff) error {
	return r.conn(ctx).Save(s).Error
}

func (r *repository) Delete(ctx context.Context, companyID string, id string) error {
	res := r.conn(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Staff{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
