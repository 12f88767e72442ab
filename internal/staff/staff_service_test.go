package staff_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"go-hotel-staff/internal/staff"
	stafferrors "go-hotel-staff/internal/staff/errors"
	staffMock "go-hotel-staff/internal/staff/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   staff.Service
	repo      *staffMock.MockRepository
	redismock redismock.ClientMock
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	dbRedis, redisMock := redismock.NewClientMock()
	repo := staffMock.NewMockRepository(ctrl)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   staff.NewService(db, repo, dbRedis),
		repo:      repo,
		redismock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestStaffService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	req := staff.CreateStaffRequest{
		FullName:       "Jane Doe",
		Classification: "Housekeeping",
		Email:          "jane@hotel.test",
	}

	t.Run("success invalidates options cache", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, m *staff.Staff) error {
				assert.Equal(t, "Jane Doe", m.FullName)
				assert.Equal(t, companyID, m.CompanyID.String())
				return nil
			})
		deps.redismock.ExpectDel(staff.GetStaffOptionsKey(companyID)).SetVal(1)

		resp, err := deps.service.Create(ctx, companyID, req)

		assert.NoError(t, err)
		assert.Equal(t, "Housekeeping", resp.Classification)
		assert.NotEmpty(t, resp.ID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_staff_email"})

		_, err := deps.service.Create(ctx, companyID, req)

		assert.ErrorIs(t, err, stafferrors.ErrStaffAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid company", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, "not-a-uuid", req)
		assert.ErrorIs(t, err, stafferrors.ErrInvalidCompanyID)
	})
}

func TestStaffService_GetOptions(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	key := staff.GetStaffOptionsKey(companyID)

	t.Run("cache hit skips the repository", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		cached := []staff.StaffOption{{ID: uuid.NewString(), FullName: "Amy", Classification: "Kitchen"}}
		raw, _ := json.Marshal(cached)
		deps.redismock.ExpectGet(key).SetVal(string(raw))

		got, err := deps.service.GetOptions(ctx, companyID)

		assert.NoError(t, err)
		assert.Equal(t, cached, got)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		member := staff.Staff{ID: uuid.New(), FullName: "Bob", Classification: "Front Desk"}
		want := []staff.StaffOption{{ID: member.ID.String(), FullName: "Bob", Classification: "Front Desk"}}
		raw, _ := json.Marshal(want)

		deps.redismock.ExpectGet(key).RedisNil()
		deps.repo.EXPECT().FindOptionsByCompany(ctx, companyID).Return([]staff.Staff{member}, nil)
		deps.redismock.ExpectSet(key, raw, staff.StaffOptionsTTL).SetVal("OK")

		got, err := deps.service.GetOptions(ctx, companyID)

		assert.NoError(t, err)
		assert.Equal(t, want, got)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("repository error", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.redismock.ExpectGet(key).RedisNil()
		deps.repo.EXPECT().FindOptionsByCompany(ctx, companyID).Return(nil, errors.New("db down"))

		_, err := deps.service.GetOptions(ctx, companyID)
		assert.EqualError(t, err, "db down")
	})
}

func TestStaffService_GetByID(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	deps := setupServiceTest(t)
	defer deps.db.Close()

	t.Run("invalid id", func(t *testing.T) {
		_, err := deps.service.GetByID(ctx, companyID, "abc")
		assert.ErrorIs(t, err, stafferrors.ErrInvalidStaffID)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		deps.repo.EXPECT().FindByIDAndCompany(ctx, companyID, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(ctx, companyID, id)
		assert.ErrorIs(t, err, stafferrors.ErrStaffNotFound)
	})

	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		deps.repo.EXPECT().
			FindByIDAndCompany(ctx, companyID, id.String()).
			Return(&staff.Staff{ID: id, FullName: "Cal", Email: "cal@hotel.test"}, nil)

		resp, err := deps.service.GetByID(ctx, companyID, id.String())
		assert.NoError(t, err)
		assert.Equal(t, "Cal", resp.FullName)
	})
}

func TestStaffService_Update(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	id := uuid.New()

	deps := setupServiceTest(t)
	defer deps.db.Close()

	expectTx(t, deps.sqlMock, true)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().
		FindByIDAndCompany(ctx, companyID, id.String()).
		Return(&staff.Staff{ID: id, FullName: "Old", Classification: "Kitchen"}, nil)
	deps.repo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, m *staff.Staff) error {
			assert.Equal(t, "New Name", m.FullName)
			assert.Equal(t, "Concierge", m.Classification)
			return nil
		})
	deps.redismock.ExpectDel(staff.GetStaffOptionsKey(companyID)).SetVal(1)

	resp, err := deps.service.Update(ctx, companyID, id.String(), staff.UpdateStaffRequest{
		FullName: "New Name", Classification: "Concierge", Email: "n@hotel.test",
	})

	assert.NoError(t, err)
	assert.Equal(t, "New Name", resp.FullName)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestStaffService_Delete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, companyID, id).Return(nil)
		deps.redismock.ExpectDel(staff.GetStaffOptionsKey(companyID)).SetVal(1)

		assert.NoError(t, deps.service.Delete(ctx, companyID, id))
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Delete(ctx, companyID, id).Return(gorm.ErrRecordNotFound)

		err := deps.service.Delete(ctx, companyID, id)
		assert.ErrorIs(t, err, stafferrors.ErrStaffNotFound)
	})
}
