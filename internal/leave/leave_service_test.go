package leave_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-hotel-staff/internal/events"
	"go-hotel-staff/internal/leave"
	leaveerrors "go-hotel-staff/internal/leave/errors"
	"go-hotel-staff/internal/messaging/kafka"
	"go-hotel-staff/internal/shared/clock"
	"go-hotel-staff/internal/shared/contextutil"
	"go-hotel-staff/internal/shared/counter"
	"go-hotel-staff/internal/staff"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn             func(tx *sql.Tx) leave.Repository
	createFn             func(ctx context.Context, l *leave.LeaveRequest) error
	findAllByCompanyFn   func(ctx context.Context, companyID string) ([]leave.LeaveRequest, error)
	findByIDAndCompanyFn func(ctx context.Context, companyID, id string) (*leave.LeaveRequest, error)
	transitionStatusFn   func(ctx context.Context, companyID, id string, change leave.StatusChange) (bool, error)
	deletePendingFn      func(ctx context.Context, companyID, id string) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAllByCompany(ctx context.Context, companyID string) ([]leave.LeaveRequest, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leave.LeaveRequest, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) TransitionStatus(ctx context.Context, companyID, id string, change leave.StatusChange) (bool, error) {
	if f.transitionStatusFn != nil {
		return f.transitionStatusFn(ctx, companyID, id, change)
	}
	return true, nil
}

func (f *fakeLeaveRepository) DeletePending(ctx context.Context, companyID, id string) (bool, error) {
	if f.deletePendingFn != nil {
		return f.deletePendingFn(ctx, companyID, id)
	}
	return true, nil
}

type fakeStaffReader struct {
	members map[string]*staff.Staff
}

func (f *fakeStaffReader) FindByIDAndCompany(_ context.Context, _ string, id string) (*staff.Staff, error) {
	if m, ok := f.members[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeCounter struct {
	next int64
	err  error
	// inTx counts values handed out through a transaction-bound copy.
	inTx int
}

func (f *fakeCounter) WithTx(tx *sql.Tx) counter.Repository {
	return &txCounter{parent: f, tx: tx}
}

type txCounter struct {
	parent *fakeCounter
	tx     *sql.Tx
}

func (c *txCounter) WithTx(tx *sql.Tx) counter.Repository { return c.parent.WithTx(tx) }

func (c *txCounter) GetNextValue(ctx context.Context, companyID, counterType string) (int64, error) {
	v, err := c.parent.GetNextValue(ctx, companyID, counterType)
	if err == nil && c.tx != nil {
		c.parent.inTx++
	}
	return v, err
}

func (f *fakeCounter) GetNextValue(context.Context, string, string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.next++
	return f.next, nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
	err     error
}

func (f *fakeOutbox) WithTx(*sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(_ context.Context, e kafka.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, e)
	return nil
}
func (f *fakeOutbox) ListPending(context.Context, int) ([]kafka.OutboxEvent, error) { return nil, nil }
func (f *fakeOutbox) MarkSent(context.Context, string) error                       { return nil }
func (f *fakeOutbox) MarkFailed(context.Context, string, string) error             { return nil }

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	staff   *fakeStaffReader
	counter *fakeCounter
	outbox  *fakeOutbox
}

// 2025-03-03 is a Monday.
var fixedNow = time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC)

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	deps := &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    &fakeLeaveRepository{},
		staff:   &fakeStaffReader{members: map[string]*staff.Staff{}},
		counter: &fakeCounter{},
		outbox:  &fakeOutbox{},
	}
	deps.service = leave.NewService(db, deps.repo, deps.staff, deps.counter, deps.outbox, clock.Fixed(fixedNow))
	return deps
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

func (d *leaveServiceDeps) addStaff(name string) *staff.Staff {
	m := &staff.Staff{ID: uuid.New(), FullName: name, Classification: "Front Desk"}
	d.staff.members[m.ID.String()] = m
	return m
}

func TestLeaveService_Create(t *testing.T) {
	companyID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		jane := deps.addStaff("Jane Doe")

		expectTx(t, deps.sqlMock, true)

		var saved *leave.LeaveRequest
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			saved = l
			return nil
		}

		ctx := contextutil.WithRequestID(context.Background(), "REQ-1")
		resp, err := deps.service.Create(ctx, companyID, actorID, leave.CreateLeaveRequest{
			StaffID:   jane.ID.String(),
			LeaveType: "Sick",
			StartDate: "2025-03-10",
			EndDate:   "2025-03-14",
			Notes:     "  family  ",
		})

		assert.NoError(t, err)
		assert.Equal(t, "LV-000001", resp.ReferenceNo)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, 5, resp.TotalDays)
		assert.Equal(t, "Jane Doe", resp.FullName)
		assert.Equal(t, "Front Desk", resp.Classification)
		assert.Equal(t, "Sick", resp.LeaveType)
		assert.Equal(t, "family", *resp.Notes)

		assert.NotNil(t, saved)
		assert.Equal(t, 5, *saved.TotalDays)
		assert.Equal(t, 1, deps.counter.inTx)
		assert.Equal(t, actorID, saved.CreatedBy.String())

		assert.Len(t, deps.outbox.created, 1)
		e := deps.outbox.created[0]
		assert.Equal(t, events.LeaveRequestedTopic, e.Topic)
		assert.Equal(t, "REQ-1", e.RequestID)
		assert.Equal(t, kafka.OutboxStatusPending, e.Status)

		var payload events.LeaveRequestedEvent
		assert.NoError(t, json.Unmarshal(e.Payload, &payload))
		assert.Equal(t, jane.ID.String(), payload.StaffID)
		assert.Equal(t, "2025-03-10", payload.StartDate)
		assert.Equal(t, 5, payload.TotalDays)

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("defaults leave type to vacation", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		jane := deps.addStaff("Jane Doe")
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(context.Background(), companyID, actorID, leave.CreateLeaveRequest{
			StaffID:   jane.ID.String(),
			StartDate: "2025-03-10",
			EndDate:   "2025-03-10",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Vacation", resp.LeaveType)
		assert.Nil(t, resp.Notes)
	})

	t.Run("rejection reasons map to errors and never open a tx", func(t *testing.T) {
		tests := []struct {
			name     string
			existing func(staffID uuid.UUID) []leave.LeaveRequest
			start    string
			end      string
			wantErr  error
		}{
			{
				name: "active request",
				existing: func(id uuid.UUID) []leave.LeaveRequest {
					return []leave.LeaveRequest{{StaffID: id, Status: leave.StatusPending,
						StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)}}
				},
				start:   "2025-05-05",
				end:     "2025-05-06",
				wantErr: leaveerrors.ErrActiveRequestExists,
			},
			{name: "reversed dates", start: "2025-03-20", end: "2025-03-19", wantErr: leaveerrors.ErrInvalidDateRange},
			{name: "short notice", start: "2025-03-07", end: "2025-03-07", wantErr: leaveerrors.ErrInsufficientNotice},
			{name: "over balance", start: "2025-04-07", end: "2025-05-16", wantErr: leaveerrors.ErrInsufficientBalance},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				deps := setupLeaveServiceTest(t)
				defer deps.db.Close()
				jane := deps.addStaff("Jane Doe")
				if tt.existing != nil {
					deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string) ([]leave.LeaveRequest, error) {
						return tt.existing(jane.ID), nil
					}
				}

				_, err := deps.service.Create(context.Background(), companyID, actorID, leave.CreateLeaveRequest{
					StaffID:   jane.ID.String(),
					StartDate: tt.start,
					EndDate:   tt.end,
				})

				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, deps.outbox.created)
				assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
			})
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		jane := deps.addStaff("Jane Doe")

		_, err := deps.service.Create(context.Background(), companyID, actorID, leave.CreateLeaveRequest{
			StaffID: jane.ID.String(), StartDate: "10/03/2025", EndDate: "2025-03-14",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)

		_, err = deps.service.Create(context.Background(), companyID, "nope", leave.CreateLeaveRequest{
			StaffID: jane.ID.String(), StartDate: "2025-03-10", EndDate: "2025-03-14",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidActorID)

		_, err = deps.service.Create(context.Background(), companyID, actorID, leave.CreateLeaveRequest{
			StaffID: jane.ID.String(), LeaveType: "Sabbatical", StartDate: "2025-03-10", EndDate: "2025-03-14",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)
	})

	t.Run("unknown staff", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(context.Background(), companyID, actorID, leave.CreateLeaveRequest{
			StaffID: uuid.NewString(), StartDate: "2025-03-10", EndDate: "2025-03-14",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrStaffNotFound)
	})

	t.Run("concurrent submission hits the partial unique index", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		jane := deps.addStaff("Jane Doe")
		expectTx(t, deps.sqlMock, false)

		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveRequest) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_leave_requests_active_staff"}
		}

		_, err := deps.service.Create(context.Background(), companyID, actorID, leave.CreateLeaveRequest{
			StaffID: jane.ID.String(), StartDate: "2025-03-10", EndDate: "2025-03-14",
		})

		assert.ErrorIs(t, err, leaveerrors.ErrActiveRequestExists)
		assert.Empty(t, deps.outbox.created)
		// the reference was taken inside the rolled back tx
		assert.Equal(t, 1, deps.counter.inTx)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		jane := deps.addStaff("Jane Doe")
		expectTx(t, deps.sqlMock, false)
		deps.outbox.err = errors.New("outbox down")

		_, err := deps.service.Create(context.Background(), companyID, actorID, leave.CreateLeaveRequest{
			StaffID: jane.ID.String(), StartDate: "2025-03-10", EndDate: "2025-03-14",
		})

		assert.EqualError(t, err, "outbox down")
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_GetAll(t *testing.T) {
	companyID := uuid.New().String()
	staffA, staffB := uuid.New(), uuid.New()

	requests := []leave.LeaveRequest{
		{ID: uuid.New(), StaffID: staffA, Status: leave.StatusApproved,
			StartDate: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), StaffID: staffB, Status: leave.StatusPending,
			StartDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), StaffID: staffA, Status: leave.StatusRejected,
			StartDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)},
	}

	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()
	deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string) ([]leave.LeaveRequest, error) {
		assert.Equal(t, companyID, cid)
		return requests, nil
	}

	t.Run("no filter", func(t *testing.T) {
		res, err := deps.service.GetAll(context.Background(), companyID, leave.ListFilter{})
		assert.NoError(t, err)
		assert.Len(t, res.Items, 3)
		assert.Nil(t, res.Window)
	})

	t.Run("this week", func(t *testing.T) {
		offset := 0
		res, err := deps.service.GetAll(context.Background(), companyID, leave.ListFilter{WeekOffset: &offset})
		assert.NoError(t, err)
		assert.Len(t, res.Items, 1)
		assert.Equal(t, requests[0].ID.String(), res.Items[0].ID)
		assert.Equal(t, "This Week", res.Window.Label)
		assert.Equal(t, "2025-03-02T00:00:00Z", res.Window.Start)
	})

	t.Run("next week includes a request that started before it", func(t *testing.T) {
		offset := 2
		res, err := deps.service.GetAll(context.Background(), companyID, leave.ListFilter{WeekOffset: &offset})
		assert.NoError(t, err)
		assert.Len(t, res.Items, 1)
		assert.Equal(t, requests[1].ID.String(), res.Items[0].ID)
		assert.Equal(t, "2 Weeks Ahead", res.Window.Label)
	})

	t.Run("staff and status", func(t *testing.T) {
		res, err := deps.service.GetAll(context.Background(), companyID, leave.ListFilter{StaffID: staffA.String(), Status: "REJECTED"})
		assert.NoError(t, err)
		assert.Len(t, res.Items, 1)
		assert.Equal(t, requests[2].ID.String(), res.Items[0].ID)
	})

	t.Run("repository error", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string) ([]leave.LeaveRequest, error) {
			return nil, errors.New("db error")
		}
		_, err := deps.service.GetAll(context.Background(), companyID, leave.ListFilter{})
		assert.Error(t, err)
	})
}

func TestLeaveService_GetBalance(t *testing.T) {
	companyID := uuid.New().String()
	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()
	jane := deps.addStaff("Jane Doe")

	deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string) ([]leave.LeaveRequest, error) {
		return []leave.LeaveRequest{
			{StaffID: jane.ID, Status: leave.StatusApproved,
				StartDate: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
			{StaffID: jane.ID, Status: leave.StatusPending,
				StartDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)},
		}, nil
	}

	resp, err := deps.service.GetBalance(context.Background(), companyID, jane.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", resp.FullName)
	assert.Equal(t, leave.Balance{TotalEntitlement: 25, Used: 5, Pending: 2, Remaining: 18, Year: 2025}, resp.Balance)
	assert.Equal(t, leave.TierHealthy, resp.Tier)

	_, err = deps.service.GetBalance(context.Background(), companyID, "bad")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidStaffID)

	_, err = deps.service.GetBalance(context.Background(), companyID, uuid.NewString())
	assert.ErrorIs(t, err, leaveerrors.ErrStaffNotFound)
}

func TestLeaveService_GetUnavailableStaff(t *testing.T) {
	companyID := uuid.New().String()
	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	bob, amy := uuid.New(), uuid.New()
	deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string) ([]leave.LeaveRequest, error) {
		return []leave.LeaveRequest{
			{ID: uuid.New(), StaffID: bob, FullName: "Bob", Status: leave.StatusApproved, LeaveType: leave.TypeSick,
				StartDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
			{ID: uuid.New(), StaffID: amy, FullName: "Amy", Status: leave.StatusApproved,
				StartDate: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)},
			{ID: uuid.New(), StaffID: uuid.New(), FullName: "Cal", Status: leave.StatusPending,
				StartDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		}, nil
	}

	resp, err := deps.service.GetUnavailableStaff(context.Background(), companyID, "2025-03-12")
	assert.NoError(t, err)
	assert.Equal(t, "2025-03-12", resp.Date)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "Amy", resp.Staff[0].FullName)
	assert.Equal(t, "Bob", resp.Staff[1].FullName)
	assert.Equal(t, "Sick", resp.Staff[1].LeaveType)

	resp, err = deps.service.GetUnavailableStaff(context.Background(), companyID, "")
	assert.NoError(t, err)
	assert.Equal(t, "2025-03-03", resp.Date)
	assert.Equal(t, 0, resp.Count)

	_, err = deps.service.GetUnavailableStaff(context.Background(), companyID, "tomorrow")
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
}

func TestLeaveService_Approve(t *testing.T) {
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	leaveID := uuid.New()
	staffID := uuid.New()

	pending := func() *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID: leaveID, StaffID: staffID, Status: leave.StatusPending,
			StartDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		}
	}

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return pending(), nil
		}
		deps.repo.transitionStatusFn = func(ctx context.Context, cid, id string, change leave.StatusChange) (bool, error) {
			assert.Equal(t, leave.StatusApproved, change.To)
			assert.Equal(t, actorID, change.ActorID.String())
			assert.Equal(t, fixedNow, change.At)
			return true, nil
		}

		resp, err := deps.service.Approve(context.Background(), companyID, actorID, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, "approved", resp.Status)
		assert.Equal(t, actorID, *resp.ApprovedBy)
		assert.Len(t, deps.outbox.created, 1)

		var payload events.LeaveStatusChangedEvent
		assert.NoError(t, json.Unmarshal(deps.outbox.created[0].Payload, &payload))
		assert.Equal(t, "approved", payload.Status)
		assert.Equal(t, staffID.String(), payload.StaffID)
		assert.Equal(t, "2025-03-14", payload.EndDate)
		assert.Equal(t, events.LeaveStatusChangedTopic, deps.outbox.created[0].Topic)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("terminal state cannot transition", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			l := pending()
			l.Status = leave.StatusRejected
			return l, nil
		}
		deps.repo.transitionStatusFn = func(ctx context.Context, cid, id string, change leave.StatusChange) (bool, error) {
			t.Fatal("must not write")
			return false, nil
		}

		_, err := deps.service.Approve(context.Background(), companyID, actorID, leaveID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("lost race", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return pending(), nil
		}
		deps.repo.transitionStatusFn = func(ctx context.Context, cid, id string, change leave.StatusChange) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Approve(context.Background(), companyID, actorID, leaveID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.Empty(t, deps.outbox.created)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Approve(context.Background(), companyID, actorID, leaveID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_Reject(t *testing.T) {
	companyID := uuid.New().String()
	actorID := uuid.New().String()
	leaveID := uuid.New()

	t.Run("reason required", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Reject(context.Background(), companyID, actorID, leaveID.String(), "   ")
		assert.ErrorIs(t, err, leaveerrors.ErrRejectionReasonRequired)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{ID: leaveID, Status: leave.StatusPending,
				StartDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}, nil
		}
		deps.repo.transitionStatusFn = func(ctx context.Context, cid, id string, change leave.StatusChange) (bool, error) {
			assert.Equal(t, leave.StatusRejected, change.To)
			assert.Equal(t, "short staffed", *change.RejectionReason)
			return true, nil
		}

		resp, err := deps.service.Reject(context.Background(), companyID, actorID, leaveID.String(), " short staffed ")
		assert.NoError(t, err)
		assert.Equal(t, "rejected", resp.Status)
		assert.Equal(t, "short staffed", *resp.RejectionReason)
		assert.Nil(t, resp.ApprovedBy)
	})
}

func TestLeaveService_Withdraw(t *testing.T) {
	companyID := uuid.New().String()
	leaveID := uuid.New()

	t.Run("pending is deleted", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{ID: leaveID, Status: leave.StatusPending}, nil
		}
		called := false
		deps.repo.deletePendingFn = func(ctx context.Context, cid, id string) (bool, error) {
			called = true
			return true, nil
		}

		assert.NoError(t, deps.service.Withdraw(context.Background(), companyID, leaveID.String()))
		assert.True(t, called)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("approved cannot be withdrawn", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		expectTx(t, deps.sqlMock, false)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveRequest, error) {
			return &leave.LeaveRequest{ID: leaveID, Status: leave.StatusApproved}, nil
		}

		err := deps.service.Withdraw(context.Background(), companyID, leaveID.String())
		assert.ErrorIs(t, err, leaveerrors.ErrWithdrawNotPending)
	})

	t.Run("bad id", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()
		err := deps.service.Withdraw(context.Background(), companyID, "x")
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveID)
	})
}

func TestLeaveService_Export(t *testing.T) {
	deps := setupLeaveServiceTest(t)
	defer deps.db.Close()

	staffID := uuid.New()
	deps.repo.findAllByCompanyFn = func(ctx context.Context, cid string) ([]leave.LeaveRequest, error) {
		return []leave.LeaveRequest{
			{ID: uuid.New(), StaffID: staffID, FullName: "Jane Doe", ReferenceNo: "LV-000001", Status: leave.StatusApproved,
				LeaveType: leave.TypeVacation,
				StartDate: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		}, nil
	}

	data, err := deps.service.Export(context.Background(), uuid.NewString(), leave.ListFilter{})

	assert.NoError(t, err)
	// xlsx is a zip container
	assert.True(t, len(data) > 4)
	assert.Equal(t, []byte("PK"), data[:2])
}
