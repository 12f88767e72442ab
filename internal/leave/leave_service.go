package leave

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"go-hotel-staff/internal/events"
	leaveerrors "go-hotel-staff/internal/leave/errors"
	"go-hotel-staff/internal/messaging/kafka"
	"go-hotel-staff/internal/shared/clock"
	"go-hotel-staff/internal/shared/contextutil"
	"go-hotel-staff/internal/shared/counter"
	"go-hotel-staff/internal/staff"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	ReferencePrefix = "LV"

	activeRequestConstraint = "uq_leave_requests_active_staff"
)

// StaffReader is the part of the staff directory the leave workflow needs.
type StaffReader interface {
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*staff.Staff, error)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListFilter) (ListResult, error)
	GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error)
	GetBalance(ctx context.Context, companyID, staffID string) (BalanceResponse, error)
	GetUnavailableStaff(ctx context.Context, companyID, date string) (UnavailableResponse, error)
	Approve(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (LeaveResponse, error)
	Withdraw(ctx context.Context, companyID, id string) error
	Export(ctx context.Context, companyID string, filter ListFilter) ([]byte, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	staff   StaffReader
	counter counter.Repository
	outbox  kafka.OutboxRepository
	clock   clock.Clock
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	staffReader StaffReader,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if clk == nil {
		clk = clock.System(time.UTC)
	}
	return &service{
		db:      db,
		repo:    repo,
		staff:   staffReader,
		counter: counterRepo,
		outbox:  outboxRepo,
		clock:   clk,
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("staff_id", req.StaffID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	in, err := validateCreateRequest(companyID, actorID, req)
	if err != nil {
		log.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	member, err := s.staff.FindByIDAndCompany(ctx, companyID, req.StaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrStaffNotFound
		}
		log.Error("create leave staff lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	all, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		log.Error("create leave load requests failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	now := s.clock.Now()
	verdict := CheckEligibility(EligibilityInput{
		StaffID:   in.staffID,
		StartDate: in.start,
		EndDate:   in.end,
	}, all, now)
	if !verdict.Allowed {
		log.Warn("create leave rejected",
			zap.String("staff_id", req.StaffID),
			zap.String("reason", string(verdict.Reason)),
			zap.Int("days", verdict.Days),
			zap.Int("remaining", verdict.Balance.Remaining),
		)
		return LeaveResponse{}, reasonToError(verdict.Reason)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	seq, err := s.counter.WithTx(tx).GetNextValue(ctx, companyID, counter.TypeLeaveRequest)
	if err != nil {
		log.Error("create leave generate reference failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	days := verdict.Days
	l := &LeaveRequest{
		ID:             uuid.New(),
		CompanyID:      in.companyID,
		StaffID:        in.staffID,
		ReferenceNo:    counter.Reference(ReferencePrefix, seq),
		FullName:       member.FullName,
		Classification: member.Classification,
		StartDate:      in.start,
		EndDate:        in.end,
		LeaveType:      in.leaveType,
		TotalDays:      &days,
		Notes:          optionalString(req.Notes),
		Status:         StatusPending,
		CreatedBy:      in.actorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := qtx.Create(ctx, l); err != nil {
		log.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.LeaveRequestedEvent{
			EventType:   events.LeaveRequestedType,
			RequestID:   rid,
			LeaveID:     l.ID.String(),
			ReferenceNo: l.ReferenceNo,
			CompanyID:   companyID,
			StaffID:     l.StaffID.String(),
			StartDate:   l.StartDate.Format(DateLayout),
			EndDate:     l.EndDate.Format(DateLayout),
			TotalDays:   days,
			OccurredAt:  now.UTC(),
		}
		if err := s.enqueue(ctx, tx, rid, l.ID.String(), event.EventType, events.LeaveRequestedTopic, event); err != nil {
			log.Error("create leave outbox persist failed",
				zap.String("leave_id", l.ID.String()),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("create leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	log.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("reference_no", l.ReferenceNo),
		zap.String("staff_id", req.StaffID),
		zap.Int("days", days),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListFilter) (ListResult, error) {
	s.logger.Debug("get all leaves requested",
		zap.String("company_id", companyID),
		zap.String("staff_id", filter.StaffID),
		zap.String("status", filter.Status),
	)

	requests, _, window, err := s.list(ctx, companyID, filter)
	if err != nil {
		return ListResult{}, err
	}

	res := ListResult{Items: mapToListResponse(requests)}
	if window != nil {
		res.Window = &WeekWindowResponse{
			Label: window.Label,
			Start: window.Start.Format(time.RFC3339),
			End:   window.End.Format(time.RFC3339),
		}
	}
	return res, nil
}

// list loads the company's requests and applies filter in memory. The
// unfiltered slice is returned too since balances need it.
func (s *service) list(ctx context.Context, companyID string, filter ListFilter) ([]LeaveRequest, []LeaveRequest, *WeekRange, error) {
	all, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("list leaves failed", zap.Error(err))
		return nil, nil, nil, err
	}

	var window *WeekRange
	if filter.WeekOffset != nil {
		w := WeekDateRange(s.clock.Now(), *filter.WeekOffset)
		window = &w
	}

	out := make([]LeaveRequest, 0, len(all))
	for _, r := range all {
		if filter.StaffID != "" && r.StaffID.String() != filter.StaffID {
			continue
		}
		if filter.Status != "" && !strings.EqualFold(string(r.Status), filter.Status) {
			continue
		}
		if window != nil && !r.Overlaps(window.Start, window.End) {
			continue
		}
		out = append(out, r)
	}
	return out, all, window, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	l, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*l), nil
}

func (s *service) GetBalance(ctx context.Context, companyID, staffID string) (BalanceResponse, error) {
	s.logger.Debug("get leave balance requested",
		zap.String("company_id", companyID),
		zap.String("staff_id", staffID),
	)
	staffUUID, err := uuid.Parse(staffID)
	if err != nil {
		return BalanceResponse{}, leaveerrors.ErrInvalidStaffID
	}

	member, err := s.staff.FindByIDAndCompany(ctx, companyID, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, leaveerrors.ErrStaffNotFound
		}
		return BalanceResponse{}, err
	}

	all, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get leave balance load requests failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	b := CalculateLeaveBalance(staffUUID, all, s.clock.Now())
	return BalanceResponse{
		StaffID:  staffID,
		FullName: member.FullName,
		Balance:  b,
		Tier:     TierFor(b.Remaining),
	}, nil
}

func (s *service) GetUnavailableStaff(ctx context.Context, companyID, date string) (UnavailableResponse, error) {
	day := DateOnly(s.clock.Now())
	if date != "" {
		parsed, err := parseDate(date)
		if err != nil {
			return UnavailableResponse{}, err
		}
		day = parsed
	}

	all, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get unavailable staff failed", zap.Error(err))
		return UnavailableResponse{}, err
	}

	onLeave := BuildLeaveMapForDate(all, day)
	res := UnavailableResponse{
		Date:  day.Format(DateLayout),
		Count: len(onLeave),
		Staff: make([]UnavailableStaff, 0, len(onLeave)),
	}
	for staffID, l := range onLeave {
		res.Staff = append(res.Staff, UnavailableStaff{
			StaffID:        staffID.String(),
			FullName:       l.FullName,
			Classification: l.Classification,
			LeaveID:        l.ID.String(),
			LeaveType:      string(l.LeaveType),
			StartDate:      l.StartDate.Format(DateLayout),
			EndDate:        l.EndDate.Format(DateLayout),
		})
	}
	sort.Slice(res.Staff, func(i, j int) bool {
		return res.Staff[i].FullName < res.Staff[j].FullName
	})
	return res, nil
}

func (s *service) Approve(ctx context.Context, companyID, actorID, id string) (LeaveResponse, error) {
	return s.transition(ctx, companyID, actorID, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, companyID, actorID, id, rejectionReason string) (LeaveResponse, error) {
	reason := strings.TrimSpace(rejectionReason)
	if reason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}
	return s.transition(ctx, companyID, actorID, id, StatusRejected, &reason)
}

func (s *service) transition(ctx context.Context, companyID, actorID, id string, target Status, rejectionReason *string) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("transition leave status requested",
		zap.String("leave_id", id),
		zap.String("company_id", companyID),
		zap.String("actor_id", actorID),
		zap.String("target_status", string(target)),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("transition leave status begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !l.Status.CanTransitionTo(target) {
		log.Warn("transition leave status invalid",
			zap.String("leave_id", id),
			zap.String("from_status", string(l.Status)),
			zap.String("to_status", string(target)),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	now := s.clock.Now()
	changed, err := qtx.TransitionStatus(ctx, companyID, id, StatusChange{
		To:              target,
		ActorID:         actorUUID,
		At:              now,
		RejectionReason: rejectionReason,
	})
	if err != nil {
		log.Error("transition leave status persist failed",
			zap.String("leave_id", id),
			zap.String("target_status", string(target)),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if !changed {
		// someone else decided it between our read and write
		log.Warn("transition leave status lost race", zap.String("leave_id", id))
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	l.Status = target
	l.UpdatedAt = now
	if target == StatusApproved {
		l.ApprovedBy = &actorUUID
		l.ApprovedAt = &now
	} else {
		l.RejectionReason = rejectionReason
	}

	if s.outbox != nil {
		event := events.LeaveStatusChangedEvent{
			EventType:  events.LeaveStatusChangedType,
			RequestID:  rid,
			LeaveID:    l.ID.String(),
			CompanyID:  companyID,
			StaffID:    l.StaffID.String(),
			Status:     string(target),
			StartDate:  l.StartDate.Format(DateLayout),
			EndDate:    l.EndDate.Format(DateLayout),
			ActorID:    actorID,
			OccurredAt: now.UTC(),
		}
		if err := s.enqueue(ctx, tx, rid, l.ID.String(), event.EventType, events.LeaveStatusChangedTopic, event); err != nil {
			log.Error("transition leave status outbox persist failed",
				zap.String("leave_id", id),
				zap.Error(err),
			)
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("transition leave status commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	log.Info("transition leave status success",
		zap.String("leave_id", id),
		zap.String("status", string(target)),
	)
	return mapToResponse(*l), nil
}

func (s *service) Withdraw(ctx context.Context, companyID, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("withdraw leave begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if l.Status != StatusPending {
		return leaveerrors.ErrWithdrawNotPending
	}

	deleted, err := qtx.DeletePending(ctx, companyID, id)
	if err != nil {
		log.Error("withdraw leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}
	if !deleted {
		return leaveerrors.ErrWithdrawNotPending
	}

	if err := tx.Commit(); err != nil {
		log.Error("withdraw leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return err
	}

	log.Info("withdraw leave success", zap.String("leave_id", id))
	return nil
}

func (s *service) Export(ctx context.Context, companyID string, filter ListFilter) ([]byte, error) {
	requests, all, window, err := s.list(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	title := "All Requests"
	if window != nil {
		title = window.Label
	}

	buf, err := BuildWorkbook(title, requests, all, s.clock.Now())
	if err != nil {
		s.logger.Error("export leaves failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("export leaves success",
		zap.String("company_id", companyID),
		zap.Int("rows", len(requests)),
	)
	return buf.Bytes(), nil
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, rid, aggregateID, eventType, topic string, event any) error {
	evt, err := kafka.NewOutboxEvent("leave_request", aggregateID, eventType, topic, rid, event)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, evt)
}

type createInput struct {
	companyID uuid.UUID
	actorID   uuid.UUID
	staffID   uuid.UUID
	start     time.Time
	end       time.Time
	leaveType LeaveType
}

func validateCreateRequest(companyID, actorID string, req CreateLeaveRequest) (createInput, error) {
	var in createInput
	var err error

	if in.companyID, err = uuid.Parse(companyID); err != nil {
		return in, leaveerrors.ErrInvalidCompanyID
	}
	if in.actorID, err = uuid.Parse(actorID); err != nil {
		return in, leaveerrors.ErrInvalidActorID
	}
	if in.staffID, err = uuid.Parse(req.StaffID); err != nil {
		return in, leaveerrors.ErrInvalidStaffID
	}
	if in.start, err = parseDate(req.StartDate); err != nil {
		return in, err
	}
	if in.end, err = parseDate(req.EndDate); err != nil {
		return in, err
	}

	in.leaveType = TypeVacation
	if req.LeaveType != "" {
		t, ok := ParseLeaveType(req.LeaveType)
		if !ok {
			return in, leaveerrors.ErrInvalidLeaveType
		}
		in.leaveType = t
	}
	return in, nil
}

func reasonToError(reason RejectReason) error {
	switch reason {
	case ReasonActiveRequestExists:
		return leaveerrors.ErrActiveRequestExists
	case ReasonInvalidDateRange:
		return leaveerrors.ErrInvalidDateRange
	case ReasonInsufficientNotice:
		return leaveerrors.ErrInsufficientNotice
	case ReasonInsufficientBalance:
		return leaveerrors.ErrInsufficientBalance
	default:
		return leaveerrors.ErrInvalidDateRange
	}
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == activeRequestConstraint {
		return leaveerrors.ErrActiveRequestExists
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, activeRequestConstraint) {
		return leaveerrors.ErrActiveRequestExists
	}
	return err
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		CompanyID:       l.CompanyID.String(),
		ReferenceNo:     l.ReferenceNo,
		StaffID:         l.StaffID.String(),
		FullName:        l.FullName,
		Classification:  l.Classification,
		LeaveType:       string(l.LeaveType),
		StartDate:       l.StartDate.Format(DateLayout),
		EndDate:         l.EndDate.Format(DateLayout),
		TotalDays:       l.WorkingDays(),
		Notes:           l.Notes,
		Status:          string(l.Status),
		CreatedBy:       l.CreatedBy.String(),
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(requests))
	for i, l := range requests {
		resp[i] = mapToResponse(l)
	}
	return resp
}
