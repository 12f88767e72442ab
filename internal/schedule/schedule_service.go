package schedule

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-hotel-staff/internal/leave"
	scheduleerrors "go-hotel-staff/internal/schedule/errors"
	"go-hotel-staff/internal/shared/clock"
	"go-hotel-staff/internal/shared/contextutil"
	"go-hotel-staff/internal/staff"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const slotConstraint = "uq_schedules_slot"

// LeaveReader supplies the company's leave requests for conflict checks.
type LeaveReader interface {
	FindAllByCompany(ctx context.Context, companyID string) ([]leave.LeaveRequest, error)
}

// StaffDirectory lists the members that can be put on a shift.
type StaffDirectory interface {
	GetOptions(ctx context.Context, companyID string) ([]staff.StaffOption, error)
}

//go:generate mockgen -source=schedule_service.go -destination=mock/schedule_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateScheduleRequest) (CreateScheduleResult, error)
	GetWeek(ctx context.Context, companyID string, offset int) (WeekResponse, error)
	GetAvailability(ctx context.Context, companyID, date string) (AvailabilityResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	FlagLeaveConflicts(ctx context.Context, companyID, staffID string, start, end time.Time) (int64, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	leaves LeaveReader
	staff  StaffDirectory
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	leaves LeaveReader,
	directory StaffDirectory,
	clk clock.Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("schedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.service")
	}
	if clk == nil {
		clk = clock.System(time.UTC)
	}
	return &service{
		db:     db,
		repo:   repo,
		leaves: leaves,
		staff:  directory,
		clock:  clk,
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateScheduleRequest) (CreateScheduleResult, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create schedule requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("date", req.Date),
		zap.String("shift", req.Shift),
		zap.Int("staff_count", len(req.StaffIDs)),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return CreateScheduleResult{}, scheduleerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return CreateScheduleResult{}, scheduleerrors.ErrInvalidActorID
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return CreateScheduleResult{}, err
	}
	shift, ok := ParseShift(req.Shift)
	if !ok {
		return CreateScheduleResult{}, scheduleerrors.ErrInvalidShift
	}
	staffIDs, err := parseStaffIDs(req.StaffIDs)
	if err != nil {
		return CreateScheduleResult{}, err
	}

	options, err := s.staff.GetOptions(ctx, companyID)
	if err != nil {
		log.Error("create schedule load staff failed", zap.Error(err))
		return CreateScheduleResult{}, err
	}
	known := make(map[string]staff.StaffOption, len(options))
	for _, o := range options {
		known[o.ID] = o
	}
	for _, id := range staffIDs {
		if _, ok := known[id.String()]; !ok {
			log.Warn("create schedule unknown staff", zap.String("staff_id", id.String()))
			return CreateScheduleResult{}, scheduleerrors.ErrStaffNotFound
		}
	}

	requests, err := s.leaves.FindAllByCompany(ctx, companyID)
	if err != nil {
		log.Error("create schedule load leaves failed", zap.Error(err))
		return CreateScheduleResult{}, err
	}
	onLeave := leave.BuildLeaveMapForDate(requests, date)

	result := CreateScheduleResult{UnavailableStaffIDs: []string{}}
	now := s.clock.Now()
	notes := optionalString(req.Notes)
	rows := make([]Schedule, 0, len(staffIDs))
	for _, id := range staffIDs {
		if leave.IsStaffOnLeave(onLeave, id) {
			result.UnavailableStaffIDs = append(result.UnavailableStaffIDs, id.String())
			continue
		}
		rows = append(rows, Schedule{
			ID:        uuid.New(),
			CompanyID: companyUUID,
			StaffID:   id,
			Date:      date,
			Shift:     shift,
			Status:    StatusScheduled,
			Notes:     notes,
			CreatedBy: actorUUID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if len(rows) == 0 {
		log.Warn("create schedule no available staff",
			zap.String("date", req.Date),
			zap.Strings("unavailable_staff_ids", result.UnavailableStaffIDs),
		)
		return result, scheduleerrors.ErrNoAvailableStaff
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create schedule begin tx failed", zap.Error(err))
		return CreateScheduleResult{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).CreateMany(ctx, rows); err != nil {
		log.Error("create schedule persist failed", zap.Error(err))
		return CreateScheduleResult{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("create schedule commit failed", zap.Error(err))
		return CreateScheduleResult{}, err
	}

	result.Created = make([]ScheduleResponse, len(rows))
	for i, row := range rows {
		resp := mapToResponse(row)
		resp.FullName = known[row.StaffID.String()].FullName
		resp.Classification = known[row.StaffID.String()].Classification
		result.Created[i] = resp
	}

	log.Info("create schedule success",
		zap.String("request_id", rid),
		zap.String("date", req.Date),
		zap.String("shift", string(shift)),
		zap.Int("created", len(rows)),
		zap.Int("skipped", len(result.UnavailableStaffIDs)),
	)
	return result, nil
}

func (s *service) GetWeek(ctx context.Context, companyID string, offset int) (WeekResponse, error) {
	s.logger.Debug("get schedule week requested",
		zap.String("company_id", companyID),
		zap.Int("week_offset", offset),
	)

	all, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get schedule week failed", zap.Error(err))
		return WeekResponse{}, err
	}

	window := leave.WeekDateRange(s.clock.Now(), offset)
	filtered := FilterSchedulesByWeek(all, window.Start, window.End)

	items := make([]ScheduleResponse, len(filtered))
	for i, row := range filtered {
		items[i] = mapToResponse(row)
	}
	return WeekResponse{
		Label: window.Label,
		Start: window.Start.Format(time.RFC3339),
		End:   window.End.Format(time.RFC3339),
		Items: items,
	}, nil
}

func (s *service) GetAvailability(ctx context.Context, companyID, date string) (AvailabilityResponse, error) {
	day := leave.DateOnly(s.clock.Now())
	if date != "" {
		parsed, err := parseDate(date)
		if err != nil {
			return AvailabilityResponse{}, err
		}
		day = parsed
	}

	options, err := s.staff.GetOptions(ctx, companyID)
	if err != nil {
		s.logger.Error("get availability load staff failed", zap.Error(err))
		return AvailabilityResponse{}, err
	}
	requests, err := s.leaves.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get availability load leaves failed", zap.Error(err))
		return AvailabilityResponse{}, err
	}
	onLeave := leave.BuildLeaveMapForDate(requests, day)

	res := AvailabilityResponse{
		Date:  day.Format(leave.DateLayout),
		Staff: make([]AvailableStaff, len(options)),
	}
	for i, o := range options {
		entry := AvailableStaff{
			ID:             o.ID,
			FullName:       o.FullName,
			Classification: o.Classification,
		}
		if id, err := uuid.Parse(o.ID); err == nil {
			if l, ok := onLeave[id]; ok {
				entry.OnLeave = true
				entry.LeaveType = string(l.LeaveType)
				res.UnavailableCount++
			}
		}
		res.Staff[i] = entry
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(id); err != nil {
		return scheduleerrors.ErrInvalidScheduleID
	}

	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		log.Warn("delete schedule failed", zap.String("schedule_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	log.Info("delete schedule success", zap.String("schedule_id", id))
	return nil
}

func (s *service) FlagLeaveConflicts(ctx context.Context, companyID, staffID string, start, end time.Time) (int64, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	if _, err := uuid.Parse(staffID); err != nil {
		return 0, scheduleerrors.ErrInvalidStaffID
	}

	n, err := s.repo.FlagConflicts(ctx, companyID, staffID, leave.DateOnly(start), leave.DateOnly(end))
	if err != nil {
		log.Error("flag schedule conflicts failed",
			zap.String("company_id", companyID),
			zap.String("staff_id", staffID),
			zap.Error(err),
		)
		return 0, err
	}

	if n > 0 {
		log.Info("flag schedule conflicts",
			zap.String("company_id", companyID),
			zap.String("staff_id", staffID),
			zap.Int64("flagged", n),
		)
	}
	return n, nil
}

// parseStaffIDs validates and de-duplicates while keeping request order.
func parseStaffIDs(raw []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(raw))
	out := make([]uuid.UUID, 0, len(raw))
	for _, v := range raw {
		id, err := uuid.Parse(strings.TrimSpace(v))
		if err != nil {
			return nil, scheduleerrors.ErrInvalidStaffID
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, scheduleerrors.ErrInvalidStaffID
	}
	return out, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(leave.DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, scheduleerrors.ErrInvalidDateFormat
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

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return scheduleerrors.ErrScheduleNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == slotConstraint {
		return scheduleerrors.ErrScheduleSlotTaken
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, slotConstraint) {
		return scheduleerrors.ErrScheduleSlotTaken
	}
	return err
}

func mapToResponse(s Schedule) ScheduleResponse {
	resp := ScheduleResponse{
		ID:        s.ID.String(),
		StaffID:   s.StaffID.String(),
		Date:      s.Date.Format(leave.DateLayout),
		Shift:     string(s.Shift),
		Status:    string(s.Status),
		Notes:     s.Notes,
		CreatedBy: s.CreatedBy.String(),
	}
	if s.Staff != nil {
		resp.FullName = s.Staff.FullName
		resp.Classification = s.Staff.Classification
	}
	return resp
}
