package staff

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go-hotel-staff/internal/shared/contextutil"
	stafferrors "go-hotel-staff/internal/staff/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	StaffOptionsKeyPrefix = "staff:options:"
	StaffOptionsTTL       = 1 * time.Hour
)

func GetStaffOptionsKey(companyID string) string {
	return StaffOptionsKeyPrefix + companyID
}

//go:generate mockgen -source=staff_service.go -destination=mock/staff_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateStaffRequest) (StaffResponse, error)
	GetAll(ctx context.Context, companyID string) ([]StaffResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]StaffOption, error)
	GetByID(ctx context.Context, companyID, id string) (StaffResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateStaffRequest) (StaffResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("staff.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("staff.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateStaffRequest) (StaffResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("create staff requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("email", req.Email),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return StaffResponse{}, stafferrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("create staff begin tx failed", zap.Error(err))
		return StaffResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	member := &Staff{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		FullName:       req.FullName,
		Classification: req.Classification,
		Email:          req.Email,
		Phone:          req.Phone,
	}
	if err := qtx.Create(ctx, member); err != nil {
		log.Error("create staff persist failed", zap.Error(err))
		return StaffResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("create staff commit failed", zap.String("request_id", rid), zap.Error(err))
		return StaffResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)
	log.Info("create staff success",
		zap.String("request_id", rid),
		zap.String("staff_id", member.ID.String()),
	)

	return mapToResponse(*member), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]StaffResponse, error) {
	s.logger.Debug("get all staff requested", zap.String("company_id", companyID))
	members, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all staff failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(members), nil
}

func (s *service) GetOptions(ctx context.Context, companyID string) ([]StaffOption, error) {
	cacheKey := GetStaffOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []StaffOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// one DB read per company when the cache is cold
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		members, err := s.repo.FindOptionsByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToOptions(members)
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, jsonData, StaffOptionsTTL).Err(); err != nil {
					s.logger.Warn("cache staff options failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("get staff options failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	return v.([]StaffOption), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (StaffResponse, error) {
	s.logger.Debug("get staff by id requested",
		zap.String("company_id", companyID),
		zap.String("staff_id", id),
	)
	if _, err := uuid.Parse(id); err != nil {
		return StaffResponse{}, stafferrors.ErrInvalidStaffID
	}

	member, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Warn("get staff by id failed", zap.Error(err))
		return StaffResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*member), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateStaffRequest) (StaffResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("update staff requested",
		zap.String("company_id", companyID),
		zap.String("staff_id", id),
	)
	if _, err := uuid.Parse(id); err != nil {
		return StaffResponse{}, stafferrors.ErrInvalidStaffID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("update staff begin tx failed", zap.Error(err))
		return StaffResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	member, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		log.Warn("update staff fetch existing failed", zap.Error(err))
		return StaffResponse{}, mapRepositoryError(err)
	}

	member.FullName = req.FullName
	member.Classification = req.Classification
	member.Email = req.Email
	member.Phone = req.Phone

	if err := qtx.Update(ctx, member); err != nil {
		log.Error("update staff persist failed", zap.Error(err))
		return StaffResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("update staff commit failed", zap.Error(err))
		return StaffResponse{}, err
	}

	s.invalidateOptions(ctx, companyID)
	log.Info("update staff success", zap.String("staff_id", id))

	return mapToResponse(*member), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("delete staff requested",
		zap.String("company_id", companyID),
		zap.String("staff_id", id),
	)
	if _, err := uuid.Parse(id); err != nil {
		return stafferrors.ErrInvalidStaffID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("delete staff begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, companyID, id); err != nil {
		log.Warn("delete staff failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("delete staff commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx, companyID)
	log.Info("delete staff success", zap.String("staff_id", id))
	return nil
}

func (s *service) invalidateOptions(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetStaffOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate staff options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapToResponse(m Staff) StaffResponse {
	return StaffResponse{
		ID:             m.ID.String(),
		CompanyID:      m.CompanyID.String(),
		FullName:       m.FullName,
		Classification: m.Classification,
		Email:          m.Email,
		Phone:          m.Phone,
	}
}

func mapToListResponse(members []Staff) []StaffResponse {
	res := make([]StaffResponse, len(members))
	for i, m := range members {
		res[i] = mapToResponse(m)
	}
	return res
}

func mapToOptions(members []Staff) []StaffOption {
	res := make([]StaffOption, len(members))
	for i, m := range members {
		res[i] = StaffOption{
			ID:             m.ID.String(),
			FullName:       m.FullName,
			Classification: m.Classification,
		}
	}
	return res
}
