package rbac

import (
	"errors"
	"sync"

	"go-hotel-staff/internal/domain"
	"go-hotel-staff/internal/shared/apperror"

	"github.com/casbin/casbin/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const roleNameConstraint = "uq_roles_company_name"

var (
	ErrRoleNotFound = apperror.New(apperror.CodeNotFound, "role not found", 404)
	ErrRoleExists   = apperror.New(apperror.CodeConflict, "a role with this name already exists", 409)
)

type Service interface {
	LoadCompanyPolicy(companyID string) error
	Enforce(req domain.EnforceRequest) (bool, error)

	ListRoles(companyID string) ([]RoleResponse, error)
	CreateRole(companyID string, req CreateRoleRequest) (RoleResponse, error)
	UpdateRolePermissions(companyID, roleID string, permIDs []string) error
	AssignRole(companyID string, req AssignRoleRequest) error
	ListPermissions() ([]PermissionResponse, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadCompanyPolicy(companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadCompanyPolicyUnlocked(companyID)
}

// loadCompanyPolicyUnlocked replaces the enforcer's policy with one company's
// grants. Callers hold s.mu.
func (s *service) loadCompanyPolicyUnlocked(companyID string) error {
	s.enforcer.ClearPolicy()

	staffRoles, err := s.repo.GetStaffRoles(companyID)
	if err != nil {
		return err
	}
	for _, sr := range staffRoles {
		if _, err := s.enforcer.AddGroupingPolicy(sr.StaffID, sr.RoleID, companyID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(companyID)
	if err != nil {
		return err
	}
	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, companyID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("rbac policy loaded",
		zap.String("company_id", companyID),
		zap.Int("staff_roles", len(staffRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)
	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadCompanyPolicyUnlocked(req.CompanyID); err != nil {
		s.logger.Error("rbac load policy failed", zap.String("company_id", req.CompanyID), zap.Error(err))
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.StaffID, req.CompanyID, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("staff_id", req.StaffID),
			zap.String("company_id", req.CompanyID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("staff_id", req.StaffID),
		zap.String("company_id", req.CompanyID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) ListRoles(companyID string) ([]RoleResponse, error) {
	rows, err := s.repo.ListRoles(companyID)
	if err != nil {
		return nil, err
	}
	res := make([]RoleResponse, len(rows))
	for i, r := range rows {
		res[i] = RoleResponse{ID: r.ID, Name: r.Name, Description: r.Description}
	}
	return res, nil
}

func (s *service) CreateRole(companyID string, req CreateRoleRequest) (RoleResponse, error) {
	role := &RoleRow{
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.CreateRole(role, req.PermissionIDs); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == roleNameConstraint {
			return RoleResponse{}, ErrRoleExists
		}
		s.logger.Error("create role failed", zap.String("company_id", companyID), zap.Error(err))
		return RoleResponse{}, err
	}

	s.logger.Info("role created",
		zap.String("company_id", companyID),
		zap.String("role_id", role.ID),
		zap.Int("permissions", len(req.PermissionIDs)),
	)
	return RoleResponse{ID: role.ID, Name: role.Name, Description: role.Description}, nil
}

func (s *service) UpdateRolePermissions(companyID, roleID string, permIDs []string) error {
	if _, err := s.findRole(companyID, roleID); err != nil {
		return err
	}
	return s.repo.UpdateRolePermissions(roleID, permIDs)
}

func (s *service) AssignRole(companyID string, req AssignRoleRequest) error {
	if _, err := s.findRole(companyID, req.RoleID); err != nil {
		return err
	}
	if err := s.repo.AssignRole(req.StaffID, req.RoleID); err != nil {
		s.logger.Error("assign role failed", zap.String("staff_id", req.StaffID), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) ListPermissions() ([]PermissionResponse, error) {
	rows, err := s.repo.ListPermissions()
	if err != nil {
		return nil, err
	}
	res := make([]PermissionResponse, len(rows))
	for i, p := range rows {
		res[i] = PermissionResponse{ID: p.ID, Resource: p.Resource, Action: p.Action, Label: p.Label, Category: p.Category}
	}
	return res, nil
}

// findRole keeps role edits inside the caller's company.
func (s *service) findRole(companyID, roleID string) (*RoleRow, error) {
	role, err := s.repo.GetRoleByID(companyID, roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return role, nil
}
