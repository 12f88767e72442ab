package rbac

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hotel-staff/internal/domain"
	"go-hotel-staff/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	enforced    []domain.EnforceRequest
	listRoleErr error
}

func (f *fakeService) LoadCompanyPolicy(companyID string) error { return nil }

func (f *fakeService) Enforce(req domain.EnforceRequest) (bool, error) {
	f.enforced = append(f.enforced, req)
	return req.Resource == "leave" && req.Action == "read", nil
}

func (f *fakeService) ListRoles(companyID string) ([]RoleResponse, error) {
	if f.listRoleErr != nil {
		return nil, f.listRoleErr
	}
	return []RoleResponse{{ID: "r1", Name: "Manager"}}, nil
}

func (f *fakeService) CreateRole(companyID string, req CreateRoleRequest) (RoleResponse, error) {
	return RoleResponse{ID: "r2", Name: req.Name}, nil
}

func (f *fakeService) UpdateRolePermissions(companyID, roleID string, permIDs []string) error {
	return nil
}

func (f *fakeService) AssignRole(companyID string, req AssignRoleRequest) error {
	return ErrRoleNotFound
}

func (f *fakeService) ListPermissions() ([]PermissionResponse, error) {
	return nil, nil
}

func newRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("staff_id", "staff-1")
		c.Set("company_id", "hotel-1")
		ctx := contextutil.WithIdentity(c.Request.Context(),
			contextutil.Identity{StaffID: "staff-1", CompanyID: "hotel-1"})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	router.POST("/rbac/enforce", handler.Enforce)
	router.GET("/rbac/roles", handler.ListRoles)
	router.POST("/rbac/roles", handler.CreateRole)
	router.POST("/rbac/assignments", handler.AssignRole)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Enforce(t *testing.T) {
	svc := &fakeService{}
	router := newRouter(svc)

	w := doJSON(router, http.MethodPost, "/rbac/enforce", map[string]string{
		"resource": "leave",
		"action":   "read",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Ok   bool                   `json:"ok"`
		Data domain.EnforceResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Ok)
	assert.True(t, resp.Data.Allowed)

	// identity comes from the token context, never from the body
	assert.Equal(t, "staff-1", svc.enforced[0].StaffID)
	assert.Equal(t, "hotel-1", svc.enforced[0].CompanyID)
}

func TestHandler_Enforce_NoIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeService{}
	router := gin.New()
	router.POST("/rbac/enforce", NewHandler(svc).Enforce)

	w := doJSON(router, http.MethodPost, "/rbac/enforce", map[string]string{"resource": "leave", "action": "read"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, svc.enforced)
}

func TestHandler_Enforce_BadBody(t *testing.T) {
	router := newRouter(&fakeService{})

	w := doJSON(router, http.MethodPost, "/rbac/enforce", map[string]string{"resource": "leave"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_ListRoles(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		w := doJSON(newRouter(&fakeService{}), http.MethodGet, "/rbac/roles", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Manager")
	})

	t.Run("repository failure hides details", func(t *testing.T) {
		w := doJSON(newRouter(&fakeService{listRoleErr: errors.New("pq: boom")}), http.MethodGet, "/rbac/roles", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq: boom")
	})
}

func TestHandler_CreateRole(t *testing.T) {
	w := doJSON(newRouter(&fakeService{}), http.MethodPost, "/rbac/roles", map[string]any{"name": "Night Auditor"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Night Auditor")
}

func TestHandler_AssignRole_NotFound(t *testing.T) {
	w := doJSON(newRouter(&fakeService{}), http.MethodPost, "/rbac/assignments", map[string]string{
		"staff_id": "6f1c1d2e-8a51-4c1b-9a57-1f0b6b1b1a11",
		"role_id":  "0a4d8a4e-2b7c-4f25-8f55-2a6b3b8c9d10",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
