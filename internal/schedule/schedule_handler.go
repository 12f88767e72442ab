package schedule

import (
	"net/http"
	"strconv"

	scheduleerrors "go-hotel-staff/internal/schedule/errors"
	"go-hotel-staff/internal/shared/apperror"
	"go-hotel-staff/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("schedule.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("schedule request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("staff_id")
	if actorID == "" {
		actorID = c.GetString("user_id")
	}

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create schedule validation failed", zap.Error(err))
		msg := apperror.ToHTTP(apperror.MapValidationError(err)).Message
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", msg, err.Error())
		return
	}

	res, err := h.service.Create(c.Request.Context(), companyID, actorID, req)
	if err != nil {
		if len(res.UnavailableStaffIDs) > 0 {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, gin.H{
				"unavailable_staff_ids": res.UnavailableStaffIDs,
			})
			return
		}
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, res, nil)
}

func (h *Handler) GetWeek(c *gin.Context) {
	offset := 0
	if raw := c.Query("week_offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.writeServiceError(c, scheduleerrors.ErrInvalidWeekOffset)
			return
		}
		offset = v
	}

	res, err := h.service.GetWeek(c.Request.Context(), c.GetString("company_id"), offset)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(int64(len(res.Items)), 1, len(res.Items))
	meta.Window = res.Label
	response.Success(c, http.StatusOK, res, &meta)
}

func (h *Handler) GetAvailability(c *gin.Context) {
	res, err := h.service.GetAvailability(c.Request.Context(), c.GetString("company_id"), c.Query("date"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.GetString("company_id"), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
