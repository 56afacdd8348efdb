package v1

import (
	"net/http"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/service"
	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	service service.CheckInService
	log     *logger.Logger
}

func NewAttendanceHandler(service service.CheckInService, log *logger.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: service,
		log:     log,
	}
}

// CheckIn answers 200 with the decision whether or not the member is admitted.
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if !bindJSON(c, &req) {
		return
	}
	today, err := requestDate(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.CheckIn(c.Request.Context(), req, today)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AttendanceHandler) ListToday(c *gin.Context) {
	today, err := requestDate(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.ListToday(c.Request.Context(), today)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AttendanceHandler) CountToday(c *gin.Context) {
	today, err := requestDate(c)
	if err != nil {
		c.Error(err)
		return
	}

	classGroupID := c.Query("class_group_id")
	if classGroupID == "" {
		c.Error(ierr.NewError("class_group_id is required").
			WithHint("Pass the class to count with ?class_group_id=").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CountTodayByClass(c.Request.Context(), classGroupID, today)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AttendanceHandler) Dismiss(c *gin.Context) {
	var req dto.DismissRequest
	if !bindJSON(c, &req) {
		return
	}
	today, err := requestDate(c)
	if err != nil {
		c.Error(err)
		return
	}

	ctx := c.Request.Context()
	var n int
	switch {
	case req.MemberID != "":
		var dismissed bool
		dismissed, err = h.service.Dismiss(ctx, req.MemberID, today)
		if dismissed {
			n = 1
		}
	case req.ClassGroupID != "":
		n, err = h.service.DismissByClass(ctx, req.ClassGroupID, today)
	default:
		n, err = h.service.DismissAll(ctx, today)
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.DismissResponse{Dismissed: n})
}
