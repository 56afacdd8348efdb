package v1

import (
	"net/http"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/service"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/gin-gonic/gin"
)

type MemberHandler struct {
	service    service.MemberService
	membership service.MembershipService
	log        *logger.Logger
}

func NewMemberHandler(
	service service.MemberService,
	membership service.MembershipService,
	log *logger.Logger,
) *MemberHandler {
	return &MemberHandler{
		service:    service,
		membership: membership,
		log:        log,
	}
}

// Quote prices an enrollment without storing anything.
func (h *MemberHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.Quote(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MemberHandler) Enroll(c *gin.Context) {
	var req dto.EnrollMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	today, err := requestDate(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.Enroll(c.Request.Context(), req, today)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *MemberHandler) Renew(c *gin.Context) {
	var req dto.RenewMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	today, err := requestDate(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.Renew(c.Request.Context(), c.Param("id"), req, today)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MemberHandler) GetMember(c *gin.Context) {
	today, err := requestDate(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.GetMember(c.Request.Context(), c.Param("id"), today)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListMembers supports search, class_group_id, state, active_only, limit and offset.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	filter := types.NewMemberFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}
	today, err := requestDate(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.ListMembers(c.Request.Context(), filter, today)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MemberHandler) UpdateMember(c *gin.Context) {
	var req dto.UpdateMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	today, err := requestDate(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.UpdateMember(c.Request.Context(), c.Param("id"), req, today)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeactivateMember keeps the member and their history but blocks check-in and reminders.
func (h *MemberHandler) DeactivateMember(c *gin.Context) {
	if err := h.service.DeactivateMember(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "member deactivated"})
}

func (h *MemberHandler) GetStatus(c *gin.Context) {
	today, err := requestDate(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.membership.GetStatus(c.Request.Context(), c.Param("id"), today)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *MemberHandler) ListPeriods(c *gin.Context) {
	resp, err := h.membership.ListPeriods(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreatePeriod opens the member's period for a month. An existing period is returned as is.
func (h *MemberHandler) CreatePeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	period, err := h.membership.GetOrCreatePeriod(c.Request.Context(), c.Param("id"), req.Key())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBillingPeriodResponse(period))
}

func (h *MemberHandler) GetCurrentPeriod(c *gin.Context) {
	today, err := requestDate(c)
	if err != nil {
		c.Error(err)
		return
	}

	period, err := h.membership.CurrentPeriodFor(c.Request.Context(), c.Param("id"), today)
	if err != nil {
		c.Error(err)
		return
	}
	if period == nil {
		c.Error(ierr.NewError("no current period").
			WithHintf("Member has no billing period covering %s", today).
			Mark(ierr.ErrNotFound))
		return
	}

	c.JSON(http.StatusOK, dto.NewBillingPeriodResponse(period))
}

// ListPayments lists the member's payments, optionally for one ?year=.
func (h *MemberHandler) ListPayments(c *gin.Context) {
	year, err := queryInt(c, "year")
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.membership.ListPayments(c.Request.Context(), c.Param("id"), year)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
