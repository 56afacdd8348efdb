package v1

import (
	"net/http"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/service"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	membership service.MembershipService
	log        *logger.Logger
}

func NewPaymentHandler(membership service.MembershipService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		membership: membership,
		log:        log,
	}
}

// RecordPayment settles a member's month. A first payment answers 201, an update of the
// same month 200. A payment without paid_on is dated ?date= or today.
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req dto.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	today, err := requestDate(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.membership.RecordPayment(c.Request.Context(), req, today)
	if err != nil {
		c.Error(err)
		return
	}

	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}
