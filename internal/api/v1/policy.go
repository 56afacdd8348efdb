package v1

import (
	"net/http"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/service"
	"github.com/gin-gonic/gin"
)

type PolicyHandler struct {
	service service.PolicyService
	log     *logger.Logger
}

func NewPolicyHandler(service service.PolicyService, log *logger.Logger) *PolicyHandler {
	return &PolicyHandler{
		service: service,
		log:     log,
	}
}

func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	p, err := h.service.GetPolicy(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.PolicyResponse{BillingPolicy: *p})
}

// UpdatePolicy patches the billing policy. Changing the due day or the base price
// recomputes every unpaid period.
func (h *PolicyHandler) UpdatePolicy(c *gin.Context) {
	var req dto.UpdatePolicyRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdatePolicy(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
