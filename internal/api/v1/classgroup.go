package v1

import (
	"net/http"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/service"
	"github.com/gin-gonic/gin"
)

type ClassGroupHandler struct {
	service service.ClassGroupService
	log     *logger.Logger
}

func NewClassGroupHandler(service service.ClassGroupService, log *logger.Logger) *ClassGroupHandler {
	return &ClassGroupHandler{
		service: service,
		log:     log,
	}
}

func (h *ClassGroupHandler) CreateClassGroup(c *gin.Context) {
	var req dto.CreateClassGroupRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.CreateClassGroup(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *ClassGroupHandler) ListClassGroups(c *gin.Context) {
	resp, err := h.service.ListClassGroups(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ClassGroupHandler) UpdateClassGroup(c *gin.Context) {
	var req dto.UpdateClassGroupRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.service.UpdateClassGroup(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ClassGroupHandler) DeleteClassGroup(c *gin.Context) {
	if err := h.service.DeleteClassGroup(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "class group deleted"})
}
