package v1

import (
	"net/http"

	"github.com/dojocycle/dojocycle/internal/api/dto"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/service"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service service.ReminderService
	log     *logger.Logger
}

func NewNotificationHandler(service service.ReminderService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

// RunReminders runs the reminder batch now instead of waiting for the scheduler.
func (h *NotificationHandler) RunReminders(c *gin.Context) {
	var req dto.RunRemindersRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	today, err := requestDate(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.RunReminders(c.Request.Context(), req, today)
	if err != nil {
		c.Error(err)
		return
	}

	h.log.Infow("manual reminder batch finished",
		"period", resp.Period,
		"sent", resp.Sent,
		"failed", resp.Failed,
		"skipped", resp.Skipped,
	)
	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	today, err := requestDate(c)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.SendManual(c.Request.Context(), req, today)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) GetLogs(c *gin.Context) {
	resp, err := h.service.GetLogs(c.Request.Context(), c.Param("period"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
