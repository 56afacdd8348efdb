package v1

import (
	"strconv"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/gin-gonic/gin"
)

// requestDate returns the day a request is evaluated on: the ?date= override when given,
// otherwise today in the server's location.
func requestDate(c *gin.Context) (types.ISODate, error) {
	raw := c.Query("date")
	if raw == "" {
		return types.TodayISO(), nil
	}
	return types.ParseISODate(raw)
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return false
	}
	return true
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHintf("%s must be a number", name).
			Mark(ierr.ErrValidation)
	}
	return n, nil
}
