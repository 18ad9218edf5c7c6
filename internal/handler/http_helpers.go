package handler

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// formatDateTime renders timestamps in local time for page display.
func formatDateTime(t time.Time) string {
	return t.Local().Format("02/01/2006 3:04 PM")
}

// formatOptionalDateTime renders nullable timestamps, falling back to the
// given placeholder.
func formatOptionalDateTime(t *time.Time, placeholder string) string {
	if t == nil || t.IsZero() {
		return placeholder
	}
	return formatDateTime(*t)
}
