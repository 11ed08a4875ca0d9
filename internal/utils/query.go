package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-analytics-api/internal/constants"
)

const dateLayout = "2006-01-02"

// GetLimitParam reads ?limit. Missing, non-numeric and non-positive values
// fall back to the default.
func GetLimitParam(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultTopUsersLimit)))
	if err != nil || limit < constants.MinTopUsersLimit {
		return constants.DefaultTopUsersLimit
	}
	return limit
}

// OptionalString returns a pointer to the trimmed query value, or nil when
// the key is absent or blank.
func OptionalString(c *gin.Context, key string) *string {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil
	}
	return &value
}

// OptionalText is OptionalString for substring searches: the value is kept
// exactly as sent.
func OptionalText(c *gin.Context, key string) *string {
	value := c.Query(key)
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

// OptionalUint parses an optional positive integer query value
func OptionalUint(c *gin.Context, key string) (*uint64, error) {
	raw := OptionalString(c, key)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.ParseUint(*raw, 10, 64)
	if err != nil || v == 0 {
		return nil, fmt.Errorf("%s must be a positive integer", key)
	}
	return &v, nil
}

// OptionalTime parses an RFC 3339 timestamp or a bare date. A bare date
// used as an upper bound covers the whole day.
func OptionalTime(c *gin.Context, key string, upperBound bool) (*time.Time, error) {
	raw := OptionalString(c, key)
	if raw == nil {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		t = t.UTC()
		return &t, nil
	}

	t, err := time.ParseInLocation(dateLayout, *raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", key)
	}
	if upperBound {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
