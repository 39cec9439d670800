package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"alcyxob/neurofeedback-app/internal/registry"
)

// Page is an offset/limit window over a list.
type Page struct {
	Offset  int  `json:"offset"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// extractPage reads offset and limit from the query string. Missing or bad
// values fall back to offset 0 and registry.DefaultUserProgramsLimit; limit is
// capped at maxLimit.
func extractPage(c *gin.Context, maxLimit int) Page {
	offset := parseNonNegativeInt(c.Query("offset"), 0)
	limit := parseNonNegativeInt(c.Query("limit"), registry.DefaultUserProgramsLimit)
	if limit == 0 {
		limit = registry.DefaultUserProgramsLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return Page{Offset: offset, Limit: limit}
}

func (p Page) withTotal(total, returned int) Page {
	p.Total = total
	p.HasMore = p.Offset+returned < total
	return p
}

func parseNonNegativeInt(value string, fallback int) int {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}
