package query

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Pagination struct {
	Limit *int
	After *uint
	Order string
}

// LimitOrDefault resolves the page size, falling back to def when the
// caller did not set one.
func (p *Pagination) LimitOrDefault(def int) int {
	if p == nil || p.Limit == nil {
		return def
	}
	return *p.Limit
}

func GetPaginationFromQuery(reqCtx *gin.Context) (*Pagination, error) {
	limitStr := reqCtx.DefaultQuery("limit", "20")
	order := reqCtx.DefaultQuery("order", "asc")
	afterStr := reqCtx.Query("after")

	var limit *int
	if limitStr != "" {
		limitInt, err := strconv.Atoi(limitStr)
		if err != nil || limitInt < 1 {
			return nil, fmt.Errorf("invalid limit number")
		}
		limit = &limitInt
	}

	var after *uint
	if afterStr != "" {
		afterInt, err := strconv.ParseUint(afterStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid after cursor")
		}
		afterUint := uint(afterInt)
		after = &afterUint
	}

	if order != "asc" && order != "desc" {
		return nil, fmt.Errorf("invalid order")
	}

	return &Pagination{
		Limit: limit,
		After: after,
		Order: order,
	}, nil
}
