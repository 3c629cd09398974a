// Package ops implements the operations behind every interface (CLI, MCP,
// web). Interfaces only marshal parameters into these calls; row-level
// ingest problems are absorbed here and reduced to counters, and only
// store corruption crosses outward as a distinguishable error.
package ops

import (
	"github.com/asodergren/korjournal/internal/config"
	"github.com/asodergren/korjournal/internal/db"
	"github.com/asodergren/korjournal/internal/errors"
)

// Pagination limits used when no config is supplied.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
	DefaultRunLimit = 20
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// TripFilter narrows trip operations. All fields optional.
type TripFilter struct {
	Category string `json:"category,omitempty"`
	DateFrom string `json:"date_from,omitempty"`
	DateTo   string `json:"date_to,omitempty"`
}

// toDBFilter converts the operation filter into the store filter.
func (f TripFilter) toDBFilter() db.Filter {
	return db.Filter{
		Category: f.Category,
		DateFrom: f.DateFrom,
		DateTo:   f.DateTo,
	}
}

// pageBounds applies defaults and caps to a requested page size.
func pageBounds(cfg *config.Config, limit int) int {
	defaultSize, maxSize := DefaultPageSize, MaxPageSize
	if cfg != nil {
		if cfg.PageSize > 0 {
			defaultSize = cfg.PageSize
		}
		if cfg.MaxPageSize > 0 {
			maxSize = cfg.MaxPageSize
		}
	}
	if limit <= 0 {
		return defaultSize
	}
	if limit > maxSize {
		return maxSize
	}
	return limit
}

// parseSort validates a sort order string, defaulting to descending
// (most recent trips first).
func parseSort(sort string) (db.SortOrder, error) {
	switch sort {
	case "", "desc":
		return db.SortDesc, nil
	case "asc":
		return db.SortAsc, nil
	default:
		return "", errors.NewInvalidRequest("sort must be one of: asc, desc")
	}
}
