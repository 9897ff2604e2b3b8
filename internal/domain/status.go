package domain

import "sort"

// Seeded status codes. Codes 3 and 4 are reserved for intermediate stages not
// yet modeled; the catalog is an open enumeration, not a closed set.
const (
	StatusPending   = 1
	StatusValidated = 2
	StatusRejected  = 5
)

// Status is one row of the status reference table.
type Status struct {
	ID   int    `json:"status_id" db:"status_id"`
	Name string `json:"status_name" db:"status_name"`
}

// StatusCatalog is the immutable in-memory view of the status reference data,
// loaded once at startup. It is never mutated after construction.
type StatusCatalog struct {
	byID map[int]string
}

func NewStatusCatalog(statuses []Status) *StatusCatalog {
	byID := make(map[int]string, len(statuses))
	for _, s := range statuses {
		byID[s.ID] = s.Name
	}
	return &StatusCatalog{byID: byID}
}

// Name returns the human-readable name for a status code, or "" when the code
// is not in the catalog.
func (c *StatusCatalog) Name(id int) string {
	return c.byID[id]
}

// Contains reports whether the code is part of the catalog.
func (c *StatusCatalog) Contains(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// All returns the catalog entries ordered by code.
func (c *StatusCatalog) All() []Status {
	out := make([]Status, 0, len(c.byID))
	for id, name := range c.byID {
		out = append(out, Status{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
