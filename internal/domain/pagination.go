package domain

// Search pagination bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// Page holds offset-based pagination parameters.
type Page struct {
	Limit  int
	Offset int
}

// NewPage clamps limit to [1, MaxLimit] and offset to >= 0.
// A non-positive limit falls back to DefaultLimit.
func NewPage(limit, offset int) Page {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Page{Limit: limit, Offset: offset}
}

// Pagination is the metadata returned with a page of results.
// swagger:model Pagination
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// NewPagination computes HasMore as offset+limit < total.
func NewPagination(total int, p Page) Pagination {
	return Pagination{
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.Offset+p.Limit < total,
	}
}
