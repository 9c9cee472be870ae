package model

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page selects a slice of a listing.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the limit to [1, MaxPageLimit] and the offset to >= 0.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

type PageResult[T any] struct {
	Records []T `json:"records"`
	Total   int `json:"total"`
	Limit   int `json:"limit"`
	Offset  int `json:"offset"`
}

func NewPageResult[T any](records []T, total int, page Page) PageResult[T] {
	if records == nil {
		records = []T{}
	}
	return PageResult[T]{
		Records: records,
		Total:   total,
		Limit:   page.Limit,
		Offset:  page.Offset,
	}
}
