package repository

// DefaultPageLimit applies when a caller asks for a non-positive limit.
const DefaultPageLimit = 50

// Page represents a simple limit/offset window for listing operations.
type Page struct {
	Limit  int
	Offset int
}

// Sanitize fills in the default limit and clamps a negative offset.
func (p Page) Sanitize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageResult carries a slice of items and the total count matching the query.
type PageResult[T any] struct {
	Items []T
	Total int
}
