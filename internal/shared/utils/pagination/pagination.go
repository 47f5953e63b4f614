package pagination

const (
	DefaultSize = 20
	MaxSize     = 100
)

// Query is a 0-based page request bound from ?page=&size=.
type Query struct {
	Page int `form:"page" json:"page" binding:"omitempty,min=0"`
	Size int `form:"size" json:"size" binding:"omitempty,min=0,max=100"`
}

// New returns a normalized query.
func New(page, size int) Query {
	return Query{Page: page, Size: size}.Normalize()
}

// Normalize applies defaults and bounds.
func (q Query) Normalize() Query {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultSize
	}
	if q.Size > MaxSize {
		q.Size = MaxSize
	}
	return q
}

// Offset returns the row offset of the page.
func (q Query) Offset() int {
	return q.Page * q.Size
}

// Meta describes a returned page.
type Meta struct {
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
}

// NewMeta builds page metadata for total rows.
func NewMeta(q Query, total int64) Meta {
	return Meta{
		TotalElements: total,
		TotalPages:    CalculateTotalPages(total, q.Size),
		Page:          q.Page,
		Size:          q.Size,
	}
}

// CalculateTotalPages returns the number of pages needed for total rows.
func CalculateTotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
