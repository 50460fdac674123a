package pagination

const (
	// DefaultPageSize is the standard catalog page size when none is configured.
	DefaultPageSize = 12
	// MaxPageSize caps how many rows any page query can request.
	MaxPageSize = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Meta describes the resolved page returned alongside results.
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// Normalize clamps the requested page and size into valid bounds.
func Normalize(p Params) Params {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset converts the normalized params into a query offset.
func Offset(p Params) int {
	p = Normalize(p)
	return (p.Page - 1) * p.PageSize
}

// BuildMeta computes page metadata for a total row count. A page beyond the
// last clamps to the last non-empty page, mirroring lenient page handling.
func BuildMeta(p Params, totalItems int64) Meta {
	p = Normalize(p)

	totalPages := int((totalItems + int64(p.PageSize) - 1) / int64(p.PageSize))
	if totalPages < 1 {
		totalPages = 1
	}
	page := p.Page
	if page > totalPages {
		page = totalPages
	}

	return Meta{
		Page:       page,
		PageSize:   p.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// ClampPage returns the effective page after lenient out-of-range handling.
func ClampPage(p Params, totalItems int64) Params {
	meta := BuildMeta(p, totalItems)
	p = Normalize(p)
	p.Page = meta.Page
	return p
}
