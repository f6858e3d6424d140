package pagination

const (
	// DefaultPerPage is the standard page size when per_page is not provided.
	DefaultPerPage = 25
	// MaxPerPage caps how many rows any list query can request.
	MaxPerPage = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Meta describes a resolved page of a filtered collection.
type Meta struct {
	CurrentPage int
	LastPage    int
	PerPage     int
	Total       int
	From        int
	To          int
}

// NormalizePerPage enforces the configured default and maximum page sizes.
func NormalizePerPage(perPage int) int {
	if perPage <= 0 {
		return DefaultPerPage
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// TotalPages returns ceil(total/perPage), never less than 1 so that an empty
// collection still resolves to a valid page 1.
func TotalPages(total, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage forces the requested page into [1, lastPage].
func ClampPage(page, lastPage int) int {
	if page < 1 {
		return 1
	}
	if page > lastPage {
		return lastPage
	}
	return page
}

// Resolve computes the metadata for the requested page over a collection of
// the given size. The requested page is clamped, never rejected.
func Resolve(params Params, total int) Meta {
	perPage := NormalizePerPage(params.PerPage)
	lastPage := TotalPages(total, perPage)
	page := ClampPage(params.Page, lastPage)

	meta := Meta{
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}
	if total == 0 {
		return meta
	}

	meta.From = (page-1)*perPage + 1
	meta.To = page * perPage
	if meta.To > total {
		meta.To = total
	}
	return meta
}

// Bounds returns the half-open slice interval [start, end) for the page.
func (m Meta) Bounds() (int, int) {
	if m.Total == 0 {
		return 0, 0
	}
	return m.From - 1, m.To
}

// Offset returns the SQL offset for the resolved page.
func (m Meta) Offset() int {
	return (m.CurrentPage - 1) * m.PerPage
}
