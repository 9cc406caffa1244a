// Package pagination holds the page/offset math shared by list endpoints.
package pagination

const (
	DefaultPerPage int64 = 20
	MaxPerPage     int64 = 100

	// MaxPage bounds the page number so offset math cannot overflow int64
	// and turn into a negative OFFSET.
	MaxPage int64 = 1 << 31
)

// Params are the raw query values before normalization.
type Params struct {
	Page    int64 `form:"page"`
	PerPage int64 `form:"per_page"`
}

// Normalize clamps page into [1, MaxPage] and per_page into [1, MaxPerPage],
// substituting the default when per_page is unset.
func (p Params) Normalize() (page, perPage int64) {
	page = p.Page
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	perPage = p.PerPage
	if perPage == 0 {
		perPage = DefaultPerPage
	}
	if perPage < 1 {
		perPage = 1
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func Offset(page, perPage int64) int64 {
	return (page - 1) * perPage
}

type Meta struct {
	Page       int64 `json:"page"`
	PerPage    int64 `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

type Response[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

// NewResponse assembles a paginated envelope from one page of data and the
// total row count.
func NewResponse[T any](data []T, page, perPage, total int64) Response[T] {
	var totalPages int64
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	return Response[T]{
		Data: data,
		Pagination: Meta{
			Page:       page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}
