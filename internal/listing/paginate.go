package listing

// DefaultPageSize is applied when a request carries no explicit page size.
const DefaultPageSize = 10

// Page is one visible slice of a filtered-and-sorted collection plus the
// metadata the pagination controls need.
type Page[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
}

// Paginate slices records into the requested page. A page beyond the end
// (stale after a filter change shrank the collection) clamps back to page 1,
// not to the last page.
func Paginate[T any](records []T, page, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalItems := len(records)
	totalPages := (totalItems + pageSize - 1) / pageSize

	if page < 1 {
		page = 1
	}
	if page > totalPages && totalPages > 0 {
		page = 1
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	return Page[T]{
		Items:       records[start:end],
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
	}
}

// Window returns up to max page numbers centered on the current page,
// clipped to [1, TotalPages]. Used to render the pager controls.
func (p Page[T]) Window(max int) []int {
	if p.TotalPages == 0 || max <= 0 {
		return nil
	}

	start := p.CurrentPage - max/2
	if start < 1 {
		start = 1
	}
	end := start + max - 1
	if end > p.TotalPages {
		end = p.TotalPages
		start = end - max + 1
		if start < 1 {
			start = 1
		}
	}

	window := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		window = append(window, n)
	}
	return window
}
