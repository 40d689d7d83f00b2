package keyboard

// Page describes where a list screen is.
type Page struct {
	Number     int
	Size       int
	Total      int64
	TotalPages int
}

// Paginate computes the page layout for total items. Page is one-based and
// clamped to the valid range.
func Paginate(page, pageSize int, total int64) Page {
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return Page{Number: page, Size: pageSize, Total: total, TotalPages: totalPages}
}

func (p Page) HasNext() bool {
	return p.TotalPages > 1 && p.Number < p.TotalPages
}

func (p Page) HasPrev() bool {
	return p.TotalPages > 1 && p.Number > 1
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
