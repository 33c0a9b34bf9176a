package listings

// Page describes offset pagination over a counted result set.
type Page struct {
	CurrentPage int
	TotalPages  int
	HasNextPage bool
	HasPrevPage bool
	Limit       int
	Skip        int
}

// NewPage derives page numbers from an offset window. limit must be positive.
func NewPage(totalCount, skip, limit int) Page {
	if limit <= 0 {
		return Page{Skip: skip, Limit: limit, CurrentPage: 1}
	}
	current := skip/limit + 1
	total := totalCount / limit
	if totalCount%limit != 0 {
		total++
	}
	return Page{
		CurrentPage: current,
		TotalPages:  total,
		HasNextPage: current < total,
		HasPrevPage: current > 1,
		Limit:       limit,
		Skip:        skip,
	}
}
