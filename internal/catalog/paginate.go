package catalog

import "suncoast/internal/domain"

// AllPages is the page size that returns the whole list as a single page.
const AllPages = 0

// Page selects one page of a list. Number is 1-indexed.
type Page struct {
	Number int
	Size   int
}

// PageResult is one page of a matched list.
type PageResult struct {
	Items        []domain.Product `json:"items"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
	TotalPages   int              `json:"total_pages"`
	MatchedCount int              `json:"matched_count"`
}

// Paginate returns items [(p-1)*s, min(N, p*s)). A page number below 1 is
// treated as 1 and a page past the end is empty. A size <= 0 (AllPages)
// returns everything on page 1.
func Paginate(items []domain.Product, pg Page) PageResult {
	n := len(items)
	number := pg.Number
	if number < 1 {
		number = 1
	}

	if pg.Size <= AllPages {
		res := PageResult{Page: 1, PageSize: AllPages, TotalPages: 1, MatchedCount: n, Items: []domain.Product{}}
		if number == 1 {
			res.Items = items
		} else {
			res.Page = number
		}
		return res
	}

	res := PageResult{
		Page:         number,
		PageSize:     pg.Size,
		TotalPages:   TotalPages(n, pg.Size),
		MatchedCount: n,
		Items:        []domain.Product{},
	}
	start := (number - 1) * pg.Size
	if start >= n {
		return res
	}
	end := min(n, start+pg.Size)
	res.Items = items[start:end]
	return res
}

// TotalPages is ceil(n/size), and 1 for an unpaged list.
func TotalPages(n, size int) int {
	if size <= AllPages {
		return 1
	}
	return (n + size - 1) / size
}

// PageWindow returns up to width consecutive page numbers centered on
// current, shifted to stay within [1, total].
func PageWindow(current, total, width int) []int {
	if total <= 0 || width <= 0 {
		return nil
	}
	current = max(1, min(current, total))
	width = min(width, total)

	start := current - width/2
	start = max(1, min(start, total-width+1))

	out := make([]int, width)
	for i := range out {
		out[i] = start + i
	}
	return out
}
