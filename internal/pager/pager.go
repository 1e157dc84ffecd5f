// Package pager implements client-side pagination over an already-fetched snapshot.
//
// Nothing here talks to the network: a page change is a pure re-slice.
package pager

import (
	"fmt"
	"strconv"
	"strings"
)

// All is the page size meaning "show every record on one page".
const All = -1

// Options are the rows-per-page choices offered to the user, in cycling order.
var Options = []int{3, 6, 12, All}

// Cursor is the client-local pagination position.
//
// Page*PageSize may exceed the list length; Visible clamps instead of resetting Page.
type Cursor struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// Default is the initial cursor: first page, every row.
func Default() Cursor { return Cursor{Page: 0, PageSize: All} }

func (c Cursor) ShowsAll() bool { return c.PageSize == All || c.PageSize <= 0 }

// ValidSize reports whether size may be used as a page size.
func ValidSize(size int) bool { return size == All || size > 0 }

// WithPage returns c on page n. Negative pages clamp to 0.
func (c Cursor) WithPage(n int) Cursor {
	if n < 0 {
		n = 0
	}
	c.Page = n
	return c
}

// WithPageSize returns c with the new size and the page reset to 0.
// An invalid size leaves c unchanged.
func (c Cursor) WithPageSize(size int) Cursor {
	if !ValidSize(size) {
		return c
	}
	c.PageSize = size
	c.Page = 0
	return c
}

// bounds returns the clamped [start, end) of the visible window over n records.
func (c Cursor) bounds(n int) (int, int) {
	if c.ShowsAll() {
		return 0, n
	}
	page := c.Page
	if page < 0 {
		page = 0
	}
	start := page * c.PageSize
	if start > n {
		start = n
	}
	end := start + c.PageSize
	if end > n {
		end = n
	}
	return start, end
}

// Visible returns the rows shown for cursor c, in server order.
func Visible[T any](records []T, c Cursor) []T {
	start, end := c.bounds(len(records))
	return records[start:end]
}

// Offset is the index (into records) of the first visible row.
func Offset(n int, c Cursor) int {
	start, _ := c.bounds(n)
	return start
}

// Padding is the number of filler rows rendered after the last record so the table
// keeps its height on a final partial page. It is 0 on the first page.
func Padding(n int, c Cursor) int {
	if c.ShowsAll() || c.Page <= 0 {
		return 0
	}
	p := (c.Page+1)*c.PageSize - n
	if p < 0 {
		return 0
	}
	return p
}

// PageCount is the number of pages needed for n records (at least 1).
func PageCount(n int, c Cursor) int {
	if c.ShowsAll() || n == 0 {
		return 1
	}
	return (n + c.PageSize - 1) / c.PageSize
}

// LastPage is the highest page index that shows at least one record.
func LastPage(n int, c Cursor) int { return PageCount(n, c) - 1 }

// Range renders the "1-3 of 7" label shown in the table footer.
func Range(n int, c Cursor) string {
	start, end := c.bounds(n)
	if n == 0 || start == end {
		return fmt.Sprintf("0-0 of %d", n)
	}
	return fmt.Sprintf("%d-%d of %d", start+1, end, n)
}

// SizeLabel renders a page size for display.
func SizeLabel(size int) string {
	if size == All || size <= 0 {
		return "All"
	}
	return strconv.Itoa(size)
}

// NextSize returns the option after size in Options, wrapping around.
func NextSize(size int) int {
	for i, s := range Options {
		if s == size {
			return Options[(i+1)%len(Options)]
		}
	}
	return Options[0]
}

// ParseSize accepts "all" (or "-1") and positive integers.
func ParseSize(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "all", "todos", "-1":
		return All, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid page size %q (want a positive number or \"all\")", s)
	}
	return n, nil
}
