package provider

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/graphrapids/graphsettings/internal/models"
)

// Sort orders for ListParams.
const (
	OrderAsc  = "ASC"
	OrderDesc = "DESC"
)

// FilterQ is the reserved filter key meaning case-insensitive free-text
// substring match across all field values.
const FilterQ = "q"

// ListParams carries the generic query the console sends with every list:
// filters, an optional sort, and 1-indexed pagination.
type ListParams struct {
	Filter  map[string]any
	Sort    SortParams
	Page    int
	PerPage int
}

// SortParams names the field to sort by and the direction. An empty field
// preserves the incoming order.
type SortParams struct {
	Field string
	Order string
}

// ApplyListParams runs the client-side list pipeline over an in-memory
// record list: filter, then stable sort, then page slice. The returned
// total is the post-filter, pre-pagination count; tests and the console's
// pagination footer depend on exactly that.
func ApplyListParams(records []models.Record, params ListParams) ([]models.Record, int) {
	filtered := lo.Filter(records, func(rec models.Record, _ int) bool {
		return matchesFilter(rec, params.Filter)
	})
	total := len(filtered)

	if params.Sort.Field != "" {
		desc := strings.EqualFold(params.Sort.Order, OrderDesc)
		sort.SliceStable(filtered, func(i, j int) bool {
			c := compareValues(filtered[i][params.Sort.Field], filtered[j][params.Sort.Field])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	return pageSlice(filtered, params.Page, params.PerPage), total
}

// matchesFilter applies the q substring match plus exact matches for every
// other filter key. Blank or nil filter values are ignored.
func matchesFilter(rec models.Record, filter map[string]any) bool {
	for field, want := range filter {
		if want == nil {
			continue
		}
		wantStr := fmt.Sprint(want)
		if wantStr == "" {
			continue
		}
		if field == FilterQ {
			if !matchesText(rec, wantStr) {
				return false
			}
			continue
		}
		if fmt.Sprint(rec[field]) != wantStr {
			return false
		}
	}
	return true
}

// matchesText reports whether any field value contains q, case-insensitively.
func matchesText(rec models.Record, q string) bool {
	q = strings.ToLower(q)
	for _, v := range rec {
		if v == nil {
			continue
		}
		if strings.Contains(strings.ToLower(fmt.Sprint(v)), q) {
			return true
		}
	}
	return false
}

// compareValues orders two field values: numerically when both are
// numbers, else as case-insensitive strings. Absent values sort as their
// zero representation.
func compareValues(a, b any) int {
	af, aok := models.ToNumber(a)
	bf, bok := models.ToNumber(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(strings.ToLower(fmt.Sprint(a)), strings.ToLower(fmt.Sprint(b)))
}

// pageSlice cuts the 1-indexed page out of the filtered list, clamping at
// the boundaries. Page or perPage below 1 means "everything".
func pageSlice(records []models.Record, page, perPage int) []models.Record {
	if page < 1 || perPage < 1 {
		return records
	}
	start := (page - 1) * perPage
	if start >= len(records) {
		return []models.Record{}
	}
	end := start + perPage
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}
