package timeline

import "unicode/utf8"

// LayoutMode is the arrangement of an event's data rows: a 2-column grid or
// a 1-column list. The zero value means "auto": decide from the items.
type LayoutMode string

const (
	LayoutAuto LayoutMode = ""
	LayoutGrid LayoutMode = "grid"
	LayoutList LayoutMode = "list"
)

// GridColumns is the fixed grid width.
const GridColumns = 2

// layoutShortValueMax is the exact product threshold for a "short" value.
// Values of 20 or more characters force list layout for 2-4 item cards.
const layoutShortValueMax = 20

// DecideLayout picks grid or list for a set of data rows. A grid or list
// override always wins; anything else (including LayoutAuto) consults the
// decision table:
//
//	0-1 items            -> list
//	2-4 items, all short -> grid
//	2-4 items, any long  -> list
//	5+ items             -> list
func DecideLayout(items []DataItem, override LayoutMode) LayoutMode {
	if override == LayoutGrid || override == LayoutList {
		return override
	}
	if len(items) < 2 || len(items) > 4 {
		return LayoutList
	}
	for _, item := range items {
		if utf8.RuneCountInString(item.Value) >= layoutShortValueMax {
			return LayoutList
		}
	}
	return LayoutGrid
}

// GridPlacement pairs items into 2-column rows, filling left to right and
// top to bottom in input order. An odd item count leaves the last cell nil
// rather than reflowing.
func GridPlacement(items []DataItem) [][GridColumns]*DataItem {
	if len(items) == 0 {
		return nil
	}
	rows := make([][GridColumns]*DataItem, 0, (len(items)+1)/GridColumns)
	for i := 0; i < len(items); i += GridColumns {
		var row [GridColumns]*DataItem
		for j := 0; j < GridColumns && i+j < len(items); j++ {
			row[j] = &items[i+j]
		}
		rows = append(rows, row)
	}
	return rows
}
