package inventory

import (
	"sort"
	"strings"
)

// CategoryCount summarizes availability within one category.
type CategoryCount struct {
	Category  string
	Available int
	Total     int
}

// CategoryGroup is one category with its items in table order.
type CategoryGroup struct {
	Category string
	Items    []EquipmentItem
}

// AvailableEquipment returns the items that can be checked out.
func AvailableEquipment(items []EquipmentItem) []EquipmentItem {
	var out []EquipmentItem
	for _, item := range items {
		if item.Available {
			out = append(out, item)
		}
	}
	return out
}

// ActiveCheckouts returns the records that have not been returned.
func ActiveCheckouts(records []CheckoutRecord) []CheckoutRecord {
	var out []CheckoutRecord
	for _, rec := range records {
		if !rec.Returned {
			out = append(out, rec)
		}
	}
	return out
}

// SearchCheckouts filters records by a case-insensitive match against the
// student name, equipment name or serial number. An empty query matches all.
func SearchCheckouts(records []CheckoutRecord, query string) []CheckoutRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}
	var out []CheckoutRecord
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.StudentName), q) ||
			strings.Contains(strings.ToLower(rec.EquipmentName), q) ||
			strings.Contains(strings.ToLower(rec.SerialNumber), q) {
			out = append(out, rec)
		}
	}
	return out
}

// GroupByCategory groups items by category. Known categories come first in
// display order; anything hand-typed into the sheet follows alphabetically.
func GroupByCategory(items []EquipmentItem) []CategoryGroup {
	byCategory := make(map[string][]EquipmentItem)
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	var groups []CategoryGroup
	for _, cat := range categories {
		if list, ok := byCategory[cat]; ok {
			groups = append(groups, CategoryGroup{Category: cat, Items: list})
			delete(byCategory, cat)
		}
	}

	extra := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		extra = append(extra, cat)
	}
	sort.Strings(extra)
	for _, cat := range extra {
		groups = append(groups, CategoryGroup{Category: cat, Items: byCategory[cat]})
	}
	return groups
}

// CategorySummary returns availability counts per category, in the same
// order as GroupByCategory.
func CategorySummary(items []EquipmentItem) []CategoryCount {
	groups := GroupByCategory(items)
	counts := make([]CategoryCount, 0, len(groups))
	for _, g := range groups {
		c := CategoryCount{Category: g.Category, Total: len(g.Items)}
		for _, item := range g.Items {
			if item.Available {
				c.Available++
			}
		}
		counts = append(counts, c)
	}
	return counts
}

// FindEquipment returns the item with the given id.
func FindEquipment(items []EquipmentItem, id int) (EquipmentItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return EquipmentItem{}, false
}
