package model

import (
	"sort"

	"github.com/worklens-io/worklens/pkg/domain/types"
)

// PersonStats holds the aggregated hours for one person (one distinct
// subitem name). Derived data, never persisted.
//
// Invariant: for every month m, Months[m] equals the sum of
// ItemMonths[k][m] over all item keys k.
type PersonStats struct {
	// Months maps each of the twelve month labels to the person's total
	// hours for that month, summed across all items.
	Months map[types.MonthLabel]float64 `json:"months"`

	// Items lists the distinct "[group] item" labels the person appears
	// under, in first-seen order.
	Items []types.ItemKey `json:"items"`

	// ItemMonths breaks Months out per item.
	ItemMonths map[types.ItemKey]map[types.MonthLabel]float64 `json:"item_months"`
}

// NewPersonStats creates a PersonStats with all twelve months zeroed
func NewPersonStats() *PersonStats {
	months := make(map[types.MonthLabel]float64, len(types.MonthColumns))
	for _, m := range types.MonthColumns {
		months[m] = 0
	}
	return &PersonStats{
		Months:     months,
		ItemMonths: make(map[types.ItemKey]map[types.MonthLabel]float64),
	}
}

// AddItem records an item key, keeping Items deduplicated and ordered,
// and ensures its per-month breakdown exists
func (p *PersonStats) AddItem(key types.ItemKey) {
	if _, ok := p.ItemMonths[key]; !ok {
		months := make(map[types.MonthLabel]float64, len(types.MonthColumns))
		for _, m := range types.MonthColumns {
			months[m] = 0
		}
		p.ItemMonths[key] = months
		p.Items = append(p.Items, key)
	}
}

// AddHours adds hours to both the month total and the per-item breakdown
func (p *PersonStats) AddHours(key types.ItemKey, month types.MonthLabel, hours float64) {
	p.AddItem(key)
	p.Months[month] += hours
	p.ItemMonths[key][month] += hours
}

// Total returns the person's hours summed over all twelve months
func (p *PersonStats) Total() float64 {
	var total float64
	for _, m := range types.MonthColumns {
		total += p.Months[m]
	}
	return total
}

// Stats maps each distinct subitem name to that person's aggregate
type Stats map[string]*PersonStats

// Names returns all person names in lexicographic order. Display ordering
// is computed here at render time, never stored.
func (s Stats) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UtilizationPoint is one month of the derived utilization series
type UtilizationPoint struct {
	Month       types.MonthLabel `json:"month"`
	Utilization float64          `json:"utilization"`
	TotalMM     float64          `json:"total_mm"`
	PersonCount int              `json:"person_count"`
}
