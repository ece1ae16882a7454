package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
)

// DefaultFTEHours is the full-time-equivalent hours per month used to
// normalize raw hours into an M/M unit
const DefaultFTEHours = 143.5

// Aggregate folds a board's nested groups into per-person statistics.
// Pure function: output is fully determined by the input.
//
// Every subitem's name is the aggregation key. For each column value whose
// title is one of the twelve month labels, the text is parsed as hours
// (parse failure counts as zero) and added to both the person's month
// total and the per-item breakdown. All other columns are ignored.
func Aggregate(groups []model.Group) model.Stats {
	stats := make(model.Stats)

	for _, group := range groups {
		for _, item := range group.Items {
			key := types.NewItemKey(group.Title, item.Name)
			for _, sub := range item.Subitems {
				person, ok := stats[sub.Name]
				if !ok {
					person = model.NewPersonStats()
					stats[sub.Name] = person
				}
				person.AddItem(key)

				for _, col := range sub.ColumnValues {
					if !types.IsMonthColumn(col.Title) || col.Text == "" {
						continue
					}
					person.AddHours(key, types.MonthLabel(col.Title), ParseHours(col.Text))
				}
			}
		}
	}

	return stats
}

// ParseHours parses a free-form column text as a decimal number of hours.
// Non-numeric or empty text contributes exactly zero.
func ParseHours(text string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return v
}

// MMUnit converts hours to the M/M utilization unit against the default
// FTE constant: round(hours/143.5, 2), with zero for non-positive hours
func MMUnit(hours float64) float64 {
	return MMUnitFTE(hours, DefaultFTEHours)
}

// MMUnitFTE converts hours to the M/M unit with an explicit FTE constant
func MMUnitFTE(hours, fteHours float64) float64 {
	if hours <= 0 || fteHours <= 0 {
		return 0
	}
	return round2(hours / fteHours)
}

// MonthlyUtilization derives the twelve-point utilization series with the
// default FTE constant
func MonthlyUtilization(stats model.Stats) []model.UtilizationPoint {
	return MonthlyUtilizationFTE(stats, DefaultFTEHours)
}

// MonthlyUtilizationFTE derives the utilization series: per month, the sum
// of every person's M/M unit divided by the person count, as a percentage
// rounded to two decimals. No people yields an empty series.
func MonthlyUtilizationFTE(stats model.Stats, fteHours float64) []model.UtilizationPoint {
	personCount := len(stats)
	if personCount == 0 {
		return nil
	}

	points := make([]model.UtilizationPoint, 0, len(types.MonthColumns))
	for _, month := range types.MonthColumns {
		var totalMM float64
		for _, person := range stats {
			totalMM += MMUnitFTE(person.Months[month], fteHours)
		}

		points = append(points, model.UtilizationPoint{
			Month:       month,
			Utilization: round2(totalMM / float64(personCount) * 100),
			TotalMM:     round2(totalMM),
			PersonCount: personCount,
		})
	}
	return points
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
