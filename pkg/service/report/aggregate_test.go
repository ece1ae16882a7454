package report_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
	"github.com/worklens-io/worklens/pkg/service/report"
)

func singleSubitemBoard(monthTitle, text string) []model.Group {
	return []model.Group{
		{
			ID:    "g1",
			Title: "A",
			Items: []model.Item{
				{
					ID:   "i1",
					Name: "Task1",
					Subitems: []model.Subitem{
						{
							ID:   "s1",
							Name: "Alice",
							ColumnValues: []model.ColumnValue{
								{Title: monthTitle, Text: text},
							},
						},
					},
				},
			},
		},
	}
}

func TestAggregateSingleSubitem(t *testing.T) {
	stats := report.Aggregate(singleSubitemBoard("3월", "100"))

	alice := stats["Alice"]
	gt.NotNil(t, alice)
	gt.Equal(t, alice.Months["3월"], 100.0)
	gt.Equal(t, alice.Items, []types.ItemKey{"[A] Task1"})
	gt.Equal(t, alice.Total(), 100.0)
	gt.Equal(t, report.MMUnit(alice.Months["3월"]), 0.7)
}

func TestAggregateIgnoresNonMonthColumns(t *testing.T) {
	groups := singleSubitemBoard("3월", "40")
	groups[0].Items[0].Subitems[0].ColumnValues = append(
		groups[0].Items[0].Subitems[0].ColumnValues,
		model.ColumnValue{Title: "상태", Text: "99"},
		model.ColumnValue{Title: "담당자", Text: "Bob"},
	)

	stats := report.Aggregate(groups)
	gt.Equal(t, stats["Alice"].Total(), 40.0)
}

func TestAggregateNonNumericTextIsZero(t *testing.T) {
	for _, text := range []string{"", "n/a", "12h", "-"} {
		stats := report.Aggregate(singleSubitemBoard("5월", text))
		gt.Equal(t, stats["Alice"].Months["5월"], 0.0)
		gt.Equal(t, stats["Alice"].Total(), 0.0)
	}
}

func TestAggregateSumsAcrossItems(t *testing.T) {
	groups := []model.Group{
		{
			Title: "A",
			Items: []model.Item{
				{
					Name: "Task1",
					Subitems: []model.Subitem{
						{Name: "Alice", ColumnValues: []model.ColumnValue{{Title: "1월", Text: "40"}}},
						{Name: "Bob", ColumnValues: []model.ColumnValue{{Title: "1월", Text: "20"}}},
					},
				},
				{
					Name: "Task2",
					Subitems: []model.Subitem{
						{Name: "Alice", ColumnValues: []model.ColumnValue{
							{Title: "1월", Text: "30"},
							{Title: "2월", Text: "71.75"},
						}},
					},
				},
			},
		},
		{
			Title: "B",
			Items: []model.Item{
				{
					Name: "Task3",
					Subitems: []model.Subitem{
						{Name: "Alice", ColumnValues: []model.ColumnValue{{Title: "2월", Text: "10.5"}}},
					},
				},
			},
		},
	}

	stats := report.Aggregate(groups)
	gt.Equal(t, len(stats), 2)

	alice := stats["Alice"]
	gt.Equal(t, alice.Months["1월"], 70.0)
	gt.Equal(t, alice.Months["2월"], 82.25)
	gt.Equal(t, alice.Items, []types.ItemKey{"[A] Task1", "[A] Task2", "[B] Task3"})
	gt.Equal(t, alice.ItemMonths["[A] Task1"]["1월"], 40.0)
	gt.Equal(t, alice.ItemMonths["[A] Task2"]["1월"], 30.0)
	gt.Equal(t, alice.ItemMonths["[B] Task3"]["2월"], 10.5)

	// Month totals always equal the per-item breakdown sums
	for name := range stats {
		for _, m := range types.MonthColumns {
			var sum float64
			for _, key := range stats[name].Items {
				sum += stats[name].ItemMonths[key][m]
			}
			gt.Equal(t, stats[name].Months[m], sum)
		}
	}
}

func TestMMUnit(t *testing.T) {
	gt.Equal(t, report.MMUnit(143.5), 1.0)
	gt.Equal(t, report.MMUnit(71.75), 0.5)
	gt.Equal(t, report.MMUnit(100), 0.7)
	gt.Equal(t, report.MMUnit(0), 0.0)
	gt.Equal(t, report.MMUnit(-5), 0.0)
}

func TestParseHours(t *testing.T) {
	gt.Equal(t, report.ParseHours("100"), 100.0)
	gt.Equal(t, report.ParseHours(" 12.5 "), 12.5)
	gt.Equal(t, report.ParseHours(""), 0.0)
	gt.Equal(t, report.ParseHours("abc"), 0.0)
}

func TestMonthlyUtilization(t *testing.T) {
	t.Run("empty stats yields empty series", func(t *testing.T) {
		gt.Equal(t, len(report.MonthlyUtilization(model.Stats{})), 0)
	})

	t.Run("two people", func(t *testing.T) {
		groups := []model.Group{
			{
				Title: "A",
				Items: []model.Item{
					{
						Name: "Task1",
						Subitems: []model.Subitem{
							{Name: "Alice", ColumnValues: []model.ColumnValue{{Title: "3월", Text: "143.5"}}},
							{Name: "Bob", ColumnValues: []model.ColumnValue{{Title: "3월", Text: "71.75"}}},
						},
					},
				},
			},
		}

		series := report.MonthlyUtilization(report.Aggregate(groups))
		gt.Equal(t, len(series), 12)

		var march model.UtilizationPoint
		for _, p := range series {
			if p.Month == "3월" {
				march = p
			}
		}
		// units 1.0 and 0.5 over 2 people
		gt.Equal(t, march.Utilization, 75.0)
		gt.Equal(t, march.TotalMM, 1.5)
		gt.Equal(t, march.PersonCount, 2)

		// Months with no hours sit at zero
		gt.Equal(t, series[0].Month, types.MonthLabel("1월"))
		gt.Equal(t, series[0].Utilization, 0.0)
	})
}
