package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
)

func TestPersonStatsAddHours(t *testing.T) {
	p := model.NewPersonStats()
	key := types.NewItemKey("A", "Task1")

	p.AddHours(key, "3월", 100)
	p.AddHours(key, "3월", 20.5)
	p.AddHours(key, "4월", 10)

	gt.Equal(t, p.Months["3월"], 120.5)
	gt.Equal(t, p.Months["4월"], 10.0)
	gt.Equal(t, p.ItemMonths[key]["3월"], 120.5)
	gt.Equal(t, p.Total(), 130.5)
	gt.Equal(t, len(p.Items), 1)
}

func TestPersonStatsItemsDeduplicated(t *testing.T) {
	p := model.NewPersonStats()
	a := types.NewItemKey("A", "Task1")
	b := types.NewItemKey("B", "Task2")

	p.AddItem(a)
	p.AddItem(b)
	p.AddItem(a)

	gt.Equal(t, p.Items, []types.ItemKey{a, b})
}

func TestPersonStatsMonthsMatchItemBreakdown(t *testing.T) {
	p := model.NewPersonStats()
	a := types.NewItemKey("A", "Task1")
	b := types.NewItemKey("A", "Task2")

	p.AddHours(a, "1월", 40)
	p.AddHours(b, "1월", 30)
	p.AddHours(b, "6월", 15)

	for _, m := range types.MonthColumns {
		var sum float64
		for _, key := range p.Items {
			sum += p.ItemMonths[key][m]
		}
		gt.Equal(t, p.Months[m], sum)
	}
}

func TestStatsNamesSorted(t *testing.T) {
	s := model.Stats{
		"Carol": model.NewPersonStats(),
		"Alice": model.NewPersonStats(),
		"Bob":   model.NewPersonStats(),
	}
	gt.Equal(t, s.Names(), []string{"Alice", "Bob", "Carol"})
}
