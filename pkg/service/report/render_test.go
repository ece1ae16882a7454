package report_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/service/report"
)

func TestBuildTable(t *testing.T) {
	groups := []model.Group{
		{
			Title: "A",
			Items: []model.Item{
				{
					Name: "Task1",
					Subitems: []model.Subitem{
						{Name: "Alice", ColumnValues: []model.ColumnValue{{Title: "3월", Text: "100"}}},
						{Name: "Bob", ColumnValues: []model.ColumnValue{{Title: "상태", Text: "done"}}},
					},
				},
			},
		},
	}
	stats := report.Aggregate(groups)

	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.Local)
	table := report.BuildTable("Project Board", "2025-03-20", stats, now)

	gt.Equal(t, table.BoardName, "Project Board")
	gt.Equal(t, len(table.Months), 12)
	gt.True(t, table.Months[2].Current) // 3월
	gt.False(t, table.Months[0].Current)

	// Rows sorted by name
	gt.Equal(t, len(table.Rows), 2)
	gt.Equal(t, table.Rows[0].Name, "Alice")
	gt.Equal(t, table.Rows[1].Name, "Bob")

	alice := table.Rows[0]
	gt.Equal(t, alice.No, 1)
	gt.Equal(t, alice.Items, []string{"[A] Task1"})
	gt.Equal(t, alice.Cells[2].Hours, "100")
	gt.Equal(t, alice.Cells[2].MM, "0.70")
	gt.Equal(t, alice.Total, "100.00")

	// Zero months show placeholders
	gt.Equal(t, alice.Cells[0].Hours, "-")
	gt.Equal(t, alice.Cells[0].MM, "0")

	// Bob logged nothing: dash total
	bob := table.Rows[1]
	gt.Equal(t, bob.Total, "-")
}

func TestTableRender(t *testing.T) {
	stats := report.Aggregate(singleSubitemBoard("3월", "100"))
	table := report.BuildTable("Project Board", "2025-03-20", stats, time.Now())

	var buf bytes.Buffer
	gt.NoError(t, table.Render(&buf))

	html := buf.String()
	gt.True(t, strings.Contains(html, "Project Board"))
	gt.True(t, strings.Contains(html, "[A] Task1"))
	gt.True(t, strings.Contains(html, "100.00"))
	gt.True(t, strings.Contains(html, "3월"))
}

func TestTableRenderEmpty(t *testing.T) {
	table := report.BuildTable("Empty", "2025-01-01", model.Stats{}, time.Now())

	var buf bytes.Buffer
	gt.NoError(t, table.Render(&buf))
	gt.True(t, strings.Contains(buf.String(), "하위 아이템이 없습니다"))
}

func TestBuildTableFTE(t *testing.T) {
	stats := report.Aggregate(singleSubitemBoard("3월", "100"))

	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.Local)
	table := report.BuildTableFTE("Project Board", "2025-03-20", stats, 200, now)

	// M/M reflects the explicit FTE constant: 100/200 = 0.5
	gt.Equal(t, table.Rows[0].Cells[2].Hours, "100")
	gt.Equal(t, table.Rows[0].Cells[2].MM, "0.50")
}
