package report

import (
	"embed"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
)

//go:embed templates/report.html
var templateFS embed.FS

// MonthHeader is one month column group of the report table
type MonthHeader struct {
	Label   string
	Current bool
}

// MonthCell is the 3-column group a row shows for one month: the per-item
// hour breakdown, the month total, and the M/M unit
type MonthCell struct {
	ItemHours []string
	Hours     string // "-" when the month total is zero
	MM        string // "0" when the unit is zero
	Current   bool
}

// Row is one person's line in the report table
type Row struct {
	No    int
	Name  string
	Items []string
	Cells []MonthCell
	Total string // "-" when the grand total is zero
}

// Table is the fully formatted report, ready for template rendering
type Table struct {
	BoardName string
	Date      string
	Months    []MonthHeader
	Rows      []Row
}

// BuildTable formats aggregated stats for display. Rows are ordered
// lexicographically by person name; the month matching now is highlighted.
func BuildTable(boardName string, date types.SnapshotDate, stats model.Stats, now time.Time) *Table {
	return BuildTableFTE(boardName, date, stats, DefaultFTEHours, now)
}

// BuildTableFTE is BuildTable with an explicit FTE constant for the M/M cells
func BuildTableFTE(boardName string, date types.SnapshotDate, stats model.Stats, fteHours float64, now time.Time) *Table {
	current := types.CurrentMonthColumn(now)

	table := &Table{
		BoardName: boardName,
		Date:      date.String(),
	}
	for _, m := range types.MonthColumns {
		table.Months = append(table.Months, MonthHeader{
			Label:   m.String(),
			Current: m == current,
		})
	}

	for i, name := range stats.Names() {
		person := stats[name]

		row := Row{
			No:   i + 1,
			Name: name,
		}
		for _, key := range person.Items {
			row.Items = append(row.Items, key.String())
		}

		for _, m := range types.MonthColumns {
			hours := person.Months[m]
			mm := MMUnitFTE(hours, fteHours)

			cell := MonthCell{
				Hours:   formatHoursOrDash(hours),
				MM:      formatMM(mm),
				Current: m == current,
			}
			for _, key := range person.Items {
				cell.ItemHours = append(cell.ItemHours, formatNumber(person.ItemMonths[key][m]))
			}
			row.Cells = append(row.Cells, cell)
		}

		total := person.Total()
		if total > 0 {
			row.Total = strconv.FormatFloat(total, 'f', 2, 64)
		} else {
			row.Total = "-"
		}

		table.Rows = append(table.Rows, row)
	}

	return table
}

// Render writes the report table as a standalone HTML page
func (t *Table) Render(w io.Writer) error {
	tmpl, err := template.ParseFS(templateFS, "templates/report.html")
	if err != nil {
		return goerr.Wrap(err, "failed to parse report template")
	}
	if err := tmpl.Execute(w, t); err != nil {
		return goerr.Wrap(err, "failed to render report")
	}
	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatHoursOrDash(v float64) string {
	if v > 0 {
		return formatNumber(v)
	}
	return "-"
}

func formatMM(mm float64) string {
	if mm > 0 {
		return strconv.FormatFloat(mm, 'f', 2, 64)
	}
	return "0"
}
