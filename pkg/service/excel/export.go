package excel

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
	"github.com/worklens-io/worklens/pkg/service/report"
	"github.com/xuri/excelize/v2"
)

// SheetName is the single worksheet holding the report
const SheetName = "월별 작업 시간"

// Layout selects how person/item rows are arranged
type Layout int

const (
	// LayoutExpanded writes one row per (person, item) pair and merges the
	// person's name, month-total, M/M and grand-total cells vertically
	// across that person's item rows. This is the reference layout.
	LayoutExpanded Layout = iota

	// LayoutFlat writes one row per person with item names joined into a
	// single delimited cell.
	LayoutFlat
)

// Exporter serializes aggregated stats into an xlsx workbook
type Exporter struct {
	layout   Layout
	fteHours float64
}

// Option configures an Exporter
type Option func(*Exporter)

// WithLayout selects the row layout
func WithLayout(layout Layout) Option {
	return func(e *Exporter) {
		e.layout = layout
	}
}

// WithFTEHours overrides the FTE constant used for the M/M cells
func WithFTEHours(hours float64) Option {
	return func(e *Exporter) {
		if hours > 0 {
			e.fteHours = hours
		}
	}
}

// NewExporter creates an Exporter, defaulting to the expanded layout
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		layout:   LayoutExpanded,
		fteHours: report.DefaultFTEHours,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Filename builds the download name: {boardName}_{date}.xlsx
func Filename(boardName string, date types.SnapshotDate) string {
	return fmt.Sprintf("%s_%s.xlsx", boardName, date)
}

// FilenameToday builds the download name for an export made right now
func FilenameToday(boardName string) string {
	return Filename(boardName, types.NewSnapshotDate(time.Now()))
}

// Write serializes the workbook to w
func (e *Exporter) Write(w io.Writer, stats model.Stats) error {
	f, err := e.build(stats)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return goerr.Wrap(err, "failed to write workbook")
	}
	return nil
}

// WriteFile serializes the workbook to a local file
func (e *Exporter) WriteFile(path string, stats model.Stats) error {
	f, err := e.build(stats)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return goerr.Wrap(err, "failed to save workbook", goerr.V("path", path))
	}
	return nil
}

func (e *Exporter) build(stats model.Stats) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, goerr.Wrap(err, "failed to name worksheet")
	}

	if err := writeHeader(f); err != nil {
		return nil, err
	}
	if err := setColumnWidths(f); err != nil {
		return nil, err
	}

	var err error
	switch e.layout {
	case LayoutFlat:
		err = writeFlatRows(f, stats, e.fteHours)
	default:
		err = writeExpandedRows(f, stats, e.fteHours)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Column offsets: A=No, B=이름, C=아이템, then 3 columns per month, then 합계
const (
	colNo         = 1
	colName       = 2
	colItems      = 3
	firstMonthCol = 4
)

func totalCol() int {
	return colItems + len(types.MonthColumns)*3 + 1
}

// monthCols returns the (item breakdown, hours, M/M) column numbers for
// the i-th month
func monthCols(i int) (int, int, int) {
	base := firstMonthCol + i*3
	return base, base + 1, base + 2
}

func writeHeader(f *excelize.File) error {
	set := func(col, row int, value any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return goerr.Wrap(err, "invalid cell coordinates")
		}
		return f.SetCellValue(SheetName, cell, value)
	}
	merge := func(c1, r1, c2, r2 int) error {
		top, err := excelize.CoordinatesToCellName(c1, r1)
		if err != nil {
			return goerr.Wrap(err, "invalid cell coordinates")
		}
		bottom, err := excelize.CoordinatesToCellName(c2, r2)
		if err != nil {
			return goerr.Wrap(err, "invalid cell coordinates")
		}
		return f.MergeCell(SheetName, top, bottom)
	}

	for col, label := range map[int]string{colNo: "No", colName: "이름", colItems: "아이템"} {
		if err := set(col, 1, label); err != nil {
			return goerr.Wrap(err, "failed to write header")
		}
		if err := merge(col, 1, col, 2); err != nil {
			return goerr.Wrap(err, "failed to merge header")
		}
	}

	for i, month := range types.MonthColumns {
		itemCol, hoursCol, mmCol := monthCols(i)
		if err := set(itemCol, 1, month.String()); err != nil {
			return goerr.Wrap(err, "failed to write month header")
		}
		if err := merge(itemCol, 1, mmCol, 1); err != nil {
			return goerr.Wrap(err, "failed to merge month header")
		}
		for col, label := range map[int]string{itemCol: "아이템별", hoursCol: "시간", mmCol: "M/M"} {
			if err := set(col, 2, label); err != nil {
				return goerr.Wrap(err, "failed to write month subheader")
			}
		}
	}

	if err := set(totalCol(), 1, "합계"); err != nil {
		return goerr.Wrap(err, "failed to write total header")
	}
	if err := set(totalCol(), 2, "시간"); err != nil {
		return goerr.Wrap(err, "failed to write total subheader")
	}
	return nil
}

// setColumnWidths applies fixed presentation hints; widths carry no meaning
func setColumnWidths(f *excelize.File) error {
	width := func(col int, w float64) error {
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return goerr.Wrap(err, "invalid column number")
		}
		return f.SetColWidth(SheetName, name, name, w)
	}

	if err := width(colNo, 5); err != nil {
		return err
	}
	if err := width(colName, 15); err != nil {
		return err
	}
	if err := width(colItems, 40); err != nil {
		return err
	}
	for i := range types.MonthColumns {
		itemCol, hoursCol, mmCol := monthCols(i)
		if err := width(itemCol, 10); err != nil {
			return err
		}
		if err := width(hoursCol, 8); err != nil {
			return err
		}
		if err := width(mmCol, 8); err != nil {
			return err
		}
	}
	return width(totalCol(), 10)
}

// writeExpandedRows writes one row per (person, item) pair. Person-scoped
// cells span the person's item rows via vertical merges; a person with a
// single item gets a plain unmerged row.
func writeExpandedRows(f *excelize.File, stats model.Stats, fteHours float64) error {
	set := func(col, row int, value any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return goerr.Wrap(err, "invalid cell coordinates")
		}
		if err := f.SetCellValue(SheetName, cell, value); err != nil {
			return goerr.Wrap(err, "failed to write cell", goerr.V("cell", cell))
		}
		return nil
	}
	mergeRows := func(col, r1, r2 int) error {
		top, err := excelize.CoordinatesToCellName(col, r1)
		if err != nil {
			return goerr.Wrap(err, "invalid cell coordinates")
		}
		bottom, err := excelize.CoordinatesToCellName(col, r2)
		if err != nil {
			return goerr.Wrap(err, "invalid cell coordinates")
		}
		if err := f.MergeCell(SheetName, top, bottom); err != nil {
			return goerr.Wrap(err, "failed to merge rows", goerr.V("cell", top))
		}
		return nil
	}

	row := 3
	for no, name := range orderedNames(stats) {
		person := stats[name]
		items := person.Items
		if len(items) == 0 {
			continue
		}

		startRow := row
		endRow := row + len(items) - 1

		if err := set(colNo, startRow, no+1); err != nil {
			return err
		}
		if err := set(colName, startRow, name); err != nil {
			return err
		}

		for offset, key := range items {
			if err := set(colItems, startRow+offset, key.String()); err != nil {
				return err
			}
			for i, month := range types.MonthColumns {
				itemCol, _, _ := monthCols(i)
				if err := set(itemCol, startRow+offset, person.ItemMonths[key][month]); err != nil {
					return err
				}
			}
		}

		for i, month := range types.MonthColumns {
			_, hoursCol, mmCol := monthCols(i)
			if err := set(hoursCol, startRow, person.Months[month]); err != nil {
				return err
			}
			if err := set(mmCol, startRow, report.MMUnitFTE(person.Months[month], fteHours)); err != nil {
				return err
			}
		}
		if err := set(totalCol(), startRow, person.Total()); err != nil {
			return err
		}

		if endRow > startRow {
			for _, col := range personSpanCols() {
				if err := mergeRows(col, startRow, endRow); err != nil {
					return err
				}
			}
		}

		row = endRow + 1
	}
	return nil
}

// personSpanCols lists the columns merged across a person's item rows
func personSpanCols() []int {
	cols := []int{colNo, colName}
	for i := range types.MonthColumns {
		_, hoursCol, mmCol := monthCols(i)
		cols = append(cols, hoursCol, mmCol)
	}
	return append(cols, totalCol())
}

// writeFlatRows writes one row per person, joining item labels and item
// hour breakdowns into delimited cells
func writeFlatRows(f *excelize.File, stats model.Stats, fteHours float64) error {
	for no, name := range orderedNames(stats) {
		person := stats[name]
		row := 3 + no

		values := []any{no + 1, name, joinItemKeys(person.Items)}
		for _, month := range types.MonthColumns {
			var parts []string
			for _, key := range person.Items {
				parts = append(parts, formatNumber(person.ItemMonths[key][month]))
			}
			values = append(values,
				strings.Join(parts, ", "),
				person.Months[month],
				report.MMUnitFTE(person.Months[month], fteHours),
			)
		}
		values = append(values, person.Total())

		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return goerr.Wrap(err, "invalid cell coordinates")
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return goerr.Wrap(err, "failed to write cell", goerr.V("cell", cell))
			}
		}
	}
	return nil
}

func orderedNames(stats model.Stats) []string {
	return stats.Names()
}

func joinItemKeys(keys []types.ItemKey) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key.String())
	}
	return strings.Join(parts, ", ")
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%g", v)
}
