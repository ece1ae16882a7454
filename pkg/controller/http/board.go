package http

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
	"github.com/worklens-io/worklens/pkg/metrics"
	"github.com/worklens-io/worklens/pkg/service/excel"
	"github.com/worklens-io/worklens/pkg/service/report"
	"github.com/worklens-io/worklens/pkg/usecase"
	"github.com/worklens-io/worklens/pkg/utils/apperr"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BoardHandler serves board snapshots and everything derived from them
type BoardHandler struct {
	boardUC  usecase.BoardUseCase
	exporter *excel.Exporter
	fteHours float64
	now      func() time.Time
}

// BoardHandlerOption configures a BoardHandler
type BoardHandlerOption func(*BoardHandler)

// WithExporter overrides the spreadsheet exporter
func WithExporter(exporter *excel.Exporter) BoardHandlerOption {
	return func(h *BoardHandler) {
		h.exporter = exporter
	}
}

// WithFTEHours overrides the full-time-equivalent hours per month
func WithFTEHours(hours float64) BoardHandlerOption {
	return func(h *BoardHandler) {
		if hours > 0 {
			h.fteHours = hours
		}
	}
}

// WithHandlerClock overrides the time source. Test use.
func WithHandlerClock(now func() time.Time) BoardHandlerOption {
	return func(h *BoardHandler) {
		h.now = now
	}
}

// NewBoardHandler creates a BoardHandler
func NewBoardHandler(boardUC usecase.BoardUseCase, opts ...BoardHandlerOption) *BoardHandler {
	h := &BoardHandler{
		boardUC:  boardUC,
		fteHours: report.DefaultFTEHours,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	// The default exporter inherits the configured FTE constant
	if h.exporter == nil {
		h.exporter = excel.NewExporter(excel.WithFTEHours(h.fteHours))
	}
	return h
}

// loadSnapshot resolves the optional ?date=YYYY-MM-DD parameter: with a
// date it serves only what is stored; without one it reads through to
// today's snapshot.
func (h *BoardHandler) loadSnapshot(r *http.Request) (*model.Snapshot, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return h.boardUC.Load(r.Context())
	}
	date, err := types.ParseSnapshotDate(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid date parameter",
			goerr.V("date", raw), goerr.T(ErrTagBadRequest))
	}
	return h.boardUC.LoadByDate(r.Context(), date)
}

// HandleBoard serves the raw snapshot
func (h *BoardHandler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.loadSnapshot(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, snapshot)
}

// HandleDates lists stored snapshot dates, newest first
func (h *BoardHandler) HandleDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.boardUC.Dates(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if dates == nil {
		dates = []types.SnapshotDate{}
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]any{"dates": dates})
}

// HandleStats serves per-person aggregated hours
func (h *BoardHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.loadSnapshot(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	stats := report.Aggregate(snapshot.Board.Groups)
	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"board_name": snapshot.BoardName,
		"date":       snapshot.UpdatedAt,
		"stats":      stats,
	})
}

// HandleUtilization serves the monthly utilization series
func (h *BoardHandler) HandleUtilization(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.loadSnapshot(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	stats := report.Aggregate(snapshot.Board.Groups)
	series := report.MonthlyUtilizationFTE(stats, h.fteHours)
	if series == nil {
		series = []model.UtilizationPoint{}
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"board_name":  snapshot.BoardName,
		"date":        snapshot.UpdatedAt,
		"utilization": series,
	})
}

// HandleRefresh forces an upstream fetch
func (h *BoardHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.boardUC.Refresh(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, snapshot)
}

// HandleExport downloads the report as an xlsx workbook
func (h *BoardHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.loadSnapshot(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	stats := report.Aggregate(snapshot.Board.Groups)

	exporter := h.exporter
	if r.URL.Query().Get("layout") == "flat" {
		exporter = excel.NewExporter(
			excel.WithLayout(excel.LayoutFlat),
			excel.WithFTEHours(h.fteHours),
		)
	}

	filename := excel.Filename(snapshot.BoardName, types.NewSnapshotDate(h.now()))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="report.xlsx"; filename*=UTF-8''%s`, url.PathEscape(filename)))

	if err := exporter.Write(w, stats); err != nil {
		// Headers are already sent; all we can do is log
		apperr.Handle(r.Context(), err)
		return
	}
	metrics.RecordExport()
}

// HandleReport renders the standalone HTML report page
func (h *BoardHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.loadSnapshot(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	stats := report.Aggregate(snapshot.Board.Groups)
	table := report.BuildTableFTE(snapshot.BoardName, snapshot.UpdatedAt, stats, h.fteHours, h.now())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := table.Render(w); err != nil {
		writeError(r.Context(), w, err)
	}
}
