package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/mauv0809/statement-glance/internal/models"
	"github.com/mauv0809/statement-glance/internal/report"
	"github.com/mauv0809/statement-glance/internal/table"
	"github.com/mauv0809/statement-glance/internal/theme"
	"github.com/mauv0809/statement-glance/internal/views"
	"github.com/rs/zerolog"
)

// Reports exposes the current fetch outcome.
type Reports interface {
	Snapshot() report.Snapshot
}

type Handler struct {
	reports Reports
	theme   *theme.Store
	title   string
	logger  zerolog.Logger
}

func New(reports Reports, themes *theme.Store, title string, logger zerolog.Logger) *Handler {
	return &Handler{
		reports: reports,
		theme:   themes,
		title:   title,
		logger:  logger,
	}
}

// Routes registers every endpoint on e.
func (h *Handler) Routes(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/", h.Index)
	e.POST("/theme", h.ToggleTheme)
	e.GET("/api/income-statement", h.StatementJSON)
}

// Render writes t with the given status code.
func Render(c echo.Context, statusCode int, t templ.Component) error {
	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := t.Render(c.Request().Context(), buf); err != nil {
		return err
	}
	return c.HTML(statusCode, buf.String())
}

// Health returns application health status
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Index renders the statement page. HTMX requests get only the statement fragment.
func (h *Handler) Index(c echo.Context) error {
	page := h.page(table.ParseQuery(c.QueryParams()))

	if c.Request().Header.Get("HX-Request") == "true" {
		return Render(c, http.StatusOK, views.Statement(page))
	}
	return Render(c, http.StatusOK, views.Index(page))
}

func (h *Handler) page(s table.State) views.Page {
	snap := h.reports.Snapshot()
	page := views.Page{
		Title:   h.title,
		Dark:    h.theme.Dark(),
		Status:  snap.Status,
		Message: snap.Message,
	}
	if snap.Status == report.StatusSuccess {
		page.View = table.Derive(snap.Records, s)
	}
	return page
}

// ToggleTheme flips the theme and sends the browser back where it came from.
func (h *Handler) ToggleTheme(c echo.Context) error {
	dark := h.theme.Toggle()
	h.logger.Debug().Bool("dark", dark).Msg("theme toggled")
	return c.Redirect(http.StatusSeeOther, backTo(c.Request().Referer()))
}

// backTo keeps only the path and query of a referer so redirects stay on this host.
func backTo(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.RequestURI()
}

// StatementRow mirrors the upstream record. Amounts are JSON numbers, as upstream sends them.
type StatementRow struct {
	Date            string      `json:"date"`
	Revenue         json.Number `json:"revenue"`
	NetIncome       json.Number `json:"netIncome"`
	GrossProfit     json.Number `json:"grossProfit"`
	EPS             json.Number `json:"eps"`
	OperatingIncome json.Number `json:"operatingIncome"`
}

func newStatementRow(s models.IncomeStatement) StatementRow {
	return StatementRow{
		Date:            s.Date,
		Revenue:         json.Number(s.Revenue.String()),
		NetIncome:       json.Number(s.NetIncome.String()),
		GrossProfit:     json.Number(s.GrossProfit.String()),
		EPS:             json.Number(s.EPS.String()),
		OperatingIncome: json.Number(s.OperatingIncome.String()),
	}
}

// StatementResponse is the JSON form of one derived page.
type StatementResponse struct {
	Rows       []StatementRow  `json:"rows"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	Sort       table.Column    `json:"sort"`
	Direction  table.Direction `json:"dir"`
}

// StatusResponse reports a fetch that has not succeeded.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// StatementJSON serves the same derived page as Index, as JSON.
func (h *Handler) StatementJSON(c echo.Context) error {
	snap := h.reports.Snapshot()
	switch snap.Status {
	case report.StatusLoading:
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: snap.Status.String()})
	case report.StatusError:
		return c.JSON(http.StatusBadGateway, StatusResponse{Status: snap.Status.String(), Message: snap.Message})
	}

	v := table.Derive(snap.Records, table.ParseQuery(c.QueryParams()))
	rows := make([]StatementRow, 0, len(v.Rows))
	for _, r := range v.Rows {
		rows = append(rows, newStatementRow(r))
	}
	return c.JSON(http.StatusOK, StatementResponse{
		Rows:       rows,
		Total:      v.Total,
		Page:       v.Page,
		TotalPages: v.TotalPages,
		Sort:       v.State.Sort.Column,
		Direction:  v.State.Sort.Direction,
	})
}
