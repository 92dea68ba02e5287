package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"bookinsight/internal/adapters/export"
	"bookinsight/internal/app"
	"bookinsight/internal/web"
)

type Handlers struct {
	Q         *app.DashboardService
	ExportRPS int

	tmpl    *template.Template
	printer *message.Printer
}

func NewHandlers(q *app.DashboardService, exportRPS int) *Handlers {
	return &Handlers{
		Q:         q,
		ExportRPS: exportRPS,
		tmpl:      template.Must(template.ParseFS(web.Templates, "templates/*.html")),
		printer:   message.NewPrinter(language.English),
	}
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/", h.dashboard)
	s.mux.Get("/v1/summary", h.summary)
	s.mux.Get("/v1/filters", h.filterOptions)
	s.mux.Get("/v1/charts", h.listCharts)
	s.mux.Get("/v1/charts/{name}", h.chart)
	s.mux.Group(func(r chi.Router) {
		r.Use(RateLimit(h.ExportRPS))
		r.Get("/v1/export/bookings.csv", h.exportBookingsCSV)
		r.Get("/v1/export/bookings.xlsx", h.exportBookingsXLSX)
		r.Get("/v1/export/charts/{name}.csv", h.exportChartCSV)
	})
}

// parseSelection maps query params to a filter selection. Multi-valued
// fields repeat the param (hotel=A&hotel=B).
func parseSelection(r *http.Request) (app.Selection, error) {
	q := r.URL.Query()
	sel := app.Selection{
		HotelTypes:    dropEmpty(q["hotel"]),
		Months:        dropEmpty(q["month"]),
		CustomerTypes: dropEmpty(q["customer"]),
	}
	for _, y := range dropEmpty(q["year"]) {
		n, err := strconv.Atoi(y)
		if err != nil {
			return app.Selection{}, fmt.Errorf("year %q must be an integer", y)
		}
		sel.Years = append(sel.Years, n)
	}
	var err error
	if sel.ADRMin, err = parseFloatParam(q.Get("adr_min"), "adr_min"); err != nil {
		return app.Selection{}, err
	}
	if sel.ADRMax, err = parseFloatParam(q.Get("adr_max"), "adr_max"); err != nil {
		return app.Selection{}, err
	}
	if sel.ADRMin != nil && sel.ADRMax != nil && *sel.ADRMin > *sel.ADRMax {
		return app.Selection{}, fmt.Errorf("adr_min must not exceed adr_max")
	}
	return sel, nil
}

func parseFloatParam(v, name string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%s %q must be a number", name, v)
	}
	return &f, nil
}

func dropEmpty(in []string) []string {
	var out []string
	for _, v := range in {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

// selectionValues reverses parseSelection for building links that keep the
// current filters.
func selectionValues(sel app.Selection) url.Values {
	v := url.Values{}
	for _, x := range sel.HotelTypes {
		v.Add("hotel", x)
	}
	for _, y := range sel.Years {
		v.Add("year", strconv.Itoa(y))
	}
	for _, m := range sel.Months {
		v.Add("month", m)
	}
	for _, c := range sel.CustomerTypes {
		v.Add("customer", c)
	}
	if sel.ADRMin != nil {
		v.Set("adr_min", strconv.FormatFloat(*sel.ADRMin, 'f', -1, 64))
	}
	if sel.ADRMax != nil {
		v.Set("adr_max", strconv.FormatFloat(*sel.ADRMax, 'f', -1, 64))
	}
	return v
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSONWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}

// ---- JSON API ----

func (h *Handlers) summary(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	k, err := h.Q.Summary(r.Context(), sel)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Summary Failed", err.Error())
		return
	}
	writeJSONWithETag(w, r, k)
}

func (h *Handlers) filterOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.Q.FilterOptions(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Filter Options Failed", err.Error())
		return
	}
	writeJSONWithETag(w, r, opts)
}

func (h *Handlers) listCharts(w http.ResponseWriter, r *http.Request) {
	writeJSONWithETag(w, r, h.Q.Charts())
}

func (h *Handlers) chart(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	name := chi.URLParam(r, "name")
	t, err := h.Q.Chart(r.Context(), name, sel)
	if err != nil {
		if errors.Is(err, app.ErrUnknownChart) {
			writeProblem(w, http.StatusNotFound, "Not Found", "no chart named "+name)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Chart Failed", err.Error())
		return
	}
	writeJSONWithETag(w, r, t)
}

// ---- exports ----

func (h *Handlers) exportBookingsCSV(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	recs, err := h.Q.FilteredRecords(r.Context(), sel)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Export Failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.csv"`)
	if err := export.WriteRecords(w, recs); err != nil {
		log.Error().Err(err).Msg("csv export write failed")
	}
}

func (h *Handlers) exportBookingsXLSX(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	recs, err := h.Q.FilteredRecords(r.Context(), sel)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Export Failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	if err := export.WriteRecordsXLSX(w, recs); err != nil {
		log.Error().Err(err).Msg("xlsx export write failed")
	}
}

func (h *Handlers) exportChartCSV(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	name := chi.URLParam(r, "name")
	t, err := h.Q.Chart(r.Context(), name, sel)
	if err != nil {
		if errors.Is(err, app.ErrUnknownChart) {
			writeProblem(w, http.StatusNotFound, "Not Found", "no chart named "+name)
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Export Failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.csv"`)
	if err := export.WriteTableCSV(w, t); err != nil {
		log.Error().Err(err).Msg("chart csv export write failed")
	}
}
