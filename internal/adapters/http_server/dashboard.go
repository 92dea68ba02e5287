package httpserver

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"bookinsight/internal/app"
	"bookinsight/internal/charts"
	"bookinsight/internal/domain"
)

// view models for the dashboard template

type optionView struct {
	Value    string
	Selected bool
}

type filtersView struct {
	Hotels    []optionView
	Years     []optionView
	Months    []optionView
	Customers []optionView
	ADRMin    string
	ADRMax    string
	ADRFloor  string
	ADRCeil   string
}

type kpiView struct {
	Bookings    string
	AvgADR      string
	Revenue     string
	CancelRate  string
	UpgradeRate string
}

type chartCard struct {
	Name    string
	Title   string
	Caption string
	SVG     template.HTML
	Err     string
}

type tabLink struct {
	Title  string
	URL    string
	Active bool
}

type dashboardView struct {
	ActiveTab   string
	TabLinks    []tabLink
	Filters     filtersView
	KPI         *kpiView
	Cards       []chartCard
	QuerySuffix string
	Version     string
	Rows        string
}

// dashboard renders the whole page for the active tab: every card is a
// pure function of (dataset, selection), so they build concurrently.
// A failing chart degrades to an inline error card.
func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	tab := r.URL.Query().Get("tab")
	if !validTab(tab) {
		tab = app.TabOverview
	}

	opts, err := h.Q.FilterOptions(r.Context())
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Dashboard Failed", err.Error())
		return
	}

	infos := h.Q.ChartsForTab(tab)
	cards := make([]chartCard, len(infos))
	g, gctx := errgroup.WithContext(r.Context())
	for i, info := range infos {
		i, info := i, info
		g.Go(func() error {
			t, err := h.Q.Chart(gctx, info.Name, sel)
			cards[i] = h.buildCard(info, t, err)
			return nil
		})
	}
	_ = g.Wait()

	var kpi *kpiView
	if tab == app.TabOverview {
		if k, err := h.Q.Summary(r.Context(), sel); err == nil {
			kpi = h.formatKPI(k)
		} else {
			log.Error().Err(err).Msg("summary failed")
		}
	}

	params := selectionValues(sel)
	suffix := ""
	if enc := params.Encode(); enc != "" {
		suffix = "?" + enc
	}

	links := make([]tabLink, 0, len(app.Tabs()))
	for _, t := range app.Tabs() {
		v := selectionValues(sel)
		v.Set("tab", t.ID)
		links = append(links, tabLink{Title: t.Title, URL: "/?" + v.Encode(), Active: t.ID == tab})
	}

	view := dashboardView{
		ActiveTab:   tab,
		TabLinks:    links,
		Filters:     buildFiltersView(opts, sel),
		KPI:         kpi,
		Cards:       cards,
		QuerySuffix: suffix,
		Version:     h.Q.Version(),
		Rows:        h.printer.Sprintf("%d", rowsFromSummary(h, r, sel)),
	}

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "dashboard", view); err != nil {
		log.Error().Err(err).Msg("dashboard template failed")
		writeProblem(w, http.StatusInternalServerError, "Dashboard Failed", "template rendering failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("failed to write dashboard body")
	}
}

func rowsFromSummary(h *Handlers, r *http.Request, sel app.Selection) int {
	k, err := h.Q.Summary(r.Context(), sel)
	if err != nil {
		return 0
	}
	return k.TotalBookings
}

func (h *Handlers) buildCard(info domain.ChartInfo, t domain.Table, err error) chartCard {
	card := chartCard{Name: info.Name, Title: info.Title, Caption: info.Caption}
	if err != nil {
		log.Error().Err(err).Str("chart", info.Name).Msg("chart build failed")
		card.Err = "This chart could not be rendered."
		return card
	}
	if t.Empty() {
		card.Err = "No data for the current filters."
		return card
	}
	svg, renderErr := renderTable(t, info)
	if renderErr != nil {
		log.Error().Err(renderErr).Str("chart", info.Name).Msg("chart render failed")
		card.Err = "This chart could not be rendered."
		return card
	}
	card.SVG = svg
	return card
}

func renderTable(t domain.Table, info domain.ChartInfo) (template.HTML, error) {
	opts := charts.Opts{Title: info.Title, Description: info.Caption}
	switch t.Kind {
	case domain.KindLine, domain.KindMultiLine:
		opts.ShowDots = len(t.Labels) <= 12 && t.Kind == domain.KindLine
		return charts.Lines(charts.DefaultWidth, charts.DefaultHeight, toChartSeries(t.Series), t.Labels, opts)
	case domain.KindHBar:
		height := charts.DefaultHeight
		if n := len(t.Labels) * 24; n > height {
			height = n
		}
		return charts.HBars(charts.DefaultWidth, height, t.Series[0].Values, t.Labels, opts)
	default: // bar, hist, multi_bar
		return charts.Bars(charts.DefaultWidth, charts.DefaultHeight, toChartSeries(t.Series), t.Labels, opts)
	}
}

func toChartSeries(in []domain.Series) []charts.Series {
	out := make([]charts.Series, len(in))
	for i, s := range in {
		out[i] = charts.Series{Name: s.Name, Values: s.Values}
	}
	return out
}

func buildFiltersView(opts domain.FilterOptions, sel app.Selection) filtersView {
	fv := filtersView{
		Hotels:    toOptions(opts.HotelTypes, sel.HotelTypes),
		Months:    toOptions(opts.Months, sel.Months),
		Customers: toOptions(opts.CustomerTypes, sel.CustomerTypes),
		ADRFloor:  strconv.FormatFloat(opts.ADRMin, 'f', 0, 64),
		ADRCeil:   strconv.FormatFloat(opts.ADRMax, 'f', 0, 64),
	}
	var years []string
	for _, y := range opts.Years {
		years = append(years, strconv.Itoa(y))
	}
	var selYears []string
	for _, y := range sel.Years {
		selYears = append(selYears, strconv.Itoa(y))
	}
	fv.Years = toOptions(years, selYears)
	if sel.ADRMin != nil {
		fv.ADRMin = strconv.FormatFloat(*sel.ADRMin, 'f', -1, 64)
	}
	if sel.ADRMax != nil {
		fv.ADRMax = strconv.FormatFloat(*sel.ADRMax, 'f', -1, 64)
	}
	return fv
}

func toOptions(all, selected []string) []optionView {
	sel := make(map[string]bool, len(selected))
	for _, s := range selected {
		sel[s] = true
	}
	out := make([]optionView, 0, len(all))
	for _, v := range all {
		out = append(out, optionView{Value: v, Selected: sel[v]})
	}
	return out
}

func validTab(tab string) bool {
	for _, t := range app.Tabs() {
		if t.ID == tab {
			return true
		}
	}
	return false
}

func (h *Handlers) formatKPI(k domain.KPISummary) *kpiView {
	return &kpiView{
		Bookings:    h.printer.Sprintf("%d", k.TotalBookings),
		AvgADR:      h.printer.Sprintf("%.2f", k.AvgADR),
		Revenue:     h.printer.Sprintf("%.0f", k.TotalRevenue),
		CancelRate:  h.printer.Sprintf("%.1f%%", k.CancellationRate),
		UpgradeRate: h.printer.Sprintf("%.2f%%", k.UpgradeRate),
	}
}
