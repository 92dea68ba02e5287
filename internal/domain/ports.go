package domain

import (
	"context"

	"github.com/go-gota/gota/dataframe"
)

// Dataset hands out the loaded bookings frame. Frames are treated as
// read-only: every pipeline operation derives a new frame.
type Dataset interface {
	Frame() dataframe.DataFrame
	// Version identifies the loaded file contents; it changes on reload and
	// is folded into cache keys and ETags.
	Version() string
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Chart kinds understood by the SVG layer.
const (
	KindBar       = "bar"
	KindHBar      = "hbar"
	KindLine      = "line"
	KindHist      = "hist"
	KindMultiBar  = "multi_bar"
	KindMultiLine = "multi_line"
)

// Read models

// Series is one named run of values aligned with a table's labels.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Table is a chart-ready aggregation result: one label axis plus one or
// more value series over it. An empty filtered dataset yields a table with
// no labels and no series.
type Table struct {
	Chart     string   `json:"chart"`
	Title     string   `json:"title"`
	Kind      string   `json:"kind"`
	Dimension string   `json:"dimension"`
	Metric    string   `json:"metric"`
	Labels    []string `json:"labels"`
	Series    []Series `json:"series"`
}

// Empty reports whether the table carries no data points.
func (t Table) Empty() bool {
	if len(t.Labels) == 0 {
		return true
	}
	for _, s := range t.Series {
		if len(s.Values) > 0 {
			return false
		}
	}
	return true
}

// KPISummary holds the headline metrics shown on the overview tab.
// Rates are percentages in [0,100].
type KPISummary struct {
	TotalBookings    int     `json:"total_bookings"`
	AvgADR           float64 `json:"avg_adr"`
	TotalRevenue     float64 `json:"total_revenue"`
	CancellationRate float64 `json:"cancellation_rate"`
	UpgradeRate      float64 `json:"upgrade_rate"`
}

// FilterOptions lists the selectable values for each sidebar control,
// derived from the full (unfiltered) dataset.
type FilterOptions struct {
	HotelTypes    []string `json:"hotel_types"`
	Years         []int    `json:"years"`
	Months        []string `json:"months"`
	CustomerTypes []string `json:"customer_types"`
	ADRMin        float64  `json:"adr_min"`
	ADRMax        float64  `json:"adr_max"`
}

// ChartInfo describes one catalog entry for listings and page layout.
type ChartInfo struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Tab     string `json:"tab"`
	Kind    string `json:"kind"`
	Caption string `json:"caption"`
}
