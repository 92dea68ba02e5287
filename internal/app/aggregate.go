package app

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"

	"bookinsight/internal/domain"
)

type row struct {
	label string
	value float64
}

type sortMode int

const (
	sortByLabel sortMode = iota
	sortByNumericLabel
	sortByMonth
	sortByValueDesc
)

// aggSuffix mirrors gota's aggregated column naming (<col>_<AGG>).
func aggSuffix(typ dataframe.AggregationType) string {
	switch typ {
	case dataframe.Aggregation_MAX:
		return "MAX"
	case dataframe.Aggregation_MIN:
		return "MIN"
	case dataframe.Aggregation_MEAN:
		return "MEAN"
	case dataframe.Aggregation_MEDIAN:
		return "MEDIAN"
	case dataframe.Aggregation_STD:
		return "STD"
	case dataframe.Aggregation_SUM:
		return "SUM"
	case dataframe.Aggregation_COUNT:
		return "COUNT"
	default:
		return "UNKNOWN"
	}
}

// groupAgg groups the frame by one dimension and computes a single
// aggregate of col per group. gota iterates groups in map order, so rows
// are sorted here before anything downstream sees them.
func groupAgg(df dataframe.DataFrame, dim string, typ dataframe.AggregationType, col string, mode sortMode) ([]row, error) {
	if df.Nrow() == 0 {
		return nil, nil
	}
	groups := df.GroupBy(dim)
	if groups.Err != nil {
		return nil, fmt.Errorf("group by %s: %w", dim, groups.Err)
	}
	agg := groups.Aggregation([]dataframe.AggregationType{typ}, []string{col})
	if agg.Err != nil {
		return nil, fmt.Errorf("aggregate %s over %s: %w", col, dim, agg.Err)
	}
	labels := agg.Col(dim).Records()
	vals := agg.Col(col + "_" + aggSuffix(typ)).Float()
	rows := make([]row, len(labels))
	for i := range labels {
		v := vals[i]
		if math.IsNaN(v) {
			v = 0
		}
		rows[i] = row{label: labels[i], value: v}
	}
	sortRows(rows, mode)
	return rows, nil
}

// pivot aggregates over two dimensions and spreads seriesDim into one
// series per distinct value, all aligned on the sorted rowDim labels.
// Combinations absent from the data read as zero.
func pivot(df dataframe.DataFrame, rowDim, seriesDim string, typ dataframe.AggregationType, col string, mode sortMode) ([]string, []domain.Series, error) {
	if df.Nrow() == 0 {
		return nil, nil, nil
	}
	groups := df.GroupBy(rowDim, seriesDim)
	if groups.Err != nil {
		return nil, nil, fmt.Errorf("group by %s,%s: %w", rowDim, seriesDim, groups.Err)
	}
	agg := groups.Aggregation([]dataframe.AggregationType{typ}, []string{col})
	if agg.Err != nil {
		return nil, nil, fmt.Errorf("aggregate %s over %s,%s: %w", col, rowDim, seriesDim, agg.Err)
	}
	rowLabels := agg.Col(rowDim).Records()
	seriesLabels := agg.Col(seriesDim).Records()
	vals := agg.Col(col + "_" + aggSuffix(typ)).Float()

	rowSet := map[string]bool{}
	seriesSet := map[string]bool{}
	cells := map[[2]string]float64{}
	for i := range rowLabels {
		rowSet[rowLabels[i]] = true
		seriesSet[seriesLabels[i]] = true
		v := vals[i]
		if math.IsNaN(v) {
			v = 0
		}
		cells[[2]string{rowLabels[i], seriesLabels[i]}] = v
	}

	labels := setToRows(rowSet, mode)
	names := setToRows(seriesSet, sortByLabel)

	out := make([]domain.Series, 0, len(names))
	for _, name := range names {
		values := make([]float64, len(labels))
		for i, lab := range labels {
			values[i] = cells[[2]string{lab.label, name.label}]
		}
		out = append(out, domain.Series{Name: name.label, Values: values})
	}
	return rowsToLabels(labels), out, nil
}

// histogram bins the non-NaN values into count equal-width buckets between
// lo and hi. Callers share bounds across series by passing the same range.
func histogram(vals []float64, lo, hi float64, count int) []float64 {
	out := make([]float64, count)
	width := (hi - lo) / float64(count)
	if width <= 0 {
		width = 1
	}
	for _, v := range vals {
		if math.IsNaN(v) || v < lo || v > hi {
			continue
		}
		i := int((v - lo) / width)
		if i >= count { // hi itself lands in the last bucket
			i = count - 1
		}
		out[i]++
	}
	return out
}

func histBounds(vals []float64) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	seen := false
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		seen = true
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, seen
}

func histLabels(lo, hi float64, count int) []string {
	width := (hi - lo) / float64(count)
	if width <= 0 {
		width = 1
	}
	out := make([]string, count)
	for i := 0; i < count; i++ {
		out[i] = fmt.Sprintf("%.0f-%.0f", lo+float64(i)*width, lo+float64(i+1)*width)
	}
	return out
}

func topN(rows []row, n int) []row {
	if len(rows) <= n {
		return rows
	}
	return rows[:n]
}

func sortRows(rows []row, mode sortMode) {
	switch mode {
	case sortByNumericLabel:
		sort.Slice(rows, func(i, j int) bool {
			a, _ := strconv.ParseFloat(rows[i].label, 64)
			b, _ := strconv.ParseFloat(rows[j].label, 64)
			return a < b
		})
	case sortByMonth:
		sort.Slice(rows, func(i, j int) bool {
			return domain.MonthIndex(rows[i].label) < domain.MonthIndex(rows[j].label)
		})
	case sortByValueDesc:
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].value != rows[j].value {
				return rows[i].value > rows[j].value
			}
			return rows[i].label < rows[j].label
		})
	default:
		sort.Slice(rows, func(i, j int) bool { return rows[i].label < rows[j].label })
	}
}

func setToRows(set map[string]bool, mode sortMode) []row {
	rows := make([]row, 0, len(set))
	for k := range set {
		rows = append(rows, row{label: k})
	}
	sortRows(rows, mode)
	return rows
}

func rowsToLabels(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.label
	}
	return out
}

func rowsToValues(rows []row) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.value
	}
	return out
}

// meanOf and sumOf guard gota's NaN results on empty frames.

func meanOf(df dataframe.DataFrame, col string) float64 {
	if df.Nrow() == 0 {
		return 0
	}
	v := df.Col(col).Mean()
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func sumOf(df dataframe.DataFrame, col string) float64 {
	if df.Nrow() == 0 {
		return 0
	}
	v := df.Col(col).Sum()
	if math.IsNaN(v) {
		return 0
	}
	return v
}
