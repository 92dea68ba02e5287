package charts

import (
	"fmt"
	"math"
	"strings"
)

// Series is one named run of values; all series of a chart share the label
// axis.
type Series struct {
	Name   string
	Values []float64
}

// Opts customises a renderer. Zero values fall back to the defaults below.
type Opts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
	ShowDots    bool // line charts only
}

const (
	DefaultWidth   = 720
	DefaultHeight  = 260
	DefaultPadding = 28.0
	DefaultTicks   = 5
)

// palette cycles across series.
var palette = []string{"#0ea5e9", "#f97316", "#10b981", "#8b5cf6", "#ef4444", "#eab308"}

func seriesColor(i int) string { return palette[i%len(palette)] }

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

// bounds spans every value of every series, always including zero so bars
// have a baseline.
func bounds(series []Series) (float64, float64) {
	minVal, maxVal := 0.0, 0.0
	for _, s := range series {
		for _, v := range s.Values {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if almostEqual(minVal, maxVal) {
		maxVal = minVal + 1
	}
	return minVal, maxVal
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		if r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return fmt.Sprintf("%s-%s", cleaned, suffix)
}

func formatTick(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		if almostEqual(v, math.Round(v)) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.2f", v)
	}
}

func (o Opts) padding() float64 {
	if o.Padding > 0 {
		return o.Padding
	}
	return DefaultPadding
}

func (o Opts) ticks() int {
	if o.TickCount > 0 {
		return o.TickCount
	}
	return DefaultTicks
}

func (o Opts) axisColor() string { return fallback(o.AxisColor, "#475569") }
func (o Opts) gridColor() string { return fallback(o.GridColor, "#cbd5f5") }
