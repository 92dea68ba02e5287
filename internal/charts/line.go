package charts

import (
	"fmt"
	"html/template"
	"strings"
)

// Lines renders one or more series as SVG polylines over a shared label
// axis.
func Lines(width, height int, series []Series, labels []string, opts Opts) (template.HTML, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("charts: at least one series required")
	}
	if len(labels) == 0 {
		return "", fmt.Errorf("charts: labels required")
	}
	for _, s := range series {
		if len(s.Values) != len(labels) {
			return "", fmt.Errorf("charts: series %q length must match labels", s.Name)
		}
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.padding()
	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("charts: viewport too small")
	}

	minVal, maxVal := bounds(series)
	scale := chartHeight / (maxVal - minVal)
	step := 0.0
	if len(labels) > 1 {
		step = chartWidth / float64(len(labels)-1)
	}
	pointX := func(i int) float64 {
		if len(labels) > 1 {
			return padding + float64(i)*step
		}
		return padding + chartWidth/2
	}
	pointY := func(v float64) float64 {
		return padding + chartHeight - (v-minVal)*scale
	}

	titleID := makeID(opts.Title, "line-title")
	descID := makeID(opts.Title, "line-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Line chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Trend data"))))

	writeGridAndTicks(&b, padding, chartWidth, chartHeight, minVal, maxVal, opts)

	chartBottom := padding + chartHeight
	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-label=\"Axes\">", opts.axisColor()))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding, padding, chartBottom))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, chartBottom, padding+chartWidth, chartBottom))
	b.WriteString("</g>")

	for j, s := range series {
		var path strings.Builder
		for i, v := range s.Values {
			if i == 0 {
				path.WriteString(fmt.Sprintf("M%.2f %.2f", pointX(i), pointY(v)))
			} else {
				path.WriteString(fmt.Sprintf(" L%.2f %.2f", pointX(i), pointY(v)))
			}
		}
		b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\" stroke-linejoin=\"round\" stroke-linecap=\"round\"></path>",
			path.String(), seriesColor(j)))
		if opts.ShowDots {
			for i, v := range s.Values {
				b.WriteString(fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"3\" fill=\"%s\"></circle>", pointX(i), pointY(v), seriesColor(j)))
			}
		}
	}

	for i, label := range labels {
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>",
			pointX(i), chartBottom+14, opts.axisColor(), template.HTMLEscapeString(label)))
	}

	if len(series) > 1 {
		writeLegend(&b, series, padding, opts)
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
