package charts

import (
	"fmt"
	"html/template"
	"strings"
)

// HBars renders a horizontal bar chart: one bar per label, label text to
// the left of the axis. Suits ranked categories (top countries, segments).
func HBars(width, height int, values []float64, labels []string, opts Opts) (template.HTML, error) {
	if len(values) == 0 || len(labels) == 0 {
		return "", fmt.Errorf("charts: values and labels required")
	}
	if len(values) != len(labels) {
		return "", fmt.Errorf("charts: values length must match labels")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.padding()
	// extra room on the left for category names
	labelGutter := 90.0
	originX := padding + labelGutter
	chartWidth := float64(width) - originX - padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("charts: viewport too small")
	}

	minVal, maxVal := bounds([]Series{{Values: values}})
	scale := chartWidth / (maxVal - minVal)

	rowHeight := chartHeight / float64(len(labels))
	barHeight := rowHeight * 0.7

	titleID := makeID(opts.Title, "hbar-title")
	descID := makeID(opts.Title, "hbar-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Horizontal bar chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Ranked categories"))))

	ticks := opts.ticks()
	for i := 0; i <= ticks; i++ {
		ratio := float64(i) / float64(ticks)
		value := minVal + (maxVal-minVal)*ratio
		x := originX + ratio*chartWidth
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>",
			x, padding, x, padding+chartHeight, opts.gridColor()))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>",
			x, padding+chartHeight+14, opts.axisColor(), template.HTMLEscapeString(formatTick(value))))
	}

	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-label=\"Axes\">", opts.axisColor()))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", originX, padding, originX, padding+chartHeight))
	b.WriteString("</g>")

	for i, label := range labels {
		y := padding + float64(i)*rowHeight + (rowHeight-barHeight)/2
		w := (values[i] - minVal) * scale
		if w < 0 {
			w = 0
		}
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s\"></rect>",
			originX, y, w, barHeight, seriesColor(0), template.HTMLEscapeString(label)))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>",
			originX-6, y+barHeight*0.75, opts.axisColor(), template.HTMLEscapeString(label)))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
