package charts

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Bars renders a grouped vertical bar chart, one bar per series within
// each label group.
func Bars(width, height int, series []Series, labels []string, opts Opts) (template.HTML, error) {
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
	zeroY := padding + chartHeight - (0-minVal)*scale
	chartBottom := padding + chartHeight

	groupWidth := chartWidth / float64(len(labels))
	// bars fill 80% of the group, centred
	barWidth := groupWidth * 0.8 / float64(len(series))

	titleID := makeID(opts.Title, "bar-title")
	descID := makeID(opts.Title, "bar-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Bar chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Bar comparison"))))

	writeGridAndTicks(&b, padding, chartWidth, chartHeight, minVal, maxVal, opts)

	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-label=\"Axes\">", opts.axisColor()))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding, padding, chartBottom))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, zeroY, padding+chartWidth, zeroY))
	b.WriteString("</g>")

	for i, label := range labels {
		baseX := padding + float64(i)*groupWidth + groupWidth*0.1
		for j, s := range series {
			y, h := barPosition(s.Values[i], scale, zeroY, padding, chartBottom)
			b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s %s\"></rect>",
				baseX+float64(j)*barWidth, y, barWidth, h, seriesColor(j),
				template.HTMLEscapeString(s.Name), template.HTMLEscapeString(label)))
		}
		center := padding + float64(i)*groupWidth + groupWidth/2
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>",
			center, chartBottom+14, opts.axisColor(), template.HTMLEscapeString(label)))
	}

	if len(series) > 1 {
		writeLegend(&b, series, padding, opts)
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func barPosition(value, scale, zeroY, padding, bottom float64) (float64, float64) {
	if value >= 0 {
		height := value * scale
		y := zeroY - height
		if y < padding {
			height -= padding - y
			y = padding
		}
		if height < 0 {
			height = 0
		}
		return y, height
	}
	height := math.Abs(value * scale)
	y := zeroY
	if y+height > bottom {
		height = bottom - y
	}
	if height < 0 {
		height = 0
	}
	return y, height
}

func writeGridAndTicks(b *strings.Builder, padding, chartWidth, chartHeight, minVal, maxVal float64, opts Opts) {
	ticks := opts.ticks()
	for i := 0; i <= ticks; i++ {
		ratio := float64(i) / float64(ticks)
		value := minVal + (maxVal-minVal)*ratio
		y := padding + chartHeight - ratio*chartHeight
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>",
			padding, y, padding+chartWidth, y, opts.gridColor()))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>",
			padding-6, y+4, opts.axisColor(), template.HTMLEscapeString(formatTick(value))))
	}
}

func writeLegend(b *strings.Builder, series []Series, padding float64, opts Opts) {
	legendY := padding - 12
	if legendY < 12 {
		legendY = 12
	}
	legendX := padding
	for i, s := range series {
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", legendX, legendY-8, seriesColor(i)))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>",
			legendX+14, legendY, opts.axisColor(), template.HTMLEscapeString(s.Name)))
		legendX += 90
	}
}
