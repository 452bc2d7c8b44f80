package dashboard

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Chart defaults.
const (
	chartWidth   = 640
	chartHeight  = 220
	chartPadding = 28.0
	chartTicks   = 4
	barColor     = "#0ea5e9"
	axisColor    = "#475569"
	gridColor    = "#cbd5f5"
)

// Bars renders the record count of every entity as an inline SVG bar chart.
// Entities whose count failed to load are drawn without a bar.
func Bars(counts []Count) (template.HTML, error) {
	if len(counts) == 0 {
		return "", fmt.Errorf("dashboard: no counts to chart")
	}
	plotW := float64(chartWidth) - 2*chartPadding
	plotH := float64(chartHeight) - 2*chartPadding

	maxVal := 0
	for _, c := range counts {
		if c.Total > maxVal {
			maxVal = c.Total
		}
	}
	top := niceCeil(maxVal, chartTicks)
	scale := plotH / float64(top)
	bottom := chartPadding + plotH
	slot := plotW / float64(len(counts))
	barW := slot * 0.6

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img" aria-labelledby="counts-title">`, chartWidth, chartHeight)
	b.WriteString(`<title id="counts-title">Records per entity</title>`)
	for i := 0; i <= chartTicks; i++ {
		value := top * i / chartTicks
		y := bottom - float64(value)*scale
		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5" stroke-dasharray="2,4" aria-hidden="true"></line>`,
			chartPadding, y, chartPadding+plotW, y, gridColor)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="end">%d</text>`, chartPadding-6, y+4, axisColor, value)
	}
	fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"></line>`,
		chartPadding, bottom, chartPadding+plotW, bottom, axisColor)

	for i, c := range counts {
		x := chartPadding + float64(i)*slot
		label := template.HTMLEscapeString(c.Label)
		if !c.Failed() {
			h := float64(c.Total) * scale
			fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" aria-label="%s %d"></rect>`,
				x+(slot-barW)/2, bottom-h, barW, h, barColor, label, c.Total)
		}
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="middle">%s</text>`,
			x+slot/2, bottom+14, axisColor, label)
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

// niceCeil rounds max up so the axis splits into ticks whole steps.
func niceCeil(max, ticks int) int {
	if max <= 0 {
		return ticks
	}
	step := int(math.Ceil(float64(max) / float64(ticks)))
	return step * ticks
}
