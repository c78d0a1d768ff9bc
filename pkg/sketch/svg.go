package sketch

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

const (
	CanvasWidth  = 800
	CanvasHeight = 256
	strokeColor  = "#3B82F6"
)

// SmoothPath renders points as an SVG path. Consecutive points are joined by
// quadratic curves through their midpoints, each point acting as a control.
func SmoothPath(points []Point) string {
	switch len(points) {
	case 0:
		return ""
	case 1:
		p := points[0]
		return "M " + num(p.X) + " " + num(p.Y) + " L " + num(p.X) + " " + num(p.Y)
	case 2:
		return "M " + num(points[0].X) + " " + num(points[0].Y) + " L " + num(points[1].X) + " " + num(points[1].Y)
	}

	var b strings.Builder
	b.WriteString("M " + num(points[0].X) + " " + num(points[0].Y))
	for i := 1; i < len(points)-1; i++ {
		mid := Point{X: (points[i].X + points[i+1].X) / 2, Y: (points[i].Y + points[i+1].Y) / 2}
		fmt.Fprintf(&b, " Q %s %s %s %s", num(points[i].X), num(points[i].Y), num(mid.X), num(mid.Y))
	}
	last := points[len(points)-1]
	b.WriteString(" L " + num(last.X) + " " + num(last.Y))
	return b.String()
}

// SVG draws the whole surface from scratch.
func SVG(st State) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		CanvasWidth, CanvasHeight, CanvasWidth, CanvasHeight)
	if st.Path != "" {
		fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"/>`,
			st.Path, strokeColor)
	}
	for _, e := range st.Expressions {
		fmt.Fprintf(&b, `<text x="%s" y="%s" font-size="16" fill="%s">%s</text>`,
			num(e.Position.X), num(e.Position.Y), strokeColor, html.EscapeString(e.Expression))
	}
	b.WriteString("</svg>")
	return b.String()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
