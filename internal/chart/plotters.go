package chart

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func textStyle(size vg.Length, xAlign text.XAlignment, yAlign text.YAlignment) text.Style {
	return text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, size),
		XAlign:  xAlign,
		YAlign:  yAlign,
		Handler: plot.DefaultTextHandler,
	}
}

// pieChart draws wedges clockwise from twelve o'clock, each labelled with its
// category outside the rim and its share inside.
type pieChart struct {
	values []float64
	labels []string
	colors []color.RGBA
}

func (pc pieChart) Plot(c draw.Canvas, _ *plot.Plot) {
	total := 0.0
	for _, v := range pc.values {
		total += v
	}
	if total <= 0 {
		return
	}

	w := c.Max.X - c.Min.X
	h := c.Max.Y - c.Min.Y
	center := vg.Point{X: c.Min.X + w/2, Y: c.Min.Y + h/2}
	radius := vg.Length(math.Min(float64(w), float64(h)) / 2 * 0.72)

	labelStyle := textStyle(vg.Points(8), draw.XCenter, draw.YCenter)
	pctStyle := textStyle(vg.Points(8), draw.XCenter, draw.YCenter)
	pctStyle.Color = color.White
	edge := draw.LineStyle{Color: color.White, Width: vg.Points(1)}

	angle := math.Pi / 2
	for i, v := range pc.values {
		if v <= 0 {
			continue
		}
		sweep := 2 * math.Pi * v / total
		pts := []vg.Point{center}
		steps := int(math.Max(2, math.Ceil(sweep/(math.Pi/90))))
		for s := 0; s <= steps; s++ {
			a := angle - sweep*float64(s)/float64(steps)
			pts = append(pts, polar(center, radius, a))
		}
		c.FillPolygon(pc.colors[i%len(pc.colors)], pts)
		c.StrokeLines(edge, append(pts, center))

		mid := angle - sweep/2
		c.FillText(labelStyle, polar(center, radius*1.18, mid), pc.labels[i])
		c.FillText(pctStyle, polar(center, radius*0.62, mid), fmt.Sprintf("%.1f%%", v/total*100))
		angle -= sweep
	}
}

func polar(center vg.Point, r vg.Length, angle float64) vg.Point {
	return vg.Point{
		X: center.X + vg.Length(math.Cos(angle))*r,
		Y: center.Y + vg.Length(math.Sin(angle))*r,
	}
}

// tableBlock draws rows of text cells; the first row is rendered as a header.
type tableBlock struct {
	cells [][]string
}

func (tb tableBlock) Plot(c draw.Canvas, _ *plot.Plot) {
	if len(tb.cells) == 0 {
		return
	}
	cols := 0
	for _, row := range tb.cells {
		cols = max(cols, len(row))
	}

	w := c.Max.X - c.Min.X
	h := c.Max.Y - c.Min.Y
	rowH := h / vg.Length(len(tb.cells)+1)
	colW := w / vg.Length(cols)
	grid := draw.LineStyle{Color: color.Gray{Y: 0xB0}, Width: vg.Points(0.5)}
	header := color.RGBA{R: 0xE8, G: 0xE8, B: 0xF0, A: 0xFF}

	top := c.Max.Y - rowH/2
	for r, row := range tb.cells {
		y0 := top - rowH*vg.Length(r+1)
		y1 := y0 + rowH
		if r == 0 {
			c.FillPolygon(header, []vg.Point{{X: c.Min.X, Y: y0}, {X: c.Max.X, Y: y0}, {X: c.Max.X, Y: y1}, {X: c.Min.X, Y: y1}})
		}
		c.StrokeLine2(grid, c.Min.X, y0, c.Max.X, y0)
		sty := textStyle(vg.Points(9), draw.XCenter, draw.YCenter)
		for col, cell := range row {
			x := c.Min.X + colW*vg.Length(col) + colW/2
			c.FillText(sty, vg.Point{X: x, Y: y0 + rowH/2}, cell)
		}
	}
}

// noteBlock draws a boxed paragraph, wrapping at roughly width characters.
type noteBlock struct {
	text  string
	width int
	fill  color.RGBA
}

func (nb noteBlock) Plot(c draw.Canvas, _ *plot.Plot) {
	lines := wrap(nb.text, nb.width)
	sty := textStyle(vg.Points(10), draw.XLeft, draw.YTop)
	lineH := vg.Points(14)

	pad := vg.Points(8)
	boxTop := c.Max.Y - pad
	boxBottom := boxTop - lineH*vg.Length(len(lines)) - pad*2
	c.FillPolygon(nb.fill, []vg.Point{
		{X: c.Min.X + pad, Y: boxBottom}, {X: c.Max.X - pad, Y: boxBottom},
		{X: c.Max.X - pad, Y: boxTop}, {X: c.Min.X + pad, Y: boxTop},
	})
	for i, line := range lines {
		c.FillText(sty, vg.Point{X: c.Min.X + pad*2, Y: boxTop - pad - lineH*vg.Length(i)}, line)
	}
}

func wrap(value string, width int) []string {
	var lines []string
	for _, para := range strings.Split(value, "\n") {
		words := strings.Fields(para)
		line := ""
		for _, word := range words {
			if line != "" && len(line)+1+len(word) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			if line == "" {
				line = word
			} else {
				line += " " + word
			}
		}
		lines = append(lines, line)
	}
	return lines
}
