package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"fitcentive-growth-report/internal/log"
)

const (
	titleBand  = 0.6 * vg.Inch
	footerBand = 0.8 * vg.Inch
	barAlpha   = 0.85
)

// Renderer turns figure specifications into PNG files.
type Renderer struct {
	DPI    int
	Logger *log.Logger
}

// PrepareDir creates dir if needed and proves it is writable, so a bad
// output path fails before any chart work is done.
func PrepareDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("output directory %s cannot be created: %w", dir, err)
	}
	check, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	name := check.Name()
	check.Close()
	return os.Remove(name)
}

// Render draws fig and writes it to dir/fig.File, returning the written path.
func (r Renderer) Render(fig Figure, dir string) (string, error) {
	if err := fig.Validate(); err != nil {
		return "", err
	}
	dpi := r.DPI
	if dpi <= 0 {
		dpi = vgimg.DefaultDPI
	}

	width := vg.Length(fig.Width) * vg.Inch
	height := vg.Length(fig.Height) * vg.Inch
	img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	dc := draw.New(img)

	top, bottom := vg.Length(0), vg.Length(0)
	if fig.Title != "" {
		top = titleBand
		dc.FillText(textStyle(vg.Points(22), draw.XCenter, draw.YCenter),
			vg.Point{X: width / 2, Y: height - titleBand/2}, fig.Title)
	}
	if fig.Footer != "" {
		bottom = footerBand
		note := noteBlock{text: fig.Footer, width: int(fig.Width * 9), fill: ParseHex("#D6ECF3")}
		note.Plot(draw.Crop(dc, 0, 0, 0, -(height - footerBand)), nil)
	}
	body := draw.Crop(dc, 0, 0, bottom, -top)

	plots := make([][]*plot.Plot, fig.Rows)
	for i := range plots {
		plots[i] = make([]*plot.Plot, fig.Cols)
		for j := range plots[i] {
			blank := plot.New()
			blank.HideAxes()
			plots[i][j] = blank
		}
	}
	for i, panel := range fig.Panels {
		p, err := buildPlot(panel)
		if err != nil {
			return "", fmt.Errorf("figure %s panel %q: %w", fig.File, panel.Title, err)
		}
		plots[i/fig.Cols][i%fig.Cols] = p
	}

	tiles := draw.Tiles{
		Rows:      fig.Rows,
		Cols:      fig.Cols,
		PadX:      vg.Millimeter * 8,
		PadY:      vg.Millimeter * 10,
		PadTop:    vg.Millimeter * 4,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}
	canvases := plot.Align(plots, tiles, body)
	for i := range plots {
		for j, p := range plots[i] {
			p.Draw(canvases[i][j])
		}
	}

	path := filepath.Join(dir, fig.File)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	if r.Logger != nil {
		r.Logger.Debug("figure rendered", "path", path, "panels", len(fig.Panels), "dpi", dpi)
	}
	return path, nil
}

func buildPlot(panel Panel) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panel.Title
	p.Title.TextStyle.Font.Size = vg.Points(13)
	p.X.Label.Text = panel.XLabel
	p.Y.Label.Text = panel.YLabel

	var err error
	switch panel.Kind {
	case Bar, HorizontalBar:
		err = addBars(p, panel)
	case GroupedBar, StackedBar:
		err = addMultiBars(p, panel)
	case Pie:
		addPie(p, panel)
	case Heatmap:
		err = addHeatmap(p, panel)
	case Line:
		err = addLine(p, panel)
	case Scatter:
		err = addScatter(p, panel)
	case Histogram:
		err = addHistogram(p, panel)
	case Table:
		p.HideAxes()
		p.Add(tableBlock{cells: panel.Cells})
	case Note:
		p.HideAxes()
		p.Add(noteBlock{text: panel.Text, width: 60, fill: ParseHex("#FFF59D")})
	default:
		err = fmt.Errorf("unknown chart kind %q", panel.Kind)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func panelColors(panel Panel) []string {
	if len(panel.Colors) > 0 {
		return panel.Colors
	}
	if len(panel.Series) > 0 && panel.Series[0].Color != "" {
		return []string{panel.Series[0].Color}
	}
	return Highlight
}

// addBars draws one bar per category so each can carry its own colour.
func addBars(p *plot.Plot, panel Panel) error {
	horizontal := panel.Kind == HorizontalBar
	values := panel.Series[0].Values
	colors := panelColors(panel)

	for i, v := range values {
		bars, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(18))
		if err != nil {
			return err
		}
		bars.XMin = float64(i)
		bars.Horizontal = horizontal
		bars.Color = withAlpha(ParseHex(colors[i%len(colors)]), barAlpha)
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
	}

	if horizontal {
		p.NominalY(panel.Categories...)
		p.X.Min = 0
	} else {
		p.NominalX(panel.Categories...)
		p.Y.Min = 0
		rotateTicks(p, len(panel.Categories))
	}
	p.Add(plotter.NewGrid())
	return addValueLabels(p, panel.ValueLabel, values, horizontal)
}

func addMultiBars(p *plot.Plot, panel Panel) error {
	n := len(panel.Series)
	width := vg.Points(18)
	if panel.Kind == GroupedBar {
		width = vg.Points(30) / vg.Length(n)
	}
	colors := panelColors(panel)

	var below *plotter.BarChart
	for s, series := range panel.Series {
		bars, err := plotter.NewBarChart(plotter.Values(series.Values), width)
		if err != nil {
			return err
		}
		clr := series.Color
		if clr == "" {
			clr = colors[s%len(colors)]
		}
		bars.Color = withAlpha(ParseHex(clr), barAlpha)
		bars.LineStyle.Width = vg.Length(0)
		if panel.Kind == StackedBar {
			if below != nil {
				bars.StackOn(below)
			}
			below = bars
		} else {
			bars.Offset = vg.Length(float64(s)-float64(n-1)/2) * width
		}
		p.Add(bars)
		p.Legend.Add(series.Name, bars)
	}

	p.Legend.Top = true
	p.Legend.TextStyle.Font.Size = vg.Points(8)
	p.NominalX(panel.Categories...)
	p.Y.Min = 0
	rotateTicks(p, len(panel.Categories))
	p.Add(plotter.NewGrid())
	return nil
}

func addPie(p *plot.Plot, panel Panel) {
	p.HideAxes()
	colors := panelColors(panel)
	rgba := make([]color.RGBA, len(colors))
	for i, c := range colors {
		rgba[i] = ParseHex(c)
	}
	p.Add(pieChart{values: panel.Series[0].Values, labels: panel.Categories, colors: rgba})
}

// heatGrid flips rows so the first label is drawn at the top.
type heatGrid struct {
	matrix [][]float64
}

func (g heatGrid) Dims() (c, r int) { return len(g.matrix[0]), len(g.matrix) }
func (g heatGrid) Z(c, r int) float64 { return g.matrix[len(g.matrix)-1-r][c] }
func (g heatGrid) X(c int) float64 { return float64(c) }
func (g heatGrid) Y(r int) float64 { return float64(r) }

func addHeatmap(p *plot.Plot, panel Panel) error {
	grid := heatGrid{matrix: panel.Matrix}
	pal, err := brewerPalette(brewer.TypeSequential, "YlOrRd")
	if err != nil {
		return err
	}
	heat := plotter.NewHeatMap(grid, pal)
	heat.Min = 0
	maxZ := 0.0
	for _, row := range panel.Matrix {
		for _, v := range row {
			maxZ = math.Max(maxZ, v)
		}
	}
	heat.Max = math.Max(maxZ, 1)
	p.Add(heat)

	rows := make([]string, len(panel.Rows))
	for i, label := range panel.Rows {
		rows[len(rows)-1-i] = label
	}
	p.NominalX(panel.Categories...)
	p.NominalY(rows...)

	xys := make(plotter.XYs, 0, len(panel.Rows)*len(panel.Categories))
	labels := make([]string, 0, cap(xys))
	for r, row := range panel.Matrix {
		for c, v := range row {
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(len(panel.Rows) - 1 - r)})
			labels = append(labels, fmt.Sprintf("%.0f", v))
		}
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return err
	}
	for i := range annotations.TextStyle {
		annotations.TextStyle[i].XAlign = draw.XCenter
		annotations.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(annotations)
	return nil
}

func addLine(p *plot.Plot, panel Panel) error {
	colors := panelColors(panel)
	for s, series := range panel.Series {
		xys := make(plotter.XYs, len(series.Values))
		for i, v := range series.Values {
			xys[i] = plotter.XY{X: float64(i), Y: v}
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		clr := ParseHex(colors[s%len(colors)])
		line.Color = clr
		line.Width = vg.Points(2.5)
		points.GlyphStyle.Color = clr
		points.GlyphStyle.Radius = vg.Points(4)
		points.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(line, points)
	}
	p.NominalX(panel.Categories...)
	rotateTicks(p, len(panel.Categories))
	p.Add(plotter.NewGrid())
	if len(panel.Series) == 1 {
		return addValueLabels(p, panel.ValueLabel, panel.Series[0].Values, false)
	}
	return nil
}

func addScatter(p *plot.Plot, panel Panel) error {
	xys := make(plotter.XYs, len(panel.Bubbles))
	labels := make([]string, len(panel.Bubbles))
	for i, b := range panel.Bubbles {
		xys[i] = plotter.XY{X: b.X, Y: b.Y}
		labels[i] = b.Label
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	scatter.GlyphStyleFunc = bubbleStyle(panel)
	p.Add(scatter)

	names, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return err
	}
	names.Offset = vg.Point{X: vg.Points(5), Y: vg.Points(5)}
	p.Add(names, plotter.NewGrid())
	return nil
}

// bubbleStyle sizes each bubble by its share of the largest one and colours it
// from panel.Colors, falling back to viridis.
func bubbleStyle(panel Panel) func(int) draw.GlyphStyle {
	maxSize := 0.0
	for _, b := range panel.Bubbles {
		maxSize = math.Max(maxSize, b.Size)
	}
	colors := panel.Colors
	if len(colors) == 0 {
		colors = Sample(Viridis, len(panel.Bubbles), 0, 1)
	}
	return func(i int) draw.GlyphStyle {
		radius := vg.Points(4)
		if maxSize > 0 {
			radius = vg.Points(4 + 14*math.Sqrt(panel.Bubbles[i].Size/maxSize))
		}
		return draw.GlyphStyle{
			Color:  withAlpha(ParseHex(colors[i%len(colors)]), 0.6),
			Radius: radius,
			Shape:  draw.CircleGlyph{},
		}
	}
}

func addHistogram(p *plot.Plot, panel Panel) error {
	bins := panel.Bins
	if bins <= 0 {
		bins = 10
	}
	hist, err := plotter.NewHist(plotter.Values(panel.Samples), bins)
	if err != nil {
		return err
	}
	fill := "#87CEEB"
	if len(panel.Colors) > 0 {
		fill = panel.Colors[0]
	}
	hist.FillColor = withAlpha(ParseHex(fill), 0.7)
	hist.LineStyle.Color = color.Black
	p.Add(hist)

	if panel.Marker != nil {
		peak := 0.0
		for _, b := range hist.Bins {
			peak = math.Max(peak, b.Weight)
		}
		marker, err := plotter.NewLine(plotter.XYs{{X: *panel.Marker, Y: 0}, {X: *panel.Marker, Y: peak}})
		if err != nil {
			return err
		}
		marker.Color = color.RGBA{R: 0xDD, A: 0xFF}
		marker.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		marker.Width = vg.Points(1.5)
		p.Add(marker)
		if panel.MarkerLabel != "" {
			p.Legend.Add(panel.MarkerLabel, marker)
			p.Legend.Top = true
		}
	}
	return nil
}

func addValueLabels(p *plot.Plot, format string, values []float64, horizontal bool) error {
	if format == "" || len(values) == 0 {
		return nil
	}
	xys := make(plotter.XYs, len(values))
	labels := make([]string, len(values))
	for i, v := range values {
		if horizontal {
			xys[i] = plotter.XY{X: v, Y: float64(i)}
		} else {
			xys[i] = plotter.XY{X: float64(i), Y: v}
		}
		labels[i] = fmt.Sprintf(format, v)
	}
	annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return err
	}
	for i := range annotations.TextStyle {
		if horizontal {
			annotations.TextStyle[i].XAlign = draw.XLeft
			annotations.TextStyle[i].YAlign = draw.YCenter
		} else {
			annotations.TextStyle[i].XAlign = draw.XCenter
			annotations.TextStyle[i].YAlign = draw.YBottom
		}
	}
	if horizontal {
		annotations.Offset = vg.Point{X: vg.Points(4)}
	} else {
		annotations.Offset = vg.Point{Y: vg.Points(3)}
	}
	p.Add(annotations)
	return nil
}

func rotateTicks(p *plot.Plot, categories int) {
	if categories <= 4 {
		return
	}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

var errNoFigures = errors.New("no figures to render")

// RenderAll validates every figure and then renders them concurrently. Paths
// are returned in figure order; nothing is written when any figure is invalid.
func (r Renderer) RenderAll(figs []Figure, dir string) ([]string, error) {
	if len(figs) == 0 {
		return nil, errNoFigures
	}
	for _, fig := range figs {
		if err := fig.Validate(); err != nil {
			return nil, err
		}
	}

	paths := make([]string, len(figs))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, fig := range figs {
		g.Go(func() error {
			path, err := r.Render(fig, dir)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
