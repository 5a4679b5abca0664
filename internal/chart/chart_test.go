package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/palette/brewer"
)

func sampleFigure() Figure {
	mean := 34.5
	return Figure{
		File:   "sample.png",
		Title:  "Sample Dashboard",
		Footer: "Footer insight text that should wrap across the bottom band of the figure.",
		Rows:   3,
		Cols:   4,
		Width:  12,
		Height: 9,
		Panels: []Panel{
			{Kind: Bar, Title: "Bar", Categories: []string{"a", "b", "c"}, Series: []Series{{Name: "v", Values: []float64{3, 1, 2}}}, ValueLabel: "%.0f"},
			{Kind: HorizontalBar, Title: "HBar", Categories: []string{"a", "b"}, Series: []Series{{Name: "v", Values: []float64{1.5, 2.5}}}, Colors: Sample(Viridis, 2, 0, 1), ValueLabel: "%.1f"},
			{Kind: GroupedBar, Title: "Grouped", Categories: []string{"x", "y"}, Series: []Series{{Name: "d1", Values: []float64{1, 2}}, {Name: "d2", Values: []float64{2, 0}}}},
			{Kind: StackedBar, Title: "Stacked", Categories: []string{"x", "y", "z", "w", "v"}, Series: []Series{{Name: "m", Values: []float64{1, 2, 3, 4, 5}}, {Name: "f", Values: []float64{5, 4, 3, 2, 1}}}},
			{Kind: Pie, Title: "Pie", Categories: []string{"Female", "Male"}, Series: []Series{{Name: "g", Values: []float64{47, 20}}}, Colors: ColorsFor([]string{"Female", "Male"}, GenderColors)},
			{Kind: Heatmap, Title: "Heat", Rows: []string{"r1", "r2"}, Categories: []string{"c1", "c2", "c3"}, Matrix: [][]float64{{1, 0, 3}, {4, 5, 0}}},
			{Kind: Line, Title: "Line", Categories: []string{"09/18", "09/19"}, Series: []Series{{Name: "users", Values: []float64{45, 44}}}, ValueLabel: "%.0f"},
			{Kind: Scatter, Title: "Scatter", Bubbles: []Bubble{{Label: "fb", X: 51, Y: 39.7, Size: 51}, {Label: "ig", X: 15, Y: 28.2, Size: 15}}},
			{Kind: Histogram, Title: "Hist", Samples: []float64{17, 22, 25, 31, 34, 46, 62}, Bins: 4, Marker: &mean, MarkerLabel: "Mean: 34.5"},
			{Kind: Table, Title: "Table", Cells: [][]string{{"Metric", "Value"}, {"Total", "89"}}},
			{Kind: Note, Title: "Note", Text: "All paid users show Unknown referral source."},
		},
	}
}

func TestRenderWritesPNG(t *testing.T) {
	dir := t.TempDir()
	renderer := Renderer{DPI: 48}

	path, err := renderer.Render(sampleFigure(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sample.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")), "expected PNG signature")
}

func TestRenderAllKeepsFigureOrder(t *testing.T) {
	dir := t.TempDir()
	var figs []Figure
	for _, name := range []string{"c.png", "a.png", "b.png"} {
		fig := sampleFigure()
		fig.File = name
		figs = append(figs, fig)
	}

	paths, err := Renderer{DPI: 36}.RenderAll(figs, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "c.png"),
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.png"),
	}, paths)
}

func TestRenderAllStopsOnInvalidFigure(t *testing.T) {
	dir := t.TempDir()
	bad := sampleFigure()
	bad.File = "bad.png"
	bad.Rows, bad.Cols = 1, 1

	paths, err := Renderer{DPI: 48}.RenderAll([]Figure{bad}, dir)
	require.Error(t, err)
	assert.Empty(t, paths)
	assert.Contains(t, err.Error(), "11 panels do not fit a 1x1 grid")

	_, err = Renderer{}.RenderAll(nil, dir)
	assert.ErrorIs(t, err, errNoFigures)
}

func TestValidatePanels(t *testing.T) {
	fig := Figure{File: "x.png", Rows: 1, Cols: 3, Width: 4, Height: 4, Panels: []Panel{
		{Kind: Bar, Title: "mismatch", Categories: []string{"a"}, Series: []Series{{Name: "s", Values: []float64{1, 2}}}},
		{Kind: Heatmap, Title: "heat", Rows: []string{"r"}, Categories: []string{"c"}, Matrix: [][]float64{{1, 2}}},
		{Kind: "radar", Title: "radar"},
	}}

	err := fig.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `series "s" has 2 values for 1 categories`)
	assert.Contains(t, err.Error(), "matrix columns do not match categories")
	assert.Contains(t, err.Error(), `unknown kind "radar"`)
}

func TestHeatmapWithoutColumnsIsRejected(t *testing.T) {
	fig := Figure{File: "heat.png", Rows: 1, Cols: 1, Width: 4, Height: 4, Panels: []Panel{
		{Kind: Heatmap, Title: "ages", Rows: []string{"facebook"}, Matrix: [][]float64{{}}},
	}}

	err := fig.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no categories")

	_, err = Renderer{DPI: 36}.Render(fig, t.TempDir())
	require.Error(t, err)
}

func TestPrepareDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, PrepareDir(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "write-check file must be removed")

	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	err = PrepareDir(filepath.Join(file, "sub"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be created")
}

func TestColors(t *testing.T) {
	assert.Equal(t, []string{"#1877F2", FallbackColor}, ColorsFor([]string{"facebook", "myspace"}, SourceColors))
	assert.Equal(t, []string{"a", "b", "a"}, Cycle([]string{"a", "b"}, 3))

	sampled := Sample(Viridis, 3, 0, 1)
	assert.Equal(t, "#440154", sampled[0])
	assert.Equal(t, "#FDE725", sampled[2])
	assert.Len(t, Sample(RdYlGn, 5, 0.2, 0.8), 5)
	assert.Nil(t, Sample(Viridis, 0, 0, 1))

	assert.Equal(t, []string{"#1F77B4", "#8C564B", "#17BECF"}, Pick(Tab10, 3))
	assert.Equal(t, []string{"#8DD3C7"}, Pick(Set3, 1))
	assert.Nil(t, Pick(Set3, 0))

	c := ParseHex("#1877F2")
	assert.Equal(t, uint8(0x18), c.R)
	assert.Equal(t, uint8(0x77), c.G)
	assert.Equal(t, uint8(0xF2), c.B)
	assert.Equal(t, uint8(0x99), ParseHex("oops").R)
}

func TestBrewerSchemes(t *testing.T) {
	require.Len(t, Set3, 12)
	assert.Equal(t, "#8DD3C7", Set3[0])
	assert.Equal(t, "#FFED6F", Set3[11])
	require.Len(t, RdYlGn, 11)
	assert.Equal(t, "#A50026", RdYlGn[0])
	assert.Equal(t, "#006837", RdYlGn[10])

	heat, err := brewerPalette(brewer.TypeSequential, "YlOrRd")
	require.NoError(t, err)
	assert.Len(t, heat.Colors(), 9)

	_, err = brewerPalette(brewer.TypeAny, "NotAScheme")
	assert.Error(t, err)
}

func TestBubbleStyleUsesPanelColors(t *testing.T) {
	panel := Panel{Kind: Scatter, Bubbles: []Bubble{{Label: "fb", X: 51, Y: 39.7, Size: 51}, {Label: "ig", X: 15, Y: 28.2, Size: 15}}}

	fallback := bubbleStyle(panel)
	assert.Equal(t, withAlpha(ParseHex("#440154"), 0.6), fallback(0).Color)

	panel.Colors = []string{"#1877F2"}
	style := bubbleStyle(panel)
	assert.Equal(t, withAlpha(ParseHex("#1877F2"), 0.6), style(0).Color)
	assert.Equal(t, withAlpha(ParseHex("#1877F2"), 0.6), style(1).Color)
	assert.Greater(t, style(0).Radius, style(1).Radius)
}

func TestWrap(t *testing.T) {
	lines := wrap("one two three four\nfive", 9)
	assert.Equal(t, []string{"one two", "three", "four", "five"}, lines)
}
