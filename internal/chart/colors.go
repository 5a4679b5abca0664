package chart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
)

// FallbackColor is used for labels without an assigned colour.
const FallbackColor = "#999999"

// SourceColors are the brand colours of each lead source.
var SourceColors = map[string]string{
	"facebook":       "#1877F2",
	"instagram":      "#E4405F",
	"tiktok":         "#000000",
	"youtube":        "#FF0000",
	"app_store":      "#007AFF",
	"friends_family": "#34C759",
	"twitter_x":      "#1DA1F2",
	"reddit":         "#FF4500",
	"strava":         "#FC4C02",
	"Unknown":        "#8E8E93",
}

// Highlight is the seven-colour set used for small categorical charts.
var Highlight = []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7", "#FF9FF3", "#54A0FF"}

var (
	GenderColors = map[string]string{"Female": "#FFB6C1", "Male": "#87CEEB", "Unknown": "#D3D3D3"}
	AuthColors   = map[string]string{"Apple": "#007AFF", "Google": "#4285F4", "Email": "#34A853"}
)

// ColorBrewer schemes, taken at their largest size.
var (
	Set3   = mustBrewer(brewer.TypeQualitative, "Set3")
	RdYlGn = mustBrewer(brewer.TypeDiverging, "RdYlGn")
)

// Viridis and Tab10 are matplotlib maps with no ColorBrewer equivalent.
var (
	Viridis = []string{"#440154", "#482878", "#3E4A89", "#31688E", "#26828E", "#1F9E89", "#35B779", "#6ECE58", "#B5DE2B", "#FDE725"}
	Tab10   = []string{"#1F77B4", "#FF7F0E", "#2CA02C", "#D62728", "#9467BD", "#8C564B", "#E377C2", "#7F7F7F", "#BCBD22", "#17BECF"}
)

// brewerPalette returns the largest variant of a ColorBrewer scheme.
func brewerPalette(typ brewer.PaletteType, name string) (palette.Palette, error) {
	var best palette.Palette
	for n := 3; n <= 12; n++ {
		p, err := brewer.GetPalette(typ, name, n)
		if err != nil {
			break
		}
		best = p
	}
	if best == nil {
		return nil, fmt.Errorf("no ColorBrewer palette %q", name)
	}
	return best, nil
}

func mustBrewer(typ brewer.PaletteType, name string) []string {
	p, err := brewerPalette(typ, name)
	if err != nil {
		panic(err)
	}
	return hexColors(p.Colors())
}

func hexColors(colors []color.Color) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		rgba := color.RGBAModel.Convert(c).(color.RGBA)
		out[i] = fmt.Sprintf("#%02X%02X%02X", rgba.R, rgba.G, rgba.B)
	}
	return out
}

// ColorsFor looks every label up in named, falling back to FallbackColor.
func ColorsFor(labels []string, named map[string]string) []string {
	out := make([]string, len(labels))
	for i, label := range labels {
		if c, ok := named[label]; ok {
			out[i] = c
		} else {
			out[i] = FallbackColor
		}
	}
	return out
}

// Cycle repeats palette until n colours are produced.
func Cycle(palette []string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out
}

// Pick takes n evenly spaced entries of a listed colour set without blending,
// the way a qualitative map is sampled.
func Pick(listed []string, n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = listed[min(int(t*float64(len(listed))), len(listed)-1)]
	}
	return out
}

// Sample picks n evenly spaced colours between positions from and to (0..1)
// of a continuous colour map, interpolating between its stops.
func Sample(stops []string, n int, from, to float64) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		t := from
		if n > 1 {
			t = from + (to-from)*float64(i)/float64(n-1)
		}
		out[i] = interpolate(stops, t)
	}
	return out
}

func interpolate(stops []string, t float64) string {
	if len(stops) == 1 || t <= 0 {
		return stops[0]
	}
	if t >= 1 {
		return stops[len(stops)-1]
	}
	pos := t * float64(len(stops)-1)
	idx := int(pos)
	frac := pos - float64(idx)
	a := ParseHex(stops[idx])
	b := ParseHex(stops[idx+1])
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*frac + 0.5) }
	return fmt.Sprintf("#%02X%02X%02X", mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B))
}

// ParseHex turns "#RRGGBB" into an opaque colour; malformed input gives grey.
func ParseHex(value string) color.RGBA {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) != 6 {
		return color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xFF}
}

// withAlpha returns c with its alpha scaled, premultiplied as image/color expects.
func withAlpha(c color.RGBA, alpha float64) color.RGBA {
	scale := func(v uint8) uint8 { return uint8(float64(v)*alpha + 0.5) }
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: scale(c.A)}
}
