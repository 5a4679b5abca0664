package chart

import (
	"errors"
	"fmt"
	"strings"
)

// Kind selects how a panel is drawn.
type Kind string

const (
	Bar           Kind = "bar"
	HorizontalBar Kind = "hbar"
	GroupedBar    Kind = "grouped_bar"
	StackedBar    Kind = "stacked_bar"
	Pie           Kind = "pie"
	Heatmap       Kind = "heatmap"
	Line          Kind = "line"
	Scatter       Kind = "scatter"
	Histogram     Kind = "histogram"
	Table         Kind = "table"
	Note          Kind = "note"
)

// Series is one named run of values aligned with Panel.Categories.
type Series struct {
	Name   string    `json:"name"`
	Color  string    `json:"color,omitempty"`
	Values []float64 `json:"values"`
}

// Bubble is one scatter point; Size scales the glyph radius.
type Bubble struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
}

// Panel describes a single chart inside a figure. Only the fields relevant
// to its Kind are read.
type Panel struct {
	Kind   Kind   `json:"kind"`
	Title  string `json:"title"`
	XLabel string `json:"x_label,omitempty"`
	YLabel string `json:"y_label,omitempty"`

	// Bar family, line and pie.
	Categories []string `json:"categories,omitempty"`
	Series     []Series `json:"series,omitempty"`
	// Colors gives one colour per category for single-series bars and pies.
	Colors []string `json:"colors,omitempty"`
	// ValueLabel is a fmt format applied to each value as an annotation.
	ValueLabel string `json:"value_label,omitempty"`

	// Heatmap: Matrix[r][c] for Rows[r] and Categories[c].
	Rows   []string    `json:"rows,omitempty"`
	Matrix [][]float64 `json:"matrix,omitempty"`

	Bubbles []Bubble `json:"bubbles,omitempty"`

	// Histogram with an optional vertical marker.
	Samples     []float64 `json:"samples,omitempty"`
	Bins        int       `json:"bins,omitempty"`
	Marker      *float64  `json:"marker,omitempty"`
	MarkerLabel string    `json:"marker_label,omitempty"`

	// Table cells; the first row is the header.
	Cells [][]string `json:"cells,omitempty"`

	Text string `json:"text,omitempty"`
}

// Figure is a grid of panels written to one PNG file.
type Figure struct {
	File   string  `json:"file"`
	Title  string  `json:"title,omitempty"`
	Footer string  `json:"footer,omitempty"`
	Rows   int     `json:"rows"`
	Cols   int     `json:"cols"`
	Width  float64 `json:"width_in"`
	Height float64 `json:"height_in"`
	Panels []Panel `json:"panels"`
}

// Validate checks that the layout can hold every panel and that each panel
// carries the data its kind needs.
func (f Figure) Validate() error {
	var problems []string
	if strings.TrimSpace(f.File) == "" {
		problems = append(problems, "missing file name")
	}
	if f.Rows <= 0 || f.Cols <= 0 {
		problems = append(problems, fmt.Sprintf("invalid grid %dx%d", f.Rows, f.Cols))
	} else if len(f.Panels) > f.Rows*f.Cols {
		problems = append(problems, fmt.Sprintf("%d panels do not fit a %dx%d grid", len(f.Panels), f.Rows, f.Cols))
	}
	if f.Width <= 0 || f.Height <= 0 {
		problems = append(problems, "figure size must be positive")
	}
	for i, p := range f.Panels {
		if err := p.validate(); err != nil {
			problems = append(problems, fmt.Sprintf("panel %d (%s): %v", i+1, p.Title, err))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("figure %s: %s", f.File, strings.Join(problems, "; "))
	}
	return nil
}

func (p Panel) validate() error {
	switch p.Kind {
	case Bar, HorizontalBar, GroupedBar, StackedBar, Line, Pie:
		if len(p.Series) == 0 {
			return errors.New("no series")
		}
		for _, s := range p.Series {
			if len(s.Values) != len(p.Categories) {
				return fmt.Errorf("series %q has %d values for %d categories", s.Name, len(s.Values), len(p.Categories))
			}
		}
		if len(p.Categories) == 0 {
			return errors.New("no categories")
		}
	case Heatmap:
		if len(p.Matrix) != len(p.Rows) || len(p.Rows) == 0 {
			return errors.New("matrix rows do not match row labels")
		}
		if len(p.Categories) == 0 {
			return errors.New("no categories")
		}
		for _, row := range p.Matrix {
			if len(row) != len(p.Categories) {
				return errors.New("matrix columns do not match categories")
			}
		}
	case Scatter:
		if len(p.Bubbles) == 0 {
			return errors.New("no points")
		}
	case Histogram:
		if len(p.Samples) == 0 {
			return errors.New("no samples")
		}
	case Table:
		if len(p.Cells) == 0 {
			return errors.New("no cells")
		}
	case Note:
		if p.Text == "" {
			return errors.New("empty note")
		}
	default:
		return fmt.Errorf("unknown kind %q", p.Kind)
	}
	return nil
}

// Single builds a one-series panel.
func Single(kind Kind, title string, categories []string, values []float64) Panel {
	return Panel{
		Kind:       kind,
		Title:      title,
		Categories: categories,
		Series:     []Series{{Name: title, Values: values}},
	}
}
