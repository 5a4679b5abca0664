package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"fitcentive-growth-report/internal/chart"
	"fitcentive-growth-report/internal/dataset"
	"fitcentive-growth-report/internal/stats"
)

// Metric is one recomputed number, kept both raw and as printed.
type Metric struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// Section is a titled block of narrative lines.
type Section struct {
	Heading string   `json:"heading"`
	Lines   []string `json:"lines"`
}

// Claim pairs a hand-written figure from the published narrative with the
// value recomputed from the data.
type Claim struct {
	Label     string  `json:"label"`
	Stated    float64 `json:"stated"`
	Actual    float64 `json:"actual"`
	Tolerance float64 `json:"tolerance"`
}

// Mismatch reports whether the stated figure is off by more than Tolerance.
func (c Claim) Mismatch() bool {
	return math.Abs(c.Stated-c.Actual) > c.Tolerance+1e-9
}

// Report is the computed result of one report builder.
type Report struct {
	Name     string         `json:"name"`
	Title    string         `json:"title"`
	AsOf     string         `json:"as_of"`
	Metrics  []Metric       `json:"metrics"`
	Sections []Section      `json:"sections"`
	Claims   []Claim        `json:"claims"`
	Figures  []chart.Figure `json:"figures"`
}

// Mismatches returns the claims that disagree with the data.
func (r Report) Mismatches() []Claim {
	var out []Claim
	for _, c := range r.Claims {
		if c.Mismatch() {
			out = append(out, c)
		}
	}
	return out
}

// Metric looks a metric up by name.
func (r Report) Metric(name string) (Metric, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// Options carries the run-level inputs shared by every builder.
type Options struct {
	// AsOf anchors the simulated revenue trend. Zero means the latest date
	// found in the snapshot.
	AsOf      time.Time
	TrendSeed uint64
}

// Builder computes one report from a snapshot.
type Builder func(snap dataset.Snapshot, opts Options) (Report, error)

var builders = []struct {
	name  string
	build Builder
}{
	{"lead-demographics", BuildLeadDemographics},
	{"lead-sources", BuildLeadSources},
	{"payments", BuildPayments},
	{"paid-users", BuildPaidUsers},
}

// Names lists the available reports in run order.
func Names() []string {
	names := make([]string, len(builders))
	for i, b := range builders {
		names[i] = b.name
	}
	return names
}

// Build runs the named report.
func Build(name string, snap dataset.Snapshot, opts Options) (Report, error) {
	for _, b := range builders {
		if b.name == name {
			r, err := b.build(snap, opts)
			if err != nil {
				return Report{}, fmt.Errorf("%s: %w", name, err)
			}
			return r, nil
		}
	}
	return Report{}, fmt.Errorf("unknown report %q (expected one of %s)", name, strings.Join(Names(), ", "))
}

// LatestDate returns the most recent record date in the snapshot.
func LatestDate(snap dataset.Snapshot) (time.Time, error) {
	var dates []string
	for _, row := range snap.Demographics {
		dates = append(dates, row.Date)
	}
	for _, row := range snap.DailySignups {
		dates = append(dates, row.Date)
	}
	for _, row := range snap.PaidDays {
		dates = append(dates, row.Date)
	}
	var latest time.Time
	for _, value := range dates {
		day, err := dataset.ParseDay(value)
		if err != nil {
			return time.Time{}, err
		}
		if day.After(latest) {
			latest = day
		}
	}
	if latest.IsZero() {
		return time.Time{}, fmt.Errorf("no dated records in snapshot")
	}
	return latest, nil
}

// Print writes the narrative of r.
func Print(w io.Writer, r Report) {
	fmt.Fprintln(w, r.Title)
	fmt.Fprintln(w, strings.Repeat("=", 80))
	if r.AsOf != "" {
		fmt.Fprintf(w, "As of: %s\n", r.AsOf)
	}
	for _, section := range r.Sections {
		fmt.Fprintf(w, "\n%s\n", section.Heading)
		fmt.Fprintln(w, strings.Repeat("-", 38))
		for _, line := range section.Lines {
			fmt.Fprintln(w, line)
		}
	}

	mismatches := r.Mismatches()
	if len(r.Claims) > 0 {
		fmt.Fprintln(w, "\nData consistency")
		fmt.Fprintln(w, strings.Repeat("-", 38))
		if len(mismatches) == 0 {
			fmt.Fprintf(w, "All %d published figures match the data.\n", len(r.Claims))
		}
		for _, c := range mismatches {
			fmt.Fprintf(w, "MISMATCH %s: stated %s, data gives %s\n", c.Label, trimFloat(c.Stated), trimFloat(c.Actual))
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", 80))
}

func trimFloat(value float64) string {
	s := fmt.Sprintf("%.2f", value)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// builder accumulates metrics and sections while a report is assembled. The
// first failed percentage or ratio is kept and returned by done.
type builder struct {
	report Report
	err    error
}

func newBuilder(name, title, asOf string) *builder {
	return &builder{report: Report{Name: name, Title: title, AsOf: asOf}}
}

func (b *builder) metric(name string, value float64, format string) {
	b.report.Metrics = append(b.report.Metrics, Metric{Name: name, Value: value, Display: fmt.Sprintf(format, value)})
}

func (b *builder) metricText(name string, value float64, display string) {
	b.report.Metrics = append(b.report.Metrics, Metric{Name: name, Value: value, Display: display})
}

// shareMetric records part/total as a percentage metric.
func (b *builder) shareMetric(name string, part, total float64) {
	b.metricText(name, b.share(part, total), b.pct(part, total))
}

func (b *builder) section(heading string, lines ...string) {
	b.report.Sections = append(b.report.Sections, Section{Heading: heading, Lines: lines})
}

func (b *builder) claim(label string, stated, actual, tolerance float64) {
	b.report.Claims = append(b.report.Claims, Claim{Label: label, Stated: stated, Actual: actual, Tolerance: tolerance})
}

func (b *builder) figure(f chart.Figure) {
	b.report.Figures = append(b.report.Figures, f)
}

// share is part/total*100.
func (b *builder) share(part, total float64) float64 {
	v, err := stats.Percent(part, total)
	b.fail(err, "share of %g in %g", part, total)
	return v
}

// pct renders part/total as "12.3%".
func (b *builder) pct(part, total float64) string {
	v, err := stats.FormatPercent(part, total)
	b.fail(err, "percentage of %g in %g", part, total)
	return v
}

// ratio renders num/den as "1.48x".
func (b *builder) ratio(num, den float64) string {
	v, err := stats.FormatRatio(num, den)
	b.fail(err, "ratio %g/%g", num, den)
	return v
}

func (b *builder) fail(err error, format string, args ...any) {
	if err != nil && b.err == nil {
		b.err = fmt.Errorf(format+": %w", append(args, err)...)
	}
}

func (b *builder) done() (Report, error) {
	if b.err != nil {
		return Report{}, b.err
	}
	return b.report, nil
}

func metricKey(label string) string {
	return strings.ToLower(strings.NewReplacer(" ", "_", "-", "_", "/", "_", "(", "", ")", "").Replace(label))
}
