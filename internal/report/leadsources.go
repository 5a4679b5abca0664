package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"fitcentive-growth-report/internal/chart"
	"fitcentive-growth-report/internal/dataset"
	"fitcentive-growth-report/internal/stats"
)

// LeadSources is the two-week signup and paid-user summary.
type LeadSources struct {
	Total float64 `json:"total"`
	From  string  `json:"from"`
	To    string  `json:"to"`
	// BySource is ordered by users, largest first.
	BySource []stats.Total `json:"by_source"`
	// ByDate has one row per day and one column per source, columns ordered
	// by their total.
	ByDate stats.Table `json:"by_date"`

	// PaidByDay is in date order.
	PaidByDay   []stats.Total `json:"paid_by_day"`
	PaidTotal   float64       `json:"paid_total"`
	PaidMean    float64       `json:"paid_mean"`
	PeakDay     string        `json:"peak_day"`
	PeakUsers   float64       `json:"peak_users"`
	PaidSources []string      `json:"paid_sources"`
}

// SummarizeLeadSources aggregates daily signups and paid users per day.
func SummarizeLeadSources(signups []dataset.Signup, paid []dataset.PaidDay) (LeadSources, error) {
	signups, err := dataset.CanonicalSignups(signups)
	if err != nil {
		return LeadSources{}, fmt.Errorf("daily signups: %w", err)
	}
	users := func(r dataset.Signup) float64 { return float64(r.Users) }
	byDate := stats.Pivot(signups,
		func(r dataset.Signup) string { return r.Date },
		func(r dataset.Signup) string { return r.Source },
		users,
	).OrderColumnsByTotal()
	if byDate.Total() == 0 {
		return LeadSources{}, fmt.Errorf("daily signups: %w", stats.ErrNoData)
	}
	s := LeadSources{Total: byDate.Total(), ByDate: byDate}

	days := lo.Map(signups, func(r dataset.Signup, _ int) string { return r.Date })
	sort.Strings(days)
	s.From, s.To = days[0], days[len(days)-1]

	s.BySource = stats.SortDesc(stats.SortKeys(stats.GroupSum(signups, func(r dataset.Signup) string { return r.Source }, users)))

	type dated struct {
		day string
		row dataset.PaidDay
	}
	ordered := make([]dated, 0, len(paid))
	for _, row := range paid {
		day, err := dataset.CanonicalDay(row.Date)
		if err != nil {
			return LeadSources{}, err
		}
		ordered = append(ordered, dated{day: day, row: row})
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].day < ordered[j].day })
	s.PaidByDay = stats.GroupSum(ordered,
		func(d dated) string { return d.day },
		func(d dated) float64 { return float64(d.row.PaidUsers) })

	values := stats.Values(s.PaidByDay)
	mean, err := stats.Mean(values)
	if err != nil {
		return LeadSources{}, fmt.Errorf("paid users: %w", err)
	}
	peak, err := stats.ArgMax(values)
	if err != nil {
		return LeadSources{}, fmt.Errorf("paid users: %w", err)
	}
	s.PaidTotal = lo.Sum(values)
	s.PaidMean = mean
	s.PeakDay = s.PaidByDay[peak].Key
	s.PeakUsers = s.PaidByDay[peak].Value
	s.PaidSources = lo.Uniq(lo.Map(ordered, func(d dated, _ int) string { return d.row.Source }))
	return s, nil
}

// BuildLeadSources reports on the daily lead-source and paid-user counts.
func BuildLeadSources(snap dataset.Snapshot, _ Options) (Report, error) {
	s, err := SummarizeLeadSources(snap.DailySignups, snap.PaidDays)
	if err != nil {
		return Report{}, err
	}
	b := newBuilder("lead-sources", "FITCENTIVE LEAD SOURCE ANALYSIS - LAST 2 WEEKS", s.To)

	b.metric("total_users", s.Total, "%.0f")
	for _, t := range s.BySource {
		b.metric("users_by_source."+metricKey(t.Key), t.Value, "%.0f")
	}
	b.metric("paid_users_total", s.PaidTotal, "%.0f")
	b.metric("paid_users_daily_mean", s.PaidMean, "%.1f")
	b.metricText("paid_users_peak", s.PeakUsers, fmt.Sprintf("%s (%.0f users)", dataset.ShortDay(s.PeakDay), s.PeakUsers))

	summary := []string{
		fmt.Sprintf("Total new users analyzed: %.0f", s.Total),
		fmt.Sprintf("Date range: %s to %s", s.From, s.To),
		"",
		"Top performing lead sources:",
	}
	for i, t := range stats.Top(s.BySource, 5) {
		summary = append(summary, fmt.Sprintf("%d. %s: %.0f users (%s)", i+1, t.Key, t.Value, b.pct(t.Value, s.Total)))
	}
	b.section("LEAD SOURCE ANALYSIS SUMMARY", summary...)

	note := paidSourceNote(s.PaidSources)
	b.section("PAID USERS ANALYSIS",
		fmt.Sprintf("Total paid users in last %d days: %.0f", len(s.PaidByDay), s.PaidTotal),
		fmt.Sprintf("Average daily paid users: %.1f", s.PaidMean),
		fmt.Sprintf("Peak day: %s (%.0f users)", dataset.ShortDay(s.PeakDay), s.PeakUsers),
		note,
	)

	b.figure(leadSourceFigure(s))
	b.figure(paidDaysFigure(s, note))
	return b.done()
}

func paidSourceNote(sources []string) string {
	if len(sources) == 1 {
		return fmt.Sprintf("Note: All paid users show %q referral source (likely older users before tracking)", sources[0])
	}
	return fmt.Sprintf("Note: paid users come from %d referral sources: %s", len(sources), strings.Join(sources, ", "))
}

func leadSourceFigure(s LeadSources) chart.Figure {
	stacked := chart.Panel{
		Kind:       chart.StackedBar,
		Title:      "New Users by Lead Source (Last 2 Weeks)",
		XLabel:     "Date",
		YLabel:     "Number of New Users",
		Categories: shortDays(s.ByDate.Rows),
	}
	colors := chart.ColorsFor(s.ByDate.Columns, chart.SourceColors)
	for c, source := range s.ByDate.Columns {
		stacked.Series = append(stacked.Series, chart.Series{Name: source, Color: colors[c], Values: s.ByDate.Column(source)})
	}

	totals := chart.Single(chart.Bar, "Total New Users by Lead Source (Last 2 Weeks)", stats.Keys(s.BySource), stats.Values(s.BySource))
	totals.XLabel, totals.YLabel = "Lead Source", "Total New Users"
	totals.Colors = chart.ColorsFor(stats.Keys(s.BySource), chart.SourceColors)
	totals.ValueLabel = "%.0f"

	return chart.Figure{
		File:   "fitcentive_lead_analysis_charts.png",
		Rows:   2,
		Cols:   1,
		Width:  16,
		Height: 12,
		Panels: []chart.Panel{stacked, totals},
	}
}

func paidDaysFigure(s LeadSources, note string) chart.Figure {
	bars := chart.Single(chart.Bar, fmt.Sprintf("Paid Users by Date (Last %d Days)", len(s.PaidByDay)),
		shortDays(stats.Keys(s.PaidByDay)), stats.Values(s.PaidByDay))
	bars.XLabel, bars.YLabel = "Date", "Number of Paid Users"
	bars.Colors = []string{"#FF6B6B"}
	bars.ValueLabel = "%.0f"

	return chart.Figure{
		File:   "fitcentive_paid_users_analysis.png",
		Rows:   2,
		Cols:   1,
		Width:  14,
		Height: 10,
		Panels: []chart.Panel{bars, {Kind: chart.Note, Title: "Referral source", Text: note}},
	}
}
