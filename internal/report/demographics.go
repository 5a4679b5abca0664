package report

import (
	"fmt"
	"sort"
	"strings"

	"fitcentive-growth-report/internal/chart"
	"fitcentive-growth-report/internal/dataset"
	"fitcentive-growth-report/internal/stats"
)

// AgeBucketOrder is the canonical left-to-right order of age brackets.
var AgeBucketOrder = []string{"Under 18", "18-24", "25-34", "35-44", "45-54", "55+"}

// SourceSummary aggregates every signup row of one lead source.
type SourceSummary struct {
	Source       string  `json:"source"`
	Users        float64 `json:"users"`
	Share        float64 `json:"share_pct"`
	AvgAge       float64 `json:"avg_age"`
	QualityScore float64 `json:"quality_score"`
}

// Demographics is the aggregated view of the signup demographics snapshot.
type Demographics struct {
	Total float64 `json:"total"`
	// Days holds per-day totals in date order.
	Days []stats.Total `json:"days"`
	// DailyChange compares the last day with the first, in percent.
	DailyChange float64 `json:"daily_change_pct"`

	// Sources is ordered by users, largest first.
	Sources []SourceSummary `json:"sources"`

	Male    float64 `json:"male"`
	Female  float64 `json:"female"`
	Unknown float64 `json:"unknown"`
	AvgAge  float64 `json:"avg_age"`

	UsersBySourceDay stats.Table `json:"users_by_source_day"`
	GenderBySource   stats.Table `json:"gender_by_source"`
	AgesBySource     stats.Table `json:"ages_by_source"`
}

// Source returns the summary of one lead source.
func (d Demographics) Source(name string) (SourceSummary, bool) {
	for _, s := range d.Sources {
		if s.Source == name {
			return s, true
		}
	}
	return SourceSummary{}, false
}

// SummarizeDemographics aggregates signup rows and age buckets.
func SummarizeDemographics(rows []dataset.Signup, buckets []dataset.AgeBucket) (Demographics, error) {
	rows, err := dataset.CanonicalSignups(rows)
	if err != nil {
		return Demographics{}, fmt.Errorf("signups: %w", err)
	}
	users := func(r dataset.Signup) float64 { return float64(r.Users) }
	total := stats.Sum(rows, users)
	if total == 0 {
		return Demographics{}, fmt.Errorf("signups: %w", stats.ErrNoData)
	}

	d := Demographics{Total: total}
	d.Days = stats.SortKeys(stats.GroupSum(rows, func(r dataset.Signup) string { return r.Date }, users))
	if len(d.Days) > 1 {
		first, last := d.Days[0].Value, d.Days[len(d.Days)-1].Value
		change, err := stats.Percent(last-first, first)
		if err != nil {
			return Demographics{}, fmt.Errorf("daily change from %s: %w", d.Days[0].Key, err)
		}
		d.DailyChange = change
	}

	totals := stats.SortDesc(stats.SortKeys(stats.GroupSum(rows, func(r dataset.Signup) string { return r.Source }, users)))
	for _, t := range totals {
		var ages, weights []float64
		for _, r := range rows {
			if r.Source == t.Key {
				ages = append(ages, r.AvgAge)
				weights = append(weights, float64(r.Users))
			}
		}
		avg, err := stats.WeightedMean(ages, weights)
		if err != nil {
			return Demographics{}, fmt.Errorf("average age for %s: %w", t.Key, err)
		}
		pct, err := stats.Percent(t.Value, total)
		if err != nil {
			return Demographics{}, fmt.Errorf("share of %s: %w", t.Key, err)
		}
		d.Sources = append(d.Sources, SourceSummary{
			Source:       t.Key,
			Users:        t.Value,
			Share:        pct,
			AvgAge:       avg,
			QualityScore: stats.QualityScore(t.Value, ages),
		})
	}

	d.Male = stats.Sum(rows, func(r dataset.Signup) float64 { return float64(r.Male) })
	d.Female = stats.Sum(rows, func(r dataset.Signup) float64 { return float64(r.Female) })
	d.Unknown = stats.Sum(rows, func(r dataset.Signup) float64 { return float64(r.Unknown) })

	ages := make([]float64, len(rows))
	weights := make([]float64, len(rows))
	for i, r := range rows {
		ages[i], weights[i] = r.AvgAge, float64(r.Users)
	}
	avg, err := stats.WeightedMean(ages, weights)
	if err != nil {
		return Demographics{}, fmt.Errorf("overall average age: %w", err)
	}
	d.AvgAge = avg

	type genderRow struct {
		source, gender string
		users          float64
	}
	var genders []genderRow
	for _, r := range rows {
		genders = append(genders,
			genderRow{r.Source, "Male", float64(r.Male)},
			genderRow{r.Source, "Female", float64(r.Female)},
			genderRow{r.Source, "Unknown", float64(r.Unknown)})
	}
	d.GenderBySource = stats.Pivot(genders,
		func(g genderRow) string { return g.source },
		func(g genderRow) string { return g.gender },
		func(g genderRow) float64 { return g.users },
	).Reindex([]string{"Male", "Female", "Unknown"})

	d.UsersBySourceDay = stats.Pivot(rows,
		func(r dataset.Signup) string { return r.Source },
		func(r dataset.Signup) string { return r.Date },
		users)

	if len(buckets) == 0 {
		return Demographics{}, fmt.Errorf("age buckets: %w", stats.ErrNoData)
	}
	d.AgesBySource = stats.Pivot(buckets,
		func(b dataset.AgeBucket) string { return b.Source },
		func(b dataset.AgeBucket) string { return b.Bucket },
		func(b dataset.AgeBucket) float64 { return float64(b.Users) },
	).Reindex(AgeBucketOrder)
	if len(d.AgesBySource.Columns) == 0 {
		return Demographics{}, fmt.Errorf("age buckets outside %s: %w", strings.Join(AgeBucketOrder, ", "), stats.ErrNoData)
	}
	return d, nil
}

// BuildLeadDemographics reports on the two-day signup demographics snapshot.
func BuildLeadDemographics(snap dataset.Snapshot, _ Options) (Report, error) {
	d, err := SummarizeDemographics(snap.Demographics, snap.AgeBuckets)
	if err != nil {
		return Report{}, err
	}
	auth := countTotals(snap.SignupAuth)
	authTotal := stats.Sum(auth, func(t stats.Total) float64 { return t.Value })
	if authTotal == 0 {
		return Report{}, fmt.Errorf("auth methods: %w", stats.ErrNoData)
	}
	paid := float64(snap.SignupPaidUsers)
	joiners := float64(snap.ChallengeJoiners)

	firstDay, lastDay := d.Days[0], d.Days[len(d.Days)-1]
	period := fmt.Sprintf("%s to %s", firstDay.Key, lastDay.Key)
	b := newBuilder("lead-demographics", "FITCENTIVE LEAD SOURCE ANALYSIS - "+period, lastDay.Key)

	b.metric("total_users", d.Total, "%.0f")
	for _, day := range d.Days {
		b.metric("users."+day.Key, day.Value, "%.0f")
	}
	b.metric("daily_change_pct", d.DailyChange, "%+.1f%%")
	for _, s := range d.Sources {
		key := metricKey(s.Source)
		b.metric("users_by_source."+key, s.Users, "%.0f")
		b.shareMetric("share_by_source."+key, s.Users, d.Total)
		b.metric("avg_age_by_source."+key, s.AvgAge, "%.1f")
		b.metric("quality_score."+key, s.QualityScore, "%.1f")
	}
	b.metric("gender.female", d.Female, "%.0f")
	b.metric("gender.male", d.Male, "%.0f")
	b.metric("gender.unknown", d.Unknown, "%.0f")
	b.shareMetric("gender_share.female", d.Female, d.Total)
	b.shareMetric("gender_share.male", d.Male, d.Total)
	b.metric("avg_age", d.AvgAge, "%.1f")
	for _, a := range auth {
		b.shareMetric("auth_share."+metricKey(a.Key), a.Value, authTotal)
	}
	b.metric("paid_users", paid, "%.0f")
	b.metric("challenge_joiners", joiners, "%.0f")

	dayLine := make([]string, len(d.Days))
	for i, day := range d.Days {
		dayLine[i] = fmt.Sprintf("%s: %.0f users", dayLabel(day.Key), day.Value)
	}
	b.section("EXECUTIVE SUMMARY",
		fmt.Sprintf("Total New Users: %.0f", d.Total),
		strings.Join(dayLine, " | "),
		fmt.Sprintf("Daily Change: %+.1f%%", d.DailyChange),
	)

	top := d.Sources[0]
	findings := []string{fmt.Sprintf("• %s is the dominant lead source (%s of all signups)", top.Source, b.pct(top.Users, d.Total))}
	if len(d.Sources) > 1 {
		second := d.Sources[1]
		findings = append(findings, fmt.Sprintf("• %s is the second largest source (%s of signups)", second.Source, b.pct(second.Users, d.Total)))
	}
	authByShare := stats.SortDesc(auth)
	findings = append(findings,
		fmt.Sprintf("• Female users make up %s vs %s male", b.pct(d.Female, d.Total), b.pct(d.Male, d.Total)),
		fmt.Sprintf("• Average age is %.1f years across all sources", d.AvgAge),
		"• Auth preference: "+authRanking(b, authByShare, authTotal),
		fmt.Sprintf("• %.0f paid users during this period (%s)", paid, b.pct(paid, d.Total)),
	)
	b.section("KEY FINDINGS", findings...)

	perf := make([]string, len(snap.Demographics))
	for i, r := range snap.Demographics {
		perf[i] = fmt.Sprintf("  %s | %-15s | %2d users | M:%2d F:%2d U:%1d | Avg Age: %4.1f",
			r.Date, r.Source, r.Users, r.Male, r.Female, r.Unknown, r.AvgAge)
	}
	b.section("LEAD SOURCE PERFORMANCE", perf...)

	insights := []string{fmt.Sprintf("1. %s DOMINANCE: %.0f users (%s) - avg age %.1f years",
		strings.ToUpper(top.Source), top.Users, b.pct(top.Users, d.Total), top.AvgAge)}
	if len(d.Sources) > 1 {
		second := d.Sources[1]
		insights = append(insights, fmt.Sprintf("2. %s POTENTIAL: %.0f users (%s) - avg age %.1f years",
			strings.ToUpper(second.Source), second.Users, b.pct(second.Users, d.Total), second.AvgAge))
	}
	unknown, hasUnknown := d.Source("Unknown")
	if hasUnknown {
		insights = append(insights, fmt.Sprintf("%d. UNKNOWN SOURCES: %.0f users (%s) - need better tracking",
			len(insights)+1, unknown.Users, b.pct(unknown.Users, d.Total)))
	}
	insights = append(insights,
		fmt.Sprintf("%d. GENDER SKEW: %s female", len(insights)+1, b.pct(d.Female, d.Total)),
		fmt.Sprintf("%d. AGE DISTRIBUTION: largest groups are %s", len(insights)+2, strings.Join(largestBuckets(d.AgesBySource, 3), ", ")),
		fmt.Sprintf("%d. PAYMENT STATUS: %s conversion to paid", len(insights)+3, b.pct(paid, d.Total)),
		fmt.Sprintf("%d. AUTH PREFERENCE: %s", len(insights)+4, authRanking(b, authByShare, authTotal)),
	)
	b.section("INSIGHTS & RECOMMENDATIONS", insights...)

	observations := []string{}
	if paid == 0 {
		observations = append(observations, fmt.Sprintf("• NO PAID USERS: all %.0f users are unpaid", d.Total))
	}
	if hasUnknown {
		observations = append(observations, fmt.Sprintf("• UNKNOWN ATTRIBUTION: %s of users have unknown source", b.pct(unknown.Users, d.Total)))
	}
	observations = append(observations,
		fmt.Sprintf("• MALE SHARE: %s of users are male", b.pct(d.Male, d.Total)),
		fmt.Sprintf("• CHALLENGE PARTICIPATION: %s of new users joined challenges", b.pct(joiners, d.Total)),
	)
	b.section("CRITICAL OBSERVATIONS", observations...)

	fb, _ := d.Source("facebook")
	ig, _ := d.Source("instagram")
	b.claim("Total new users", 89, d.Total, 0)
	b.claim("Facebook users", 51, fb.Users, 0)
	b.claim("Facebook share of signups (%)", 57.3, fb.Share, 0.05)
	b.claim("Facebook average age", 39.6, fb.AvgAge, 0.05)
	b.claim("Instagram users", 15, ig.Users, 0)
	b.claim("Instagram share of signups (%)", 16.9, ig.Share, 0.05)
	b.claim("Instagram average age", 28.2, ig.AvgAge, 0.05)
	b.claim("Unknown source users", 9, unknown.Users, 0)
	b.claim("Unknown source share (%)", 10.1, unknown.Share, 0.05)
	b.claim("Female share (%)", 66.3, b.share(d.Female, d.Total), 0.05)
	b.claim("Male share (%)", 23.6, b.share(d.Male, d.Total), 0.05)
	b.claim("Average age", 34.5, d.AvgAge, 0.05)
	b.claim("Apple auth share (%)", 61.8, b.share(countOf(snap.SignupAuth, "Apple"), authTotal), 0.05)
	b.claim("Google auth share (%)", 36.0, b.share(countOf(snap.SignupAuth, "Google"), authTotal), 0.05)

	b.figure(demographicsFigure(b, d, auth, authTotal, paid))
	return b.done()
}

func demographicsFigure(b *builder, d Demographics, auth []stats.Total, authTotal, paid float64) chart.Figure {
	sourceNames := make([]string, len(d.Sources))
	sourceUsers := make([]float64, len(d.Sources))
	for i, s := range d.Sources {
		sourceNames[i], sourceUsers[i] = s.Source, s.Users
	}

	pie := chart.Single(chart.Pie, "Lead Source Distribution", sourceNames, sourceUsers)
	pie.Colors = chart.Pick(chart.Set3, len(sourceNames))

	byDay := d.UsersBySourceDay
	daily := chart.Panel{Kind: chart.GroupedBar, Title: "Daily User Acquisition by Source",
		XLabel: "Lead Source", YLabel: "Number of Users", Categories: byDay.Rows}
	dayColors := chart.Cycle([]string{"#FF6B6B", "#4ECDC4"}, len(byDay.Columns))
	for c, day := range byDay.Columns {
		daily.Series = append(daily.Series, chart.Series{Name: dayLabel(day), Color: dayColors[c], Values: byDay.Column(day)})
	}

	gender := chart.Panel{Kind: chart.StackedBar, Title: "Gender Distribution by Lead Source",
		XLabel: "Lead Source", YLabel: "Number of Users"}
	gender.Categories = d.GenderBySource.Rows
	for _, g := range d.GenderBySource.Columns {
		gender.Series = append(gender.Series, chart.Series{Name: g, Color: chart.GenderColors[g], Values: d.GenderBySource.Column(g)})
	}

	ageTotals := make([]stats.Total, len(d.Sources))
	for i, s := range d.Sources {
		ageTotals[i] = stats.Total{Key: s.Source, Value: s.AvgAge}
	}
	ageTotals = stats.SortAsc(stats.SortKeys(ageTotals))
	ageBar := chart.Single(chart.HorizontalBar, "Average Age by Lead Source", stats.Keys(ageTotals), stats.Values(ageTotals))
	ageBar.XLabel = "Average Age (Years)"
	ageBar.Colors = chart.Sample(chart.Viridis, len(ageTotals), 0, 1)
	ageBar.ValueLabel = "%.1f"

	top5 := d.Sources[:min(5, len(d.Sources))]
	topNames := make([]string, len(top5))
	topUsers := make([]float64, len(top5))
	for i, s := range top5 {
		topNames[i], topUsers[i] = s.Source, s.Users
	}
	topBar := chart.Single(chart.Bar, "Top 5 Lead Sources (Total Users)", topNames, topUsers)
	topBar.YLabel = "Total Users"
	topBar.Colors = chart.Highlight[:5]
	topBar.ValueLabel = "%.0f"

	genderLabels := []string{"Female", "Male", "Unknown"}
	genderPie := chart.Single(chart.Pie, "Overall Gender Distribution", genderLabels, []float64{d.Female, d.Male, d.Unknown})
	genderPie.Colors = chart.ColorsFor(genderLabels, chart.GenderColors)

	ages := d.AgesBySource
	heat := chart.Panel{Kind: chart.Heatmap, Title: "Age Distribution Heatmap by Source",
		XLabel: "Age Groups", YLabel: "Lead Sources", Rows: ages.Rows, Categories: ages.Columns, Matrix: ages.Cells}

	trend := chart.Single(chart.Line, "Daily User Acquisition Trend", shortDays(stats.Keys(d.Days)), stats.Values(d.Days))
	trend.XLabel, trend.YLabel = "Date", "Total Users"
	trend.Colors = []string{"#FF6B6B"}
	trend.ValueLabel = "%.0f"

	bySource := make([]SourceSummary, len(d.Sources))
	copy(bySource, d.Sources)
	sort.SliceStable(bySource, func(i, j int) bool { return bySource[i].Source < bySource[j].Source })
	matrix := chart.Panel{Kind: chart.Scatter, Title: "Source Performance Matrix (bubble = users)",
		XLabel: "Total Users", YLabel: "Average Age", Colors: chart.Sample(chart.Viridis, len(bySource), 0, 1)}
	for _, s := range bySource {
		matrix.Bubbles = append(matrix.Bubbles, chart.Bubble{Label: s.Source, X: s.Users, Y: stats.Round1(s.AvgAge), Size: s.Users})
	}

	authPie := chart.Single(chart.Pie, "Authentication Method Distribution", stats.Keys(auth), stats.Values(auth))
	authPie.Colors = chart.ColorsFor(stats.Keys(auth), chart.AuthColors)

	top := d.Sources[0]
	cells := [][]string{
		{"Metric", "Value"},
		{"Total Users", fmt.Sprintf("%.0f", d.Total)},
		{"Female %", b.pct(d.Female, d.Total)},
		{"Male %", b.pct(d.Male, d.Total)},
		{"Avg Age", fmt.Sprintf("%.1f years", d.AvgAge)},
		{"Top Source", fmt.Sprintf("%s (%s)", top.Source, b.pct(top.Users, d.Total))},
		{"Paid Users", fmt.Sprintf("%.0f (%s)", paid, b.pct(paid, d.Total))},
	}
	for _, a := range auth {
		cells = append(cells, []string{a.Key + " Auth", b.pct(a.Value, authTotal)})
	}
	table := chart.Panel{Kind: chart.Table, Title: "Key Demographics Summary", Cells: cells}

	quality := make([]stats.Total, 0, len(d.Sources))
	for _, s := range d.Sources {
		quality = append(quality, stats.Total{Key: s.Source, Value: s.QualityScore})
	}
	quality = stats.SortAsc(quality)
	qualityBar := chart.Single(chart.HorizontalBar, "Lead Source Quality Ranking", stats.Keys(quality), stats.Values(quality))
	qualityBar.XLabel = "Quality Score (Volume + Age Diversity)"
	qualityBar.Colors = chart.Sample(chart.RdYlGn, len(quality), 0.2, 0.8)
	qualityBar.ValueLabel = "%.1f"

	return chart.Figure{
		File:   "fitcentive_analysis_charts.png",
		Rows:   4,
		Cols:   3,
		Width:  20,
		Height: 24,
		Panels: []chart.Panel{pie, daily, gender, ageBar, topBar, genderPie, heat, trend, matrix, authPie, table, qualityBar},
	}
}

func dayLabel(date string) string {
	t, err := dataset.ParseDay(date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2")
}

func authRanking(b *builder, byShare []stats.Total, total float64) string {
	parts := make([]string, len(byShare))
	for i, a := range byShare {
		parts[i] = fmt.Sprintf("%s (%s)", a.Key, b.pct(a.Value, total))
	}
	return strings.Join(parts, " > ")
}

// largestBuckets names the n age brackets with the most users.
func largestBuckets(ages stats.Table, n int) []string {
	totals := make([]stats.Total, len(ages.Columns))
	for c, v := range ages.ColumnTotals() {
		totals[c] = stats.Total{Key: ages.Columns[c], Value: v}
	}
	return stats.Keys(stats.Top(stats.SortDesc(totals), n))
}
