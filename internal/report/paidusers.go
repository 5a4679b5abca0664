package report

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/samber/lo"

	"fitcentive-growth-report/internal/chart"
	"fitcentive-growth-report/internal/dataset"
	"fitcentive-growth-report/internal/stats"
)

// TrendDays is the length of the simulated revenue trend.
const TrendDays = 30

// PaidUsers holds the recomputed figures of the paying-customer profile.
type PaidUsers struct {
	Total   float64 `json:"total"`
	Revenue float64 `json:"revenue"`
	ARPU    float64 `json:"arpu"`

	SampleAgeMean     float64 `json:"sample_age_mean"`
	SampleMinAge      float64 `json:"sample_min_age"`
	SampleMaxAge      float64 `json:"sample_max_age"`
	SamplePaymentMean float64 `json:"sample_payment_mean"`
	// CommonPayment is the most frequent sample payment amount.
	CommonPayment float64 `json:"common_payment"`

	MultiPayment  float64 `json:"multi_payment"`
	SinglePayment float64 `json:"single_payment"`

	// Trend is simulated daily revenue, not observed data.
	Trend []stats.Total `json:"trend"`
}

// SummarizePaidUsers recomputes the profile's derived figures. The revenue
// trend is simulated from seed over the TrendDays days ending at asOf.
func SummarizePaidUsers(profile dataset.PaidProfile, asOf time.Time, seed uint64) (PaidUsers, error) {
	total := float64(profile.TotalPaidUsers)
	arpu, err := stats.Ratio(profile.TotalRevenue, total)
	if err != nil {
		return PaidUsers{}, fmt.Errorf("paid users: %w", err)
	}
	ageMean, err := stats.Mean(profile.SampleAges)
	if err != nil {
		return PaidUsers{}, fmt.Errorf("sample ages: %w", err)
	}
	paymentMean, err := stats.Mean(profile.SamplePayments)
	if err != nil {
		return PaidUsers{}, fmt.Errorf("sample payments: %w", err)
	}

	return PaidUsers{
		Total:             total,
		Revenue:           profile.TotalRevenue,
		ARPU:              arpu,
		SampleAgeMean:     ageMean,
		SampleMinAge:      lo.Min(profile.SampleAges),
		SampleMaxAge:      lo.Max(profile.SampleAges),
		SamplePaymentMean: paymentMean,
		CommonPayment:     mode(profile.SamplePayments),
		MultiPayment:      float64(profile.MultiPaymentUsers),
		SinglePayment:     total - float64(profile.MultiPaymentUsers),
		Trend:             SimulateRevenueTrend(asOf, seed, TrendDays),
	}, nil
}

// SimulateRevenueTrend draws daily revenue from normal(65, 25), clipped at
// zero, for the days ending at asOf. The same seed and date always give the
// same series.
func SimulateRevenueTrend(asOf time.Time, seed uint64, days int) []stats.Total {
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewPCG(seed, uint64(day.Unix())))
	out := make([]stats.Total, days)
	for i := range out {
		d := day.AddDate(0, 0, i-days+1)
		out[i] = stats.Total{Key: d.Format(dataset.DateLayout), Value: math.Max(0, 65+25*rng.NormFloat64())}
	}
	return out
}

// mode returns the most frequent value; the smallest wins ties.
func mode(values []float64) float64 {
	counts := lo.CountValues(values)
	best, bestCount := math.Inf(1), 0
	for v, n := range counts {
		if n > bestCount || (n == bestCount && v < best) {
			best, bestCount = v, n
		}
	}
	if bestCount == 0 {
		return 0
	}
	return best
}

// BuildPaidUsers reports on the paying-customer profile.
func BuildPaidUsers(snap dataset.Snapshot, opts Options) (Report, error) {
	asOf := opts.AsOf
	if asOf.IsZero() {
		latest, err := LatestDate(snap)
		if err != nil {
			return Report{}, err
		}
		asOf = latest
	}
	profile := snap.Paid
	u, err := SummarizePaidUsers(profile, asOf, opts.TrendSeed)
	if err != nil {
		return Report{}, err
	}
	b := newBuilder("paid-users", "FITCENTIVE PAID USERS ANALYSIS - COMPREHENSIVE REPORT", asOf.Format(dataset.DateLayout))
	of := func(n float64) float64 { return b.share(n, u.Total) }
	ofLabel := func(counts []dataset.Count, label string) float64 { return of(countOf(counts, label)) }
	pctOf := func(n float64) string { return b.pct(n, u.Total) }
	pctLabel := func(counts []dataset.Count, label string) string { return pctOf(countOf(counts, label)) }

	b.metric("total_paid_users", u.Total, "%.0f")
	b.metricText("total_revenue", u.Revenue, money(u.Revenue))
	b.metricText("arpu", u.ARPU, money(u.ARPU))
	b.metric("sample_avg_age", u.SampleAgeMean, "%.1f")
	b.metricText("sample_avg_payment", u.SamplePaymentMean, money(u.SamplePaymentMean))
	b.metric("multi_payment_users", u.MultiPayment, "%.0f")
	b.metric("single_payment_users", u.SinglePayment, "%.0f")
	for _, group := range []struct {
		prefix string
		counts []dataset.Count
	}{
		{"gender", profile.Gender},
		{"lead_source", profile.LeadSources},
		{"auth", profile.AuthMethods},
		{"wearable", profile.Wearables},
		{"first_payment", profile.FirstPayment},
	} {
		for _, c := range group.counts {
			b.shareMetric(group.prefix+"_share."+metricKey(c.Label), float64(c.Count), u.Total)
		}
	}

	b.section("REVENUE OVERVIEW",
		fmt.Sprintf("Total Paid Users: %.0f", u.Total),
		fmt.Sprintf("Total Revenue: %s", money(u.Revenue)),
		fmt.Sprintf("Average Revenue Per User (ARPU): %s", money(u.ARPU)),
		fmt.Sprintf("Last 30 Days: %d payments from %d users", profile.RecentPayments30d, profile.RecentPayers30d),
		fmt.Sprintf("Recent Revenue (30d): %s", money(profile.RecentRevenue30d)),
	)

	female, male := countOf(profile.Gender, "Female"), countOf(profile.Gender, "Male")
	b.section("DEMOGRAPHICS",
		fmt.Sprintf("Gender Split: %.0f Female (%s) | %.0f Male (%s)", female, pctOf(female), male, pctOf(male)),
		fmt.Sprintf("Age Range: %.0f-%.0f years (Avg: %.1f)", u.SampleMinAge, u.SampleMaxAge, u.SampleAgeMean),
	)

	sources := stats.SortDesc(countTotals(profile.LeadSources))
	b.section("LEAD SOURCE PERFORMANCE", shareLines(sources, pctOf, 0)...)
	b.section("AUTHENTICATION PREFERENCES", shareLines(countTotals(profile.AuthMethods), pctOf, 0)...)

	payers := make([]string, 0, 2*len(profile.TopPayers))
	for i, p := range profile.TopPayers {
		payers = append(payers,
			fmt.Sprintf("%d. %s - %s (%d payments)", i+1, p.Name, money(p.Amount), p.Payments),
			fmt.Sprintf("   %dyo %s, from %s", p.Age, p.Gender, p.Source))
	}
	b.section("TOP PAYING CUSTOMERS", payers...)

	challenges := make([]string, len(profile.Challenges))
	for i, c := range profile.Challenges {
		challenges[i] = fmt.Sprintf("%s: %d users", c.Label, c.Count)
	}
	b.section("CHALLENGE PREFERENCES", challenges...)
	b.section("WEARABLE DEVICE PREFERENCES", shareLines(stats.SortDesc(countTotals(profile.Wearables)), pctOf, 0)...)

	sameDay := float64(profile.SameDayFirstPayers)
	b.section("PAYMENT BEHAVIOR",
		fmt.Sprintf("• %s make their first payment the day they sign up", pctOf(sameDay)),
		fmt.Sprintf("• Multi-payment users: %.0f users (%s)", u.MultiPayment, pctOf(u.MultiPayment)),
		fmt.Sprintf("• Single payment users: %.0f users (%s)", u.SinglePayment, pctOf(u.SinglePayment)),
	)
	b.section("GEOGRAPHIC DISTRIBUTION", shareLines(stats.SortDesc(countTotals(profile.Timezones)), pctOf, 3)...)

	goals := make([]string, len(profile.Goals))
	for i, g := range profile.Goals {
		goals[i] = fmt.Sprintf("%s: %d users (%s)", titleWords(g.Label), g.Count, pctOf(float64(g.Count)))
	}
	b.section("USER GOALS", goals...)

	topSource := stats.Total{Key: "none"}
	if len(sources) > 0 {
		topSource = sources[0]
	}
	topChallenge := stats.Total{Key: "none"}
	if byCount := stats.SortDesc(countTotals(profile.Challenges)); len(byCount) > 0 {
		topChallenge = byCount[0]
	}
	b.section("KEY INSIGHTS & PATTERNS",
		fmt.Sprintf("1. FEMALE SHARE: %s of paying users are female", pctOf(female)),
		fmt.Sprintf("2. AUDIENCE AGE: sample average age %.1f years", u.SampleAgeMean),
		fmt.Sprintf("3. TOP SOURCE: %s is the #1 lead source for paid users (%s)", topSource.Key, pctOf(topSource.Value)),
		fmt.Sprintf("4. APPLE ECOSYSTEM: %s use Apple authentication, %s use Apple Watch",
			pctLabel(profile.AuthMethods, "Apple"), pctLabel(profile.Wearables, "Apple Watch")),
		fmt.Sprintf("5. IMMEDIATE CONVERTERS: %s pay on the day they sign up", pctOf(sameDay)),
		fmt.Sprintf("6. CHALLENGES: %s lead preferences (%s)", topChallenge.Key, pctOf(topChallenge.Value)),
		fmt.Sprintf("7. RETENTION: %s make multiple payments", pctOf(u.MultiPayment)),
		fmt.Sprintf("8. PRICING: average sample payment %s, most common %s", money(u.SamplePaymentMean), money(u.CommonPayment)),
	)

	young := float64(lo.CountBy(profile.SampleAges, func(a float64) bool { return a < 25 }))
	old := float64(lo.CountBy(profile.SampleAges, func(a float64) bool { return a > 55 }))
	samples := float64(len(profile.SampleAges))
	b.section("AREAS FOR IMPROVEMENT",
		fmt.Sprintf("• MALE SHARE: only %s male users", pctOf(male)),
		fmt.Sprintf("• ATTRIBUTION GAPS: %s unknown lead sources", pctLabel(profile.LeadSources, "Unknown")),
		fmt.Sprintf("• GEOGRAPHIC CONCENTRATION: %s international", pctLabel(profile.Geography, "International")),
		fmt.Sprintf("• AGE GAPS: %s under 25 and %s over 55 in the age sample", b.pct(young, samples), b.pct(old, samples)),
	)
	b.section("GROWTH OPPORTUNITIES",
		"1. Target male-focused fitness content and challenges",
		fmt.Sprintf("2. Expand %s marketing (highest converting source)", topSource.Key),
		"3. Develop age-specific challenge categories",
		"4. International expansion beyond US timezones",
		"5. Leverage Apple ecosystem integration further",
		"6. Create referral programs for high-value customers",
	)

	b.claim("ARPU", profile.StatedARPU, u.ARPU, 0.005)
	b.claim("Average age", profile.StatedAvgAge, u.SampleAgeMean, 0.05)
	b.claim("Minimum age", float64(profile.MinAge), u.SampleMinAge, 0)
	b.claim("Maximum age", float64(profile.MaxAge), u.SampleMaxAge, 0)
	b.claim("Average payment", profile.StatedAvgPayment, u.SamplePaymentMean, 0.005)
	b.claim("Female share (%)", 70.1, of(female), 0.05)
	b.claim("Male share (%)", 29.9, of(male), 0.05)
	b.claim("TikTok lead share (%)", 29.9, ofLabel(profile.LeadSources, "TikTok"), 0.05)
	b.claim("Unknown lead share (%)", 20.9, ofLabel(profile.LeadSources, "Unknown"), 0.05)
	b.claim("Apple auth share (%)", 73.1, ofLabel(profile.AuthMethods, "Apple"), 0.05)
	b.claim("Apple Watch share (%)", 37.3, ofLabel(profile.Wearables, "Apple Watch"), 0.05)
	b.claim("Same-day first payment (%)", 89.6, of(sameDay), 0.05)
	b.claim("Same-day first payment, rounded (%)", 90, of(sameDay), 0.5)
	b.claim("Steps challenge share (%)", 67, ofLabel(profile.Challenges, "Steps Challenges"), 0.5)
	b.claim("Multi-payment share (%)", 32.8, of(u.MultiPayment), 0.05)
	b.claim("Single payment users", 45, u.SinglePayment, 0)

	b.figure(paidUsersFigure(profile, u))
	return b.done()
}

// shareLines prints "label: n users (p%)" for totals of at least minCount.
func shareLines(totals []stats.Total, pct func(float64) string, minCount float64) []string {
	var lines []string
	for _, t := range totals {
		if t.Value < minCount {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %.0f users (%s)", t.Key, t.Value, pct(t.Value)))
	}
	return lines
}

func paidUsersFigure(profile dataset.PaidProfile, u PaidUsers) chart.Figure {
	labels := func(counts []dataset.Count) []string {
		return lo.Map(counts, func(c dataset.Count, _ int) string { return c.Label })
	}
	values := func(counts []dataset.Count) []float64 {
		return lo.Map(counts, func(c dataset.Count, _ int) float64 { return float64(c.Count) })
	}

	top := profile.TopPayers[:min(10, len(profile.TopPayers))]
	names := lo.Map(top, func(p dataset.Payer, _ int) string {
		return truncate(p.Name, 15)
	})
	amounts := lo.Map(top, func(p dataset.Payer, _ int) float64 { return p.Amount })
	revenue := chart.Single(chart.HorizontalBar, "Top Revenue Contributors", names, amounts)
	revenue.XLabel = "Revenue ($)"
	revenue.Colors = chart.Sample(chart.Viridis, len(top), 0, 1)
	revenue.ValueLabel = "$%.0f"

	gender := chart.Single(chart.Pie, "Gender Distribution", labels(profile.Gender), values(profile.Gender))
	gender.Colors = chart.ColorsFor(labels(profile.Gender), chart.GenderColors)

	sources := chart.Single(chart.Pie, "Lead Source Distribution", labels(profile.LeadSources), values(profile.LeadSources))
	sources.Colors = chart.Pick(chart.Set3, len(profile.LeadSources))

	mean := u.SampleAgeMean
	ages := chart.Panel{Kind: chart.Histogram, Title: "Age Distribution", XLabel: "Age", YLabel: "Number of Users",
		Samples: profile.SampleAges, Bins: 10, Colors: []string{"#87CEEB"}, Marker: &mean, MarkerLabel: fmt.Sprintf("Mean: %.1f", mean)}

	auth := chart.Single(chart.Pie, "Authentication Methods", labels(profile.AuthMethods), values(profile.AuthMethods))
	auth.Colors = chart.ColorsFor(labels(profile.AuthMethods), chart.AuthColors)

	challenges := chart.Single(chart.Bar, "Challenge Type Preferences", splitWords(labels(profile.Challenges), " "), values(profile.Challenges))
	challenges.YLabel = "Number of Users"
	challenges.Colors = []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4"}

	wearables := profile.Wearables[:min(6, len(profile.Wearables))]
	devices := chart.Single(chart.HorizontalBar, "Wearable Device Preferences", labels(wearables), values(wearables))
	devices.XLabel = "Number of Users"
	devices.Colors = chart.Pick(chart.Tab10, len(wearables))

	payments := chart.Panel{Kind: chart.Histogram, Title: "Payment Amount Distribution", XLabel: "Payment Amount ($)", YLabel: "Frequency",
		Samples: profile.SamplePayments, Bins: 8, Colors: []string{"#90EE90"}}

	trend := chart.Single(chart.Line, fmt.Sprintf("Revenue Trend (Last %d Days, simulated)", len(u.Trend)),
		shortDays(stats.Keys(u.Trend)), stats.Values(u.Trend))
	trend.XLabel, trend.YLabel = "Date", "Daily Revenue ($)"
	trend.Colors = []string{"#FF6B6B"}

	goalLabels := lo.Map(profile.Goals, func(c dataset.Count, _ int) string { return titleWords(c.Label) })
	goals := chart.Single(chart.Bar, "User Goal Distribution", splitWords(goalLabels, " "), values(profile.Goals))
	goals.YLabel = "Number of Users"
	goals.Colors = []string{"#FFD93D", "#6BCF7F", "#4D96FF", "#FF6B6B"}

	geo := chart.Single(chart.Pie, "Geographic Distribution", labels(profile.Geography), values(profile.Geography))
	geo.Colors = []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4"}

	timing := chart.Single(chart.Bar, "Time to First Payment", labels(profile.FirstPayment), values(profile.FirstPayment))
	timing.YLabel = "Number of Users"
	timing.Colors = []string{"#2ECC71", "#F39C12", "#E74C3C", "#9B59B6"}

	return chart.Figure{
		File:   "fitcentive_paid_users_deep_dive.png",
		Rows:   3,
		Cols:   4,
		Width:  20,
		Height: 16,
		Panels: []chart.Panel{revenue, gender, sources, ages, auth, challenges, devices, payments, trend, goals, geo, timing},
	}
}
