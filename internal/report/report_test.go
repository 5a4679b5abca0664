package report

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitcentive-growth-report/internal/dataset"
	"fitcentive-growth-report/internal/stats"
)

func TestSummarizeDemographics(t *testing.T) {
	snap := dataset.Default()
	d, err := SummarizeDemographics(snap.Demographics, snap.AgeBuckets)
	require.NoError(t, err)

	assert.Equal(t, 89.0, d.Total)
	require.Len(t, d.Days, 2)
	assert.Equal(t, stats.Total{Key: "2025-09-18", Value: 45}, d.Days[0])
	assert.Equal(t, stats.Total{Key: "2025-09-19", Value: 44}, d.Days[1])
	assert.InDelta(t, -2.22, d.DailyChange, 0.01)

	fb, ok := d.Source("facebook")
	require.True(t, ok)
	assert.Equal(t, 51.0, fb.Users)
	assert.InDelta(t, (35*39.8+16*39.4)/51, fb.AvgAge, 1e-9)
	assert.InDelta(t, 39.67, fb.AvgAge, 0.01)
	assert.Equal(t, "facebook", d.Sources[0].Source)
	assert.Equal(t, "instagram", d.Sources[1].Source)

	assert.Equal(t, 59.0, d.Female)
	assert.Equal(t, 21.0, d.Male)
	assert.Equal(t, 9.0, d.Unknown)
	assert.InDelta(t, 34.48, d.AvgAge, 0.01)
}

func TestQualityScoreOfSingleRowSourceIsUserCount(t *testing.T) {
	snap := dataset.Default()
	d, err := SummarizeDemographics(snap.Demographics, snap.AgeBuckets)
	require.NoError(t, err)

	for _, name := range []string{"Unknown", "app_store", "youtube", "strava"} {
		s, ok := d.Source(name)
		require.True(t, ok, name)
		assert.Equal(t, s.Users, s.QualityScore, name)
	}
	fb, _ := d.Source("facebook")
	assert.Greater(t, fb.QualityScore, fb.Users)
}

func TestPivotsKeepGrandTotal(t *testing.T) {
	snap := dataset.Default()
	d, err := SummarizeDemographics(snap.Demographics, snap.AgeBuckets)
	require.NoError(t, err)
	assert.Equal(t, d.Total, d.UsersBySourceDay.Total())
	assert.Equal(t, d.Male+d.Female+d.Unknown, d.GenderBySource.Total())
	assert.Equal(t, []string{"Under 18", "18-24", "25-34", "35-44", "45-54", "55+"}, d.AgesBySource.Columns)

	s, err := SummarizeLeadSources(snap.DailySignups, snap.PaidDays)
	require.NoError(t, err)
	assert.Equal(t, 426.0, s.Total)
	assert.Equal(t, s.Total, s.ByDate.Total())
	assert.Equal(t, []string{"facebook", "instagram", "tiktok", "app_store", "friends_family", "Unknown", "youtube"}, s.ByDate.Columns[:7])
}

func TestSummarizeLeadSources(t *testing.T) {
	snap := dataset.Default()
	s, err := SummarizeLeadSources(snap.DailySignups, snap.PaidDays)
	require.NoError(t, err)

	assert.Equal(t, "2025-09-14", s.From)
	assert.Equal(t, "2025-09-25", s.To)
	assert.Equal(t, stats.Total{Key: "facebook", Value: 182}, s.BySource[0])
	assert.Equal(t, 89.0, s.PaidTotal)
	assert.InDelta(t, 4.45, s.PaidMean, 1e-9)
	assert.Equal(t, "2025-09-10", s.PeakDay)
	assert.Equal(t, 10.0, s.PeakUsers)
	assert.Equal(t, "2025-09-06", s.PaidByDay[0].Key)
	assert.Equal(t, []string{"Unknown"}, s.PaidSources)
}

func TestSummarizePayments(t *testing.T) {
	p, err := SummarizePayments(dataset.Default().Regions)
	require.NoError(t, err)

	assert.Equal(t, 78.0, p.Payers)
	assert.Equal(t, 2485.0, p.Revenue)
	assert.Equal(t, "$31.86", money(p.Revenue/p.Payers))
	assert.Equal(t, "$31.86", money(p.ARPU))
	assert.Equal(t, "United States (Eastern)", p.TopRevenue.Region)
	assert.Equal(t, "United States (Eastern)", p.TopUsers.Region)
	assert.Equal(t, "Pacific", p.TopRPU.Region)
	assert.Equal(t, "Asia", p.BottomRPU.Region)
	assert.InDelta(t, 43.0/29, p.Regions[0].PaymentsPerUser, 1e-9)
}

func TestEmptyInputReportsNoData(t *testing.T) {
	_, err := SummarizeDemographics(nil, nil)
	assert.ErrorIs(t, err, stats.ErrNoData)

	zero := []dataset.Signup{{Date: "2025-09-18", Source: "facebook"}}
	_, err = SummarizeDemographics(zero, nil)
	assert.ErrorIs(t, err, stats.ErrNoData)

	_, err = SummarizeLeadSources(zero, nil)
	assert.ErrorIs(t, err, stats.ErrNoData)

	one := []dataset.Signup{{Date: "2025-09-18", Source: "facebook", Users: 3}}
	_, err = SummarizeLeadSources(one, nil)
	assert.ErrorIs(t, err, stats.ErrNoData)

	_, err = SummarizePayments(nil)
	assert.ErrorIs(t, err, stats.ErrNoData)
	_, err = SummarizePayments([]dataset.RegionPayment{{Region: "Europe", Revenue: 10}})
	assert.ErrorIs(t, err, stats.ErrNoData)

	_, err = SummarizePaidUsers(dataset.PaidProfile{}, time.Now(), 1)
	assert.ErrorIs(t, err, stats.ErrNoData)

	snap := dataset.Default()
	snap.SignupAuth = nil
	_, err = Build("lead-demographics", snap, Options{})
	assert.ErrorIs(t, err, stats.ErrNoData)
}

func TestAgeBucketsOutsideKnownBracketsReportNoData(t *testing.T) {
	snap := dataset.Default()
	snap.AgeBuckets = []dataset.AgeBucket{{Date: "2025-09-18", Source: "facebook", Bucket: "65+", Users: 3}}

	_, err := SummarizeDemographics(snap.Demographics, snap.AgeBuckets)
	assert.ErrorIs(t, err, stats.ErrNoData)

	_, err = Build("lead-demographics", snap, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, stats.ErrNoData)
	assert.Contains(t, err.Error(), "age buckets outside")
}

func TestMixedDateFormatsShareOneDay(t *testing.T) {
	rows := []dataset.Signup{
		{Date: "2025-09-18", Source: "facebook", Users: 10, AvgAge: 40},
		{Date: "2025-09-18T00:00:00.000Z", Source: "tiktok", Users: 5, AvgAge: 22},
		{Date: "2025-09-19", Source: "facebook", Users: 20, AvgAge: 38},
	}
	buckets := []dataset.AgeBucket{{Date: "2025-09-18", Source: "facebook", Bucket: "25-34", Users: 10}}

	d, err := SummarizeDemographics(rows, buckets)
	require.NoError(t, err)
	require.Len(t, d.Days, 2)
	assert.Equal(t, stats.Total{Key: "2025-09-18", Value: 15}, d.Days[0])
	assert.InDelta(t, 33.33, d.DailyChange, 0.01)
	assert.Equal(t, []string{"2025-09-18", "2025-09-19"}, d.UsersBySourceDay.Columns)
	assert.Equal(t, "2025-09-18T00:00:00.000Z", rows[1].Date)

	s, err := SummarizeLeadSources(rows, dataset.Default().PaidDays)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-09-18", "2025-09-19"}, s.ByDate.Rows)
	assert.Equal(t, "2025-09-18", s.From)
}

func TestBuilderKeepsFirstFormattingError(t *testing.T) {
	var b builder
	assert.Equal(t, "1.48x", b.ratio(43, 29))
	assert.Equal(t, "57.3%", b.pct(51, 89))
	_, err := b.done()
	require.NoError(t, err)

	b.pct(1, 0)
	b.ratio(2, 0)
	_, err = b.done()
	require.Error(t, err)
	assert.ErrorIs(t, err, stats.ErrNoData)
	assert.Contains(t, err.Error(), "percentage of 1 in 0")
}

func TestSimulatedTrendIsReproducible(t *testing.T) {
	asOf := time.Date(2025, 9, 25, 15, 4, 0, 0, time.UTC)
	first := SimulateRevenueTrend(asOf, 42, TrendDays)
	second := SimulateRevenueTrend(asOf, 42, TrendDays)
	other := SimulateRevenueTrend(asOf, 7, TrendDays)

	require.Len(t, first, TrendDays)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Equal(t, "2025-08-27", first[0].Key)
	assert.Equal(t, "2025-09-25", first[TrendDays-1].Key)
	for _, day := range first {
		assert.GreaterOrEqual(t, day.Value, 0.0)
	}
}

func TestClaimsFlagNarrativeMismatches(t *testing.T) {
	snap := dataset.Default()
	labels := func(claims []Claim) []string {
		out := make([]string, len(claims))
		for i, c := range claims {
			out[i] = c.Label
		}
		return out
	}

	demo, err := Build("lead-demographics", snap, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Facebook average age"}, labels(demo.Mismatches()))

	payments, err := Build("payments", snap, Options{})
	require.NoError(t, err)
	assert.Empty(t, payments.Mismatches())

	paid, err := Build("paid-users", snap, Options{TrendSeed: 42})
	require.NoError(t, err)
	assert.Equal(t, []string{"Average age", "Average payment"}, labels(paid.Mismatches()))

	snap.Regions[0].RevenuePerUser = 40
	payments, err = Build("payments", snap, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"United States (Eastern) revenue per user"}, labels(payments.Mismatches()))
}

func TestBuildAllProducesValidFigures(t *testing.T) {
	snap := dataset.Default()
	files := map[string]bool{}
	for _, name := range Names() {
		r, err := Build(name, snap, Options{TrendSeed: 42})
		require.NoError(t, err, name)
		assert.Equal(t, name, r.Name)
		require.NotEmpty(t, r.Figures, name)
		for _, fig := range r.Figures {
			require.NoError(t, fig.Validate(), fig.File)
			assert.False(t, files[fig.File], "duplicate output %s", fig.File)
			files[fig.File] = true
		}
	}
	assert.Len(t, files, 5)

	_, err := Build("weekly", snap, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report")
}

func TestPaidUsersAsOfDefaultsToLatestDate(t *testing.T) {
	r, err := Build("paid-users", dataset.Default(), Options{TrendSeed: 1})
	require.NoError(t, err)
	assert.Equal(t, "2025-09-25", r.AsOf)

	m, ok := r.Metric("arpu")
	require.True(t, ok)
	assert.Equal(t, "$32.69", m.Display)
}

func TestPrint(t *testing.T) {
	r, err := Build("lead-demographics", dataset.Default(), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	Print(&buf, r)
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "FITCENTIVE LEAD SOURCE ANALYSIS - 2025-09-18 to 2025-09-19\n"))
	assert.Contains(t, out, "Total New Users: 89")
	assert.Contains(t, out, "Sep 18: 45 users | Sep 19: 44 users")
	assert.Contains(t, out, "Daily Change: -2.2%")
	assert.Contains(t, out, "facebook is the dominant lead source (57.3% of all signups)")
	assert.Contains(t, out, "MISMATCH Facebook average age: stated 39.6, data gives 39.67")

	payments, err := Build("payments", dataset.Default(), Options{})
	require.NoError(t, err)
	buf.Reset()
	Print(&buf, payments)
	assert.Contains(t, buf.String(), "Average Revenue per User: $31.86")
	assert.Contains(t, buf.String(), "All 19 published figures match the data.")
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$2,190.00", money(2190))
	assert.Equal(t, "$920.00", money(920))
	assert.Equal(t, "$1,234,567.89", money(1234567.891))
	assert.Equal(t, "-$5.50", money(-5.5))
	assert.Equal(t, "Improve Longevity", titleWords("improve_longevity"))
	assert.Equal(t, "Élan Vital", titleWords("élan_vital"))
	assert.Equal(t, "Zoë Åkesson-Li", truncate("Zoë Åkesson-Lindqvist", 14))
	assert.Equal(t, "Ana", truncate("Ana", 15))
	assert.True(t, utf8.ValidString(truncate("Zoë Åkesson-Lindqvist", 3)))
	assert.Equal(t, "united_states_eastern", metricKey("United States (Eastern)"))
	assert.Equal(t, 25.0, mode([]float64{5, 25, 10, 25}))
	assert.Equal(t, "39.6", trimFloat(39.6))
}
