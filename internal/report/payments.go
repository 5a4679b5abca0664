package report

import (
	"fmt"
	"strings"

	"fitcentive-growth-report/internal/chart"
	"fitcentive-growth-report/internal/dataset"
	"fitcentive-growth-report/internal/stats"
)

// RegionSummary adds recomputed ratios to a region's supplied figures.
type RegionSummary struct {
	dataset.RegionPayment
	PaymentsPerUser float64 `json:"payments_per_user"`
	RevenueShare    float64 `json:"revenue_share_pct"`
	// Recomputed values of the supplied AvgPayment and RevenuePerUser.
	ActualAvgPayment     float64 `json:"actual_avg_payment"`
	ActualRevenuePerUser float64 `json:"actual_revenue_per_user"`
}

// Payments is the regional payment summary.
type Payments struct {
	Payers   float64         `json:"payers"`
	Payments float64         `json:"payments"`
	Revenue  float64         `json:"revenue"`
	ARPU     float64         `json:"arpu"`
	Regions  []RegionSummary `json:"regions"`

	TopRevenue RegionSummary `json:"top_revenue"`
	TopUsers   RegionSummary `json:"top_users"`
	TopRPU     RegionSummary `json:"top_rpu"`
	BottomRPU  RegionSummary `json:"bottom_rpu"`
}

// SummarizePayments totals the regional records and recomputes the derived
// columns next to the supplied ones.
func SummarizePayments(regions []dataset.RegionPayment) (Payments, error) {
	if len(regions) == 0 {
		return Payments{}, fmt.Errorf("regions: %w", stats.ErrNoData)
	}
	p := Payments{
		Payers:   stats.Sum(regions, func(r dataset.RegionPayment) float64 { return float64(r.Payers) }),
		Payments: stats.Sum(regions, func(r dataset.RegionPayment) float64 { return float64(r.Payments) }),
		Revenue:  stats.Sum(regions, func(r dataset.RegionPayment) float64 { return r.Revenue }),
	}
	if p.Revenue == 0 {
		return Payments{}, fmt.Errorf("revenue: %w", stats.ErrNoData)
	}
	arpu, err := stats.Ratio(p.Revenue, p.Payers)
	if err != nil {
		return Payments{}, fmt.Errorf("average revenue per user: %w", err)
	}
	p.ARPU = arpu

	for _, r := range regions {
		perUser, err := stats.Ratio(float64(r.Payments), float64(r.Payers))
		if err != nil {
			return Payments{}, fmt.Errorf("payments per user in %s: %w", r.Region, err)
		}
		avgPayment, err := stats.Ratio(r.Revenue, float64(r.Payments))
		if err != nil {
			return Payments{}, fmt.Errorf("average payment in %s: %w", r.Region, err)
		}
		revenueShare, err := stats.Percent(r.Revenue, p.Revenue)
		if err != nil {
			return Payments{}, fmt.Errorf("revenue share of %s: %w", r.Region, err)
		}
		p.Regions = append(p.Regions, RegionSummary{
			RegionPayment:        r,
			PaymentsPerUser:      perUser,
			RevenueShare:         revenueShare,
			ActualAvgPayment:     avgPayment,
			ActualRevenuePerUser: r.Revenue / float64(r.Payers),
		})
	}

	pick := func(val func(RegionSummary) float64, largest bool) RegionSummary {
		values := make([]float64, len(p.Regions))
		for i, r := range p.Regions {
			values[i] = val(r)
			if !largest {
				values[i] = -values[i]
			}
		}
		idx, _ := stats.ArgMax(values)
		return p.Regions[idx]
	}
	p.TopRevenue = pick(func(r RegionSummary) float64 { return r.Revenue }, true)
	p.TopUsers = pick(func(r RegionSummary) float64 { return float64(r.Payers) }, true)
	p.TopRPU = pick(func(r RegionSummary) float64 { return r.RevenuePerUser }, true)
	p.BottomRPU = pick(func(r RegionSummary) float64 { return r.RevenuePerUser }, false)
	return p, nil
}

// BuildPayments reports on paid users and revenue by region.
func BuildPayments(snap dataset.Snapshot, _ Options) (Report, error) {
	p, err := SummarizePayments(snap.Regions)
	if err != nil {
		return Report{}, err
	}
	b := newBuilder("payments", "FITCENTIVE GLOBAL PAYMENT ANALYSIS", "")

	b.metric("total_paid_users", p.Payers, "%.0f")
	b.metricText("total_revenue", p.Revenue, money(p.Revenue))
	b.metricText("arpu", p.ARPU, money(p.ARPU))
	for _, r := range p.Regions {
		key := metricKey(r.Region)
		b.metricText("revenue."+key, r.Revenue, money(r.Revenue))
		b.metric("payers."+key, float64(r.Payers), "%.0f")
		b.metricText("payments_per_user."+key, r.PaymentsPerUser, b.ratio(float64(r.Payments), float64(r.Payers)))
		b.shareMetric("revenue_share."+key, r.Revenue, p.Revenue)
	}

	b.section("EXECUTIVE SUMMARY",
		fmt.Sprintf("Total Paid Users: %.0f", p.Payers),
		fmt.Sprintf("Total Revenue: %s", money(p.Revenue)),
		fmt.Sprintf("Average Revenue per User: %s", money(p.ARPU)),
	)
	b.section("TOP PERFORMERS",
		fmt.Sprintf("Highest Revenue: %s (%s)", p.TopRevenue.Region, money(p.TopRevenue.Revenue)),
		fmt.Sprintf("Most Users: %s (%d users)", p.TopUsers.Region, p.TopUsers.Payers),
		fmt.Sprintf("Highest RPU: %s (%s)", p.TopRPU.Region, money(p.TopRPU.RevenuePerUser)),
	)
	breakdown := make([]string, len(p.Regions))
	for i, r := range p.Regions {
		breakdown[i] = fmt.Sprintf("%-24s | users %2d | payments %2d | revenue %9s | share %5s | %s per user",
			r.Region, r.Payers, r.Payments, money(r.Revenue), b.pct(r.Revenue, p.Revenue), b.ratio(float64(r.Payments), float64(r.Payers)))
	}
	b.section("REGION BREAKDOWN", breakdown...)
	b.section("KEY INSIGHTS", paymentsFooter(p))

	for _, r := range p.Regions {
		b.claim(r.Region+" average payment", r.AvgPayment, r.ActualAvgPayment, 0.01)
		b.claim(r.Region+" revenue per user", r.RevenuePerUser, r.ActualRevenuePerUser, 0.01)
	}
	b.claim("Highest revenue per user", 100, p.TopRPU.RevenuePerUser, 0.005)
	b.claim("Users in highest revenue-per-user region", 1, float64(p.TopRPU.Payers), 0)
	b.claim("Top region revenue", 920, p.TopRevenue.Revenue, 0.005)
	b.claim("Top region users", 29, float64(p.TopUsers.Payers), 0)
	b.claim("Lowest revenue per user", 15, p.BottomRPU.RevenuePerUser, 0.005)

	b.figure(paymentsFigure(p))
	return b.done()
}

func paymentsFooter(p Payments) string {
	return fmt.Sprintf("%s has highest Revenue/User (%s) with %d users. %s leads in total revenue (%s); %s leads in users (%d). %s has lowest RPU (%s) - growth opportunity!",
		p.TopRPU.Region, wholeMoney(p.TopRPU.RevenuePerUser), p.TopRPU.Payers,
		p.TopRevenue.Region, wholeMoney(p.TopRevenue.Revenue),
		p.TopUsers.Region, p.TopUsers.Payers,
		p.BottomRPU.Region, wholeMoney(p.BottomRPU.RevenuePerUser))
}

func wholeMoney(value float64) string {
	return strings.TrimSuffix(money(value), ".00")
}

func paymentsFigure(p Payments) chart.Figure {
	names := make([]string, len(p.Regions))
	revenue := make([]float64, len(p.Regions))
	payers := make([]float64, len(p.Regions))
	rpu := make([]float64, len(p.Regions))
	perUser := make([]float64, len(p.Regions))
	for i, r := range p.Regions {
		names[i] = r.Region
		revenue[i] = r.Revenue
		payers[i] = float64(r.Payers)
		rpu[i] = r.RevenuePerUser
		perUser[i] = r.PaymentsPerUser
	}
	ticks := splitWords(names, " ")
	colors := chart.Cycle([]string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FECA57", "#FF9FF3", "#54A0FF"}, len(names))
	bar := func(title, ylabel, label string, values []float64) chart.Panel {
		panel := chart.Single(chart.Bar, title, ticks, values)
		panel.XLabel, panel.YLabel = "Region", ylabel
		panel.Colors = colors
		panel.ValueLabel = label
		return panel
	}

	pie := chart.Single(chart.Pie, "Revenue Market Share", names, revenue)
	pie.Colors = colors

	table := chart.Panel{Kind: chart.Table, Title: "Key Metrics Summary", Cells: [][]string{
		{"Metric", "Value"},
		{"Total Paid Users", fmt.Sprintf("%.0f", p.Payers)},
		{"Total Revenue", money(p.Revenue)},
		{"Avg Revenue/User", money(p.ARPU)},
		{"Top Region (Revenue)", p.TopRevenue.Region},
		{"Top Region (Users)", p.TopUsers.Region},
		{"Highest RPU", p.TopRPU.Region},
	}}

	return chart.Figure{
		File:   "fitcentive_payment_dashboard.png",
		Title:  "Fitcentive Global Payment Analysis Dashboard",
		Footer: "KEY INSIGHTS: " + paymentsFooter(p),
		Rows:   2,
		Cols:   3,
		Width:  20,
		Height: 16,
		Panels: []chart.Panel{
			bar("Total Revenue by Region", "Revenue (USD)", "$%.0f", revenue),
			bar("Paid Users by Region", "Number of Users", "%.0f", payers),
			bar("Revenue per User by Region", "Revenue per User (USD)", "$%.2f", rpu),
			pie,
			bar("Avg Payments per User", "Payments per User", "%.2fx", perUser),
			table,
		},
	}
}
