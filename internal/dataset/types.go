package dataset

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used by every dated record.
const DateLayout = "2006-01-02"

// Signup is one (date, source) bucket of new users. Daily count snapshots
// leave the demographic fields at zero.
type Signup struct {
	Date    string  `yaml:"date" json:"date"`
	Source  string  `yaml:"source" json:"source"`
	Users   int     `yaml:"users" json:"users"`
	Male    int     `yaml:"male,omitempty" json:"male,omitempty"`
	Female  int     `yaml:"female,omitempty" json:"female,omitempty"`
	Unknown int     `yaml:"unknown,omitempty" json:"unknown,omitempty"`
	AvgAge  float64 `yaml:"avg_age,omitempty" json:"avg_age,omitempty"`
}

// AgeBucket counts users of one source falling into one age bracket on one day.
type AgeBucket struct {
	Date   string `yaml:"date" json:"date"`
	Source string `yaml:"source" json:"source"`
	Bucket string `yaml:"bucket" json:"bucket"`
	Users  int    `yaml:"users" json:"users"`
}

// PaidDay counts users who paid on a given day.
type PaidDay struct {
	Date      string `yaml:"date" json:"date"`
	Source    string `yaml:"source" json:"source"`
	PaidUsers int    `yaml:"paid_users" json:"paid_users"`
}

// RegionPayment is the payment summary of one region. AvgPayment and
// RevenuePerUser arrive pre-computed and are not tied to the raw counts.
type RegionPayment struct {
	Region         string  `yaml:"region" json:"region"`
	Payers         int     `yaml:"payers" json:"payers"`
	Payments       int     `yaml:"payments" json:"payments"`
	Revenue        float64 `yaml:"revenue" json:"revenue"`
	AvgPayment     float64 `yaml:"avg_payment" json:"avg_payment"`
	RevenuePerUser float64 `yaml:"revenue_per_user" json:"revenue_per_user"`
}

// Count is one labelled tally. Slices of Count keep their literal order.
type Count struct {
	Label string `yaml:"label" json:"label"`
	Count int    `yaml:"count" json:"count"`
}

// Payer is one of the top paying customers.
type Payer struct {
	Name     string  `yaml:"name" json:"name"`
	Amount   float64 `yaml:"amount" json:"amount"`
	Payments int     `yaml:"payments" json:"payments"`
	Source   string  `yaml:"source" json:"source"`
	Age      int     `yaml:"age" json:"age"`
	Gender   string  `yaml:"gender" json:"gender"`
}

// PaidProfile is the hand-collected deep dive into paying customers.
type PaidProfile struct {
	TotalPaidUsers     int     `yaml:"total_paid_users" json:"total_paid_users"`
	TotalRevenue       float64 `yaml:"total_revenue" json:"total_revenue"`
	StatedARPU         float64 `yaml:"stated_arpu" json:"stated_arpu"`
	RecentPayments30d  int     `yaml:"recent_payments_30d" json:"recent_payments_30d"`
	RecentRevenue30d   float64 `yaml:"recent_revenue_30d" json:"recent_revenue_30d"`
	RecentPayers30d    int     `yaml:"recent_payers_30d" json:"recent_payers_30d"`
	StatedAvgAge       float64 `yaml:"stated_avg_age" json:"stated_avg_age"`
	MinAge             int     `yaml:"min_age" json:"min_age"`
	MaxAge             int     `yaml:"max_age" json:"max_age"`
	StatedAvgPayment   float64 `yaml:"stated_avg_payment" json:"stated_avg_payment"`
	MultiPaymentUsers  int     `yaml:"multi_payment_users" json:"multi_payment_users"`
	SameDayFirstPayers int     `yaml:"same_day_first_payers" json:"same_day_first_payers"`

	Gender         []Count   `yaml:"gender" json:"gender"`
	LeadSources    []Count   `yaml:"lead_sources" json:"lead_sources"`
	AuthMethods    []Count   `yaml:"auth_methods" json:"auth_methods"`
	TopPayers      []Payer   `yaml:"top_payers" json:"top_payers"`
	Challenges     []Count   `yaml:"challenges" json:"challenges"`
	Wearables      []Count   `yaml:"wearables" json:"wearables"`
	Timezones      []Count   `yaml:"timezones" json:"timezones"`
	Goals          []Count   `yaml:"goals" json:"goals"`
	Geography      []Count   `yaml:"geography" json:"geography"`
	FirstPayment   []Count   `yaml:"first_payment" json:"first_payment"`
	SampleAges     []float64 `yaml:"sample_ages" json:"sample_ages"`
	SamplePayments []float64 `yaml:"sample_payments" json:"sample_payments"`
}

// Snapshot bundles every frozen table the reports read.
type Snapshot struct {
	// Sept 18-19 signup demographics.
	Demographics     []Signup    `yaml:"demographics" json:"demographics"`
	AgeBuckets       []AgeBucket `yaml:"age_buckets" json:"age_buckets"`
	SignupAuth       []Count     `yaml:"signup_auth" json:"signup_auth"`
	SignupPaidUsers  int         `yaml:"signup_paid_users" json:"signup_paid_users"`
	ChallengeJoiners int         `yaml:"challenge_joiners" json:"challenge_joiners"`

	// Two-week daily signups and paid users per day.
	DailySignups []Signup  `yaml:"daily_signups" json:"daily_signups"`
	PaidDays     []PaidDay `yaml:"paid_days" json:"paid_days"`

	Regions []RegionPayment `yaml:"regions" json:"regions"`

	Paid PaidProfile `yaml:"paid_profile" json:"paid_profile"`
}

// ParseDay parses a record date, accepting either a plain day or a full
// RFC 3339 timestamp as exported by the database.
func ParseDay(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s", value, DateLayout)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// CanonicalDay rewrites a record date in DateLayout form, so a plain day and a
// timestamp on the same day compare equal.
func CanonicalDay(value string) (string, error) {
	t, err := ParseDay(value)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// CanonicalSignups returns a copy of rows with every date canonical.
func CanonicalSignups(rows []Signup) ([]Signup, error) {
	if rows == nil {
		return nil, nil
	}
	out := make([]Signup, len(rows))
	for i, r := range rows {
		day, err := CanonicalDay(r.Date)
		if err != nil {
			return nil, err
		}
		r.Date = day
		out[i] = r
	}
	return out, nil
}

// ShortDay renders a record date as MM/DD, the axis label the charts use.
func ShortDay(value string) string {
	t, err := ParseDay(value)
	if err != nil {
		return value
	}
	return t.Format("01/02")
}
