package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSnapshotShape(t *testing.T) {
	snap := Default()

	assert.Len(t, snap.Demographics, 12)
	assert.Len(t, snap.AgeBuckets, 21)
	assert.Len(t, snap.DailySignups, 67)
	assert.Len(t, snap.PaidDays, 20)
	assert.Len(t, snap.Regions, 7)
	assert.Len(t, snap.Paid.SampleAges, 67)
	assert.Len(t, snap.Paid.SamplePayments, 63)
	require.NoError(t, snap.Validate())
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	first := Default()
	first.Demographics[0].Users = 999
	first.Paid.SamplePayments[0] = -1

	second := Default()
	assert.Equal(t, 35, second.Demographics[0].Users)
	assert.Equal(t, 25.0, second.Paid.SamplePayments[0])
}

func TestDecodeOverridesOnlyPresentSections(t *testing.T) {
	doc := `
regions:
  - region: Mars
    payers: 2
    payments: 4
    revenue: 80
    avg_payment: 20
    revenue_per_user: 40
paid_profile:
  total_paid_users: 70
`
	snap, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, snap.Regions, 1)
	assert.Equal(t, "Mars", snap.Regions[0].Region)
	assert.Equal(t, 70, snap.Paid.TotalPaidUsers)
	assert.Equal(t, 2190.0, snap.Paid.TotalRevenue)
	assert.Len(t, snap.Demographics, 12)
}

func TestDecodeEmptyDocumentKeepsDefaults(t *testing.T) {
	snap, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), snap)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader("region_list: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode yaml")
}

func TestDecodeRejectsBadDatesAndCounts(t *testing.T) {
	doc := `
daily_signups:
  - date: 18/09/2025
    source: facebook
    users: 3
  - date: 2025-09-19
    source: ""
    users: -1
`
	_, err := Decode(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `daily_signups[0]: invalid date "18/09/2025"`)
	assert.Contains(t, err.Error(), "daily_signups[1]: empty source")
	assert.Contains(t, err.Error(), "daily_signups[1]: negative count")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("signup_paid_users: 3\n"), 0o644))

	snap, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.SignupPaidUsers)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read dataset")
}

func TestParseDayAcceptsTimestamps(t *testing.T) {
	day, err := ParseDay("2025-09-25T00:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-09-25", day.Format(DateLayout))

	assert.Equal(t, "09/18", ShortDay("2025-09-18"))
	assert.Equal(t, "bogus", ShortDay("bogus"))
}

func TestDecodeCanonicalizesDates(t *testing.T) {
	doc := `
daily_signups:
  - {date: "2025-09-18", source: facebook, users: 10}
  - {date: "2025-09-18T00:00:00.000Z", source: tiktok, users: 5}
paid_days:
  - {date: "2025-09-10T00:00:00.000Z", source: Unknown, paid_users: 4}
`
	snap, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "2025-09-18", snap.DailySignups[0].Date)
	assert.Equal(t, "2025-09-18", snap.DailySignups[1].Date)
	assert.Equal(t, "2025-09-10", snap.PaidDays[0].Date)
}

func TestCanonicalSignupsLeavesInputAlone(t *testing.T) {
	rows := []Signup{{Date: "2025-09-18T00:00:00.000Z", Source: "facebook", Users: 1}}
	out, err := CanonicalSignups(rows)
	require.NoError(t, err)
	assert.Equal(t, "2025-09-18", out[0].Date)
	assert.Equal(t, "2025-09-18T00:00:00.000Z", rows[0].Date)

	_, err = CanonicalSignups([]Signup{{Date: "yesterday"}})
	assert.Error(t, err)

	none, err := CanonicalSignups(nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}
