package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitcentive-growth-report/internal/log"
)

func TestSanitizeSchema(t *testing.T) {
	schema, err := sanitizeSchema("  fitcentive_reports ")
	require.NoError(t, err)
	assert.Equal(t, "fitcentive_reports", schema)

	for _, bad := range []string{"", "  ", "1reports", "reports;drop", "public.reports", "my-schema"} {
		_, err := sanitizeSchema(bad)
		assert.Error(t, err, bad)
	}
}

func TestNullString(t *testing.T) {
	assert.False(t, nullString("   ").Valid)
	value := nullString("weekly")
	assert.True(t, value.Valid)
	assert.Equal(t, "weekly", value.String)
}

func TestNullDate(t *testing.T) {
	empty, err := nullDate("")
	require.NoError(t, err)
	assert.False(t, empty.Valid)

	day, err := nullDate("2025-09-25T00:00:00.000Z")
	require.NoError(t, err)
	require.True(t, day.Valid)
	assert.Equal(t, time.Date(2025, 9, 25, 0, 0, 0, 0, time.UTC), day.Time)

	_, err = nullDate("25/09/2025")
	assert.Error(t, err)
}

func TestOpenRejectsBadConfigBeforeConnecting(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, Config{Schema: DefaultSchema}, log.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URL missing")

	_, err = Open(ctx, Config{URL: "postgres://localhost/none", Schema: "bad-name"}, log.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schema name")
}
