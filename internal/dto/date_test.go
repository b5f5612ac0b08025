package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2025-03-14":                "2025-03-14",
		"2025-03-14T10:30:00Z":      "2025-03-14",
		"2025-03-14T23:59:59+03:00": "2025-03-14",
		"2025-03-14T08:00:00.123Z":  "2025-03-14",
		"2025-03-14T08:00":          "2025-03-14",
		"2025-03-14 08:00:00":       "2025-03-14",
		"  2025-03-14 ":             "2025-03-14",
		"":                          "",
	}
	for in, want := range cases {
		got, err := NormalizeDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNormalizeDate_Invalid(t *testing.T) {
	for _, in := range []string{"14.03.2025", "2025-13-01", "yarın"} {
		_, err := NormalizeDate(in)
		assert.Error(t, err, in)
	}
}

func TestFormatDate_Zero(t *testing.T) {
	assert.Equal(t, "", FormatDate(time.Time{}))
}
