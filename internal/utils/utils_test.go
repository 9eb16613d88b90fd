package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount(" 150.50 ")
	require.NoError(t, err)
	assert.Equal(t, 150.50, v)

	for _, bad := range []string{"", "abc", "12abc", "NaN", "Inf"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "Rs.1500.00", FormatAmount("Rs.", 1500))
	assert.Equal(t, "-$3.50", FormatAmount(" $ ", -3.5))
}

func TestParseSessionDateTime(t *testing.T) {
	for _, s := range []string{"2024-05-01T10:00", "2024-05-01T10:00:30", "2024-05-01 10:00:30", "2024-05-01T10:00:30.5Z"} {
		_, err := ParseSessionDateTime(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseSessionDateTime("tomorrow")
	assert.Error(t, err)
}

func TestRequestIDContext(t *testing.T) {
	assert.Equal(t, "", RequestIDFrom(context.Background()))
	assert.Equal(t, "r-1", RequestIDFrom(WithRequestID(context.Background(), "r-1")))
}
