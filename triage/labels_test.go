package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgoLabel(t *testing.T) {
	asOf := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		at   time.Time
		want string
	}{
		{asOf, "today"},
		{asOf.Add(-23 * time.Hour), "today"},
		{asOf.Add(-24 * time.Hour), "1d ago"},
		{asOf.Add(-47 * time.Hour), "1d ago"},
		{asOf.AddDate(0, 0, -9), "9d ago"},
		{asOf.Add(time.Hour), "today"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, agoLabel(asOf, tt.at), tt.at.String())
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "USD 0", FormatMoney(0, "USD"))
	assert.Equal(t, "USD 999", FormatMoney(999, "USD"))
	assert.Equal(t, "EUR 1,000", FormatMoney(1000, "EUR"))
	assert.Equal(t, "1,234,567", FormatMoney(1234567, ""))
	assert.Equal(t, "USD -12,500", FormatMoney(-12500, "USD"))
}
