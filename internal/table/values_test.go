package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMissing(t *testing.T) {
	for _, s := range []string{"", " ", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "NULL", "null", "None", "<NA>", "#N/A"} {
		assert.True(t, IsMissing(s), "%q should be missing", s)
	}
	for _, s := range []string{"0", "N", "none ok", "Y", "7.1"} {
		assert.False(t, IsMissing(s), "%q should not be missing", s)
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"7.25", 7.25, true},
		{" 12 ", 12, true},
		{"-0.5", -0.5, true},
		{"1e3", 1000, true},
		{"", 0, false},
		{"NaN", 0, false},
		{"abc", 0, false},
		{"7.1 mg", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseFloat(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2019-05-14", "2019-05-14"},
		{"2019-05-14 10:30:00", "2019-05-14"},
		{"2019-05-14T10:30:00Z", "2019-05-14"},
		{"5/14/2019", "2019-05-14"},
		{"05/14/2019 10:30", "2019-05-14"},
		{"14-May-2019", "2019-05-14"},
		{"May 14, 2019", "2019-05-14"},
		{"2019/05/14", "2019-05-14"},
		{"not a date", ""},
		{"", ""},
		{"NA", ""},
		{"2019-13-40", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.in))
		})
	}
}

func TestParseDate_Year(t *testing.T) {
	d, ok := ParseDate("3/1/2021")
	assert.True(t, ok)
	assert.Equal(t, 2021, d.Year())
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "15", FormatFloat(15))
	assert.Equal(t, "7.25", FormatFloat(7.25))
	assert.Equal(t, "-0.5", FormatFloat(-0.5))
}
