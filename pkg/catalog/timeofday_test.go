package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTime(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"0.15.00.000000-05:00", "12:15 AM"},
		{"00.00.00.000000-05:00", "12:00 AM"},
		{"12.05.00.000000-05:00", "12:05 PM"},
		{"5.30.00.000000-05:00", "5:30 AM"},
		{"05.30.00.000000+01:00", "5:30 AM"},
		{"11.59.00.000000-05:00", "11:59 AM"},
		{"13.00.00.000000-05:00", "1:00 PM"},
		{"17.30.00.000000-05:00", "5:30 PM"},
		{"23.59.00.000000-05:00", "11:59 PM"},
		{"9.00", "9:00 AM"},
	}
	for _, tc := range cases {
		got, err := FormatTime(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestFormatTimeRejects(t *testing.T) {
	for _, in := range []string{"", "TBA", "24.00.00", "-1.00.00", "10.5.00", "10.60.00", "ab.cd"} {
		_, err := FormatTime(in)
		assert.Error(t, err, in)
	}
}
