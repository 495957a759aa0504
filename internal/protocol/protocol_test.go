package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefix(t *testing.T) {
	day := time.Date(2023, 12, 1, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "OC-20231201", Prefix(day))
}

func TestNext(t *testing.T) {
	testCases := []struct {
		name      string
		prefix    string
		last      string
		expected  string
		expectErr bool
	}{
		{
			name:     "first protocol of the day",
			prefix:   "OC-20231201",
			last:     "",
			expected: "OC-20231201-0001",
		},
		{
			name:     "increments the last sequence",
			prefix:   "OC-20231201",
			last:     "OC-20231201-0041",
			expected: "OC-20231201-0042",
		},
		{
			name:     "crosses the padding boundary",
			prefix:   "OC-20231201",
			last:     "OC-20231201-0999",
			expected: "OC-20231201-1000",
		},
		{
			name:     "widens past four digits instead of wrapping",
			prefix:   "OC-20231201",
			last:     "OC-20231201-9999",
			expected: "OC-20231201-10000",
		},
		{
			name:      "rejects a malformed last protocol",
			prefix:    "OC-20231201",
			last:      "OC-20231201-",
			expectErr: true,
		},
		{
			name:      "rejects a non-numeric suffix",
			prefix:    "OC-20231201",
			last:      "OC-20231201-00x1",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Next(tc.prefix, tc.last)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSequence(t *testing.T) {
	n, err := Sequence("OC-20231201-0042")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = Sequence("not-a-protocol-")
	assert.Error(t, err)

	_, err = Sequence("OC-20231201-0000")
	assert.Error(t, err, "sequences are 1-based")
}
