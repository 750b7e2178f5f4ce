package scrappey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		opts     Options
		expected Options
		notice   bool
	}{
		{
			name:     "legacy session id",
			opts:     Options{FieldSessionId: "abc"},
			expected: Options{FieldSession: "abc"},
			notice:   true,
		},
		{
			name:     "legacy session id wins",
			opts:     Options{FieldSessionId: "abc", FieldSession: "def", FieldUrl: "https://x"},
			expected: Options{FieldSession: "abc", FieldUrl: "https://x"},
			notice:   true,
		},
		{
			name:     "canonical",
			opts:     Options{FieldSession: "abc"},
			expected: Options{FieldSession: "abc"},
		},
		{
			// only string ids were ever accepted, anything else is passed on as-is
			name:     "legacy session id type",
			opts:     Options{FieldSessionId: 1},
			expected: Options{FieldSessionId: 1},
		},
		{
			name:     "nil",
			opts:     nil,
			expected: Options{},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			out, notices := Normalize(test.opts)
			require.Equal(t, test.expected, out)
			if test.notice {
				require.Len(t, notices, 1)
				require.Equal(t, NoticeLegacySessionId, notices[0].Code)
			} else {
				require.Empty(t, notices)
			}
		})
	}
}

func TestNormalizeDoesNotMutate(t *testing.T) {
	opts := Options{FieldSessionId: "abc"}
	out, _ := Normalize(opts)
	require.Equal(t, Options{FieldSessionId: "abc"}, opts)

	again, notices := Normalize(out)
	require.Equal(t, out, again)
	require.Empty(t, notices)
}
