package chunk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		parts int
		want  []ByteRange
	}{
		{
			name:  "empty input",
			total: 0,
			parts: 4,
			want:  []ByteRange{},
		},
		{
			name:  "single part",
			total: 11,
			parts: 1,
			want:  []ByteRange{{0, 11}},
		},
		{
			name:  "remainder goes to last range",
			total: 11,
			parts: 2,
			want:  []ByteRange{{0, 6}, {6, 5}},
		},
		{
			name:  "even split",
			total: 12,
			parts: 3,
			want:  []ByteRange{{0, 4}, {4, 4}, {8, 4}},
		},
		{
			name:  "parts overshoot stops early",
			total: 10,
			parts: 4,
			want:  []ByteRange{{0, 3}, {3, 3}, {6, 3}, {9, 1}},
		},
		{
			name:  "more parts than needed",
			total: 5,
			parts: 4,
			want:  []ByteRange{{0, 2}, {2, 2}, {4, 1}},
		},
		{
			name:  "largest length does not overflow",
			total: math.MaxInt64,
			parts: 2,
			want:  []ByteRange{{0, 1 << 62}, {1 << 62, 1<<62 - 1}},
		},
		{
			name:  "largest length in many parts",
			total: math.MaxInt64,
			parts: 3,
			want: []ByteRange{
				{0, 3074457345618258603},
				{3074457345618258603, 3074457345618258603},
				{6148914691236517206, 3074457345618258601},
			},
		},
		{
			name:  "more parts than bytes",
			total: 3,
			parts: 10,
			want:  []ByteRange{{0, 1}, {1, 1}, {2, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Plan(tt.total, tt.parts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlan_Invalid(t *testing.T) {
	_, err := Plan(10, 0)
	assert.ErrorIs(t, err, ErrInvalidParts)

	_, err = Plan(-1, 2)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestPlan_Covers(t *testing.T) {
	for total := int64(0); total <= 64; total++ {
		for parts := 1; parts <= 16; parts++ {
			ranges, err := Plan(total, parts)
			require.NoError(t, err)
			require.LessOrEqual(t, len(ranges), parts)

			var next int64
			for i, r := range ranges {
				require.Equalf(t, next, r.Offset, "total=%d parts=%d range=%d not contiguous", total, parts, i)
				require.Positivef(t, r.Length, "total=%d parts=%d range=%d empty", total, parts, i)
				if i > 0 {
					require.LessOrEqual(t, r.Length, ranges[0].Length)
				}
				next = r.End()
			}
			require.Equalf(t, total, next, "total=%d parts=%d not covered", total, parts)
		}
	}
}
