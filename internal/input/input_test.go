package input

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hailcross/internal/hail"
)

const example = `19, 13, 30 @ -2,  1, -2
18, 19, 22 @ -1, -1, -2
20, 25, 34 @ -2, -2, -4
12, 31, 28 @ -1, -2, -1
20, 19, 15 @  1, -5, -3
`

func TestParse_Example(t *testing.T) {
	records, err := Parse(strings.NewReader(example))
	require.NoError(t, err)
	require.Len(t, records, 5)

	first := records[0]
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, [3]int64{19, 13, 30}, first.Pos)
	assert.Equal(t, [3]int64{-2, 1, -2}, first.Vel)
	assert.True(t, first.HasZ)

	stones := Hailstones(records)
	assert.Equal(t, hail.NewHailstone(19, 13, -2, 1), stones[0])
	assert.Equal(t, hail.NewHailstone(20, 19, 1, -5), stones[4])
}

func TestParse_LargeValues(t *testing.T) {
	records, err := Parse(strings.NewReader("237822270988608, 164539183264530, 381578606559948 @ 115, 346, -342\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, hail.NewHailstone(237822270988608, 164539183264530, 115, 346), records[0].Hailstone())
}

func TestParse_TwoDimensional(t *testing.T) {
	records, err := Parse(strings.NewReader("1, 2 @ 3, 4"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].HasZ)
	assert.Equal(t, hail.NewHailstone(1, 2, 3, 4), records[0].Hailstone())
}

func TestParse_SkipsBlankAndComments(t *testing.T) {
	src := "# example\n\n1, 2, 3 @ 4, 5, 6\n   \n7, 8, 9 @ 1, 1, 1\n"
	records, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 3, records[0].Line)
	assert.Equal(t, 5, records[1].Line)
}

func TestParse_FullWidthCharacters(t *testing.T) {
	// Full-width digits, commas and at-sign fold to ASCII under NFKC.
	records, err := Parse(strings.NewReader("１９，　１３ ＠ －２， １\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, hail.NewHailstone(19, 13, -2, 1), records[0].Hailstone())
}

func TestParse_Empty(t *testing.T) {
	records, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"missing separator", "1, 2, 3 4, 5, 6", 1, `missing "@"`},
		{"bad integer", "1, x, 3 @ 4, 5, 6", 1, `invalid integer "x"`},
		{"too many components", "1, 2, 3, 4 @ 1, 2, 3", 1, "expected 2 or 3 components"},
		{"mixed dimensions", "1, 2, 3 @ 1, 2", 1, "different dimensions"},
		{"error on later line", "1, 2 @ 3, 4\n\n5, 6 @ 7", 3, "velocity"},
		{"overflow", "9223372036854775808, 0 @ 1, 1", 1, "position"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.line, perr.Line)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseLine(t *testing.T) {
	rec, err := ParseLine("  18, 19, 22 @ -1, -1, -2 ")
	require.NoError(t, err)
	assert.Equal(t, hail.NewHailstone(18, 19, -1, -1), rec.Hailstone())

	_, err = ParseLine("nonsense")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "separator")
}
