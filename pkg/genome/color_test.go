package genome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#000", Black},
		{"#ffffff", White},
		{"#0000ff80", Color{B: 0xff, A: 0x80}},
		{"#1A2b3C", RGB(0x1a, 0x2b, 0x3c)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseColor("blue")
	assert.Error(t, err)
}

func TestColorText(t *testing.T) {
	b, err := RGB(0x12, 0x34, 0x56).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "#123456", string(b))

	var c Color
	require.NoError(t, c.UnmarshalText([]byte("#12345678")))
	assert.Equal(t, "#12345678", c.Hex())
}

func TestColorOr(t *testing.T) {
	assert.Equal(t, White, Color{}.Or(White))
	assert.Equal(t, Black, Black.Or(White))
	assert.False(t, Color{}.IsSet())
}

func TestEnumText(t *testing.T) {
	var p LegendPosition
	require.NoError(t, p.UnmarshalText([]byte("middle-right-of-center")))
	assert.Equal(t, MiddleRightOfCenter, p)

	var d Decoration
	require.NoError(t, d.UnmarshalText([]byte("counterclockwise-arrow")))
	assert.Equal(t, CounterclockwiseArrow, d)
	assert.Error(t, d.UnmarshalText([]byte("zigzag")))
	assert.Equal(t, CounterclockwiseArrow, d, "failed parse leaves the value alone")

	var s Strand
	require.NoError(t, s.UnmarshalText([]byte("reverse")))
	assert.Equal(t, "reverse", s.String())

	var a Alignment
	require.NoError(t, a.UnmarshalText([]byte("center")))
	assert.Equal(t, AlignCenter, a)
	assert.Equal(t, "unknown", Alignment(7).String())
}
