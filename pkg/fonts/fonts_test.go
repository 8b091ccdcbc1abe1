package fonts

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureScalesWithTextAndSize(t *testing.T) {
	f := Default()

	short := f.Measure("dnaA", 10)
	long := f.Measure("dnaA dnaN", 10)
	big := f.Measure("dnaA", 20)

	assert.Greater(t, short.Width, 0.0)
	assert.Greater(t, long.Width, short.Width)
	assert.InDelta(t, 2*short.Width, big.Width, 1)
	assert.Greater(t, short.Ascent, 0.0)
	assert.Greater(t, big.Height(), short.Height())
}

func TestMeasureDeterministic(t *testing.T) {
	a := Default().Measure("origin of replication", 12)
	b := Default().Measure("origin of replication", 12)
	assert.Equal(t, a, b)
}

func TestEmptyTextHasNoWidth(t *testing.T) {
	assert.Equal(t, 0.0, Default().Measure("", 10).Width)
}

func TestNewFace(t *testing.T) {
	face, err := Default().NewFace(14)
	require.NoError(t, err)
	assert.Greater(t, face.Metrics().Height.Ceil(), 0)
}

func TestRegularTTFBase64(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(RegularTTFBase64())
	require.NoError(t, err)
	assert.Equal(t, RegularTTF(), data)
}

func TestPoint(t *testing.T) {
	p := Point(1.5, 2)
	assert.Equal(t, 96, int(p.X))
	assert.Equal(t, 128, int(p.Y))
}
