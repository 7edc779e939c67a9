package tg_charts

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePnLChart(t *testing.T) {
	bars := []Bar{
		{Label: "So11...", Value: 12500},
		{Label: "Toke...", Value: -430},
		{Label: "EPjF...", Value: 0},
	}

	data, err := GeneratePnLChart("Top traders 7d", bars)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, chartWidth, img.Bounds().Dx())
	assert.Equal(t, chartHeight, img.Bounds().Dy())
}

func TestGeneratePnLChart_NoBars(t *testing.T) {
	_, err := GeneratePnLChart("empty", nil)
	assert.Error(t, err)
}
