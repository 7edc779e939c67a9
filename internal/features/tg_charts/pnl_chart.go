package tg_charts

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	logging "top-traders/internal/infra/log"
	"top-traders/internal/money"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

const (
	chartWidth  = 1600
	chartHeight = 900

	titleX = 80.0
	titleY = 90.0

	chartAreaLeft   = 120.0
	chartAreaRight  = 1520.0
	chartAreaTop    = 200.0
	chartAreaBottom = 780.0

	barSpacing = 30.0
	maxBars    = 10

	titleFontSize    = 48.0
	barValueFontSize = 26.0
	labelFontSize    = 24.0

	barValueOffsetY = 12.0
	labelOffsetY    = 40.0
)

var (
	profitColor = color.RGBA{0, 200, 110, 255}
	lossColor   = color.RGBA{230, 70, 70, 255}
	gridColor   = color.RGBA{90, 90, 90, 255}
)

// Bar is one wallet on the chart.
type Bar struct {
	Label string
	Value float64
}

var fontPaths = []string{
	"etc/fonts/InterVariable.ttf",
	"etc/fonts/Inter-Regular.ttf",
	"~/Library/Fonts/InterVariable.ttf",
	"~/Library/Fonts/Inter-Regular.ttf",
	"/Library/Fonts/Inter-Regular.ttf",
	"/usr/share/fonts/truetype/inter/Inter-Regular.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
}

// GeneratePnLChart draws the combined pnl of up to ten wallets as a bar chart
// around a zero baseline and returns it PNG-encoded.
func GeneratePnLChart(title string, bars []Bar) ([]byte, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("no wallets to chart")
	}
	if len(bars) > maxBars {
		bars = bars[:maxBars]
	}

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetColor(color.Black)
	dc.Clear()

	fontPath := findFont()
	setFont := func(size float64) {
		if fontPath != "" {
			dc.LoadFontFace(fontPath, size)
		}
	}

	setFont(titleFontSize)
	dc.SetColor(color.White)
	dc.DrawString(title, titleX, titleY)

	maxAbs := 0.0
	hasNegative := false
	for _, b := range bars {
		maxAbs = math.Max(maxAbs, math.Abs(b.Value))
		if b.Value < 0 {
			hasNegative = true
		}
	}
	if maxAbs == 0 {
		maxAbs = 1
	}

	// baseline sits in the middle when losses have to fit below it
	baseline := chartAreaBottom
	if hasNegative {
		baseline = chartAreaTop + (chartAreaBottom-chartAreaTop)/2
	}
	scale := (baseline - chartAreaTop) / maxAbs

	dc.SetColor(gridColor)
	dc.SetLineWidth(2)
	dc.DrawLine(chartAreaLeft, baseline, chartAreaRight, baseline)
	dc.Stroke()

	barWidth := (chartAreaRight - chartAreaLeft - barSpacing*float64(len(bars)-1)) / float64(len(bars))

	for i, b := range bars {
		barX := chartAreaLeft + float64(i)*(barWidth+barSpacing)
		barHeight := math.Abs(b.Value) * scale

		barY := baseline - barHeight
		fill := profitColor
		if b.Value < 0 {
			barY = baseline
			fill = lossColor
		}
		dc.SetColor(fill)
		dc.DrawRectangle(barX, barY, barWidth, barHeight)
		dc.Fill()

		setFont(barValueFontSize)
		dc.SetColor(color.White)
		valueText := money.FormatFloat(b.Value)
		textWidth, _ := dc.MeasureString(valueText)
		textY := barY - barValueOffsetY
		if b.Value < 0 {
			textY = barY + barHeight + barValueOffsetY + barValueFontSize
		}
		dc.DrawString(valueText, barX+(barWidth-textWidth)/2, textY)

		setFont(labelFontSize)
		labelWidth, _ := dc.MeasureString(b.Label)
		dc.DrawString(b.Label, barX+(barWidth-labelWidth)/2, chartAreaBottom+labelOffsetY+labelFontSize)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}

	logging.LogDebug("PnL chart generated",
		zap.Int("bars", len(bars)),
		zap.Int("size", buf.Len()),
		zap.Bool("custom_font", fontPath != ""))

	return buf.Bytes(), nil
}

func findFont() string {
	for _, path := range fontPaths {
		if len(path) > 0 && path[0] == '~' {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				continue
			}
			path = filepath.Join(homeDir, path[1:])
		}
		if _, err := os.Stat(path); err == nil {
			if _, err := gg.LoadFontFace(path, labelFontSize); err == nil {
				return path
			}
			logging.LogWarn("Font file exists but failed to load", zap.String("path", path))
		}
	}
	logging.LogDebug("No TrueType font found, using the built-in face", zap.Int("paths_checked", len(fontPaths)))
	return ""
}
