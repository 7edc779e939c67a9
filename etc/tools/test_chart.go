package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"top-traders/internal/features/tg_charts"
	"top-traders/internal/money"
)

type savedReport struct {
	TimePeriod    string `json:"time_period"`
	Intersections []struct {
		Address  string `json:"address"`
		TotalPnL string `json:"total_pnl"`
	} `json:"intersections"`
}

// go run etc/tools/test_chart.go [data_out/scan_<timestamp>.json]
// writes etc/charts/pnl_chart.png
func main() {
	fmt.Println("Generating test chart...")

	title := "Top traders PnL (sample)"
	bars := []tg_charts.Bar{
		{Label: "So11…1112", Value: 125000},
		{Label: "EPjF…Dt1v", Value: 48200},
		{Label: "Toke…Q5DA", Value: -4300},
	}

	if len(os.Args) > 1 {
		data, err := os.ReadFile(os.Args[1])
		if err != nil {
			fmt.Printf("Error reading report: %v\n", err)
			os.Exit(1)
		}
		var report savedReport
		if err := json.Unmarshal(data, &report); err != nil {
			fmt.Printf("Error parsing report: %v\n", err)
			os.Exit(1)
		}
		title = fmt.Sprintf("Top traders PnL (%s)", report.TimePeriod)
		bars = bars[:0]
		for _, w := range report.Intersections {
			value, _ := money.ParseFloat(w.TotalPnL)
			label := w.Address
			if len(label) > 8 {
				label = label[:4] + "…"
			}
			bars = append(bars, tg_charts.Bar{Label: label, Value: value})
		}
	}

	chart, err := tg_charts.GeneratePnLChart(title, bars)
	if err != nil {
		fmt.Printf("Error generating chart: %v\n", err)
		os.Exit(1)
	}

	chartPath := filepath.Join("etc", "charts", "pnl_chart.png")
	if err := os.MkdirAll(filepath.Dir(chartPath), 0755); err != nil {
		fmt.Printf("Error creating charts directory: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(chartPath, chart, 0644); err != nil {
		fmt.Printf("Error saving chart: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Chart generated successfully: %s\n", chartPath)
}
