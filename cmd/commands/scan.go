package commands

// Scan several pairs one after another and report the wallets they share.

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"top-traders/internal/clients_api/dexscreener"
	"top-traders/internal/clients_api/telegram"
	"top-traders/internal/config"
	"top-traders/internal/features/intersections"
	"top-traders/internal/features/top_traders"
	"top-traders/internal/infra/fs"
	"top-traders/internal/infra/log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type scanReport struct {
	TimePeriod    string                             `json:"time_period"`
	Pairs         []string                           `json:"pairs"`
	WalletCounts  map[string]int                     `json:"wallet_counts"`
	Intersections []intersections.WalletIntersection `json:"intersections"`
	ScannedAt     time.Time                          `json:"scanned_at"`
}

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <pair>...",
		Short: "Scan several pairs and report the wallets they have in common",
		Long: `Scrapes the top traders of every pair sequentially (one browser session at a
time) and prints the wallets that appear in at least two of them, most shared
first. With a single pair every wallet is reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScan,
	}
	cmd.Flags().String("period", "", "Time period to scan (default: scrape.default_time_period)")
	cmd.Flags().Bool("notify", false, "Send the report to the configured Telegram chat")
	cmd.Flags().Bool("save", true, "Keep a copy of the report under app.data_dir")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	report := scanReport{
		Pairs:         []string{},
		WalletCounts:  map[string]int{},
		Intersections: []intersections.WalletIntersection{},
	}
	defer func() {
		writeJSON(cmd, report)
	}()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil
	}

	period, _ := cmd.Flags().GetString("period")
	if period == "" {
		period = cfg.Scrape.DefaultTimePeriod
	}
	report.TimePeriod = period
	if !top_traders.ValidTimePeriod(period) {
		log.LogError("Invalid time period", zap.String("period", period))
		return nil
	}

	for _, pair := range args {
		if err := validatePair(cfg, pair); err != nil {
			log.LogError(err.Error(), zap.String("pair", pair))
			continue
		}
		report.Pairs = append(report.Pairs, pair)
	}
	if len(report.Pairs) == 0 {
		return nil
	}

	ignored, err := fs.LoadIgnoredWallets(cfg.App.IgnoredWalletsFile)
	if err != nil {
		log.LogWarn("Failed to load ignored wallets, continuing without them", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startTime := time.Now()
	log.LogInfo("Starting scan", zap.Strings("pairs", report.Pairs), zap.String("period", period))

	results := intersections.Scan(ctx, buildScraper(cfg), report.Pairs, period, cfg.Scrape.PairTimeout, intersections.LogProgress)
	report.Pairs = report.Pairs[:0]
	for _, result := range results {
		report.Pairs = append(report.Pairs, result.Pair)
		report.WalletCounts[result.Pair] = len(result.Wallets)
	}
	report.Intersections = intersections.FindIntersections(results, ignored)
	report.ScannedAt = time.Now().UTC()

	log.LogSuccess("Scan finished",
		zap.Int("pairs", len(results)),
		zap.Int("intersections", len(report.Intersections)),
		zap.Int64("duration_ms", time.Since(startTime).Milliseconds()))

	if save, _ := cmd.Flags().GetBool("save"); save {
		if path, err := fs.SaveScanReport(cfg.App.DataDir, report, report.ScannedAt); err != nil {
			log.LogWarn("Failed to save scan report", zap.Error(err))
		} else {
			log.LogInfo("Saved scan report", zap.String("file", path))
		}
	}

	if notify, _ := cmd.Flags().GetBool("notify"); notify {
		sendReport(cfg, report)
	}
	return nil
}

func sendReport(cfg *config.Config, report scanReport) {
	if !cfg.Telegram.Enabled() {
		log.LogWarn("Telegram is not configured, skipping notification")
		return
	}
	chatID, err := cfg.Telegram.ChatIDInt()
	if err != nil {
		log.LogError("Invalid telegram chat id", zap.Error(err))
		return
	}

	pairURL := func(pair string) string {
		return dexscreener.PairURL(cfg.Site.BaseURL, cfg.Site.Chain, pair)
	}
	notifier, err := telegram.NewBotNotifier(cfg.Telegram.BotToken, chatID, pairURL)
	if err != nil {
		log.LogError("Failed to initialize Telegram bot", zap.Error(err))
		return
	}
	if err := notifier.SendScanReport(report.Pairs, report.TimePeriod, report.Intersections); err != nil {
		log.LogError("Failed to send scan report", zap.Error(err))
	}
}
