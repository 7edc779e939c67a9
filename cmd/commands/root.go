package commands

// Root command: scrape the top traders of one pair and print them as a JSON
// array on stdout. Every diagnostic goes to stderr and logs/app.log.
// Exit status is 1 only for a wrong number of arguments.

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"syscall"

	"top-traders/internal/clients_api/dexscreener"
	"top-traders/internal/config"
	"top-traders/internal/features/top_traders"
	"top-traders/internal/infra/fs"
	"top-traders/internal/infra/log"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newPairOpener is swapped out in tests.
var newPairOpener = func(cfg *config.Config) top_traders.PairOpener {
	return dexscreener.NewClient(cfg.Launcher(), cfg.ClientOptions())
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top-traders <pair> [time_period]",
		Short: "Scrape the top trader wallets of a DexScreener pair",
		Long: `Opens the DexScreener page of a trading pair in a headless browser, switches the
top traders panel to the requested time period (default 30d) and prints every
wallet as a JSON array on stdout.`,
		Args:          cobra.RangeArgs(1, 2),
		Version:       "1.0.0",
		SilenceErrors: true,
		RunE:          runRoot,
	}
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newIgnoreCmd())
	cmd.AddCommand(newInstallCmd())
	return cmd
}

func Execute() error {
	return newRootCmd().Execute()
}

func runRoot(cmd *cobra.Command, args []string) error {
	records := []top_traders.WalletRecord{}
	defer func() {
		writeJSON(cmd, records)
	}()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil
	}

	pair := args[0]
	period := cfg.Scrape.DefaultTimePeriod
	if len(args) == 2 {
		period = args[1]
	}

	if err := validatePair(cfg, pair); err != nil {
		log.LogError(err.Error(), zap.String("pair", pair))
		return nil
	}
	if !top_traders.ValidTimePeriod(period) {
		log.LogError(fmt.Sprintf("Invalid time period %q", period), zap.String("pair", pair))
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	records = buildScraper(cfg).Scrape(ctx, pair, period)

	if data, err := json.Marshal(records); err == nil {
		log.LogJSON(data, fmt.Sprintf("Top traders of %s (%s)", pair, period))
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		log.LogError("Failed to load config", zap.Error(err))
		return nil, err
	}
	log.SetConsoleLevel(cfg.App.Verbose)
	return cfg, nil
}

func buildScraper(cfg *config.Config) *top_traders.Scraper {
	sel := cfg.Selectors.Selectors()
	extractor := top_traders.NewExtractor(sel, cfg.Scrape.ValidateAddresses)
	controller := top_traders.NewController(extractor, sel, cfg.Scrape.Timings(), cfg.Scrape.DefaultTimePeriod)

	var opts []top_traders.Option
	if cfg.App.SnapshotDir != "" {
		opts = append(opts, top_traders.WithSnapshots(fs.NewSnapshotDir(cfg.App.SnapshotDir)))
	}
	return top_traders.NewScraper(newPairOpener(cfg), controller, extractor, opts...)
}

var pairPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// validatePair rejects pairs that cannot be a pair address before a browser
// is started for them.
func validatePair(cfg *config.Config, pair string) error {
	if cfg.Site.Chain == dexscreener.DefaultChain {
		if _, err := solana.PublicKeyFromBase58(pair); err != nil {
			return fmt.Errorf("invalid pair address %q: %v", pair, err)
		}
		return nil
	}
	if !pairPattern.MatchString(pair) {
		return fmt.Errorf("invalid pair address %q", pair)
	}
	return nil
}

func writeJSON(cmd *cobra.Command, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.LogError("Failed to encode output", zap.Error(err))
		data = []byte("[]")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
}
