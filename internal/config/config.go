package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"top-traders/internal/clients_api/dexscreener"
	"top-traders/internal/features/top_traders"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config - every tunable of a scrape
type Config struct {
	Site      SiteConfig      `mapstructure:"site"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Scrape    ScrapeConfig    `mapstructure:"scrape"`
	Selectors SelectorsConfig `mapstructure:"selectors"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	App       AppConfig       `mapstructure:"app"`
}

type SiteConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Chain   string `mapstructure:"chain"`
}

type BrowserConfig struct {
	Headless           bool          `mapstructure:"headless"`
	UserAgent          string        `mapstructure:"user_agent"`
	NavigationTimeout  time.Duration `mapstructure:"navigation_timeout"`
	ReadyTimeout       time.Duration `mapstructure:"ready_timeout"`
	MaxReconnects      int           `mapstructure:"max_reconnects"`
	ReconnectDelay     time.Duration `mapstructure:"reconnect_delay"`
	NavigationInterval time.Duration `mapstructure:"navigation_interval"`
	FailureThreshold   uint32        `mapstructure:"failure_threshold"`
}

type ScrapeConfig struct {
	DefaultTimePeriod  string        `mapstructure:"default_time_period"`
	ElementTimeout     time.Duration `mapstructure:"element_timeout"`
	PanelSettle        time.Duration `mapstructure:"panel_settle"`
	ActivationInterval time.Duration `mapstructure:"activation_interval"`
	ActivationTimeout  time.Duration `mapstructure:"activation_timeout"`
	ClickAttempts      int           `mapstructure:"click_attempts"`
	ClickRetryDelay    time.Duration `mapstructure:"click_retry_delay"`
	ChangeInterval     time.Duration `mapstructure:"change_interval"`
	ChangeTimeout      time.Duration `mapstructure:"change_timeout"`
	PairTimeout        time.Duration `mapstructure:"pair_timeout"`
	ValidateAddresses  bool          `mapstructure:"validate_addresses"`
}

// SelectorsConfig mirrors top_traders.Selectors so a markup change on the
// site can be followed from config.yaml without a rebuild.
type SelectorsConfig struct {
	Ready             string `mapstructure:"ready"`
	TopTradersButton  string `mapstructure:"top_traders_button"`
	TimePeriodButtons string `mapstructure:"time_period_buttons"`
	ActiveClass       string `mapstructure:"active_class"`
	WalletContainer   string `mapstructure:"wallet_container"`
	AccountLink       string `mapstructure:"account_link"`
	AccountMarker     string `mapstructure:"account_marker"`
	Dash              string `mapstructure:"dash"`
	Bought            string `mapstructure:"bought"`
	Sold              string `mapstructure:"sold"`
	PnL               string `mapstructure:"pnl"`
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type AppConfig struct {
	DataDir            string `mapstructure:"data_dir"`
	SnapshotDir        string `mapstructure:"snapshot_dir"` // empty disables snapshots
	IgnoredWalletsFile string `mapstructure:"ignored_wallets_file"`
	Verbose            bool   `mapstructure:"verbose"`
}

// flag name -> config key
var flagKeys = map[string]string{
	"config":             "config",
	"headless":           "browser.headless",
	"verbose":            "app.verbose",
	"validate-addresses": "scrape.validate_addresses",
	"snapshot-dir":       "app.snapshot_dir",
	"ignored-wallets":    "app.ignored_wallets_file",
	"chain":              "site.chain",
	"max-reconnects":     "browser.max_reconnects",
}

// RegisterFlags declares the persistent flags LoadConfig knows how to bind.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Path to a YAML config file (default ./config.yaml)")
	flags.Bool("headless", true, "Run the browser without a window (env: TOP_TRADERS_BROWSER_HEADLESS)")
	flags.BoolP("verbose", "v", false, "Print debug diagnostics to stderr (env: TOP_TRADERS_APP_VERBOSE)")
	flags.Bool("validate-addresses", true, "Drop rows whose address is not a Solana public key")
	flags.String("snapshot-dir", "data_out/snapshots", "Where to keep page markup of empty scrapes; empty disables")
	flags.String("ignored-wallets", "data_out/ignored_wallets.json", "Wallets left out of intersection reports")
	flags.String("chain", "solana", "DexScreener chain slug")
	flags.Int("max-reconnects", 3, "Reconnects after a failed navigation, per pair")
}

// LoadConfig resolves configuration from, lowest to highest priority:
//  1. defaults
//  2. config.yaml (or --config)
//  3. .env file and environment (TOP_TRADERS_* plus the aliases below)
//  4. command line flags
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				v.BindPFlag(key, f)
			}
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.ReadInConfig() // optional
	}

	v.SetEnvPrefix("TOP_TRADERS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setupEnvAliases(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func setupEnvAliases(v *viper.Viper) {
	v.BindEnv("telegram.bot_token", "TOP_TRADERS_TELEGRAM_BOT_TOKEN", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("telegram.chat_id", "TOP_TRADERS_TELEGRAM_CHAT_ID", "TELEGRAM_CHAT_ID")
	v.BindEnv("browser.headless", "TOP_TRADERS_BROWSER_HEADLESS", "HEADLESS")
	v.BindEnv("browser.user_agent", "TOP_TRADERS_BROWSER_USER_AGENT", "USER_AGENT")
}

func setDefaults(v *viper.Viper) {
	timings := top_traders.DefaultTimings()
	sel := top_traders.DefaultSelectors()

	// Site
	v.SetDefault("site.base_url", dexscreener.DefaultBaseURL)
	v.SetDefault("site.chain", dexscreener.DefaultChain)

	// Browser
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent", dexscreener.DefaultUserAgent)
	v.SetDefault("browser.navigation_timeout", 60*time.Second)
	v.SetDefault("browser.ready_timeout", 15*time.Second)
	v.SetDefault("browser.max_reconnects", 3)
	v.SetDefault("browser.reconnect_delay", 2*time.Second)
	v.SetDefault("browser.navigation_interval", 5*time.Second)
	v.SetDefault("browser.failure_threshold", 3)

	// Scrape
	v.SetDefault("scrape.default_time_period", top_traders.DefaultTimePeriod)
	v.SetDefault("scrape.element_timeout", timings.ElementTimeout)
	v.SetDefault("scrape.panel_settle", timings.PanelSettle)
	v.SetDefault("scrape.activation_interval", timings.ActivationInterval)
	v.SetDefault("scrape.activation_timeout", timings.ActivationTimeout)
	v.SetDefault("scrape.click_attempts", timings.ClickAttempts)
	v.SetDefault("scrape.click_retry_delay", timings.ClickRetryDelay)
	v.SetDefault("scrape.change_interval", timings.ChangeInterval)
	v.SetDefault("scrape.change_timeout", timings.ChangeTimeout)
	v.SetDefault("scrape.pair_timeout", 70*time.Second)
	v.SetDefault("scrape.validate_addresses", true)

	// Selectors
	v.SetDefault("selectors.ready", sel.Ready)
	v.SetDefault("selectors.top_traders_button", sel.TopTradersButton)
	v.SetDefault("selectors.time_period_buttons", sel.TimePeriodButtons)
	v.SetDefault("selectors.active_class", sel.ActiveClass)
	v.SetDefault("selectors.wallet_container", sel.WalletContainer)
	v.SetDefault("selectors.account_link", sel.AccountLink)
	v.SetDefault("selectors.account_marker", sel.AccountMarker)
	v.SetDefault("selectors.dash", sel.Dash)
	v.SetDefault("selectors.bought", sel.Bought)
	v.SetDefault("selectors.sold", sel.Sold)
	v.SetDefault("selectors.pnl", sel.PnL)

	// Telegram
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")

	// App
	v.SetDefault("app.data_dir", "data_out")
	v.SetDefault("app.snapshot_dir", "data_out/snapshots")
	v.SetDefault("app.ignored_wallets_file", "data_out/ignored_wallets.json")
	v.SetDefault("app.verbose", false)
}

func validateConfig(cfg *Config) error {
	if !top_traders.ValidTimePeriod(cfg.Scrape.DefaultTimePeriod) {
		return fmt.Errorf("scrape.default_time_period %q must be alphanumeric", cfg.Scrape.DefaultTimePeriod)
	}
	if cfg.Scrape.ClickAttempts < 1 {
		return fmt.Errorf("scrape.click_attempts must be at least 1")
	}
	if cfg.Browser.MaxReconnects < 0 {
		return fmt.Errorf("browser.max_reconnects must not be negative")
	}

	positive := map[string]time.Duration{
		"browser.navigation_timeout": cfg.Browser.NavigationTimeout,
		"browser.ready_timeout":      cfg.Browser.ReadyTimeout,
		"scrape.element_timeout":     cfg.Scrape.ElementTimeout,
		"scrape.activation_interval": cfg.Scrape.ActivationInterval,
		"scrape.activation_timeout":  cfg.Scrape.ActivationTimeout,
		"scrape.change_interval":     cfg.Scrape.ChangeInterval,
		"scrape.change_timeout":      cfg.Scrape.ChangeTimeout,
	}
	for key, d := range positive {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", key, d)
		}
	}

	if (cfg.Telegram.BotToken == "") != (cfg.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if cfg.Telegram.ChatID != "" {
		if _, err := cfg.Telegram.ChatIDInt(); err != nil {
			return err
		}
	}
	return nil
}

func (t TelegramConfig) Enabled() bool { return t.BotToken != "" && t.ChatID != "" }

func (t TelegramConfig) ChatIDInt() (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(t.ChatID), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("telegram.chat_id %q is not a number: %w", t.ChatID, err)
	}
	return id, nil
}

func (s SelectorsConfig) Selectors() top_traders.Selectors {
	return top_traders.Selectors{
		Ready:             s.Ready,
		TopTradersButton:  s.TopTradersButton,
		TimePeriodButtons: s.TimePeriodButtons,
		ActiveClass:       s.ActiveClass,
		WalletContainer:   s.WalletContainer,
		AccountLink:       s.AccountLink,
		AccountMarker:     s.AccountMarker,
		Dash:              s.Dash,
		Bought:            s.Bought,
		Sold:              s.Sold,
		PnL:               s.PnL,
	}
}

func (s ScrapeConfig) Timings() top_traders.Timings {
	defaults := top_traders.DefaultTimings()
	return top_traders.Timings{
		ElementTimeout:     s.ElementTimeout,
		ElementInterval:    defaults.ElementInterval,
		PanelSettle:        s.PanelSettle,
		ActivationInterval: s.ActivationInterval,
		ActivationTimeout:  s.ActivationTimeout,
		ClickAttempts:      s.ClickAttempts,
		ClickRetryDelay:    s.ClickRetryDelay,
		ChangeInterval:     s.ChangeInterval,
		ChangeTimeout:      s.ChangeTimeout,
	}
}

// ClientOptions builds the navigation client settings; readyLocator comes
// from the selectors section.
func (c *Config) ClientOptions() dexscreener.ClientOptions {
	return dexscreener.ClientOptions{
		BaseURL:            c.Site.BaseURL,
		Chain:              c.Site.Chain,
		ReadyLocator:       c.Selectors.Ready,
		ReadyTimeout:       c.Browser.ReadyTimeout,
		MaxReconnects:      c.Browser.MaxReconnects,
		ReconnectDelay:     c.Browser.ReconnectDelay,
		NavigationInterval: c.Browser.NavigationInterval,
		FailureThreshold:   c.Browser.FailureThreshold,
	}
}

func (c *Config) Launcher() *dexscreener.PlaywrightLauncher {
	return &dexscreener.PlaywrightLauncher{
		Headless:          c.Browser.Headless,
		UserAgent:         c.Browser.UserAgent,
		NavigationTimeout: c.Browser.NavigationTimeout,
	}
}
