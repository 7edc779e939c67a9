package top_traders

import (
	"fmt"
	"strings"
)

// Selectors are the structural hooks into the DexScreener markup. Class names
// are generated by the site's CSS-in-JS build and change between releases,
// which is why they are configurable.
type Selectors struct {
	// Ready matches once the app shell rendered (used by the navigation client).
	Ready string
	// TopTradersButton is a positional XPath to the "Top Traders" tab.
	TopTradersButton string
	// TimePeriodButtons matches every time-period control; the label filter is
	// appended by TimePeriodLocator.
	TimePeriodButtons string
	// ActiveClass marks the currently selected time-period control.
	ActiveClass string

	WalletContainer string
	AccountLink     string
	AccountMarker   string
	Dash            string
	Bought          string
	Sold            string
	PnL             string
}

func DefaultSelectors() Selectors {
	return Selectors{
		Ready:             "xpath=//*[@id='root']//main",
		TopTradersButton:  "xpath=//*[@id='root']/div/main/div/div/div[2]/div[1]/div[2]/div/div[1]/div[1]/div[1]/div/div[1]/button[2]",
		TimePeriodButtons: "xpath=//button[contains(@class, 'chakra-button')]",
		ActiveClass:       "custom-ymz8t5",
		WalletContainer:   "div.custom-1nvxwu0",
		AccountLink:       "a[href*='account/']",
		AccountMarker:     "account/",
		Dash:              ".chakra-text.custom-6qd5i2",
		Bought:            "span.chakra-text.custom-rcecxm",
		Sold:              "span.chakra-text.custom-dv3t8y",
		PnL:               ".custom-1e9y0rl",
	}
}

const (
	upperLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerLetters = "abcdefghijklmnopqrstuvwxyz"
)

// TimePeriodLocator matches the control whose visible label equals period,
// ignoring case. period must be alphanumeric (see ValidTimePeriod).
func (s Selectors) TimePeriodLocator(period string) string {
	return fmt.Sprintf("%s[translate(normalize-space(.), '%s', '%s')='%s']",
		s.TimePeriodButtons, upperLetters, lowerLetters, strings.ToLower(period))
}

func (s Selectors) hasActiveClass(class string) bool {
	for _, c := range strings.Fields(class) {
		if c == s.ActiveClass {
			return true
		}
	}
	return false
}
