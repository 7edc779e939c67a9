package top_traders

import (
	"errors"
	"fmt"
	"strings"

	"top-traders/internal/infra/log"

	"github.com/PuerkitoBio/goquery"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// Extractor turns a markup snapshot of the top traders panel into records.
type Extractor struct {
	sel               Selectors
	validateAddresses bool
}

func NewExtractor(sel Selectors, validateAddresses bool) *Extractor {
	return &Extractor{sel: sel, validateAddresses: validateAddresses}
}

// Extract returns one record per genuine wallet container, in document order.
// Containers without an account link are layout wrappers and are skipped
// silently; containers that fail to decode are logged and skipped.
func (e *Extractor) Extract(html, period string) ([]WalletRecord, error) {
	return e.extract(html, period, true)
}

func (e *Extractor) extract(html, period string, logRowErrors bool) ([]WalletRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page markup: %w", err)
	}

	records := []WalletRecord{}
	doc.Find(e.sel.WalletContainer).Each(func(i int, container *goquery.Selection) {
		record, ok, err := e.extractRow(container)
		if err != nil {
			if logRowErrors {
				log.LogWarn("Skipping wallet container", zap.Error(&RowError{Index: i, Err: err}))
			}
			return
		}
		if !ok {
			return
		}
		record.TimePeriod = period
		records = append(records, record)
	})

	return records, nil
}

func (e *Extractor) extractRow(container *goquery.Selection) (WalletRecord, bool, error) {
	href, found := container.Find(e.sel.AccountLink).First().Attr("href")
	if !found || !strings.Contains(href, e.sel.AccountMarker) {
		return WalletRecord{}, false, nil
	}

	address, err := e.decodeAddress(href)
	if err != nil {
		return WalletRecord{}, false, err
	}

	record := WalletRecord{
		Address: address,
		Bought:  "0",
		Sold:    "0",
		PnL:     "0",
	}

	// the dash placeholder only ever stands in for the bought amount
	if container.Find(e.sel.Dash).Length() == 0 {
		if text, ok := fieldText(container, e.sel.Bought); ok {
			record.Bought = withCurrency(text)
		}
	}

	if text, ok := fieldText(container, e.sel.Sold); ok {
		record.Sold = withCurrency(text)
	}

	if text, ok := fieldText(container, e.sel.PnL); ok {
		record.PnL = signedCurrency(text)
	}

	return record, true, nil
}

// decodeAddress takes the path segment after the account marker, without the
// query string.
func (e *Extractor) decodeAddress(href string) (string, error) {
	idx := strings.LastIndex(href, e.sel.AccountMarker)
	address := href[idx+len(e.sel.AccountMarker):]
	address, _, _ = strings.Cut(address, "?")
	address = strings.TrimSpace(address)
	if address == "" {
		return "", errors.New("account link has an empty address")
	}

	if e.validateAddresses {
		if _, err := solana.PublicKeyFromBase58(address); err != nil {
			return "", fmt.Errorf("invalid account address %q: %w", address, err)
		}
	}
	return address, nil
}

func fieldText(container *goquery.Selection, selector string) (string, bool) {
	el := container.Find(selector).First()
	if el.Length() == 0 {
		return "", false
	}
	text := strings.TrimSpace(el.Text())
	return text, text != ""
}

func withCurrency(text string) string {
	if strings.HasPrefix(text, "$") {
		return text
	}
	return "$" + text
}

// signedCurrency places the sign right before the currency symbol:
// "-430" and "$-430" both become "-$430", "430" becomes "$430".
func signedCurrency(text string) string {
	switch {
	case strings.HasPrefix(text, "-$"):
		return text
	case strings.HasPrefix(text, "$-"):
		return "-$" + text[2:]
	case strings.HasPrefix(text, "-"):
		return "-$" + text[1:]
	case strings.HasPrefix(text, "$"):
		return text
	default:
		return "$" + text
	}
}
