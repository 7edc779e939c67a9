package telegram

import (
	"fmt"
	"html"
	"strings"

	"top-traders/internal/features/intersections"
	"top-traders/internal/features/tg_charts"
	"top-traders/internal/infra/log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	reportWallets = 10
	pairButtons   = 5
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Notifier struct {
	sender  Sender
	chatID  int64
	pairURL func(pair string) string
}

func NewNotifier(sender Sender, chatID int64, pairURL func(pair string) string) *Notifier {
	return &Notifier{sender: sender, chatID: chatID, pairURL: pairURL}
}

// NewBotNotifier authorizes a bot token against the Telegram API.
func NewBotNotifier(token string, chatID int64, pairURL func(pair string) string) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize telegram bot: %w", err)
	}
	log.LogSuccess("Telegram bot authorized", zap.String("username", bot.Self.UserName))
	return NewNotifier(bot, chatID, pairURL), nil
}

// SendScanReport posts the pnl chart (when there is anything to draw) and the
// HTML report. A chart failure degrades to the text report alone.
func (n *Notifier) SendScanReport(pairs []string, period string, wallets []intersections.WalletIntersection) error {
	report := FormatScanReport(pairs, period, wallets)
	keyboard := n.pairKeyboard(pairs)

	if len(wallets) > 0 {
		chart, err := tg_charts.GeneratePnLChart(fmt.Sprintf("Top traders PnL (%s)", period), chartBars(wallets))
		if err != nil {
			log.LogWarn("Failed to generate pnl chart", zap.Error(err))
		} else {
			photo := tgbotapi.NewPhoto(n.chatID, tgbotapi.FileBytes{Name: "top_traders_pnl.png", Bytes: chart})
			photo.Caption = fmt.Sprintf("%d shared wallets across %d pairs", len(wallets), len(pairs))
			if _, err := n.sender.Send(photo); err != nil {
				log.LogWarn("Failed to send pnl chart", zap.Error(err))
			}
		}
	}

	msg := tgbotapi.NewMessage(n.chatID, report)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	if _, err := n.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send scan report: %w", err)
	}

	log.LogInfo("Scan report sent", zap.Int64("chatID", n.chatID), zap.Int("wallets", len(wallets)))
	return nil
}

func (n *Notifier) pairKeyboard(pairs []string) *tgbotapi.InlineKeyboardMarkup {
	if n.pairURL == nil || len(pairs) == 0 {
		return nil
	}
	var row []tgbotapi.InlineKeyboardButton
	for i, pair := range pairs {
		if i == pairButtons {
			break
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonURL(shortAddress(pair), n.pairURL(pair)))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(row)
	return &keyboard
}

// FormatScanReport renders the intersection report as Telegram HTML.
func FormatScanReport(pairs []string, period string, wallets []intersections.WalletIntersection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Top traders scan</b> (%s)\n", html.EscapeString(period))
	fmt.Fprintf(&b, "Pairs: %d\n\n", len(pairs))

	if len(wallets) == 0 {
		b.WriteString("No shared wallets found.")
		return b.String()
	}

	for i, w := range wallets {
		if i == reportWallets {
			fmt.Fprintf(&b, "\n… and %d more", len(wallets)-reportWallets)
			break
		}
		fmt.Fprintf(&b, "%d. <code>%s</code>\n    pairs: %d, total PnL: <b>%s</b>\n",
			i+1, html.EscapeString(w.Address), w.Count, html.EscapeString(w.TotalPnL))
	}
	return strings.TrimRight(b.String(), "\n")
}

func chartBars(wallets []intersections.WalletIntersection) []tg_charts.Bar {
	bars := make([]tg_charts.Bar, 0, len(wallets))
	for _, w := range wallets {
		bars = append(bars, tg_charts.Bar{Label: shortAddress(w.Address), Value: w.TotalPnLValue().InexactFloat64()})
	}
	return bars
}

func shortAddress(address string) string {
	if len(address) <= 8 {
		return address
	}
	return address[:4] + "…" + address[len(address)-4:]
}
