package reporter

import (
	"fmt"
	"html"
	"strings"

	"go-indeed-relay/internal/config"
	"go-indeed-relay/internal/scraper"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxListed caps how many listings a summary links to.
const maxListed = 5

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramReporter posts a summary to a chat after every run.
type TelegramReporter struct {
	bot    sender
	chatID int64
}

func NewTelegramReporter(cfg config.TelegramConfig) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{bot: bot, chatID: cfg.ChatID}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) ReportRun(keyword string, records []scraper.JobRecord) error {
	return t.SendMessage(SummaryMessage(keyword, records))
}

func (t *TelegramReporter) ReportError(keyword string, runErr error) error {
	text := fmt.Sprintf("⚠️ <b>Indeed run failed</b> for <i>%s</i>:\n%s",
		html.EscapeString(keyword), html.EscapeString(runErr.Error()))
	return t.SendMessage(text)
}

// DispatchCounts splits records by sink outcome: 2xx, any other status, no status at all.
func DispatchCounts(records []scraper.JobRecord) (delivered, rejected, unreachable int) {
	for _, r := range records {
		switch {
		case r.Status == nil:
			unreachable++
		case *r.Status >= 200 && *r.Status < 300:
			delivered++
		default:
			rejected++
		}
	}
	return delivered, rejected, unreachable
}

// SummaryMessage renders the HTML run summary.
func SummaryMessage(keyword string, records []scraper.JobRecord) string {
	delivered, rejected, unreachable := DispatchCounts(records)

	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Indeed run</b> for <i>%s</i>\n", html.EscapeString(keyword))
	fmt.Fprintf(&b, "📦 Records: %d\n", len(records))
	fmt.Fprintf(&b, "✅ Delivered: %d\n", delivered)
	if rejected > 0 {
		fmt.Fprintf(&b, "🚫 Rejected by sink: %d\n", rejected)
	}
	if unreachable > 0 {
		fmt.Fprintf(&b, "❌ Sink unreachable: %d\n", unreachable)
	}

	for i, r := range records {
		if i == maxListed {
			fmt.Fprintf(&b, "… and %d more\n", len(records)-maxListed)
			break
		}
		fmt.Fprintf(&b, "🔗 <a href=\"%s\">%s</a> @ %s\n",
			html.EscapeString(r.SourceURL), html.EscapeString(r.Title), html.EscapeString(r.CompanyName))
	}
	return strings.TrimRight(b.String(), "\n")
}
