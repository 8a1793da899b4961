// Package bot answers Telegram chat commands over the optimizer workspace.
package bot

import (
	"card-optimizer/internal/catalog"
	"card-optimizer/internal/domain"
	"card-optimizer/internal/metrics"
	"card-optimizer/internal/money"
	"card-optimizer/internal/optimizer"
	"card-optimizer/internal/report"
	"card-optimizer/internal/storage"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = "💳 *Card optimizer*\n\n" +
	"Commands:\n" +
	"`/best dining 120` - rank cards for one purchase\n" +
	"`/cards` - list the catalog\n" +
	"`/spend groceries 400, dining 250` - set monthly spend\n" +
	"`/spend` - show monthly spend\n" +
	"`/plan` - best card per category for the monthly spend\n" +
	"`/portfolio` - totals for the transaction history\n" +
	"`/reset` - clear monthly spend and planned purchases"

// Сколько карт показывать в ответе на /best.
const topOptions = 3

var ErrUsage = errors.New("usage")

type Commands struct {
	store   storage.WorkspaceStorage
	metrics *metrics.Recorder
}

func NewCommands(store storage.WorkspaceStorage, rec *metrics.Recorder) *Commands {
	return &Commands{store: store, metrics: rec}
}

// Handle returns the Markdown reply for one message text.
func (b *Commands) Handle(ctx context.Context, text string) (string, error) {
	text = Normalize(text)
	cmd, args, _ := strings.Cut(text, " ")
	// "/best@my_bot" в группах
	cmd, _, _ = strings.Cut(cmd, "@")
	args = strings.TrimSpace(args)

	switch cmd {
	case "/start", "/help":
		return helpText, nil
	case "/best":
		return b.best(ctx, args)
	case "/cards":
		return b.cards(ctx)
	case "/spend":
		if args == "" {
			return b.showSpend(ctx)
		}
		return b.saveSpend(ctx, args)
	case "/plan":
		return b.plan(ctx)
	case "/portfolio":
		return b.portfolio(ctx)
	case "/reset":
		if err := b.store.Reset(ctx); err != nil {
			return "", err
		}
		return "✅ Monthly spend and planned purchases cleared", nil
	default:
		return "Unknown command. Send /help", nil
	}
}

func (b *Commands) best(ctx context.Context, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: /best <category> <amount>", ErrUsage)
	}
	amount, err := money.ParseAmount(fields[len(fields)-1])
	if err != nil || amount <= 0 {
		return "", fmt.Errorf("invalid amount: %q", fields[len(fields)-1])
	}
	category := categoryKey(fields[:len(fields)-1])

	cards, err := b.store.ListCards(ctx)
	if err != nil {
		return "", err
	}
	options := optimizer.CardOptions(amount, category, cards)
	if len(options) == 0 {
		return "📭 The catalog is empty", nil
	}

	lines := []string{fmt.Sprintf("🔍 *Best cards for %s %s*", money.FormatUSD(amount), escape(optimizer.HumanizeKey(category)))}
	if !optimizer.IsKnownCategory(category) {
		lines = append(lines, "_Unknown category, base rates only_")
	}
	for i, o := range options {
		if i == topOptions {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. *%s*: %s (%s), net %s",
			i+1, escape(o.CardName), money.FormatRate(o.RewardRate), escape(o.MatchedCategory), money.FormatUSD(o.NetReward)))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Commands) cards(ctx context.Context) (string, error) {
	cards, err := b.store.ListCards(ctx)
	if err != nil {
		return "", err
	}
	if len(cards) == 0 {
		return "📭 The catalog is empty", nil
	}
	lines := []string{"💳 *Catalog*"}
	for _, c := range cards {
		lines = append(lines, fmt.Sprintf("\n*%s* (fee %s, base %s)", escape(c.Name), money.FormatUSD(c.AnnualFee), money.FormatRate(c.BaseRate)))
		lines = append(lines, "- "+escape(catalog.Describe(c)))
	}
	return strings.Join(lines, "\n"), nil
}

func (b *Commands) showSpend(ctx context.Context) (string, error) {
	spend, err := b.store.GetSpend(ctx)
	if err != nil {
		return "", err
	}
	if len(spend) == 0 {
		return "📭 No monthly spend yet. Example: `/spend groceries 400, dining 250`", nil
	}
	lines := []string{"📊 *Monthly spend*"}
	for _, s := range spend {
		lines = append(lines, fmt.Sprintf("- %s: %s", escape(optimizer.HumanizeKey(s.Category)), money.FormatUSD(s.Amount)))
	}
	return strings.Join(lines, "\n"), nil
}

// saveSpend разбирает "groceries 400, online shopping 120" и обновляет только
// названные категории.
func (b *Commands) saveSpend(ctx context.Context, input string) (string, error) {
	spend, err := ParseSpend(input)
	if err != nil {
		return "", err
	}
	if err := b.store.PatchSpend(ctx, spend); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ Saved %d categories", len(spend)), nil
}

// ParseSpend reads comma-separated "category amount" pairs. Multi-word
// categories are joined with underscores and must be known.
func ParseSpend(input string) ([]domain.CategorySpend, error) {
	var spend []domain.CategorySpend
	for _, part := range strings.Split(input, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("category needs a name and an amount: %q", strings.TrimSpace(part))
		}

		amountStr := fields[len(fields)-1]
		amount, err := money.ParseAmount(amountStr)
		if err != nil || amount < 0 {
			return nil, fmt.Errorf("invalid amount: %q", amountStr)
		}

		category := categoryKey(fields[:len(fields)-1])
		if !optimizer.IsKnownCategory(category) {
			return nil, fmt.Errorf("unknown category %q, use one of: %s", category, strings.Join(optimizer.Categories(), ", "))
		}
		spend = append(spend, domain.CategorySpend{Category: category, Amount: amount})
	}
	if len(spend) == 0 {
		return nil, fmt.Errorf("%w: /spend groceries 400, dining 250", ErrUsage)
	}
	return spend, nil
}

func (b *Commands) plan(ctx context.Context) (string, error) {
	spend, err := b.store.GetSpend(ctx)
	if err != nil {
		return "", err
	}
	if len(spend) == 0 {
		return "📭 No monthly spend yet. Example: `/spend groceries 400, dining 250`", nil
	}
	cards, err := b.store.ListCards(ctx)
	if err != nil {
		return "", err
	}

	started := time.Now()
	summary, rows := optimizer.AggregateSpend(spend, cards)
	b.metrics.ObserveAggregate(metrics.ModeMonthly, started, summary.Skipped)

	lines := []string{"🗓 *Monthly plan*"}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("- %s %s: *%s* at %s",
			escape(optimizer.HumanizeKey(r.Category)), money.FormatUSD(r.Amount), escape(r.BestCard), money.FormatRate(r.RewardRate)))
	}
	lines = append(lines, "")
	lines = append(lines, report.SummaryLines(summary)...)
	return strings.Join(lines, "\n"), nil
}

func (b *Commands) portfolio(ctx context.Context) (string, error) {
	ws, err := b.store.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	txns := append(ws.Transactions, ws.Planned...)
	if len(txns) == 0 {
		return "📭 No transactions yet", nil
	}

	started := time.Now()
	summary, _ := optimizer.Aggregate(txns, ws.Cards)
	b.metrics.ObserveAggregate(metrics.ModeSpreadsheet, started, summary.Skipped)

	lines := []string{fmt.Sprintf("📈 *Portfolio* (%d transactions)", len(txns))}
	lines = append(lines, report.SummaryLines(summary)...)
	if len(summary.CardsUsed) > 0 {
		names := make([]string, len(summary.CardsUsed))
		for i, n := range summary.CardsUsed {
			names[i] = escape(n)
		}
		lines = append(lines, "Cards: "+strings.Join(names, ", "))
	}
	return strings.Join(lines, "\n"), nil
}

func categoryKey(words []string) string {
	return strings.ToLower(strings.Join(words, "_"))
}

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
