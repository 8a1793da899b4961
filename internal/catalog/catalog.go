// internal/catalog/catalog.go
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/money"
	"card-optimizer/internal/optimizer"

	"github.com/goccy/go-json"
)

var ErrNoCards = errors.New("catalog has no cards")

const unknownCardName = "Unknown"

// record: карта в формате справочника cc_options.json.
// annual_cost приходит то строкой ("$95"), то числом.
type record struct {
	CardName    string             `json:"card_name"`
	Network     string             `json:"network"`
	AnnualCost  any                `json:"annual_cost"`
	BaseRate    float64            `json:"base_rate_x"`
	Multipliers map[string]float64 `json:"category_multipliers_x"`
}

type document struct {
	CreditCards []record `json:"credit_cards"`
}

// Load reads a catalog file. See Decode for the accepted formats.
func Load(path string) ([]domain.Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	cards, err := Decode(f)
	if err != nil {
		return cards, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cards, nil
}

// Decode accepts either {"credit_cards": [...]} or a bare array of card
// records. Fees are parsed leniently; a malformed fee becomes zero. An empty
// catalog is returned together with ErrNoCards.
func Decode(r io.Reader) ([]domain.Card, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []domain.Card{}, ErrNoCards
	}

	var records []record
	if data[0] == '[' {
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
	} else {
		var doc document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		records = doc.CreditCards
	}

	cards := make([]domain.Card, 0, len(records))
	for _, rec := range records {
		cards = append(cards, rec.card())
	}
	if len(cards) == 0 {
		return cards, ErrNoCards
	}
	return cards, nil
}

func (rec record) card() domain.Card {
	name := strings.TrimSpace(rec.CardName)
	if name == "" {
		name = unknownCardName
	}
	multipliers := make(map[string]float64, len(rec.Multipliers))
	for k, v := range rec.Multipliers {
		multipliers[k] = v
	}
	return domain.Card{
		Name:                name,
		Network:             rec.Network,
		AnnualFee:           money.ParseFee(rec.AnnualCost),
		BaseRate:            rec.BaseRate,
		CategoryMultipliers: multipliers,
	}
}

// Describe renders the multipliers of a card, e.g. "Dining: 3.0%, Gas Stations: 2.0%".
func Describe(card domain.Card) string {
	if len(card.CategoryMultipliers) == 0 {
		return "—"
	}
	keys := make([]string, 0, len(card.CategoryMultipliers))
	for k := range card.CategoryMultipliers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = optimizer.HumanizeKey(k) + ": " + money.FormatRate(card.CategoryMultipliers[k])
	}
	return strings.Join(parts, ", ")
}
