// internal/domain/models.go
package domain

import "time"

// Card: карта из каталога. Name служит ключом: две записи с одинаковым именем
// считаются одной картой при подсчёте годовой комиссии.
type Card struct {
	Name                string             `json:"card_name"`
	Network             string             `json:"network,omitempty"`
	AnnualFee           float64            `json:"annual_fee"`
	BaseRate            float64            `json:"base_rate"`
	CategoryMultipliers map[string]float64 `json:"category_multipliers"`
}

type Transaction struct {
	ID       string    `json:"id,omitempty"`
	Date     time.Time `json:"date"`
	Vendor   string    `json:"vendor"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Planned  bool      `json:"planned,omitempty"`
}

// CardOption: результат оценки одной карты для одной траты.
type CardOption struct {
	CardName        string  `json:"card_name"`
	Network         string  `json:"network,omitempty"`
	AnnualFee       float64 `json:"annual_fee"`
	RewardRate      float64 `json:"reward_rate"`
	MatchedCategory string  `json:"matched_category"`
	GrossReward     float64 `json:"gross_reward"`
	MonthlyFeeShare float64 `json:"monthly_fee_share"`
	NetReward       float64 `json:"net_reward"`
}

type RecommendationRow struct {
	Date            time.Time `json:"date,omitempty"`
	Vendor          string    `json:"vendor,omitempty"`
	Category        string    `json:"category"`
	Amount          float64   `json:"amount"`
	Planned         bool      `json:"planned,omitempty"`
	BestCard        string    `json:"best_card"`
	RewardRate      float64   `json:"reward_rate"`
	MatchedCategory string    `json:"matched_category"`
	GrossReward     float64   `json:"gross_reward"`
	NetReward       float64   `json:"net_reward"`
}

// PortfolioSummary aggregates a pass. TotalAnnualFees counts each distinct
// selected card once.
type PortfolioSummary struct {
	TotalSpend        float64  `json:"total_spend"`
	TotalGrossRewards float64  `json:"total_gross_rewards"`
	TotalAnnualFees   float64  `json:"total_annual_fees"`
	NetRewards        float64  `json:"net_rewards"`
	CardsUsed         []string `json:"cards_used"`
	Recommended       int      `json:"recommended"`
	Skipped           int      `json:"skipped"`
}

// CategorySpend: сумма трат по категории (режим месячного бюджета).
type CategorySpend struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}
