package optimizer

import (
	"reflect"
	"testing"

	"card-optimizer/internal/domain"
)

func exampleCatalog() []domain.Card {
	return []domain.Card{
		{Name: "A", BaseRate: 1, AnnualFee: 95, CategoryMultipliers: map[string]float64{"dining": 3}},
		{Name: "B", BaseRate: 2, AnnualFee: 0, CategoryMultipliers: map[string]float64{}},
	}
}

func TestResolveCategories(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     []string
	}{
		{"groceries in order", "groceries", []string{"U.S._supermarkets", "grocery_stores", "grocery_stores_and_wholesale_clubs"}},
		{"case insensitive", "DiNiNg", []string{"restaurants_worldwide", "dining"}},
		{"trimmed", "  gas ", []string{"gas_stations"}},
		{"unknown", "unknown_category", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveCategories(tt.category)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ResolveCategories(%q) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}

func TestResolveCategoriesReturnsCopy(t *testing.T) {
	keys := ResolveCategories("dining")
	keys[0] = "mutated"
	if got := ResolveCategories("dining")[0]; got != "restaurants_worldwide" {
		t.Fatalf("mapping table was mutated through returned slice: %q", got)
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) != 13 {
		t.Fatalf("expected 13 categories, got %d", len(cats))
	}
	for _, c := range cats {
		if !IsKnownCategory(c) {
			t.Errorf("category %q not known", c)
		}
		if len(ResolveCategories(c)) == 0 {
			t.Errorf("category %q has no keys", c)
		}
	}
	if IsKnownCategory("pets") {
		t.Error("pets should not be a known category")
	}
}

func TestHumanizeKey(t *testing.T) {
	tests := map[string]string{
		"restaurants_worldwide": "Restaurants Worldwide",
		"gas_stations":          "Gas Stations",
		"dining":                "Dining",
		"U.S._supermarkets":     "U.S. Supermarkets",
	}
	for in, want := range tests {
		if got := HumanizeKey(in); got != want {
			t.Errorf("HumanizeKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestScoreCard_GroceriesLabelKeepsCapitals(t *testing.T) {
	card := domain.Card{Name: "G", BaseRate: 1, CategoryMultipliers: map[string]float64{"U.S._supermarkets": 6}}
	opt := ScoreCard(100, "groceries", card)
	if opt.MatchedCategory != "U.S. Supermarkets" || opt.RewardRate != 6 {
		t.Errorf("got %q at %v, want U.S. Supermarkets at 6", opt.MatchedCategory, opt.RewardRate)
	}
}

func TestScoreCard_Example(t *testing.T) {
	catalog := exampleCatalog()

	a := ScoreCard(100, "dining", catalog[0])
	if a.RewardRate != 3 || a.MatchedCategory != "Dining" {
		t.Fatalf("card A rate = %v (%s), want 3 (Dining)", a.RewardRate, a.MatchedCategory)
	}
	if a.GrossReward != 3 {
		t.Errorf("card A gross = %v, want 3", a.GrossReward)
	}
	if a.NetReward != 3-95.0/12 {
		t.Errorf("card A net = %v, want %v", a.NetReward, 3-95.0/12)
	}
	if a.NetReward > -4.91 || a.NetReward < -4.93 {
		t.Errorf("card A net = %v, want about -4.92", a.NetReward)
	}

	b := ScoreCard(100, "dining", catalog[1])
	if b.RewardRate != 2 || b.MatchedCategory != BaseRateLabel || b.GrossReward != 2 || b.NetReward != 2 {
		t.Errorf("card B = %+v", b)
	}

	best, ok := BestCard(100, "dining", catalog)
	if !ok || best.CardName != "B" {
		t.Fatalf("best card = %q (ok=%v), want B", best.CardName, ok)
	}
}

func TestScoreCard_Arithmetic(t *testing.T) {
	cards := []domain.Card{
		{Name: "fee", BaseRate: 1.5, AnnualFee: 550, CategoryMultipliers: map[string]float64{"hotels": 10, "flights_booked_direct": 5}},
		{Name: "free", BaseRate: 2},
		{Name: "bad fee", BaseRate: 1, AnnualFee: -40},
	}
	for _, card := range cards {
		for _, cat := range []string{"hotels", "airfare", "groceries", "unknown"} {
			for _, amt := range []float64{0.01, 12.34, 100, 2500} {
				opt := ScoreCard(amt, cat, card)
				if opt.GrossReward != amt*opt.RewardRate/100 {
					t.Errorf("%s/%s/%v: gross %v != amount*rate/100", card.Name, cat, amt, opt.GrossReward)
				}
				if opt.NetReward != opt.GrossReward-opt.AnnualFee/12 {
					t.Errorf("%s/%s/%v: net %v != gross-fee/12", card.Name, cat, amt, opt.NetReward)
				}
				if opt.MonthlyFeeShare != opt.AnnualFee/12 {
					t.Errorf("%s: fee share %v", card.Name, opt.MonthlyFeeShare)
				}
				if opt.RewardRate < card.BaseRate {
					t.Errorf("%s/%s: rate %v below base %v", card.Name, cat, opt.RewardRate, card.BaseRate)
				}
			}
		}
	}
	if got := ScoreCard(100, "hotels", cards[2]); got.AnnualFee != 0 {
		t.Errorf("negative fee should be treated as zero, got %v", got.AnnualFee)
	}
}

func TestScoreCard_BaseRateIsFloor(t *testing.T) {
	card := domain.Card{Name: "low", BaseRate: 2, CategoryMultipliers: map[string]float64{"gas_stations": 1}}
	opt := ScoreCard(50, "gas", card)
	if opt.RewardRate != 2 || opt.MatchedCategory != BaseRateLabel {
		t.Errorf("got rate %v (%s), want base rate 2", opt.RewardRate, opt.MatchedCategory)
	}
}

func TestScoreCard_TieKeepsEarliestKey(t *testing.T) {
	card := domain.Card{Name: "tie", BaseRate: 1, CategoryMultipliers: map[string]float64{
		"dining":                4,
		"restaurants_worldwide": 4,
	}}
	opt := ScoreCard(10, "dining", card)
	if opt.MatchedCategory != "Restaurants Worldwide" {
		t.Errorf("matched %q, want Restaurants Worldwide", opt.MatchedCategory)
	}

	card.CategoryMultipliers["dining"] = 5
	if got := ScoreCard(10, "dining", card).MatchedCategory; got != "Dining" {
		t.Errorf("matched %q, want Dining", got)
	}
}

func TestScoreCard_UnknownCategoryUsesBaseRate(t *testing.T) {
	catalog := []domain.Card{
		{Name: "one", BaseRate: 1},
		{Name: "two", BaseRate: 1.5},
	}
	best, ok := BestCard(80, "unknown_category", catalog)
	if !ok {
		t.Fatal("expected a best card")
	}
	if best.CardName != "two" || best.RewardRate != 1.5 || best.MatchedCategory != BaseRateLabel {
		t.Errorf("best = %+v", best)
	}
}

func TestCardOptions_SortedAndStable(t *testing.T) {
	catalog := []domain.Card{
		{Name: "first", BaseRate: 2},
		{Name: "rich", BaseRate: 1, CategoryMultipliers: map[string]float64{"streaming_services": 6}},
		{Name: "second", BaseRate: 2},
	}
	opts := CardOptions(100, "subscriptions", catalog)
	var names []string
	for _, o := range opts {
		names = append(names, o.CardName)
	}
	want := []string{"rich", "first", "second"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
	if CardOptions(100, "dining", nil) != nil {
		t.Error("empty catalog should give no options")
	}
	if _, ok := BestCard(100, "dining", nil); ok {
		t.Error("BestCard on empty catalog should report !ok")
	}
}

func TestScoreCard_DoesNotMutateCard(t *testing.T) {
	card := domain.Card{Name: "A", BaseRate: 1, AnnualFee: 95, CategoryMultipliers: map[string]float64{"dining": 3}}
	before := domain.Card{Name: "A", BaseRate: 1, AnnualFee: 95, CategoryMultipliers: map[string]float64{"dining": 3}}
	ScoreCard(100, "dining", card)
	if !reflect.DeepEqual(card, before) {
		t.Errorf("card mutated: %+v", card)
	}
}
