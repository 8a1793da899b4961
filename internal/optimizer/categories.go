package optimizer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// BaseRateLabel is reported when no category multiplier beats the base rate.
const BaseRateLabel = "Base Rate"

type categoryRule struct {
	category string
	keys     []string
}

// Порядок ключей внутри правила задаёт порядок разрешения ничьих при подборе ставки.
var categoryTable = []categoryRule{
	{"groceries", []string{"U.S._supermarkets", "grocery_stores", "grocery_stores_and_wholesale_clubs"}},
	{"dining", []string{"restaurants_worldwide", "dining"}},
	{"gas", []string{"gas_stations"}},
	{"online_shopping", []string{"online_shopping"}},
	{"utilities", []string{"utilities"}},
	{"airfare", []string{"flights_booked_direct"}},
	{"hotels", []string{"hotels"}},
	{"subscriptions", []string{"streaming_services"}},
	{"entertainment", []string{"entertainment"}},
	{"drugstores", []string{"drugstores"}},
	{"travel_portal", []string{"travel_portal"}},
	{"home_improvement", []string{"home_improvement"}},
	{"rideshare", []string{"rideshare"}},
}

var categoryIndex = func() map[string][]string {
	m := make(map[string][]string, len(categoryTable))
	for _, r := range categoryTable {
		m[r.category] = r.keys
	}
	return m
}()

// Categories returns the known transaction categories in table order.
func Categories() []string {
	out := make([]string, len(categoryTable))
	for i, r := range categoryTable {
		out[i] = r.category
	}
	return out
}

// IsKnownCategory reports whether category has an entry in the mapping table.
func IsKnownCategory(category string) bool {
	_, ok := categoryIndex[normalizeCategory(category)]
	return ok
}

// ResolveCategories returns the card-side multiplier keys a transaction
// category may match, in tie-break order. Unknown categories yield nil: the
// transaction is then scored at each card's base rate.
func ResolveCategories(category string) []string {
	keys := categoryIndex[normalizeCategory(category)]
	if len(keys) == 0 {
		return nil
	}
	return append([]string(nil), keys...)
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// HumanizeKey turns a multiplier key like "restaurants_worldwide" into
// "Restaurants Worldwide". Existing capitals are kept: "U.S._supermarkets"
// becomes "U.S. Supermarkets".
func HumanizeKey(key string) string {
	// Caser хранит состояние, поэтому новый на каждый вызов.
	return cases.Title(language.English, cases.NoLower).String(strings.ReplaceAll(key, "_", " "))
}
