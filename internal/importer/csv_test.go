package importer

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	in := "Date,Vendor,Category,Price\n" +
		"2025-01-05,Whole Foods,Groceries,\"$1,204.10\"\n" +
		"not a date,Nowhere,dining,10\n" +
		"2025-02-10,Chipotle,dining,14.25\n" +
		"01/20/2025,Shell,gas,40\n" +
		"2025-02-11,Broken,gas,lots\n"

	res, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Dropped != 2 {
		t.Errorf("Dropped = %d, want 2", res.Dropped)
	}
	if len(res.Transactions) != 3 {
		t.Fatalf("got %d transactions, want 3", len(res.Transactions))
	}

	wantVendors := []string{"Chipotle", "Shell", "Whole Foods"}
	for i, v := range wantVendors {
		if res.Transactions[i].Vendor != v {
			t.Errorf("transaction %d vendor = %q, want %q", i, res.Transactions[i].Vendor, v)
		}
	}
	whole := res.Transactions[2]
	if whole.Amount != 1204.10 || whole.Category != "groceries" {
		t.Errorf("whole foods = %+v", whole)
	}
	if !whole.Date.Equal(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", whole.Date)
	}
}

func TestParse_AmountAlias(t *testing.T) {
	res, err := Parse(strings.NewReader("date,vendor,category,amount\n2025-03-01,Uber,rideshare,22.5\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(res.Transactions) != 1 || res.Transactions[0].Amount != 22.5 {
		t.Errorf("transactions = %+v", res.Transactions)
	}
}

func TestParse_MissingColumns(t *testing.T) {
	_, err := Parse(strings.NewReader("date,vendor\n2025-01-01,x\n"))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("err = %v, want ErrMissingColumns", err)
	}
	if !strings.Contains(err.Error(), "category") || !strings.Contains(err.Error(), "price") {
		t.Errorf("error should name missing columns: %v", err)
	}

	if _, err := Parse(strings.NewReader("")); !errors.Is(err, ErrMissingColumns) {
		t.Errorf("empty input err = %v", err)
	}
}

func TestParse_Windows1252(t *testing.T) {
	in := []byte("date,vendor,category,price\n2025-01-02,Caf\xe9 Nero,dining,4.5\n")
	res, err := Parse(strings.NewReader(string(in)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := res.Transactions[0].Vendor; got != "Café Nero" {
		t.Errorf("vendor = %q, want Café Nero", got)
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2025-01-02", "01/02/2025", "2025/01/02"} {
		d, ok := ParseDate(s)
		if !ok || d.Year() != 2025 || d.Month() != time.January || d.Day() != 2 {
			t.Errorf("ParseDate(%q) = %v, %v", s, d, ok)
		}
	}
	if _, ok := ParseDate("yesterday"); ok {
		t.Error("expected failure for yesterday")
	}
}
