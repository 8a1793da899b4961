// Package importer turns a transactions spreadsheet (CSV with date, vendor,
// category and price columns) into domain transactions.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"card-optimizer/internal/domain"
	"card-optimizer/internal/money"

	"golang.org/x/text/encoding/charmap"
)

var ErrMissingColumns = errors.New("missing required columns")

var requiredColumns = []string{"category", "date", "price", "vendor"}

var columnAliases = map[string]string{
	"amount": "price",
}

var dateLayouts = []string{"2006-01-02", "01/02/2006", "2006/01/02", "2006-01-02 15:04:05"}

type Result struct {
	Transactions []domain.Transaction
	// Dropped: строки с нечитаемой датой или суммой.
	Dropped int
}

// Parse reads CSV transactions. Header names are case-insensitive; "amount"
// is accepted for "price". Rows whose date or price cannot be parsed are
// dropped and counted. The result is sorted by date, newest first.
func Parse(r io.Reader) (Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read csv: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(toUTF8(raw)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(requiredColumns, ", "))
		}
		return Result{}, fmt.Errorf("read csv header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return Result{}, err
	}

	var res Result
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return Result{}, fmt.Errorf("read csv line %d: %w", line, err)
		}

		tx, ok := parseRow(rec, index)
		if !ok {
			slog.Debug("Dropping transaction row", "line", line)
			res.Dropped++
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}

	slices.SortStableFunc(res.Transactions, func(a, b domain.Transaction) int {
		return b.Date.Compare(a.Date)
	})
	return res, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if alias, ok := columnAliases[name]; ok {
			if _, exists := index[alias]; exists {
				continue
			}
			name = alias
		}
		index[name] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(rec []string, index map[string]int) (domain.Transaction, bool) {
	field := func(name string) string {
		i := index[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	date, ok := ParseDate(field("date"))
	if !ok {
		return domain.Transaction{}, false
	}
	amount, err := money.ParseAmount(field("price"))
	if err != nil {
		return domain.Transaction{}, false
	}
	return domain.Transaction{
		Date:     date,
		Vendor:   field("vendor"),
		Category: strings.ToLower(field("category")),
		Amount:   amount,
	}, true
}

// ParseDate accepts the date layouts commonly found in bank exports.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Выгрузки из старых банковских клиентов бывают в windows-1252.
func toUTF8(b []byte) []byte {
	if utf8.Valid(b) {
		return b
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return bytes.ToValidUTF8(b, nil)
	}
	return decoded
}
