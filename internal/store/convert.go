package store

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/eod-data/internal/model"
)

// The provider reports missing values as the string "NA". Anything that does
// not parse as a number is stored as NULL.

func decimalValue(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

func decimalField(rec model.Record, key string) decimal.NullDecimal {
	d, ok := decimalValue(rec[key])
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}

func int64Field(rec model.Record, key string) *int64 {
	d, ok := decimalValue(rec[key])
	if !ok {
		return nil
	}
	n := d.IntPart()
	return &n
}

func stringField(rec model.Record, key string) string {
	s, _ := rec[key].(string)
	return strings.TrimSpace(s)
}

// unixField reads a unix timestamp in seconds.
func unixField(rec model.Record, key string) (time.Time, bool) {
	d, ok := decimalValue(rec[key])
	if !ok || d.Sign() <= 0 {
		return time.Time{}, false
	}
	return time.Unix(d.IntPart(), 0).UTC(), true
}
