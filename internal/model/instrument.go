package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Instrument identifies a tradable ticker on an exchange.
type Instrument struct {
	code     string
	exchange string
}

// NewInstrument creates an Instrument from a ticker code and an exchange code.
// Both are required and the exchange must be supported.
func NewInstrument(code, exchange string) (Instrument, error) {
	code = strings.TrimSpace(code)
	exchange = strings.TrimSpace(exchange)

	if code == "" {
		return Instrument{}, fmt.Errorf("%w: code is required", ErrSymbolDictRequired)
	}
	if err := ValidateExchange(exchange); err != nil {
		return Instrument{}, err
	}

	return Instrument{code: code, exchange: exchange}, nil
}

// ParseInstrument parses "CODE.EXCHANGE". The exchange is taken after the last dot.
func ParseInstrument(s string) (Instrument, error) {
	i := strings.LastIndex(s, ".")
	if i < 0 {
		return Instrument{}, fmt.Errorf("%w: %q has no exchange suffix", ErrExchangeCodeRequired, s)
	}
	return NewInstrument(s[:i], s[i+1:])
}

// Code returns the ticker code.
func (i Instrument) Code() string { return i.code }

// Exchange returns the exchange code.
func (i Instrument) Exchange() string { return i.exchange }

// String renders the instrument as "CODE.EXCHANGE".
func (i Instrument) String() string {
	return i.code + "." + i.exchange
}

// IsZero reports whether i was not built by a constructor.
func (i Instrument) IsZero() bool {
	return i.code == "" && i.exchange == ""
}

// Batch is an ordered, non-empty list of instruments.
type Batch struct {
	instruments []Instrument
}

// NewBatch creates a Batch. The slice is copied.
func NewBatch(instruments []Instrument) (Batch, error) {
	if len(instruments) == 0 {
		return Batch{}, ErrSymbolListRequired
	}
	for i, inst := range instruments {
		if inst.IsZero() {
			return Batch{}, fmt.Errorf("%w (found at index %d)", ErrSymbolDictRequired, i)
		}
	}
	return Batch{instruments: slices.Clone(instruments)}, nil
}

// ParseBatch decodes a JSON array of {"code": ..., "exchange_code": ...} objects.
// It stops at the first element that is not a well-formed pair; an object
// with keys other than code and exchange_code is not a pair.
func ParseBatch(data []byte) (Batch, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Batch{}, fmt.Errorf("%w: %v", ErrSymbolListRequired, err)
	}

	list, ok := raw.([]any)
	if !ok {
		return Batch{}, fmt.Errorf("%w: must be a list of dicts", ErrSymbolListRequired)
	}

	instruments := make([]Instrument, 0, len(list))
	for i, elem := range list {
		obj, ok := elem.(map[string]any)
		if !ok {
			return Batch{}, fmt.Errorf("%w: all items in the list must be dicts (found at index %d)", ErrSymbolDictRequired, i)
		}

		for _, k := range slices.Sorted(maps.Keys(obj)) {
			if k != "code" && k != "exchange_code" {
				return Batch{}, fmt.Errorf("%w: unexpected key %q (found at index %d)", ErrSymbolDictRequired, k, i)
			}
		}

		code, _ := obj["code"].(string)
		exchange, _ := obj["exchange_code"].(string)
		inst, err := NewInstrument(code, exchange)
		if err != nil {
			return Batch{}, fmt.Errorf("item %d: %w", i, err)
		}
		instruments = append(instruments, inst)
	}

	return NewBatch(instruments)
}

// Len returns the number of instruments.
func (b Batch) Len() int { return len(b.instruments) }

// Instruments returns a copy of the instruments in order.
func (b Batch) Instruments() []Instrument {
	return slices.Clone(b.instruments)
}

// Record is a provider payload object, passed through without a schema.
type Record map[string]any
