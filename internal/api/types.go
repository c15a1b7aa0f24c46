package api

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/rickgao/eod-data/internal/model"
)

// Errors
var (
	ErrInvalidPeriod = errors.New("period must be one of d, w, m")
	ErrInvalidOrder  = errors.New("order must be one of a, d")
	ErrInvalidRange  = errors.New("from date is after to date")
)

// Period values accepted by the end-of-day endpoint.
const (
	PeriodDaily   = "d"
	PeriodWeekly  = "w"
	PeriodMonthly = "m"
)

// Order values accepted by the end-of-day endpoint.
const (
	OrderAscending  = "a"
	OrderDescending = "d"
)

// EndOfDayOptions configures an EndOfDay request. Empty fields are omitted.
type EndOfDayOptions struct {
	From   string // Inclusive start date, YYYY-MM-DD
	To     string // Inclusive end date, YYYY-MM-DD
	Period string // d, w or m
	Order  string // a or d
}

// query validates the options and builds the request parameters.
func (o EndOfDayOptions) query() (url.Values, error) {
	query := url.Values{}

	var from, to model.Date
	var err error
	if o.From != "" {
		if from, err = model.ParseDate(o.From); err != nil {
			return nil, err
		}
		query.Set("from", from.String())
	}
	if o.To != "" {
		if to, err = model.ParseDate(o.To); err != nil {
			return nil, err
		}
		query.Set("to", to.String())
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, from, to)
	}

	switch o.Period {
	case "":
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		query.Set("period", o.Period)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPeriod, o.Period)
	}

	switch o.Order {
	case "":
	case OrderAscending, OrderDescending:
		query.Set("order", o.Order)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrder, o.Order)
	}

	return query, nil
}
