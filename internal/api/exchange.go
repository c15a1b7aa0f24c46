package api

import (
	"context"
	"net/url"

	"github.com/rickgao/eod-data/internal/model"
)

// ExchangeSymbols lists the tradable symbols on an exchange.
func (c *Client) ExchangeSymbols(ctx context.Context, exchange string) ([]model.Record, error) {
	if err := model.ValidateExchange(exchange); err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, "/exchanges/"+url.PathEscape(exchange), nil)
	if err != nil {
		return nil, err
	}
	return decodeRecords(body)
}
