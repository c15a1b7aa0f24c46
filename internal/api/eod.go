package api

import (
	"context"
	"net/url"

	"github.com/rickgao/eod-data/internal/model"
)

// EndOfDay fetches daily (or weekly/monthly) bars for one instrument.
// Dates are validated before any request is sent.
func (c *Client) EndOfDay(ctx context.Context, inst model.Instrument, opts EndOfDayOptions) ([]model.Record, error) {
	query, err := opts.query()
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, "/eod/"+url.PathEscape(inst.String()), query)
	if err != nil {
		return nil, notFound(err, inst)
	}
	return decodeRecords(body)
}
