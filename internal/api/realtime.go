package api

import (
	"context"
	"net/url"
	"strings"

	"github.com/rickgao/eod-data/internal/chunk"
	"github.com/rickgao/eod-data/internal/model"
)

func realTimePath(inst model.Instrument) string {
	return "/real-time/" + url.PathEscape(inst.String())
}

// RealTime fetches the latest quote for one instrument.
func (c *Client) RealTime(ctx context.Context, inst model.Instrument) (model.Record, error) {
	body, err := c.doRequest(ctx, realTimePath(inst), nil)
	if err != nil {
		return nil, notFound(err, inst)
	}
	return decodeRecord(body)
}

// RealTimeBatch fetches quotes for every instrument in the batch, one request
// per partition of BatchSize instruments. The first instrument of a partition
// goes in the path and the rest in the s parameter.
//
// Results are concatenated in partition order. The provider decides which
// records come back, so the result need not line up with the batch.
func (c *Client) RealTimeBatch(ctx context.Context, batch model.Batch) ([]model.Record, error) {
	if batch.Len() == 0 {
		return nil, model.ErrSymbolListRequired
	}

	var results []model.Record
	for part := range chunk.Of(batch.Instruments(), c.batchSize) {
		records, err := c.realTimePartition(ctx, part)
		if err != nil {
			return nil, err
		}
		results = append(results, records...)
	}

	c.logger.Debug("real-time batch fetched",
		"instruments", batch.Len(),
		"partitions", chunk.Count(batch.Len(), c.batchSize),
		"records", len(results),
	)

	return results, nil
}

func (c *Client) realTimePartition(ctx context.Context, part []model.Instrument) ([]model.Record, error) {
	anchor, rest := part[0], part[1:]

	query := url.Values{}
	if len(rest) > 0 {
		symbols := make([]string, len(rest))
		for i, inst := range rest {
			symbols[i] = inst.String()
		}
		query.Set("s", strings.Join(symbols, ","))
	}

	body, err := c.doRequest(ctx, realTimePath(anchor), query)
	if err != nil {
		return nil, notFound(err, anchor)
	}
	return decodeRecords(body)
}
