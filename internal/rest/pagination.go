package rest

import (
	"context"
	"fmt"
	"time"

	"github.com/quorumfeed/marketdata/internal/core"
)

// FetchOHLCVPaginated decomposes (startTime, limit) into sequential windows
// of size <= perRequestCap, issuing one REST call per window through the
// same spec/adapter path, concatenating results with strictly increasing
// timestamps and deduplicating the boundary bar when adjacent windows
// overlap by one.
func FetchOHLCVPaginated(
	ctx context.Context,
	runner *Runner,
	spec EndpointSpec,
	adapter ResponseAdapter,
	baseParams Params,
	timeframeSeconds int64,
	startTime time.Time,
	limit int,
	maxChunks int,
	perRequestCap int,
) ([]core.Bar, error) {
	if perRequestCap <= 0 {
		perRequestCap = limit
	}
	if limit <= 0 {
		return nil, &core.ValidationError{Message: "limit must be positive", Field: "limit"}
	}

	remaining := limit
	chunkCount := 0
	cursor := startTime
	step := time.Duration(timeframeSeconds) * time.Second

	var all []core.Bar
	var lastTimestamp *time.Time

	for remaining > 0 {
		if maxChunks > 0 && chunkCount >= maxChunks {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		chunkLimit := remaining
		if chunkLimit > perRequestCap {
			chunkLimit = perRequestCap
		}

		params := make(Params, len(baseParams)+2)
		for k, v := range baseParams {
			params[k] = v
		}
		params["start_time"] = cursor
		params["limit"] = chunkLimit

		raw, err := runner.Do(ctx, spec, adapter, params)
		if err != nil {
			return nil, err
		}
		bars, ok := raw.([]core.Bar)
		if !ok {
			return nil, fmt.Errorf("rest: adapter for %s did not return []core.Bar", spec.ID)
		}

		for _, b := range bars {
			if lastTimestamp != nil && !b.Timestamp.After(*lastTimestamp) {
				continue // dedupe on boundary overlap
			}
			all = append(all, b)
			ts := b.Timestamp
			lastTimestamp = &ts
		}

		chunkCount++
		remaining -= len(bars)
		if len(bars) == 0 {
			break // exchange returned nothing further; avoid an infinite loop
		}
		cursor = cursor.Add(time.Duration(chunkLimit) * step)
	}

	return all, nil
}
