package engine

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// errStopPaging signals that enough records were collected and the page
// loop should end without error.
var errStopPaging = errors.New("stop paging")

// Fetcher drains a Source page by page, deduplicating records by
// external id within one pass.
type Fetcher struct {
	Source Source
	Logger *zap.Logger
}

// NewFetcher wires a fetcher around a source.
func NewFetcher(source Source, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{Source: source, Logger: logger}
}

// pages walks the source cursor until exhaustion, calling visit with
// each page. A pinned page in the filter fetches that single page only.
func (f *Fetcher) pages(ctx context.Context, kind EntityKind, filter Filter, visit func(records []Record) error) error {
	cursor := ""
	pinned := filter.Page > 0
	for {
		if err := ctx.Err(); err != nil {
			return NewTransient("fetch "+string(kind), err)
		}

		records, next, err := f.Source.Fetch(ctx, kind, filter, cursor)
		if err != nil {
			return err
		}
		if err := visit(records); err != nil {
			if errors.Is(err, errStopPaging) {
				return nil
			}
			return err
		}
		if pinned || next == "" {
			return nil
		}
		cursor = next
	}
}

// FetchAll collects every record for the kind and filter. Later pages
// win when the source repeats an external id across pages.
func (f *Fetcher) FetchAll(ctx context.Context, kind EntityKind, filter Filter) ([]Record, error) {
	var out []Record
	index := make(map[int64]int)

	err := f.pages(ctx, kind, filter, func(records []Record) error {
		for _, rec := range records {
			if rec.ExternalID != 0 {
				if at, ok := index[rec.ExternalID]; ok {
					out[at] = rec
					continue
				}
				index[rec.ExternalID] = len(out)
			}
			out = append(out, rec)
			if filter.Limit > 0 && len(out) >= filter.Limit {
				return errStopPaging
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	f.Logger.Debug("fetched records", zap.String("kind", string(kind)), zap.Int("count", len(out)))
	return out, nil
}

// Stream hands each page to handle as it arrives instead of buffering
// the whole result set. Repeated external ids keep their first
// occurrence and later ones are dropped.
func (f *Fetcher) Stream(ctx context.Context, kind EntityKind, filter Filter, handle func(records []Record) error) error {
	seen := make(map[int64]bool)
	delivered := 0

	return f.pages(ctx, kind, filter, func(records []Record) error {
		page := make([]Record, 0, len(records))
		for _, rec := range records {
			if rec.ExternalID != 0 {
				if seen[rec.ExternalID] {
					continue
				}
				seen[rec.ExternalID] = true
			}
			page = append(page, rec)
			delivered++
			if filter.Limit > 0 && delivered >= filter.Limit {
				break
			}
		}
		if len(page) > 0 {
			if err := handle(page); err != nil {
				return err
			}
		}
		if filter.Limit > 0 && delivered >= filter.Limit {
			return errStopPaging
		}
		return nil
	})
}
