package extractor

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/nimbly-dev/ph-shoes-web-scrapper/adapters"
	"github.com/nimbly-dev/ph-shoes-web-scrapper/internal/types"
)

// Paginator drives one category's fetch/parse loop for a PagedAdapter,
// applying the adapter's stop policy, the caller's page cap, and the
// adapter's inter-page delay.
type Paginator struct {
	adapter PagedAdapter
	spec    types.PaginationSpec
	logger  types.Logger
}

func NewPaginator(adapter PagedAdapter) *Paginator {
	return &Paginator{
		adapter: adapter,
		spec:    adapter.Pagination(),
		logger:  adapter.Logger(),
	}
}

// Run walks a category until its stop policy fires or the page cap is
// reached. A fetch or parse failure ends the category but keeps the items
// collected so far; both partial items and the error are returned.
func (p *Paginator) Run(ctx context.Context, category string, numPages int) ([]types.Shoe, error) {
	var items []types.Shoe
	page := p.spec.StartPage
	fetched := 0
	emptyStreak := 0
	totalPages := 0

	for {
		if numPages > 0 && fetched >= numPages {
			break
		}

		pageURL := p.adapter.PageURL(category, page)
		body, err := p.adapter.Fetcher().Get(ctx, pageURL)
		if err != nil {
			return items, err
		}

		// A printed page count from the first page caps the walk for
		// sites that expose one.
		if fetched == 0 {
			if counter, ok := p.adapter.(PageCounter); ok {
				totalPages = counter.TotalPages(body)
				p.logger.Debugf("%s: %s reports %d pages", p.adapter.Brand(), category, totalPages)
			}
		}

		batch, err := p.adapter.ParsePage(ctx, body, category)
		if err != nil {
			var structural *adapters.StructuralError
			if errors.As(err, &structural) {
				p.logger.Errorf("%s: %s page %d unparseable: %v", p.adapter.Brand(), category, page, err)
			}
			return items, err
		}

		stop := false
		switch p.spec.Policy {
		case types.StopOnEmptyPage:
			if len(batch) == 0 {
				stop = true
			} else {
				items = append(items, batch...)
			}
		case types.StopOnShortPage:
			items = append(items, batch...)
			if len(batch) < p.spec.PageSize {
				stop = true
			}
		case types.StopOnDoubleEmpty:
			if len(batch) == 0 {
				emptyStreak++
				if emptyStreak >= 2 {
					stop = true
				}
			} else {
				emptyStreak = 0
				items = append(items, batch...)
			}
		case types.StopOnStableCount:
			// The listing grows in place, so each batch replaces the
			// previous one; no growth means the site ran out of items.
			if fetched > 0 && len(batch) <= len(items) {
				items = batch
				stop = true
			} else {
				items = batch
			}
		}

		fetched++
		page++
		if stop {
			break
		}
		if totalPages > 0 && fetched >= totalPages {
			break
		}
		if err := p.idle(ctx); err != nil {
			return items, err
		}
	}

	return items, nil
}

// idle waits the adapter's inter-page delay, jittered when a range is
// configured, and aborts early on context cancellation.
func (p *Paginator) idle(ctx context.Context) error {
	d := p.spec.DelayMin
	if p.spec.DelayMax > p.spec.DelayMin {
		d += time.Duration(rand.Int63n(int64(p.spec.DelayMax - p.spec.DelayMin)))
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
