// Package paginate aggregates cursor-paginated vendor listings into one flat
// ordered sequence.
package paginate

import "context"

// PageFunc fetches one page for an opaque cursor and returns the items plus
// the cursor for the next page.
type PageFunc[T any] func(ctx context.Context, cursor string) (items []T, next string, err error)

// All calls first for the opening page, then follows next with each returned
// cursor until the vendor hands back an empty one. Items accumulate in fetch
// order. No page bound is enforced here; callers needing one must wrap next.
func All[T any](ctx context.Context, first func(ctx context.Context) ([]T, string, error), next PageFunc[T]) ([]T, error) {
	items, cursor, err := first(ctx)
	if err != nil {
		return nil, err
	}
	out := items
	for cursor != "" {
		items, cursor, err = next(ctx, cursor)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}
