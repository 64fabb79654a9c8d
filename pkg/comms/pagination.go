package comms

import (
	"context"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/comms-client/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrTooManyPages = errors.New("pagination did not terminate")
	ErrNoMoreItems  = errors.New("no more items")
)

// PageFunc fetches the page that starts at nextToken ("" for the first page).
type PageFunc[T any] func(ctx context.Context, nextToken string) (*ListResponse[T], error)

// PaginationOptions bounds a multi-page walk.
type PaginationOptions struct {
	// MaxPages stops the walk with ErrTooManyPages; zero means constants.MaxPages.
	MaxPages int
	// MaxItems stops the walk early once this many items were collected; zero means no limit.
	MaxItems int
	// StartToken resumes the walk at a previously returned NextToken.
	StartToken string
}

// DefaultPaginationOptions returns the default options.
func DefaultPaginationOptions() PaginationOptions {
	return PaginationOptions{MaxPages: constants.MaxPages}
}

// CollectAll follows NextToken until the last page and returns every item.
// On error the items gathered so far are returned with it.
func CollectAll[T any](ctx context.Context, fetch PageFunc[T], opts PaginationOptions) ([]T, error) {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = constants.MaxPages
	}

	var all []T

	token := opts.StartToken

	for page := 0; page < maxPages; page++ {
		resp, err := fetch(ctx, token)
		if err != nil {
			return all, fmt.Errorf("fetching page %d: %w", page+1, err)
		}

		all = append(all, resp.Items...)

		if opts.MaxItems > 0 && len(all) >= opts.MaxItems {
			return all[:opts.MaxItems], nil
		}

		if !resp.HasNext() {
			return all, nil
		}

		if *resp.NextToken == token {
			return all, fmt.Errorf("%w: next token %q repeated", ErrTooManyPages, token)
		}

		token = *resp.NextToken
	}

	return all, fmt.Errorf("%w: more than %d pages", ErrTooManyPages, maxPages)
}

// PaginationIterator yields items one at a time, fetching pages lazily.
type PaginationIterator[T any] struct {
	ctx     context.Context //nolint:containedctx
	fetch    PageFunc[T]
	items    []T
	index    int
	token    string
	pages    int
	maxPages int
	started  bool
	done     bool
	err      error
}

// NewPaginationIterator creates an iterator over fetch with the default options.
func NewPaginationIterator[T any](ctx context.Context, fetch PageFunc[T]) *PaginationIterator[T] {
	return NewPaginationIteratorWithOptions(ctx, fetch, DefaultPaginationOptions())
}

// NewPaginationIteratorWithOptions creates an iterator that starts at
// opts.StartToken and stops with ErrTooManyPages after opts.MaxPages pages.
// MaxItems is ignored.
func NewPaginationIteratorWithOptions[T any](ctx context.Context, fetch PageFunc[T], opts PaginationOptions) *PaginationIterator[T] {
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = constants.MaxPages
	}

	return &PaginationIterator[T]{ctx: ctx, fetch: fetch, token: opts.StartToken, maxPages: maxPages}
}

// HasNext reports whether Next will return an item. It fetches the next page
// when the current one is exhausted.
func (it *PaginationIterator[T]) HasNext() bool {
	for it.index >= len(it.items) {
		if it.err != nil || it.done {
			return false
		}

		it.load()
	}

	return true
}

// Next returns the next item.
func (it *PaginationIterator[T]) Next() (T, error) {
	var zero T

	if !it.HasNext() {
		if it.err != nil {
			return zero, it.err
		}

		return zero, ErrNoMoreItems
	}

	item := it.items[it.index]
	it.index++

	return item, nil
}

// Err returns the error that stopped iteration, if any.
func (it *PaginationIterator[T]) Err() error {
	return it.err
}

func (it *PaginationIterator[T]) load() {
	if it.started && it.token == "" {
		it.done = true

		return
	}

	if it.pages >= it.maxPages {
		it.err = fmt.Errorf("%w: more than %d pages", ErrTooManyPages, it.maxPages)

		return
	}

	resp, err := it.fetch(it.ctx, it.token)
	if err != nil {
		it.err = fmt.Errorf("fetching page %d: %w", it.pages+1, err)

		return
	}

	it.pages++
	it.items = resp.Items
	it.index = 0

	previous := it.token
	it.token = ""

	if resp.HasNext() {
		if *resp.NextToken == previous {
			it.err = fmt.Errorf("%w: next token %q repeated", ErrTooManyPages, previous)

			return
		}

		it.token = *resp.NextToken
	}

	it.started = true

	if it.token == "" && len(it.items) == 0 {
		it.done = true
	}
}
