package main

import (
	"fmt"

	"github.com/fwojciec/pagemeta"
	"github.com/fwojciec/pagemeta/fs"
	"golang.org/x/sync/errgroup"
)

// result is the outcome of extracting a single URL.
type result struct {
	url      string
	metadata *pagemeta.PageMetadata
	err      error
}

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	results := c.extractAll(deps)

	var stores []pagemeta.ResultStore
	if deps.Files != nil {
		stores = append(stores, deps.Files)
	}
	if deps.Archive != nil {
		stores = append(stores, deps.Archive)
	}

	var failed, saved int
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", r.url, errorMessage(r.err))
			continue
		}

		if err := c.print(deps, r); err != nil {
			abortAll(stores)
			return err
		}

		for _, store := range stores {
			if err := store.Save(deps.Ctx, r.url, r.metadata); err != nil {
				abortAll(stores)
				fmt.Fprintf(deps.Stderr, "error saving %s: %s\n", r.url, errorMessage(err))
				return err
			}
		}
		saved++
	}

	if saved == 0 {
		abortAll(stores)
	} else {
		for i, store := range stores {
			if err := store.Commit(); err != nil {
				abortAll(stores[i+1:])
				fmt.Fprintf(deps.Stderr, "error committing: %v\n", err)
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(results))
	}
	return nil
}

// extractAll extracts every URL with bounded concurrency. A failure on one
// URL does not cancel the others. Results keep input order.
func (c *ExtractCmd) extractAll(deps *Dependencies) []result {
	results := make([]result, len(c.URLs))

	concurrency := c.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i, url := range c.URLs {
		g.Go(func() error {
			m, err := deps.Extractor.ExtractPage(deps.Ctx, url)
			results[i] = result{url: url, metadata: m, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *ExtractCmd) print(deps *Dependencies, r result) error {
	if c.Format == "text" {
		_, err := fmt.Fprintln(deps.Stdout, pagemeta.FormatMetadata(r.url, r.metadata))
		return err
	}

	b, err := fs.FormatRecord(r.url, r.metadata)
	if err != nil {
		return err
	}
	_, err = deps.Stdout.Write(b)
	return err
}

func abortAll(stores []pagemeta.ResultStore) {
	for _, store := range stores {
		_ = store.Abort()
	}
}

// errorMessage returns a human-readable message for err. Application errors
// carry their own message; anything else is shown as is.
func errorMessage(err error) string {
	if pagemeta.ErrorCode(err) == pagemeta.EINTERNAL {
		return err.Error()
	}
	return pagemeta.ErrorMessage(err)
}
