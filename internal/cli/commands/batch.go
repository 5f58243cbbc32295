package commands

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// batchResult is the outcome of processing one source.
type batchResult struct {
	Source source
	Output string
	Err    error
}

// runBatch applies fn to every source using at most jobs goroutines and
// returns the results in input order. Per-source errors are recorded in
// the results; only cancellation stops the batch.
func runBatch(ctx context.Context, sources []source, jobs int, fn func(source) (string, error)) ([]batchResult, error) {
	results := make([]batchResult, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := fn(src)
			results[i] = batchResult{Source: src, Output: out, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// writeResults prints successful outputs in order and diagnostics for
// failures. Several outputs are each preceded by a comment naming the
// source. It returns ErrReported when any source failed.
func (c *CommandContext) writeResults(results []batchResult) error {
	failed := 0
	multi := len(results) > 1
	first := true
	for _, res := range results {
		if res.Err != nil {
			failed++
			c.Renderer.Diagnostic(res.Source.Name, res.Source.Text, res.Err)
			continue
		}
		if !first {
			c.Renderer.Println()
		}
		first = false
		if multi {
			c.Renderer.Println(c.Renderer.Styles().Muted.Render("-- " + res.Source.displayName()))
		}
		c.Renderer.Println(terminate(res.Output))
	}
	if failed > 0 {
		c.Logger.Debug("batch finished with failures", "failed", failed, "total", len(results))
		return fmt.Errorf("%d of %d inputs failed: %w", failed, len(results), ErrReported)
	}
	return nil
}

// terminate ends non-empty SQL output with a semicolon.
func terminate(sql string) string {
	if sql == "" || strings.HasSuffix(sql, ";") {
		return sql
	}
	return sql + ";"
}
