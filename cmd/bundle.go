package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/product-compare/internal/model"
)

// loadBundles reads the two bundle files concurrently.
func loadBundles(ctx context.Context, pathA, pathB string) (*model.ProductBundle, *model.ProductBundle, error) {
	var a, b *model.ProductBundle
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		a, err = loadBundle(ctx, pathA)
		return err
	})
	g.Go(func() error {
		var err error
		b, err = loadBundle(ctx, pathB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

func loadBundle(ctx context.Context, path string) (*model.ProductBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read bundle %s", path)
	}
	var b model.ProductBundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, eris.Wrapf(err, "decode bundle %s", path)
	}
	return &b, nil
}
