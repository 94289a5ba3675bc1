package dict

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Source identifies one configured word-list source. Aff is recorded for the
// external morphology layer; the Dic word list is what loads into the
// registry. Both paths are guaranteed locally available by the provider
// before LoadSources runs.
type Source struct {
	Language string
	Aff      string
	Dic      string
}

// LoadSources parses and loads every configured word list concurrently.
// A failing source is skipped and its error collected; the registry keeps
// serving whatever did load. cache may be nil.
func LoadSources(ctx context.Context, reg *Registry, sources []Source, cache *DiskCache) []error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	var mu sync.Mutex
	var errs []error

	for _, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			words, err := loadWordList(src, cache)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("dictionary %q: %w", src.Language, err))
				mu.Unlock()
				return nil // skip, never block the rest
			}
			reg.Load(Dictionary{Tag: src.Language, Words: words, Origin: OriginBundled})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}
	return errs
}

func loadWordList(src Source, cache *DiskCache) ([]string, error) {
	// #nosec G304 -- path comes from user configuration
	content, err := os.ReadFile(src.Dic)
	if err != nil {
		return nil, err
	}
	key := sha256.Sum256(content)
	if words, ok := cache.Get(key); ok {
		return words, nil
	}
	words, err := ParseWordList(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	// best effort: a failed cache write only costs a re-parse next time
	_ = cache.Put(key, src.Language, words)
	return words, nil
}
