package recommend

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
	"github.com/actuallystonmai/movie-recommender/internal/metrics"
	"github.com/actuallystonmai/movie-recommender/internal/model"
)

type MovieEmbeddings struct {
	Title    []float64
	Overview []float64
}

// EmbeddingCache memoizes per-movie title and overview embeddings for the
// lifetime of the process. Entries are never evicted or refreshed: once a
// movie id is cached, later calls return the stored pair even if the text has
// changed since. It is safe for concurrent use.
type EmbeddingCache struct {
	encoder model.Encoder

	mu      sync.RWMutex
	entries map[int64]MovieEmbeddings

	// collapses concurrent misses for the same movie into one computation
	inflight singleflight.Group
}

func NewEmbeddingCache(encoder model.Encoder) *EmbeddingCache {
	return &EmbeddingCache{
		encoder: encoder,
		entries: make(map[int64]MovieEmbeddings),
	}
}

func (c *EmbeddingCache) lookup(movieID int64) (MovieEmbeddings, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[movieID]
	return e, ok
}

// GetOrCompute returns the cached embeddings for movieID, encoding title and
// overview on the first call. Nothing is stored when encoding fails. A caller
// whose ctx ends stops waiting; the encoding itself runs to completion.
func (c *EmbeddingCache) GetOrCompute(ctx context.Context, movieID int64, title, overview string) (MovieEmbeddings, error) {
	if e, ok := c.lookup(movieID); ok {
		metrics.EmbeddingCacheLookups.WithLabelValues("hit").Inc()
		return e, nil
	}
	metrics.EmbeddingCacheLookups.WithLabelValues("miss").Inc()

	// The computation is shared by every waiter, so it must not die with the
	// first caller's context. Each caller still stops waiting on its own ctx.
	sharedCtx := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(strconv.FormatInt(movieID, 10), func() (any, error) {
		if e, ok := c.lookup(movieID); ok {
			return e, nil
		}

		titleVec, err := c.encoder.Encode(sharedCtx, title)
		if err != nil {
			return nil, fmt.Errorf("encode title of movie %d: %w", movieID, err)
		}
		overviewVec, err := c.encoder.Encode(sharedCtx, overview)
		if err != nil {
			return nil, fmt.Errorf("encode overview of movie %d: %w", movieID, err)
		}

		e := MovieEmbeddings{Title: titleVec, Overview: overviewVec}
		c.mu.Lock()
		if existing, ok := c.entries[movieID]; ok {
			e = existing
		} else {
			c.entries[movieID] = e
		}
		size := len(c.entries)
		c.mu.Unlock()

		metrics.EmbeddingCacheEntries.Set(float64(size))
		return e, nil
	})

	select {
	case <-ctx.Done():
		return MovieEmbeddings{}, fmt.Errorf("embeddings of movie %d: %w", movieID, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return MovieEmbeddings{}, res.Err
		}
		return res.Val.(MovieEmbeddings), nil
	}
}

// GetOrComputeAll resolves embeddings for every movie, in catalog order.
// Misses are encoded with at most concurrency goroutines.
func (c *EmbeddingCache) GetOrComputeAll(ctx context.Context, movies []domain.Movie, concurrency int) ([]MovieEmbeddings, error) {
	out := make([]MovieEmbeddings, len(movies))

	var misses []int
	c.mu.RLock()
	for i, m := range movies {
		if e, ok := c.entries[m.ID]; ok {
			out[i] = e
		} else {
			misses = append(misses, i)
		}
	}
	c.mu.RUnlock()

	metrics.EmbeddingCacheLookups.WithLabelValues("hit").Add(float64(len(movies) - len(misses)))
	if len(misses) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for _, i := range misses {
		i := i
		g.Go(func() error {
			m := movies[i]
			e, err := c.GetOrCompute(gctx, m.ID, m.Title, m.Overview)
			if err != nil {
				return err
			}
			out[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EmbeddingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
