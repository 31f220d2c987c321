package recommend

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

// fakeEncoder returns fixed vectors per text and counts calls.
type fakeEncoder struct {
	vectors  map[string][]float64
	fallback []float64
	err      error
	calls    atomic.Int64

	// gate, when set, blocks Encode until closed.
	gate chan struct{}
	mu   sync.Mutex
	seen []string
}

func (f *fakeEncoder) Encode(_ context.Context, text string) ([]float64, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.seen = append(f.seen, text)
	f.mu.Unlock()
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return f.fallback, nil
}

// blockingEncoder holds every call until release is closed or the call's
// ctx ends.
type blockingEncoder struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingEncoder() *blockingEncoder {
	return &blockingEncoder{started: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingEncoder) Encode(ctx context.Context, _ string) ([]float64, error) {
	b.once.Do(func() { close(b.started) })
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-b.release:
		return []float64{1, 0}, nil
	}
}

func movie(id int64, genres ...int64) domain.Movie {
	return domain.Movie{
		ID:     id,
		Title:  "movie",
		Genres: domain.NewIDSet(genres...),
		Cast:   domain.NewIDSet(),
		Crew:   domain.NewIDSet(),
	}
}

func catalogOf(n int) []domain.Movie {
	movies := make([]domain.Movie, n)
	for i := range movies {
		movies[i] = movie(int64(i + 1))
	}
	return movies
}

func ids(scored []domain.ScoredMovie) []int64 {
	out := make([]int64, len(scored))
	for i, s := range scored {
		out[i] = s.Movie.ID
	}
	return out
}
