package recommend

import (
	"sort"

	"github.com/actuallystonmai/movie-recommender/internal/domain"
)

// rankTop sorts by score descending and keeps the first limit entries.
// The sort is stable, so equal scores keep catalog order.
func rankTop(scored []domain.ScoredMovie, limit int) []domain.ScoredMovie {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
