package catalog

import (
	"math/rand/v2"
	"sync"

	"github.com/samvad-hq/samvad-portal/internal/domain"
)

// RelatedLimit caps the related-articles list.
const RelatedLimit = 12

// Shuffler produces uniform permutations. *rand.Rand from math/rand/v2 satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// RelatedTo returns up to RelatedLimit articles other than current: same-category candidates first,
// then the rest, each group independently shuffled. A nil shuffler uses the global source.
func RelatedTo(current *domain.Article, articles []domain.Article, shuffler Shuffler) []domain.Article {
	if current == nil || len(articles) == 0 {
		return []domain.Article{}
	}
	if shuffler == nil {
		shuffler = globalShuffler{}
	}

	category := current.Category.Key()
	same := make([]domain.Article, 0, len(articles))
	other := make([]domain.Article, 0, len(articles))
	for _, a := range articles {
		if a.ID == current.ID {
			continue
		}
		if a.Category.Key() == category {
			same = append(same, a)
		} else {
			other = append(other, a)
		}
	}

	shuffler.Shuffle(len(same), func(i, j int) { same[i], same[j] = same[j], same[i] })
	shuffler.Shuffle(len(other), func(i, j int) { other[i], other[j] = other[j], other[i] })

	out := append(same, other...)
	if len(out) > RelatedLimit {
		out = out[:RelatedLimit]
	}
	return cloneAll(out)
}

// RelatedCache memoizes RelatedTo per (current ID, store version) so a page keeps the same
// recommendations until the article or the store changes.
type RelatedCache struct {
	mu       sync.Mutex
	shuffler Shuffler
	version  uint64
	entries  map[string][]domain.Article
}

// NewRelatedCache builds a cache. A nil shuffler uses the global source.
func NewRelatedCache(shuffler Shuffler) *RelatedCache {
	return &RelatedCache{
		shuffler: shuffler,
		entries:  make(map[string][]domain.Article),
	}
}

// Related returns the memoized list for current within the store identified by version,
// computing a fresh shuffle only when the key changes.
func (c *RelatedCache) Related(current *domain.Article, articles []domain.Article, version uint64) []domain.Article {
	if current == nil || len(articles) == 0 {
		return []domain.Article{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries != nil && version < c.version {
		// A reader still holding an older snapshot must not evict the newer memo.
		return RelatedTo(current, articles, c.shuffler)
	}
	if c.entries == nil || version > c.version {
		c.entries = make(map[string][]domain.Article)
		c.version = version
	}
	if cached, ok := c.entries[current.ID]; ok {
		return cloneAll(cached)
	}

	related := RelatedTo(current, articles, c.shuffler)
	c.entries[current.ID] = related
	return cloneAll(related)
}

// Reset drops every memoized entry.
func (c *RelatedCache) Reset() {
	c.mu.Lock()
	c.entries = make(map[string][]domain.Article)
	c.mu.Unlock()
}

// Len reports the number of memoized entries for the current version.
func (c *RelatedCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cloneAll(articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))
	for i, a := range articles {
		out[i] = a.Clone()
	}
	return out
}
