package content

import (
	"time"

	"github.com/samvad-hq/samvad-portal/internal/domain"
)

// Origin records where one half of a snapshot came from.
type Origin string

const (
	OriginNone     Origin = "none"
	OriginLive     Origin = "live"
	OriginFallback Origin = "fallback"
)

// Snapshot is one immutable load of articles and deals. Accessors hand out copies.
type Snapshot struct {
	version       uint64
	articles      []domain.Article
	deals         []domain.Deal
	index         map[string]int
	articleOrigin Origin
	dealOrigin    Origin
	loadedAt      time.Time
}

// NewSnapshot builds a snapshot, keeping the first article for any duplicated ID.
func NewSnapshot(version uint64, articles []domain.Article, deals []domain.Deal, articleOrigin, dealOrigin Origin, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		version:       version,
		articles:      make([]domain.Article, 0, len(articles)),
		deals:         make([]domain.Deal, 0, len(deals)),
		index:         make(map[string]int, len(articles)),
		articleOrigin: articleOrigin,
		dealOrigin:    dealOrigin,
		loadedAt:      loadedAt,
	}
	for _, a := range articles {
		if _, dup := s.index[a.ID]; dup {
			continue
		}
		s.index[a.ID] = len(s.articles)
		s.articles = append(s.articles, a.Clone())
	}
	seenDeals := make(map[string]bool, len(deals))
	for _, d := range deals {
		if seenDeals[d.ID] {
			continue
		}
		seenDeals[d.ID] = true
		s.deals = append(s.deals, d)
	}
	return s
}

func emptySnapshot() *Snapshot {
	return NewSnapshot(0, nil, nil, OriginNone, OriginNone, time.Time{})
}

// Version identifies the snapshot; it changes on every applied load.
func (s *Snapshot) Version() uint64 { return s.version }

// LoadedAt is when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// ArticleOrigin reports whether articles came from the live source or the fallback dataset.
func (s *Snapshot) ArticleOrigin() Origin { return s.articleOrigin }

// DealOrigin reports whether deals came from the live source or the fallback dataset.
func (s *Snapshot) DealOrigin() Origin { return s.dealOrigin }

// Len returns the number of articles.
func (s *Snapshot) Len() int { return len(s.articles) }

// Articles returns a copy of the ordered articles.
func (s *Snapshot) Articles() []domain.Article {
	out := make([]domain.Article, len(s.articles))
	for i, a := range s.articles {
		out[i] = a.Clone()
	}
	return out
}

// Deals returns a copy of the ordered deals.
func (s *Snapshot) Deals() []domain.Deal {
	return append([]domain.Deal(nil), s.deals...)
}

// Article looks up an article by ID.
func (s *Snapshot) Article(id string) (domain.Article, bool) {
	i, ok := s.index[id]
	if !ok {
		return domain.Article{}, false
	}
	return s.articles[i].Clone(), true
}

// Status summarizes the snapshot for logs, events and the status endpoint.
type Status struct {
	Version       uint64    `json:"version"`
	Articles      int       `json:"articles"`
	Deals         int       `json:"deals"`
	ArticleOrigin Origin    `json:"article_origin"`
	DealOrigin    Origin    `json:"deal_origin"`
	LoadedAt      time.Time `json:"loaded_at"`
}

// Status returns the snapshot summary.
func (s *Snapshot) Status() Status {
	return Status{
		Version:       s.version,
		Articles:      len(s.articles),
		Deals:         len(s.deals),
		ArticleOrigin: s.articleOrigin,
		DealOrigin:    s.dealOrigin,
		LoadedAt:      s.loadedAt,
	}
}
