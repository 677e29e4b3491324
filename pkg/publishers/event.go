package publishers

import (
	"time"

	"github.com/google/uuid"
)

// Event announces that the content snapshot was replaced.
type Event struct {
	ID            string    `json:"id"`
	Version       uint64    `json:"version"`
	Articles      int       `json:"articles"`
	Deals         int       `json:"deals"`
	ArticleSource string    `json:"article_source"`
	DealSource    string    `json:"deal_source"`
	LoadedAt      time.Time `json:"loaded_at"`
	EmittedAt     time.Time `json:"emitted_at"`
}

// NewEvent constructs an Event with a fresh ID.
func NewEvent(version uint64, articles, deals int, articleSource, dealSource string, loadedAt time.Time) Event {
	return Event{
		ID:            uuid.NewString(),
		Version:       version,
		Articles:      articles,
		Deals:         deals,
		ArticleSource: articleSource,
		DealSource:    dealSource,
		LoadedAt:      loadedAt,
		EmittedAt:     time.Now().UTC(),
	}
}

// attributes are the broker message attributes shared by every queue sink.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_id":       e.ID,
		"version":        uintString(e.Version),
		"article_source": e.ArticleSource,
		"deal_source":    e.DealSource,
	}
}
