package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage provides the local cache for refreshed article bodies.

// Store persists full article bodies keyed by article ID.
type Store interface {
	Close() error
	GetBody(id string) (string, bool, error)
	PutBody(id, body string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	BodyTTL         time.Duration
	CleanupInterval time.Duration
}

const (
	defaultBodyTTL         = 3 * 24 * time.Hour
	defaultCleanupInterval = 6 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled", "memory":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.BodyTTL <= 0 {
		opts.BodyTTL = defaultBodyTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                          { return nil }
func (noopStore) GetBody(string) (string, bool, error) { return "", false, nil }
func (noopStore) PutBody(string, string) error          { return nil }
