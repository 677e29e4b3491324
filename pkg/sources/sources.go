package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Package sources contains content-source configs (YAML/JSON) and their fetchers.

const (
	TypeBlogger     = "blogger"
	TypeBloggerFeed = "blogger_feed"

	defaultMaxResults = 50
	defaultDealsLabel = "Offerte"
)

// Source describes one content host.
type Source struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	Type       string         `json:"type" yaml:"type"`
	BlogID     string         `json:"blog_id" yaml:"blog_id"`
	SourceURL  string         `json:"source_url" yaml:"source_url"`
	DealsLabel string         `json:"deals_label" yaml:"deals_label"`
	MaxResults int            `json:"max_results" yaml:"max_results"`
	Config     map[string]any `json:"config" yaml:"config"`
}

type registryFile struct {
	Sources []Source `json:"sources" yaml:"sources"`
}

// Registry is a validated, ordered set of sources.
type Registry struct {
	sources []Source
	idx     map[string]Source
}

// Sources returns a copy of the loaded sources in file order.
func (r *Registry) Sources() []Source {
	if r == nil || len(r.sources) == 0 {
		return nil
	}
	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// ByID returns the source entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Source, bool) {
	id = strings.TrimSpace(id)
	if r == nil || id == "" {
		return Source{}, false
	}
	s, ok := r.idx[id]
	return s, ok
}

// Active returns the source named by id, or the first entry when id is blank.
func (r *Registry) Active(id string) (Source, error) {
	if r == nil || len(r.sources) == 0 {
		return Source{}, errors.New("no content sources loaded")
	}
	if strings.TrimSpace(id) == "" {
		return r.sources[0], nil
	}
	s, ok := r.ByID(id)
	if !ok {
		return Source{}, fmt.Errorf("content source %q not found", id)
	}
	return s, nil
}

// LoadRegistry loads the source registry from file.
func LoadRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sources file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}
	return ParseRegistry(raw, filepath.Ext(path))
}

// ParseRegistry decodes, sanitizes and validates a registry document. ext picks the decoder;
// a blank ext tries YAML then JSON.
func ParseRegistry(raw []byte, ext string) (*Registry, error) {
	file, err := parseRegistryFile(raw, ext)
	if err != nil {
		return nil, err
	}
	if len(file.Sources) == 0 {
		return nil, errors.New("sources file contains no sources entries")
	}

	reg := &Registry{
		sources: make([]Source, 0, len(file.Sources)),
		idx:     make(map[string]Source, len(file.Sources)),
	}
	for i := range file.Sources {
		s := sanitizeSource(file.Sources[i])
		if err := validateSource(s); err != nil {
			return nil, fmt.Errorf("source[%d]: %w", i, err)
		}
		if _, exists := reg.idx[s.ID]; exists {
			return nil, fmt.Errorf("duplicate source id %q", s.ID)
		}
		reg.sources = append(reg.sources, s)
		reg.idx[s.ID] = s
	}
	return reg, nil
}

func parseRegistryFile(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if file, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return file, nil
		}
	}

	return registryFile{}, errors.New("sources file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registryFile, error) {
	var file registryFile
	if err := fn(data, &file); err != nil {
		return registryFile{}, fmt.Errorf("decode %s sources: %w", name, err)
	}
	return file, nil
}

func sanitizeSource(s Source) Source {
	s.ID = strings.TrimSpace(s.ID)
	s.Name = strings.TrimSpace(s.Name)
	s.Type = strings.ToLower(strings.TrimSpace(s.Type))
	s.BlogID = strings.TrimSpace(s.BlogID)
	s.SourceURL = strings.TrimRight(strings.TrimSpace(s.SourceURL), "/")
	s.DealsLabel = strings.TrimSpace(s.DealsLabel)

	if s.Config == nil {
		s.Config = map[string]any{}
	}
	if s.MaxResults <= 0 {
		s.MaxResults = defaultMaxResults
	}
	if s.DealsLabel == "" {
		s.DealsLabel = defaultDealsLabel
	}
	return s
}

func validateSource(s Source) error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("name is required for source %q", s.ID)
	}
	switch s.Type {
	case TypeBlogger:
		if s.BlogID == "" {
			return fmt.Errorf("blog_id is required for blogger source %q", s.ID)
		}
		if ConfigString(s, ConfigAPIKeyKey, "") == "" {
			return fmt.Errorf("config.api_key is required for blogger source %q", s.ID)
		}
	case TypeBloggerFeed:
		if s.SourceURL == "" {
			return fmt.Errorf("source_url is required for blogger_feed source %q", s.ID)
		}
	case "":
		return fmt.Errorf("type is required for source %q", s.ID)
	default:
		return fmt.Errorf("unsupported type %q for source %q", s.Type, s.ID)
	}
	return nil
}
