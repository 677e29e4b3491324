package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samvad-hq/samvad-portal/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var embeddedFallback []byte

// Dataset is the bundled content used when the live source yields nothing usable.
type Dataset struct {
	Articles []domain.Article `yaml:"articles"`
	Deals    []domain.Deal    `yaml:"deals"`
}

// LoadDataset reads the fallback dataset from path, or the embedded copy when path is blank.
func LoadDataset(path string) (Dataset, error) {
	raw := embeddedFallback
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Dataset{}, fmt.Errorf("read fallback file: %w", err)
		}
		raw = data
	}
	return ParseDataset(raw)
}

// ParseDataset decodes and validates a YAML dataset.
func ParseDataset(raw []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return Dataset{}, fmt.Errorf("decode fallback dataset: %w", err)
	}
	if len(ds.Articles) == 0 {
		return Dataset{}, errors.New("fallback dataset contains no articles")
	}

	seen := make(map[string]bool, len(ds.Articles))
	for i, a := range ds.Articles {
		if err := domain.ValidateArticle(a); err != nil {
			return Dataset{}, fmt.Errorf("fallback articles[%d]: %w", i, err)
		}
		if seen[a.ID] {
			return Dataset{}, fmt.Errorf("duplicate fallback article id %q", a.ID)
		}
		seen[a.ID] = true
	}
	for i, d := range ds.Deals {
		if err := domain.ValidateDeal(d); err != nil {
			return Dataset{}, fmt.Errorf("fallback deals[%d]: %w", i, err)
		}
	}
	return ds, nil
}
