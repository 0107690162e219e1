package ingest

import (
	"embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// envRefRegex only matches braced references, so dollar amounts such as
// "$30k" or "$3M" are left alone.
var envRefRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

//go:embed config/opportunities.yaml
var catalogYAML embed.FS

// Catalog is the on-disk list of opportunities to seed.
type Catalog struct {
	Opportunities []CatalogEntry `yaml:"opportunities"`
}

// CatalogEntry is one opportunity as written by a program officer. Either
// Amount or AmountText may be given; Amount wins when both are present.
type CatalogEntry struct {
	Key          string   `yaml:"key"`
	Title        string   `yaml:"title"`
	SummaryHTML  string   `yaml:"summary_html,omitempty"`
	Category     string   `yaml:"category"`
	Location     string   `yaml:"location,omitempty"`
	Organization string   `yaml:"organization,omitempty"`
	Amount       *float64 `yaml:"amount,omitempty"`
	AmountText   string   `yaml:"amount_text,omitempty"` // e.g. "$250,000" or "up to $40k"
}

// LoadCatalog reads the catalog at path, or the embedded default catalog
// when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = catalogYAML.ReadFile("config/opportunities.yaml")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("ingest: read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes catalog YAML. Braced environment references in the
// content (e.g. ${REGION}) are expanded first.
func ParseCatalog(data []byte) (*Catalog, error) {
	expanded := expandEnvRefs(string(data))

	var cat Catalog
	if err := yaml.Unmarshal([]byte(expanded), &cat); err != nil {
		return nil, fmt.Errorf("ingest: parse catalog: %w", err)
	}
	return &cat, nil
}

func expandEnvRefs(s string) string {
	return envRefRegex.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(envRefRegex.FindStringSubmatch(ref)[1])
	})
}
