// Package documents builds the required-document checklist of a profile from
// an embedded catalog of baseline, sub-type and conditional entries.
package documents

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"visa-eligibility-workers/internal/eligibility/model"

	"gopkg.in/yaml.v3"
)

//go:embed data/documents.yaml
var catalogYAML []byte

var (
	loadOnce        sync.Once
	embeddedCatalog Catalog
	loadErr         error
)

// Rule adds or removes entries when a profile fact holds. A leading "!" on
// When negates the fact.
type Rule struct {
	When   string   `yaml:"when"`
	Add    []string `yaml:"add"`
	Remove []string `yaml:"remove"`
}

// SchemeDocuments is the document policy of one scheme.
type SchemeDocuments struct {
	Baseline    []string            `yaml:"baseline"`
	SubTypes    map[string][]string `yaml:"subTypes"`
	Conditional []Rule              `yaml:"conditional"`
}

// Catalog maps schemes to their document policy.
type Catalog map[model.SchemeID]SchemeDocuments

// ParseCatalogYAML decodes and validates a document catalog.
func ParseCatalogYAML(data []byte) (Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("documents: catalog payload is empty")
	}
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("documents: decode catalog: %w", err)
	}
	for _, id := range model.SupportedSchemes() {
		docs, ok := catalog[id]
		if !ok || len(docs.Baseline) == 0 {
			return nil, fmt.Errorf("documents: no baseline for %s", id)
		}
		for i, rule := range docs.Conditional {
			if strings.TrimPrefix(rule.When, "!") == "" {
				return nil, fmt.Errorf("documents: %s rule %d has no condition", id, i)
			}
		}
	}
	return catalog, nil
}

// Embedded returns the catalog compiled into the binary.
func Embedded() (Catalog, error) {
	loadOnce.Do(func() {
		embeddedCatalog, loadErr = ParseCatalogYAML(catalogYAML)
	})
	return embeddedCatalog, loadErr
}

// MustEmbedded is Embedded for process start-up and tests.
func MustEmbedded() Catalog {
	catalog, err := Embedded()
	if err != nil {
		panic(err)
	}
	return catalog
}

// Required returns the ordered, de-duplicated document list of profile.
// It depends only on the profile and the catalog.
func (c Catalog) Required(profile model.Profile) ([]string, error) {
	docs, ok := c[profile.Scheme()]
	if !ok {
		return nil, fmt.Errorf("documents: no catalog entry for %s", profile.Scheme())
	}

	list := &orderedSet{}
	list.add(docs.Baseline...)
	if v, ok := profile.(model.Variant); ok {
		list.add(docs.SubTypes[v.SubTypeOf()]...)
	}

	known := facts(profile)
	for _, rule := range docs.Conditional {
		name, negated := strings.CutPrefix(rule.When, "!")
		if known[name] == negated {
			continue
		}
		list.add(rule.Add...)
		list.remove(rule.Remove...)
	}
	return list.items, nil
}

type orderedSet struct {
	items []string
}

func (s *orderedSet) add(items ...string) {
	for _, item := range items {
		if !s.has(item) {
			s.items = append(s.items, item)
		}
	}
}

func (s *orderedSet) remove(items ...string) {
	for _, item := range items {
		for i, existing := range s.items {
			if existing == item {
				s.items = append(s.items[:i], s.items[i+1:]...)
				break
			}
		}
	}
}

func (s *orderedSet) has(item string) bool {
	for _, existing := range s.items {
		if existing == item {
			return true
		}
	}
	return false
}
