// Package langdetect infers a programming language tag from raw message
// text using a static catalog of per-language patterns and keywords.
// The catalog is compiled once at startup from the embedded catalog.yml.
package langdetect

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yml
var embedded []byte

// ProfileSpec is the uncompiled form of one catalog entry.
type ProfileSpec struct {
	Name     string   `yaml:"name"`
	Weight   int      `yaml:"weight"`
	Patterns []string `yaml:"patterns"`
	Keywords []string `yaml:"keywords"`
}

type catalogSpec struct {
	Languages []ProfileSpec `yaml:"languages"`
}

// Profile is one compiled catalog entry. Patterns match anywhere in the
// text; keywords are compiled to whole-token matchers. Both are
// case-insensitive.
type Profile struct {
	Name     string
	Weight   int
	Patterns []*regexp.Regexp
	Keywords []*regexp.Regexp
}

// Catalog is the ordered, immutable set of language profiles. Order matters:
// the earlier entry wins a detection-score tie.
type Catalog struct {
	Profiles []Profile
}

// DefaultCatalog compiles the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(embedded)
}

// ParseCatalog decodes a YAML catalog and compiles its patterns and
// keywords. It fails on the first expression that does not compile.
func ParseCatalog(data []byte) (*Catalog, error) {
	var spec catalogSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to decode language catalog: %w", err)
	}
	if len(spec.Languages) == 0 {
		return nil, fmt.Errorf("language catalog is empty")
	}
	return NewCatalog(spec.Languages)
}

// NewCatalog compiles profile specs in the given order.
func NewCatalog(specs []ProfileSpec) (*Catalog, error) {
	catalog := &Catalog{Profiles: make([]Profile, 0, len(specs))}
	for _, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("language profile without a name")
		}
		if s.Weight <= 0 {
			return nil, fmt.Errorf("language %q has non-positive weight %d", s.Name, s.Weight)
		}
		p := Profile{
			Name:     s.Name,
			Weight:   s.Weight,
			Patterns: make([]*regexp.Regexp, 0, len(s.Patterns)),
			Keywords: make([]*regexp.Regexp, 0, len(s.Keywords)),
		}
		for _, expr := range s.Patterns {
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				return nil, fmt.Errorf("language %q: bad pattern %q: %w", s.Name, expr, err)
			}
			p.Patterns = append(p.Patterns, re)
		}
		for _, kw := range s.Keywords {
			re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("language %q: bad keyword %q: %w", s.Name, kw, err)
			}
			p.Keywords = append(p.Keywords, re)
		}
		catalog.Profiles = append(catalog.Profiles, p)
	}
	return catalog, nil
}
