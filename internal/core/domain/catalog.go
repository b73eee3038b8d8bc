package domain

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// CategoryEntry is the catalog record for one category: its branch set
// membership and its optional care level.
type CategoryEntry struct {
	Branch    Branch
	CareLevel CareLevel
}

// Catalog is the closed category vocabulary with branch and care-level
// membership. It is immutable after construction and safe for concurrent use.
type Catalog struct {
	entries map[string]CategoryEntry
}

type catalogFile struct {
	Branches struct {
		Group3 []string `yaml:"group3"`
		Group4 []string `yaml:"group4"`
		Other  []string `yaml:"other"`
	} `yaml:"branches"`
	CareLevels struct {
		Urgent   []string `yaml:"urgent"`
		Moderate []string `yaml:"moderate"`
		Low      []string `yaml:"low"`
	} `yaml:"care_levels"`
}

// DefaultCatalog builds the catalog embedded in the binary.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultCatalogYAML)
}

// LoadCatalog parses a YAML catalog and validates both partitions:
// no category may appear in two branch sets or in two care levels, and
// every care-level category must be part of the vocabulary.
func LoadCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, WrapError(ErrCatalogInvalid, "parse catalog", err)
	}

	entries := make(map[string]CategoryEntry)
	addBranch := func(branch Branch, categories []string) error {
		for _, raw := range categories {
			name := strings.TrimSpace(raw)
			if name == "" {
				return WrapError(ErrCatalogInvalid, "load catalog",
					fmt.Errorf("empty category name in branch %s", branch))
			}
			if existing, ok := entries[name]; ok {
				return WrapError(ErrCatalogInvalid, "load catalog",
					fmt.Errorf("category %q in both %s and %s", name, existing.Branch, branch))
			}
			entries[name] = CategoryEntry{Branch: branch}
		}
		return nil
	}
	if err := addBranch(BranchGroup3, file.Branches.Group3); err != nil {
		return nil, err
	}
	if err := addBranch(BranchGroup4, file.Branches.Group4); err != nil {
		return nil, err
	}
	if err := addBranch(BranchOther, file.Branches.Other); err != nil {
		return nil, err
	}

	addCareLevel := func(level CareLevel, categories []string) error {
		for _, raw := range categories {
			name := strings.TrimSpace(raw)
			entry, ok := entries[name]
			if !ok {
				return WrapError(ErrCatalogInvalid, "load catalog",
					fmt.Errorf("care level %s names unknown category %q", level, name))
			}
			if entry.CareLevel != "" {
				return WrapError(ErrCatalogInvalid, "load catalog",
					fmt.Errorf("category %q has care levels %s and %s", name, entry.CareLevel, level))
			}
			entry.CareLevel = level
			entries[name] = entry
		}
		return nil
	}
	if err := addCareLevel(CareLevelUrgent, file.CareLevels.Urgent); err != nil {
		return nil, err
	}
	if err := addCareLevel(CareLevelModerate, file.CareLevels.Moderate); err != nil {
		return nil, err
	}
	if err := addCareLevel(CareLevelLow, file.CareLevels.Low); err != nil {
		return nil, err
	}

	return &Catalog{entries: entries}, nil
}

// Lookup returns the catalog entry for a category after trimming
// surrounding whitespace.
func (c *Catalog) Lookup(category string) (CategoryEntry, bool) {
	entry, ok := c.entries[strings.TrimSpace(category)]
	return entry, ok
}

// Branch returns the branch set of a category, or BranchUnknown for
// categories outside the vocabulary.
func (c *Catalog) Branch(category string) Branch {
	entry, ok := c.Lookup(category)
	if !ok {
		return BranchUnknown
	}
	return entry.Branch
}

// CareLevel returns the care level of a category, or "" when the category
// carries none or is unknown.
func (c *Catalog) CareLevel(category string) CareLevel {
	entry, ok := c.Lookup(category)
	if !ok {
		return ""
	}
	return entry.CareLevel
}

// Categories returns the sorted category names of one branch set.
func (c *Catalog) Categories(branch Branch) []string {
	out := make([]string, 0)
	for name, entry := range c.entries {
		if entry.Branch == branch {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// BranchCounts returns the number of categories per branch set.
func (c *Catalog) BranchCounts() map[Branch]int {
	out := make(map[Branch]int, 3)
	for _, entry := range c.entries {
		out[entry.Branch]++
	}
	return out
}

// CareLevelCounts returns the number of categories per care level,
// excluding categories without one.
func (c *Catalog) CareLevelCounts() map[CareLevel]int {
	out := make(map[CareLevel]int, 3)
	for _, entry := range c.entries {
		if entry.CareLevel != "" {
			out[entry.CareLevel]++
		}
	}
	return out
}

// Size returns the number of categories in the vocabulary.
func (c *Catalog) Size() int {
	return len(c.entries)
}
