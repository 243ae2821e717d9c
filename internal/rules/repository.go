// Package rules loads campus exclusion criteria from a structured YAML file
// into a read-only repository. The repository is constructed once at startup
// and injected wherever rules are needed; it never mutates after load, so
// concurrent evaluations for different requests can share it safely.
package rules

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/transfer-center/internal/domain"
)

// ruleFile mirrors the YAML layout: a top-level campuses map keyed by campus
// identifier, each carrying a display name and its exclusion list.
type ruleFile struct {
	Campuses map[string]campusRules `yaml:"campuses"`
}

type campusRules struct {
	Name       string                   `yaml:"name,omitempty"`
	Exclusions []domain.CampusExclusion `yaml:"exclusions"`
}

// Repository is an immutable lookup of exclusion rules by campus.
type Repository struct {
	byKey map[string][]domain.CampusExclusion
	// keys kept sorted so the fuzzy pass resolves the same key every run.
	keys []string
}

// LoadFile reads and parses the rule YAML. Parse and validation failures are
// fatal: a transfer center must not run on a partially loaded rule set.
func LoadFile(path string) (*Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Repository from YAML bytes.
func Parse(data []byte) (*Repository, error) {
	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules yaml: %w", err)
	}

	repo := &Repository{byKey: make(map[string][]domain.CampusExclusion, len(f.Campuses))}
	for key, cr := range f.Campuses {
		for i, excl := range cr.Exclusions {
			if excl.CriteriaID == "" {
				return nil, fmt.Errorf("campus %s: exclusion %d missing id", key, i)
			}
		}
		norm := normalizeKey(key)
		repo.byKey[norm] = cr.Exclusions
		repo.keys = append(repo.keys, norm)
	}
	sort.Strings(repo.keys)
	return repo, nil
}

// CampusCount returns the number of campuses with rule entries.
func (r *Repository) CampusCount() int {
	return len(r.byKey)
}

// RulesFor resolves a rule set by campus id or name. Resolution is
// case-insensitive and fuzzy: ignoring punctuation, an exact normalized match
// wins, then substring containment in either direction. The second return is
// false on a miss; callers treat a miss as zero exclusions (fail-open) and
// log it.
func (r *Repository) RulesFor(campusID, campusName string) ([]domain.CampusExclusion, bool) {
	for _, probe := range []string{campusID, campusName} {
		norm := normalizeKey(probe)
		if norm == "" {
			continue
		}
		if excl, ok := r.byKey[norm]; ok {
			return excl, true
		}
	}

	// Fuzzy pass: allow YAML keys like "west_campus" to resolve a campus
	// named "TCH West Campus" and vice versa.
	for _, probe := range []string{campusID, campusName} {
		norm := normalizeKey(probe)
		if norm == "" {
			continue
		}
		for _, key := range r.keys {
			if strings.Contains(key, norm) || strings.Contains(norm, key) {
				return r.byKey[key], true
			}
		}
	}

	return nil, false
}

// normalizeKey lowercases and strips everything but letters and digits so
// "TCH_WEST-Campus" and "tch west campus" collide.
func normalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
