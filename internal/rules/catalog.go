// Package rules loads rule catalogs and matches them against tag
// profiles. A rule is a named tag expression with a severity and a
// category; matching a profile yields prioritized violations.
package rules

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"taglint/internal/diag"
)

// Rule is one checkable finding. Condition is a tag expression over
// the profile's tags; an empty condition is legal and handled by the
// matcher, not here.
type Rule struct {
	ID         string
	Title      string
	Category   string
	Severity   Severity
	Condition  string
	Suggestion string
}

// Catalog is an immutable set of rules in declaration order.
// Fingerprint hashes the raw catalog bytes so cache keys can tell
// rule-set revisions apart.
type Catalog struct {
	Rules       []Rule
	Fingerprint [32]byte
}

type rawRuleFile struct {
	Rules []rawRule `toml:"rules" yaml:"rules"`
}

type rawRule struct {
	ID         string `toml:"id" yaml:"id"`
	Title      string `toml:"title" yaml:"title"`
	Category   string `toml:"category" yaml:"category"`
	Severity   string `toml:"severity" yaml:"severity"`
	Condition  string `toml:"condition" yaml:"condition"`
	Suggestion string `toml:"suggestion" yaml:"suggestion"`
}

// Load reads a rule catalog, dispatching on extension the same way
// the tag registry does. Defective rules are reported and skipped;
// only an unreadable or undecodable file is an error.
func Load(path string, rep diag.Reporter) (*Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		diag.Errorf(rep, diag.IOLoadFileError, path, "", "failed to read rules: %v", err)
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(data, path, rep)
	case ".yaml", ".yml":
		return ParseYAML(data, path, rep)
	default:
		err := fmt.Errorf("unsupported rules format %q (want .toml, .yaml or .yml)", filepath.Ext(path))
		diag.Errorf(rep, diag.IOLoadFileError, path, "", "%v", err)
		return nil, err
	}
}

// ParseTOML decodes a TOML rule catalog.
func ParseTOML(data []byte, label string, rep diag.Reporter) (*Catalog, error) {
	var raw rawRuleFile
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("decode rules %s: %w", label, err)
	}
	for _, key := range meta.Undecoded() {
		diag.Infof(rep, diag.RegUnknownKey, label, key.String(), "unknown key %s ignored", key)
	}
	return build(raw, data, label, rep), nil
}

// ParseYAML decodes a YAML rule catalog.
func ParseYAML(data []byte, label string, rep diag.Reporter) (*Catalog, error) {
	var raw rawRuleFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode rules %s: %w", label, err)
	}
	return build(raw, data, label, rep), nil
}

func build(raw rawRuleFile, data []byte, label string, rep diag.Reporter) *Catalog {
	cat := &Catalog{Fingerprint: sha256.Sum256(data)}
	index := make(map[string]int, len(raw.Rules))

	for _, rr := range raw.Rules {
		rule, ok := buildRule(rr, label, rep)
		if !ok {
			continue
		}
		if prev, dup := index[rule.ID]; dup {
			diag.Warnf(rep, diag.RegDuplicateRule, label, rule.ID, "rule %s defined twice, keeping the later definition", rule.ID)
			cat.Rules[prev] = rule
			continue
		}
		index[rule.ID] = len(cat.Rules)
		cat.Rules = append(cat.Rules, rule)
	}

	if len(cat.Rules) == 0 {
		diag.Warnf(rep, diag.RegEmptyCatalog, label, "", "catalog defines no rules")
	}
	return cat
}

func buildRule(rr rawRule, label string, rep diag.Reporter) (Rule, bool) {
	id := strings.TrimSpace(rr.ID)
	if id == "" {
		diag.Warnf(rep, diag.RegBadRule, label, rr.Title, "rule without an id skipped")
		return Rule{}, false
	}

	sev, ok := ParseSeverity(rr.Severity)
	if !ok {
		diag.Warnf(rep, diag.RegBadSeverity, label, rr.Severity, "rule %s: unknown severity, treated as LOW", id)
	}

	return Rule{
		ID:         id,
		Title:      strings.TrimSpace(rr.Title),
		Category:   strings.TrimSpace(rr.Category),
		Severity:   sev,
		Condition:  strings.TrimSpace(rr.Condition),
		Suggestion: strings.TrimSpace(rr.Suggestion),
	}, true
}
