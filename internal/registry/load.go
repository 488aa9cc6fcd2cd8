package registry

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"taglint/internal/diag"
	"taglint/internal/syntax"
	"taglint/internal/tagexpr"
)

type rawCatalog struct {
	Tags      []rawTag      `toml:"tags" yaml:"tags"`
	Compounds []rawCompound `toml:"compounds" yaml:"compounds"`
}

type rawTag struct {
	Name     string `toml:"name" yaml:"name"`
	Category string `toml:"category" yaml:"category"`
	Detect   string `toml:"detect" yaml:"detect"`

	Patterns        []string `toml:"patterns" yaml:"patterns"`
	Mode            string   `toml:"mode" yaml:"mode"`
	CaseSensitive   *bool    `toml:"case_sensitive" yaml:"case_sensitive"`
	ExcludeComments bool     `toml:"exclude_in_comments" yaml:"exclude_in_comments"`

	Metric    string `toml:"metric" yaml:"metric"`
	Op        string `toml:"op" yaml:"op"`
	Threshold int    `toml:"threshold" yaml:"threshold"`

	Feature string `toml:"feature" yaml:"feature"`

	Context string `toml:"context" yaml:"context"`
}

type rawCompound struct {
	Name        string `toml:"name" yaml:"name"`
	Expression  string `toml:"expression" yaml:"expression"`
	Severity    string `toml:"severity" yaml:"severity"`
	Description string `toml:"description" yaml:"description"`
}

// Load reads a catalog file, dispatching on extension: .toml, .yaml or
// .yml. Recoverable defects inside the file (a bad pattern, an unknown
// detector) are reported and skipped; only an unreadable or undecodable
// file is an error.
func Load(path string, rep diag.Reporter) (*Registry, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		diag.Errorf(rep, diag.IOLoadFileError, path, "", "failed to read catalog: %v", err)
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return ParseTOML(data, path, rep)
	case ".yaml", ".yml":
		return ParseYAML(data, path, rep)
	default:
		err := fmt.Errorf("unsupported catalog format %q (want .toml, .yaml or .yml)", filepath.Ext(path))
		diag.Errorf(rep, diag.IOLoadFileError, path, "", "%v", err)
		return nil, err
	}
}

// ParseTOML decodes a TOML catalog. Unknown keys are tolerated with an
// info notice so typos like "patern" do not vanish silently.
func ParseTOML(data []byte, label string, rep diag.Reporter) (*Registry, error) {
	var raw rawCatalog
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", label, err)
	}
	for _, key := range meta.Undecoded() {
		diag.Infof(rep, diag.RegUnknownKey, label, key.String(), "unknown catalog key ignored")
	}
	return build(raw, data, label, rep)
}

// ParseYAML decodes a YAML catalog.
func ParseYAML(data []byte, label string, rep diag.Reporter) (*Registry, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", label, err)
	}
	return build(raw, data, label, rep)
}

func build(raw rawCatalog, data []byte, label string, rep diag.Reporter) (*Registry, error) {
	reg := &Registry{
		Tags:        make([]TagDef, 0, len(raw.Tags)),
		Compounds:   make([]CompoundDef, 0, len(raw.Compounds)),
		Fingerprint: sha256.Sum256(data),
	}

	tagIndex := make(map[string]int, len(raw.Tags))
	for _, rt := range raw.Tags {
		def, ok := buildTag(rt, label, rep)
		if !ok {
			continue
		}
		if prev, dup := tagIndex[def.Name]; dup {
			diag.Warnf(rep, diag.RegDuplicateTag, label, def.Name, "tag %s defined twice, keeping the later definition", def.Name)
			reg.Tags[prev] = def
			continue
		}
		tagIndex[def.Name] = len(reg.Tags)
		reg.Tags = append(reg.Tags, def)
	}

	compoundIndex := make(map[string]int, len(raw.Compounds))
	for _, rc := range raw.Compounds {
		def, ok := buildCompound(rc, tagIndex, label, rep)
		if !ok {
			continue
		}
		if prev, dup := compoundIndex[def.Name]; dup {
			diag.Warnf(rep, diag.RegDuplicateTag, label, def.Name, "compound %s defined twice, keeping the later definition", def.Name)
			reg.Compounds[prev] = def
			continue
		}
		compoundIndex[def.Name] = len(reg.Compounds)
		reg.Compounds = append(reg.Compounds, def)
	}

	// Compounds resolve against base tags only, in one flat pass. An
	// expression naming another compound would make the outcome depend
	// on catalog order, so those definitions are dropped. This runs
	// after the collection loop to catch forward references too.
	kept := reg.Compounds[:0]
	for _, def := range reg.Compounds {
		if ref := compoundRef(def, compoundIndex); ref != "" {
			diag.Warnf(rep, diag.ExprCompoundRef, label, def.Name, "compound %s references compound %s, definition skipped", def.Name, ref)
			continue
		}
		kept = append(kept, def)
	}
	reg.Compounds = kept

	if len(reg.Tags) == 0 && len(reg.Compounds) == 0 {
		diag.Warnf(rep, diag.RegEmptyCatalog, label, "", "catalog defines no tags")
	}
	return reg, nil
}

// compoundRef returns the first compound name the expression depends
// on, or "" when it only touches base tags.
func compoundRef(def CompoundDef, compounds map[string]int) string {
	node, err := tagexpr.Parse(def.Expression)
	if err != nil {
		return ""
	}
	for _, dep := range node.Deps() {
		name := strings.TrimPrefix(dep, "!")
		if _, ok := compounds[name]; ok {
			return name
		}
	}
	return ""
}

func buildTag(rt rawTag, label string, rep diag.Reporter) (TagDef, bool) {
	if !tagexpr.ValidTagName(rt.Name) {
		diag.Warnf(rep, diag.RegBadTagName, label, rt.Name, "tag name must be UPPERCASE_WITH_UNDERSCORES, definition skipped")
		return TagDef{}, false
	}

	def := TagDef{
		Name:     rt.Name,
		Category: strings.ToLower(strings.TrimSpace(rt.Category)),
	}

	switch strings.ToLower(rt.Detect) {
	case "pattern", "":
		// pattern is the default detector
		def.Detect = DetectPattern
		caseSensitive := rt.CaseSensitive == nil || *rt.CaseSensitive
		def.Pattern = &PatternSpec{
			Patterns:        compilePatterns(rt.Patterns, caseSensitive, rt.Name, label, rep),
			Mode:            parseMode(rt.Mode),
			CaseSensitive:   caseSensitive,
			ExcludeComments: rt.ExcludeComments,
		}

	case "metric":
		metric, ok := syntax.ParseMetric(rt.Metric)
		if !ok {
			diag.Warnf(rep, diag.RegBadMetric, label, rt.Metric, "tag %s: unknown metric, definition skipped", rt.Name)
			return TagDef{}, false
		}
		opSpelling := rt.Op
		if opSpelling == "" {
			opSpelling = ">="
		}
		op, ok := syntax.ParseCompareOp(opSpelling)
		if !ok {
			diag.Warnf(rep, diag.RegBadMetric, label, rt.Op, "tag %s: unknown comparison, definition skipped", rt.Name)
			return TagDef{}, false
		}
		def.Detect = DetectMetric
		def.Metric = &MetricSpec{Metric: metric, Op: op, Threshold: rt.Threshold}

	case "node":
		feature, ok := syntax.ParseFeature(rt.Feature)
		if !ok {
			diag.Warnf(rep, diag.RegBadMetric, label, rt.Feature, "tag %s: unknown feature, definition skipped", rt.Name)
			return TagDef{}, false
		}
		def.Detect = DetectNode
		def.Node = &NodeSpec{Feature: feature}

	case "contextual":
		var ctx Context
		switch strings.ToLower(rt.Context) {
		case "finally":
			ctx = ContextFinally
		case "loop":
			ctx = ContextLoop
		default:
			diag.Warnf(rep, diag.RegBadContext, label, rt.Context, "tag %s: unknown context, definition skipped", rt.Name)
			return TagDef{}, false
		}
		def.Detect = DetectContextual
		def.Contextual = &ContextualSpec{
			Context:  ctx,
			Patterns: compilePatterns(rt.Patterns, true, rt.Name, label, rep),
		}

	default:
		diag.Warnf(rep, diag.RegUnknownDetector, label, rt.Detect, "tag %s: unknown detector kind, definition skipped", rt.Name)
		return TagDef{}, false
	}

	return def, true
}

func buildCompound(rc rawCompound, tagIndex map[string]int, label string, rep diag.Reporter) (CompoundDef, bool) {
	if !tagexpr.ValidTagName(rc.Name) {
		diag.Warnf(rep, diag.RegBadTagName, label, rc.Name, "compound name must be UPPERCASE_WITH_UNDERSCORES, definition skipped")
		return CompoundDef{}, false
	}
	if _, clash := tagIndex[rc.Name]; clash {
		diag.Warnf(rep, diag.RegDuplicateTag, label, rc.Name, "compound %s collides with a base tag, definition skipped", rc.Name)
		return CompoundDef{}, false
	}

	expr := strings.TrimSpace(rc.Expression)
	if expr == "" {
		diag.Warnf(rep, diag.ExprEmptyCompound, label, rc.Name, "compound %s has an empty expression, definition skipped", rc.Name)
		return CompoundDef{}, false
	}
	if _, err := tagexpr.Parse(expr); err != nil {
		diag.Warnf(rep, diag.ExprInvalid, label, expr, "compound %s: %v, definition skipped", rc.Name, err)
		return CompoundDef{}, false
	}

	return CompoundDef{
		Name:        rc.Name,
		Expression:  expr,
		Severity:    normalizeSeverity(rc.Severity, rc.Name, label, rep),
		Description: strings.TrimSpace(rc.Description),
	}, true
}

func compilePatterns(sources []string, caseSensitive bool, tag, label string, rep diag.Reporter) []CompiledPattern {
	out := make([]CompiledPattern, 0, len(sources))
	for _, src := range sources {
		expr := src
		if !caseSensitive {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			diag.Warnf(rep, diag.RegInvalidPattern, label, src, "tag %s: pattern dropped: %v", tag, err)
			continue
		}
		out = append(out, CompiledPattern{Source: src, Re: re})
	}
	return out
}

func parseMode(s string) MatchMode {
	if strings.EqualFold(s, "all") {
		return MatchAll
	}
	return MatchAny
}

func normalizeSeverity(s, name, label string, rep diag.Reporter) string {
	sev := strings.ToUpper(strings.TrimSpace(s))
	switch sev {
	case "", "CRITICAL", "HIGH", "MEDIUM", "LOW":
		return sev
	default:
		diag.Warnf(rep, diag.RegBadSeverity, label, s, "compound %s: unknown severity, treated as LOW", name)
		return "LOW"
	}
}
