// Package extract turns Java source text into a tag profile. Detection
// runs in tiers: pattern, metric, node, contextual, then a fallback
// tier of text heuristics that covers files the parser could not
// summarize. Later tiers overwrite earlier provenance for the same tag;
// the fallback tier only ever adds.
package extract

import (
	"fmt"

	"taglint/internal/diag"
	"taglint/internal/jtext"
	"taglint/internal/registry"
	"taglint/internal/syntax"
)

const (
	confPattern    = 1.0
	confMetric     = 1.0
	confNode       = 1.0
	confContextual = 0.9

	evidenceLimit      = 3
	evidenceMaxLen     = 120
	contextEvidenceLen = 100
)

// Extractor detects base tags against one catalog. It is stateless
// beyond the registry reference and safe for concurrent use.
type Extractor struct {
	reg *registry.Registry
}

func New(reg *registry.Registry) *Extractor {
	return &Extractor{reg: reg}
}

// Extract builds the tag profile for one file. sum may be nil; the
// metric and node tiers are skipped then and the fallback heuristics
// stand in. Tags are visited in catalog declaration order, so the same
// inputs always produce the same profile.
func (x *Extractor) Extract(text string, sum *syntax.Summary, rep diag.Reporter) *Profile {
	profile := NewProfile()
	normalized := jtext.Strip(text)

	for i := range x.reg.Tags {
		def := &x.reg.Tags[i]
		switch def.Detect {
		case registry.DetectPattern:
			x.patternTier(profile, def, text, normalized)
		case registry.DetectMetric:
			if sum != nil {
				x.metricTier(profile, def, sum)
			}
		case registry.DetectNode:
			if sum != nil {
				x.nodeTier(profile, def, sum)
			}
		}
	}

	// Contextual detection runs as its own pass so the finally and
	// loop blocks are extracted at most once per file.
	x.contextualTiers(profile, normalized, rep)

	fallbackTier(profile, text, normalized)
	return profile
}

func (x *Extractor) patternTier(p *Profile, def *registry.TagDef, text, normalized string) {
	spec := def.Pattern
	if len(spec.Patterns) == 0 {
		return
	}
	body := text
	if spec.ExcludeComments {
		body = normalized
	}

	var evidence []string
	switch spec.Mode {
	case registry.MatchAll:
		for i := range spec.Patterns {
			hits := spec.Patterns[i].Re.FindAllString(body, 1)
			if len(hits) == 0 {
				return
			}
			evidence = appendSnippet(evidence, hits[0], evidenceMaxLen, evidenceLimit)
		}
	default: // MatchAny stops at the first pattern that hits.
		matched := false
		for i := range spec.Patterns {
			hits := spec.Patterns[i].Re.FindAllString(body, evidenceLimit)
			if len(hits) == 0 {
				continue
			}
			matched = true
			for _, h := range hits {
				evidence = appendSnippet(evidence, h, evidenceMaxLen, evidenceLimit)
			}
			break
		}
		if !matched {
			return
		}
	}

	p.Set(def.Name, Provenance{Source: OriginPattern, Confidence: confPattern, Evidence: evidence})
}

func (x *Extractor) metricTier(p *Profile, def *registry.TagDef, sum *syntax.Summary) {
	spec := def.Metric
	value := sum.Value(spec.Metric)
	if !spec.Op.Compare(value, spec.Threshold) {
		return
	}
	p.Set(def.Name, Provenance{
		Source:     OriginMetric,
		Confidence: confMetric,
		Evidence:   []string{fmt.Sprintf("%s=%d %s %d", spec.Metric, value, spec.Op, spec.Threshold)},
	})
}

func (x *Extractor) nodeTier(p *Profile, def *registry.TagDef, sum *syntax.Summary) {
	spec := def.Node
	if !sum.Has(spec.Feature) {
		return
	}
	p.Set(def.Name, Provenance{
		Source:     OriginNode,
		Confidence: confNode,
		Evidence:   []string{spec.Feature.String()},
	})
}

// contextualTiers extracts finally and loop blocks once and applies
// every contextual definition against them.
func (x *Extractor) contextualTiers(p *Profile, normalized string, rep diag.Reporter) {
	var finallyBlocks, loopBlocks []string
	haveFinally, haveLoop := false, false

	for i := range x.reg.Tags {
		def := &x.reg.Tags[i]
		if def.Detect != registry.DetectContextual {
			continue
		}
		spec := def.Contextual

		var blocks []string
		switch spec.Context {
		case registry.ContextLoop:
			if !haveLoop {
				var orphans int
				loopBlocks, orphans = jtext.LoopBlocks(normalized)
				haveLoop = true
				reportOrphans(rep, "loop", orphans)
			}
			blocks = loopBlocks
		default:
			if !haveFinally {
				var orphans int
				finallyBlocks, orphans = jtext.FinallyBlocks(normalized)
				haveFinally = true
				reportOrphans(rep, "finally", orphans)
			}
			blocks = finallyBlocks
		}

		if block, ok := firstMatchingBlock(blocks, spec.Patterns); ok {
			p.Set(def.Name, Provenance{
				Source:     OriginContextual,
				Confidence: confContextual,
				Evidence:   []string{capSnippet(block, contextEvidenceLen)},
			})
		}
	}
}

// firstMatchingBlock returns the first block any pattern hits. Blocks
// arrive in document order, so the evidence points at the earliest
// occurrence.
func firstMatchingBlock(blocks []string, patterns []registry.CompiledPattern) (string, bool) {
	for _, block := range blocks {
		for i := range patterns {
			if patterns[i].Re.MatchString(block) {
				return block, true
			}
		}
	}
	return "", false
}

func reportOrphans(rep diag.Reporter, kind string, orphans int) {
	if orphans > 0 {
		diag.Warnf(rep, diag.TextUnbalancedBlock, "", kind,
			"%d %s block(s) never close, skipped", orphans, kind)
	}
}
