package extract

import "sort"

// Origin says which detector tier produced a tag.
type Origin uint8

const (
	OriginPattern Origin = iota
	OriginMetric
	OriginNode
	OriginContextual
	OriginFallback
	OriginCompound
)

func (o Origin) String() string {
	switch o {
	case OriginPattern:
		return "pattern"
	case OriginMetric:
		return "metric"
	case OriginNode:
		return "node"
	case OriginContextual:
		return "contextual"
	case OriginFallback:
		return "fallback"
	case OriginCompound:
		return "compound"
	}
	return "unknown"
}

// Provenance records how a tag got onto a profile: the tier that set
// it, how sure that tier is, and up to a few evidence snippets.
type Provenance struct {
	Source     Origin   `msgpack:"source" json:"source"`
	Confidence float64  `msgpack:"confidence" json:"confidence"`
	Evidence   []string `msgpack:"evidence" json:"evidence,omitempty"`
}

// Profile is the tag set extracted from one file. It is built by the
// extractor and the compound resolver and read-only afterwards; a
// finished profile may be shared across goroutines.
type Profile struct {
	Tags map[string]Provenance `msgpack:"tags"`
}

func NewProfile() *Profile {
	return &Profile{Tags: make(map[string]Provenance)}
}

// Set records a tag, overwriting any provenance an earlier tier left.
func (p *Profile) Set(name string, prov Provenance) {
	if p.Tags == nil {
		p.Tags = make(map[string]Provenance)
	}
	p.Tags[name] = prov
}

func (p *Profile) Has(name string) bool {
	_, ok := p.Tags[name]
	return ok
}

func (p *Profile) Get(name string) (Provenance, bool) {
	prov, ok := p.Tags[name]
	return prov, ok
}

func (p *Profile) Len() int {
	return len(p.Tags)
}

// Names returns the tag names sorted, so output never depends on map
// iteration order.
func (p *Profile) Names() []string {
	names := make([]string, 0, len(p.Tags))
	for name := range p.Tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TagSet is the boolean view the expression evaluator consumes.
func (p *Profile) TagSet() map[string]bool {
	set := make(map[string]bool, len(p.Tags))
	for name := range p.Tags {
		set[name] = true
	}
	return set
}

// Clone returns a profile with its own tag map, so the copy can take
// compound tags without touching the original. Evidence slices are
// shared; finished provenance is never mutated.
func (p *Profile) Clone() *Profile {
	c := &Profile{Tags: make(map[string]Provenance, len(p.Tags))}
	for name, prov := range p.Tags {
		c.Tags[name] = prov
	}
	return c
}
