package report

import (
	"encoding/json"
	"io"
	"time"

	"taglint/internal/driver"
)

// envelopeVersion is the JSON schema version, bumped on breaking
// changes to the envelope shape.
const envelopeVersion = "1"

// TagJSON is one profile entry with its provenance.
type TagJSON struct {
	Name       string   `json:"name"`
	Source     string   `json:"source"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence,omitempty"`
}

// CompoundJSON records one compound evaluation, fired or not.
type CompoundJSON struct {
	Name       string   `json:"name"`
	Expression string   `json:"expression"`
	Added      bool     `json:"added"`
	Matched    []string `json:"matched,omitempty"`
}

// ViolationJSON is one fired rule.
type ViolationJSON struct {
	RuleID     string   `json:"rule_id"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Severity   string   `json:"severity"`
	Suggestion string   `json:"suggestion,omitempty"`
	Expression string   `json:"expression,omitempty"`
	Matched    []string `json:"matched,omitempty"`
	Priority   int      `json:"priority"`
}

// NoticeJSON is one engine notice attached to a file.
type NoticeJSON struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// FileJSON is the per-file slice of the envelope.
type FileJSON struct {
	Path       string          `json:"path"`
	Tags       []TagJSON       `json:"tags"`
	Compounds  []CompoundJSON  `json:"compounds,omitempty"`
	Violations []ViolationJSON `json:"violations"`
	Skipped    int             `json:"skipped"`
	Unmatched  int             `json:"unmatched"`
	CacheHit   bool            `json:"cache_hit,omitempty"`
	Notices    []NoticeJSON    `json:"notices,omitempty"`
}

// Envelope is the root of the JSON format.
type Envelope struct {
	Version     string       `json:"version"`
	GeneratedAt string       `json:"generated_at"`
	Files       []FileJSON   `json:"files"`
	Summary     driver.Stats `json:"summary"`
}

// BuildEnvelope assembles the envelope without serializing it, so
// tests and embedders can inspect it with a fixed timestamp.
func BuildEnvelope(run *driver.RunResult, generatedAt time.Time) Envelope {
	env := Envelope{
		Version:     envelopeVersion,
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Files:       make([]FileJSON, 0, len(run.Files)),
		Summary:     run.Stats,
	}
	for i := range run.Files {
		env.Files = append(env.Files, buildFile(run, &run.Files[i]))
	}
	return env
}

func buildFile(run *driver.RunResult, res *driver.FileResult) FileJSON {
	f := FileJSON{
		Path:       displayPath(run.Root, res.Path, false),
		Tags:       []TagJSON{},
		Violations: []ViolationJSON{},
		CacheHit:   res.CacheHit,
	}

	if res.Profile != nil {
		for _, name := range res.Profile.Names() {
			prov, _ := res.Profile.Get(name)
			f.Tags = append(f.Tags, TagJSON{
				Name:       name,
				Source:     prov.Source.String(),
				Confidence: prov.Confidence,
				Evidence:   prov.Evidence,
			})
		}
	}

	for _, c := range res.Compounds {
		f.Compounds = append(f.Compounds, CompoundJSON{
			Name:       c.Name,
			Expression: c.Expression,
			Added:      c.Added,
			Matched:    c.Matched,
		})
	}

	if res.Outcome != nil {
		for _, v := range res.Outcome.Violations {
			f.Violations = append(f.Violations, ViolationJSON{
				RuleID:     v.RuleID,
				Title:      v.Title,
				Category:   v.Category,
				Severity:   v.Severity.String(),
				Suggestion: v.Suggestion,
				Expression: v.Expression,
				Matched:    v.Matched,
				Priority:   v.Priority,
			})
		}
		f.Skipped = res.Outcome.Skipped
		f.Unmatched = res.Outcome.Unmatched
	}

	for _, n := range res.Notices {
		f.Notices = append(f.Notices, NoticeJSON{
			Severity: n.Severity.String(),
			Code:     n.Code.ID(),
			Message:  n.Message,
		})
	}
	return f
}

// JSON writes the envelope with stable two-space indentation.
func JSON(w io.Writer, run *driver.RunResult, _ Options) error {
	env := BuildEnvelope(run, time.Now())
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}
