package report

import (
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"taglint/internal/driver"
	"taglint/internal/rules"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool        `json:"tool"`
	AutomationDetails *sarifAutomation `json:"automationDetails,omitempty"`
	Results           []sarifResult    `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string         `json:"id"`
	ShortDescription sarifMessage   `json:"shortDescription"`
	Help             *sarifMessage  `json:"help,omitempty"`
	Properties       map[string]any `json:"properties,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifAutomation struct {
	ID   string `json:"id,omitempty"`
	GUID string `json:"guid,omitempty"`
}

type sarifResult struct {
	RuleID     string          `json:"ruleId"`
	RuleIndex  int             `json:"ruleIndex"`
	Level      string          `json:"level"`
	Message    sarifMessage    `json:"message"`
	Locations  []sarifLocation `json:"locations,omitempty"`
	Properties map[string]any  `json:"properties,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

// sarifLevel maps rule severities onto the three SARIF levels.
func sarifLevel(sev rules.Severity) string {
	switch sev {
	case rules.SevCritical, rules.SevHigh:
		return "error"
	case rules.SevMedium:
		return "warning"
	default:
		return "note"
	}
}

// SARIF writes a SARIF 2.1.0 log: the full rule catalog under
// tool.driver, one result per violation, and a fresh GUID identifying
// the run for upload dedup.
func SARIF(w io.Writer, run *driver.RunResult, cat *rules.Catalog, opts Options) error {
	name := opts.Meta.ToolName
	if name == "" {
		name = "taglint"
	}

	drv := sarifDriver{Name: name, Version: opts.Meta.ToolVersion}
	ruleIndex := make(map[string]int, len(cat.Rules))
	for i, rule := range cat.Rules {
		ruleIndex[rule.ID] = i
		sr := sarifRule{
			ID:               rule.ID,
			ShortDescription: sarifMessage{Text: rule.Title},
			Properties: map[string]any{
				"category": rule.Category,
				"severity": rule.Severity.String(),
			},
		}
		if rule.Condition != "" {
			sr.Properties["condition"] = rule.Condition
		}
		if rule.Suggestion != "" {
			sr.Help = &sarifMessage{Text: rule.Suggestion}
		}
		drv.Rules = append(drv.Rules, sr)
	}

	var results []sarifResult
	for i := range run.Files {
		res := &run.Files[i]
		if res.Outcome == nil {
			continue
		}
		uri := displayPath(run.Root, res.Path, opts.FullPath)
		for _, v := range res.Outcome.Violations {
			sr := sarifResult{
				RuleID:    v.RuleID,
				RuleIndex: ruleIndex[v.RuleID],
				Level:     sarifLevel(v.Severity),
				Message:   sarifMessage{Text: v.Title},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysical{
						ArtifactLocation: sarifArtifact{URI: uri},
					},
				}},
			}
			if len(v.Matched) > 0 {
				sr.Properties = map[string]any{"matchedTags": v.Matched}
			}
			results = append(results, sr)
		}
	}
	if results == nil {
		results = []sarifResult{}
	}

	log := sarifLog{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool:              sarifTool{Driver: drv},
			AutomationDetails: &sarifAutomation{ID: name + "/run", GUID: uuid.NewString()},
			Results:           results,
		}},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}
