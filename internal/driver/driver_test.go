package driver

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"taglint/internal/diag"
)

const daoLeakSource = `import java.sql.Connection;
import java.sql.DriverManager;
import java.sql.Statement;

public class Dao {
    public void query(String id) throws Exception {
        Connection conn = DriverManager.getConnection(url);
        Statement st = conn.createStatement();
        st.executeQuery("SELECT * FROM users WHERE id = " + id);
    }
}
`

const tidySource = `public class Tidy {
    public int add(int a, int b) {
        return a + b;
    }
}
`

// leakViolations is what the built-in rules say about daoLeakSource,
// in priority order: the critical security hit first, then the two
// resource rules.
var leakViolations = []string{"SEC-001", "RES-001", "RES-002"}

func newTestDriver(t *testing.T, cfg Config) *Driver {
	t.Helper()
	if cfg.CacheDir == "" {
		cfg.CacheDir = t.TempDir()
	}
	bag := diag.NewBag(32)
	d, err := New(cfg, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected setup errors: %s", diag.FormatNotices(bag.Items()))
	}
	return d
}

func fileBySuffix(t *testing.T, results []FileResult, suffix string) *FileResult {
	t.Helper()
	for i := range results {
		if strings.HasSuffix(results[i].Path, suffix) {
			return &results[i]
		}
	}
	t.Fatalf("no result for %s", suffix)
	return nil
}

func violationIDs(res *FileResult) []string {
	if res.Outcome == nil {
		return nil
	}
	ids := make([]string, len(res.Outcome.Violations))
	for i, v := range res.Outcome.Violations {
		ids[i] = v.RuleID
	}
	return ids
}

func assertViolationIDs(t *testing.T, res *FileResult, want []string) {
	t.Helper()
	got := violationIDs(res)
	if len(got) != len(want) {
		t.Fatalf("violations = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("violations = %v, want %v", got, want)
		}
	}
}

func TestNewFallsBackToBuiltins(t *testing.T) {
	bag := diag.NewBag(32)
	d, err := New(Config{
		TagsPath:  filepath.Join(t.TempDir(), "missing-tags.toml"),
		RulesPath: filepath.Join(t.TempDir(), "missing-rules.toml"),
		NoCache:   true,
	}, diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, ok := d.Registry().Tag("USES_CONNECTION"); !ok {
		t.Error("built-in tag catalog not loaded on fallback")
	}
	if len(d.Rules().Rules) == 0 {
		t.Error("built-in rule catalog not loaded on fallback")
	}

	warnings := 0
	for _, n := range bag.Items() {
		if n.Code == diag.IOLoadFileError {
			warnings++
		}
	}
	if warnings != 2 {
		t.Errorf("expected 2 fallback warnings, got %d: %s", warnings, diag.FormatNotices(bag.Items()))
	}
}

func TestAnalyzeDirFindsViolations(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/Dao.java":  daoLeakSource,
		"src/Tidy.java": tidySource,
	})
	d := newTestDriver(t, Config{})

	res, err := d.AnalyzeDir(context.Background(), root)
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}

	if res.Stats.Files != 2 {
		t.Fatalf("Stats.Files = %d, want 2", res.Stats.Files)
	}
	if res.Stats.Violations != len(leakViolations) {
		t.Errorf("Stats.Violations = %d, want %d", res.Stats.Violations, len(leakViolations))
	}
	if res.Stats.Tagged != 1 {
		t.Errorf("Stats.Tagged = %d, want 1", res.Stats.Tagged)
	}
	if res.Stats.Failed != 0 {
		t.Errorf("Stats.Failed = %d, want 0", res.Stats.Failed)
	}

	dao := fileBySuffix(t, res.Files, "Dao.java")
	assertViolationIDs(t, dao, leakViolations)
	if !dao.Profile.Has("RESOURCE_LEAK_RISK") {
		t.Errorf("compound missing from profile: %v", dao.Profile.Names())
	}
	if dao.Summary == nil {
		t.Error("fresh analysis should carry a syntax summary")
	}
	if dao.CacheHit {
		t.Error("first run cannot be a cache hit")
	}

	tidy := fileBySuffix(t, res.Files, "Tidy.java")
	if ids := violationIDs(tidy); len(ids) != 0 {
		t.Errorf("clean file produced violations: %v", ids)
	}
}

func TestAnalyzeDirEmptyTree(t *testing.T) {
	root := writeTree(t, map[string]string{
		"README.md": "no java here\n",
	})
	d := newTestDriver(t, Config{NoCache: true})

	res, err := d.AnalyzeDir(context.Background(), root)
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}
	if res.Stats.Files != 0 || len(res.Files) != 0 {
		t.Fatalf("expected an empty run, got %+v", res.Stats)
	}
	if res.Stats.Violations != 0 || res.Stats.Failed != 0 {
		t.Errorf("empty run counted work: %+v", res.Stats)
	}
}

func TestAnalyzeDirSecondRunHitsMemoryCache(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/Dao.java":  daoLeakSource,
		"src/Tidy.java": tidySource,
	})
	d := newTestDriver(t, Config{})

	if _, err := d.AnalyzeDir(context.Background(), root); err != nil {
		t.Fatalf("first run: %v", err)
	}
	res, err := d.AnalyzeDir(context.Background(), root)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if res.Stats.CacheHits != 2 {
		t.Errorf("Stats.CacheHits = %d, want 2", res.Stats.CacheHits)
	}
	dao := fileBySuffix(t, res.Files, "Dao.java")
	if !dao.CacheHit {
		t.Error("expected a cache hit on the second run")
	}
	if dao.Summary != nil {
		t.Error("cache hits skip parsing and carry no summary")
	}
	// Rules run fresh on the cached profile.
	assertViolationIDs(t, dao, leakViolations)
}

func TestAnalyzeDirDiskCacheSurvivesRestart(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/Dao.java":  daoLeakSource,
		"src/Tidy.java": tidySource,
	})
	cacheDir := t.TempDir()

	first := newTestDriver(t, Config{CacheDir: cacheDir})
	if _, err := first.AnalyzeDir(context.Background(), root); err != nil {
		t.Fatalf("first driver: %v", err)
	}

	second := newTestDriver(t, Config{CacheDir: cacheDir})
	res, err := second.AnalyzeDir(context.Background(), root)
	if err != nil {
		t.Fatalf("second driver: %v", err)
	}

	if res.Stats.CacheHits != 2 {
		t.Errorf("Stats.CacheHits = %d, want 2", res.Stats.CacheHits)
	}
	// Disk hits get promoted into the memory cache.
	if second.mem.Len() != 2 {
		t.Errorf("memory cache holds %d entries after promotion, want 2", second.mem.Len())
	}
	assertViolationIDs(t, fileBySuffix(t, res.Files, "Dao.java"), leakViolations)
}

func TestAnalyzeSourceBypassesCaches(t *testing.T) {
	d := newTestDriver(t, Config{})

	for run := 0; run < 2; run++ {
		res := d.AnalyzeSource(context.Background(), "editor:Dao.java", []byte(daoLeakSource))
		if res.CacheHit {
			t.Fatalf("run %d: AnalyzeSource reported a cache hit", run)
		}
		assertViolationIDs(t, res, leakViolations)
	}
	if d.mem.Len() != 0 {
		t.Errorf("AnalyzeSource populated the cache with %d entries", d.mem.Len())
	}
}

func TestAnalyzeBufferWrapsSourceRun(t *testing.T) {
	d := newTestDriver(t, Config{NoCache: true})

	run := d.AnalyzeBuffer(context.Background(), "<stdin>", []byte(daoLeakSource))
	if run.Stats.Files != 1 || run.Stats.Violations != len(leakViolations) {
		t.Fatalf("stats = %+v", run.Stats)
	}
	if run.Files[0].Path != "<stdin>" {
		t.Errorf("Path = %q, want <stdin>", run.Files[0].Path)
	}
	assertViolationIDs(t, &run.Files[0], leakViolations)
}

func TestAnalyzeFileMissingReturnsError(t *testing.T) {
	d := newTestDriver(t, Config{NoCache: true})
	if _, err := d.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "gone.java")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestAnalyzePathsTurnsReadFailuresIntoNotices(t *testing.T) {
	d := newTestDriver(t, Config{NoCache: true})
	missing := filepath.Join(t.TempDir(), "vanished.java")

	results, err := d.analyzePaths(context.Background(), []string{missing})
	if err != nil {
		t.Fatalf("analyzePaths: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	res := results[0]
	if res.Profile != nil {
		t.Error("unreadable file should not carry a profile")
	}
	if len(res.Notices) != 1 || res.Notices[0].Code != diag.IOLoadFileError {
		t.Errorf("notices = %+v, want one IOLoadFileError", res.Notices)
	}
	if stats := tally(results); stats.Failed != 1 {
		t.Errorf("Stats.Failed = %d, want 1", stats.Failed)
	}
}

func TestAnalyzeDirEmitsProgressEvents(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/Dao.java":  daoLeakSource,
		"src/Tidy.java": tidySource,
	})
	d := newTestDriver(t, Config{NoCache: true})

	events := make(chan Event, 16)
	d.SetProgress(ChannelSink{Ch: events})

	if _, err := d.AnalyzeDir(context.Background(), root); err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}
	close(events)

	counts := map[Status]int{}
	for evt := range events {
		counts[evt.Status]++
	}
	if counts[StatusQueued] != 2 || counts[StatusWorking] != 2 || counts[StatusDone] != 2 {
		t.Errorf("event counts = %v, want 2 of queued/working/done", counts)
	}
	if counts[StatusError] != 0 {
		t.Errorf("unexpected error events: %v", counts)
	}
}

func TestAnalyzeNormalizesBeforeCaching(t *testing.T) {
	crlf := "\xEF\xBB\xBF" + strings.ReplaceAll(daoLeakSource, "\n", "\r\n")
	root := writeTree(t, map[string]string{
		"src/Windows.java": crlf,
		"src/Unix.java":    daoLeakSource,
	})
	d := newTestDriver(t, Config{Jobs: 1})

	res, err := d.AnalyzeDir(context.Background(), root)
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}

	// Both variants normalize to the same bytes, so whichever file the
	// worker reaches second reuses the first one's profile.
	if res.Stats.CacheHits != 1 {
		t.Errorf("Stats.CacheHits = %d, want 1 (variants share an entry)", res.Stats.CacheHits)
	}
	assertViolationIDs(t, fileBySuffix(t, res.Files, "Windows.java"), leakViolations)
	assertViolationIDs(t, fileBySuffix(t, res.Files, "Unix.java"), leakViolations)
}

func TestAnalyzeRecodedInputGetsNotice(t *testing.T) {
	d := newTestDriver(t, Config{NoCache: true})

	latin1 := []byte("public class Caf\xe9 {}\n")
	res := d.AnalyzeSource(context.Background(), "Cafe.java", latin1)

	found := false
	for _, n := range res.Notices {
		if n.Code == diag.IORecodedInput {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an IORecodedInput notice, got %+v", res.Notices)
	}
	if res.Profile == nil {
		t.Error("recoded input should still produce a profile")
	}
}

func TestNoSyntaxStillExtractsPatterns(t *testing.T) {
	d := newTestDriver(t, Config{NoSyntax: true, NoCache: true})

	res := d.AnalyzeSource(context.Background(), "Dao.java", []byte(daoLeakSource))
	if res.Summary != nil {
		t.Error("NoSyntax run produced a summary")
	}
	if !res.Profile.Has("USES_CONNECTION") || !res.Profile.Has("SQL_CONCAT") {
		t.Errorf("pattern tags missing without syntax: %v", res.Profile.Names())
	}
	assertViolationIDs(t, res, leakViolations)
}
