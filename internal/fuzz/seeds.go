package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // 64 KiB cap for the seed corpus

func addJavaSeeds(f *testing.F) {
	addTestdataSeeds(f)

	f.Add([]byte{})
	f.Add([]byte("class A {}\n"))
	f.Add([]byte(`import java.sql.Connection;

public class Dao {
    public void query(String id) throws Exception {
        Connection conn = DriverManager.getConnection(url);
        try {
            st.executeQuery("SELECT * FROM t WHERE id = " + id);
        } finally {
            conn.close();
        }
    }
}
`))
	f.Add([]byte("// comment with \"quote\n/* unterminated\nwhile (x > 0) { x--; }\n"))
	f.Add([]byte("String s = \"brace { inside literal\"; for (;;) {}\n"))
	f.Add([]byte("do { retry(); } while (flaky());\nfinally {\n"))
}

// addTestdataSeeds folds any *.java fixtures under testdata into the
// corpus. The directory is optional.
func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".java" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func addExprSeeds(f *testing.F) {
	seeds := []string{
		"",
		"USES_CONNECTION",
		"!HAS_TRY_WITH_RESOURCES",
		"(USES_CONNECTION || USES_IO_STREAM) && !CLOSES_IN_FINALLY",
		"A && (B || !C) && !(D || E)",
		"A &&",
		"((A)",
		"a && B",
		"A ! B",
		"!!!A",
	}
	for _, s := range seeds {
		f.Add(s)
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
