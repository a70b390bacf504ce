package gen_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// TestExamples_Compile regenerates the example packages with the CLI and
// runs their tests against the fresh output.
func TestExamples_Compile(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go tool")
	}

	repoRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}

	cmd := exec.CommandContext(t.Context(), "go", "run", "./cmd/extras-generator", "generate",
		"--quiet", "./examples/shop", "./examples/admin",
	)
	cmd.Dir = repoRoot

	b, err := cmd.CombinedOutput()
	if err != nil {
		// Best-effort: dump the debug sidecars of files that failed to format.
		matches, _ := filepath.Glob(filepath.Join(repoRoot, "examples", "*", "*.unformatted.txt"))
		for _, p := range matches {
			if fb, rerr := os.ReadFile(p); rerr == nil {
				t.Logf("unformatted file %s:\n%s", p, string(fb))
			}
		}

		t.Fatalf("generate failed: %v\n%s", err, string(b))
	}

	test := exec.CommandContext(t.Context(), "go", "test", "./examples/...", "-count=1")
	test.Dir = repoRoot

	b, err = test.CombinedOutput()
	if err != nil {
		t.Fatalf("example tests failed: %v\n%s", err, string(b))
	}
}
