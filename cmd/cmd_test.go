package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/malla/internal/progress"
	"github.com/abhisek/malla/internal/session"
)

type cli struct {
	t      *testing.T
	dir    string
	dbPath string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"MALLA_CURRICULUM", "MALLA_BACKEND", "MALLA_DB_PATH", "MALLA_REDIS_URL", "MALLA_STORAGE_KEY", "MALLA_LOG_LEVEL", "MALLA_LOG_FILE", "MALLA_EXPORT_DIR"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	return &cli{t: t, dir: dir, dbPath: filepath.Join(dir, "malla.db")}
}

// run executes one malla invocation against the test database.
func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	root := newRootCmd(&globals{workDir: c.dir})

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--db", c.dbPath}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run("", args...)
	require.NoError(c.t, err, "malla %v", args)
	return out
}

func TestStatus_DefaultCurriculum(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("status")
	assert.Contains(t, out, "MAT101")
	assert.Contains(t, out, "SEMESTRE 1")
	assert.Contains(t, out, "0 of 24 units passed")
	assert.Regexp(t, `MAT102\s+Cálculo II\s+Locked\s+Cálculo I, Álgebra`, out)
}

func TestToggle_PersistsAcrossRuns(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("toggle", "MAT102")
	assert.Contains(t, out, `To take "Cálculo II" first pass: Cálculo I, Álgebra`)

	out = c.mustRun("toggle", "MAT101", "ALG101", "MAT102")
	assert.Contains(t, out, "MAT101: unlocked -> passed")
	assert.Contains(t, out, "MAT102: unlocked -> passed")

	out = c.mustRun("status")
	assert.Contains(t, out, "3 of 24 units passed")

	// Sticky: un-passing a prerequisite leaves MAT102 passed.
	c.mustRun("toggle", "MAT101")
	out = c.mustRun("export", "-")
	doc, err := progress.Decode([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, []string{"ALG101", "MAT102"}, doc.IDs())
}

func TestToggle_UnknownUnit(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "toggle", "NOPE")
	assert.ErrorContains(t, err, "unknown unit")
}

func TestReset_Prompt(t *testing.T) {
	c := newCLI(t)
	c.mustRun("toggle", "MAT101")

	out, err := c.run("n\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Clear all your progress? [y/N]")
	assert.Contains(t, out, "Nothing changed.")

	out, err = c.run("y\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Progress cleared.")
	assert.Contains(t, c.mustRun("status"), "0 of 24 units passed")
}

func TestReset_Yes(t *testing.T) {
	c := newCLI(t)
	c.mustRun("toggle", "MAT101")
	assert.Contains(t, c.mustRun("reset", "--yes"), "Progress cleared.")
}

func TestExportImport(t *testing.T) {
	c := newCLI(t)
	c.mustRun("toggle", "MAT101", "ALG101")

	path := filepath.Join(c.dir, "out", "progress.json")
	assert.Contains(t, c.mustRun("export", path), "Exported 2 units")

	c.mustRun("reset", "--yes")
	out := c.mustRun("import", path)
	assert.Contains(t, out, "2 of 24 units passed")

	bad := filepath.Join(c.dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"foo":1}`), 0o644))
	_, err := c.run("", "import", bad)
	require.ErrorIs(t, err, progress.ErrInvalidDocument)
	assert.Contains(t, c.mustRun("status"), "2 of 24 units passed")
}

func TestImport_Stdin(t *testing.T) {
	c := newCLI(t)
	out, err := c.run(`{"aprobado":["MAT101"]}`, "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 24 units passed")
}

func TestGraph_DOT(t *testing.T) {
	c := newCLI(t)
	c.mustRun("toggle", "MAT101")

	out := c.mustRun("graph")
	assert.True(t, strings.HasPrefix(out, "digraph malla {"))
	assert.Contains(t, out, `"MAT101" -> "MAT102";`)
	assert.Contains(t, out, "1 of 24 units passed")

	_, err := c.run("", "graph", "--format", "png")
	assert.ErrorContains(t, err, "unknown format")
}

func TestCurriculumList(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("curriculum", "list", "--group", "Semestre 1")
	assert.Contains(t, out, "ALG101")
	assert.NotContains(t, out, "MAT102 ")
	assert.Contains(t, out, "5 units")

	_, err := c.run("", "curriculum", "list", "--group", "Semestre 9")
	assert.Error(t, err)
}

func TestCurriculumFlag_YAML(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(c.dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`units:
  - id: A
    label: Alpha
    unlocks: [B]
  - id: B
    label: Beta
`), 0o644))

	out := c.mustRun("--curriculum", path, "status")
	assert.Contains(t, out, "0 of 2 units passed")
	assert.Regexp(t, `B\s+Beta\s+Locked\s+Alpha`, out)
}

func TestStatus_AvailableAndBlocked(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(c.dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`units:
  - id: A
    label: Alpha
    unlocks: [B]
  - id: B
    label: Beta
`), 0o644))

	out := c.mustRun("--curriculum", path, "status", "--available")
	assert.Contains(t, out, "Alpha")
	assert.NotContains(t, out, "Beta")

	out = c.mustRun("--curriculum", path, "status", "--blocked")
	assert.Regexp(t, `B\s+Beta\s+\(needs Alpha\)`, out)

	c.mustRun("--curriculum", path, "toggle", "A")
	assert.Contains(t, c.mustRun("--curriculum", path, "status", "--blocked"), "Nothing is blocked.")

	_, err := c.run("", "--curriculum", path, "status", "--available", "--blocked")
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	c := newCLI(t)
	assert.Contains(t, c.mustRun("history"), "No progress recorded yet.")

	c.mustRun("toggle", "MAT101", "ALG101")
	c.mustRun("reset", "--yes")

	out := c.mustRun("history", "--limit", "2")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "reset")
	assert.Contains(t, lines[2], "ALG101")
}

func TestHistory_RequiresSQLite(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "--backend", "memory", "history")
	assert.ErrorIs(t, err, session.ErrNoHistory)
}

func TestMemoryBackendDoesNotPersist(t *testing.T) {
	c := newCLI(t)
	c.mustRun("--backend", "memory", "toggle", "MAT101")
	assert.Contains(t, c.mustRun("--backend", "memory", "status"), "0 of 24 units passed")
}

func TestUnknownBackend(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("", "--backend", "etcd", "status")
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	assert.Contains(t, c.mustRun("version"), "malla")
}
