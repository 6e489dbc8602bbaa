package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `{
  "products": [
    {"id": "p1", "name": "Rice", "unitKind": "UNIT", "price": "10", "quantity": "50", "originalQuantity": "50"}
  ],
  "orders": []
}`

// run executes the CLI against a file store in dir.
func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORAGE", "file")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")

	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func exportDoc(t *testing.T, dir string) map[string]json.RawMessage {
	t.Helper()
	out, err := run(t, dir, "", "export", "--out", "-")
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	return doc
}

func productCount(t *testing.T, doc map[string]json.RawMessage) int {
	t.Helper()
	var products []map[string]interface{}
	require.NoError(t, json.Unmarshal(doc["products"], &products))
	return len(products)
}

func TestVersion(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "stockbook version "+Version+"\n", out.String())
}

func TestExport_EmptyStore(t *testing.T) {
	doc := exportDoc(t, t.TempDir())
	assert.Contains(t, doc, "products")
	assert.Contains(t, doc, "orders")
	assert.Contains(t, doc, "statistics")
	assert.Contains(t, doc, "exportedAt")
	assert.Equal(t, 0, productCount(t, doc))
}

func TestExport_DefaultFilename(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "backup.json")

	stdout, err := run(t, dir, "", "export", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported 0 products and 0 orders")

	_, err = os.Stat(out)
	require.NoError(t, err)
}

func TestImport_WithYes(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(t.TempDir(), "import.json")
	require.NoError(t, os.WriteFile(file, []byte(sampleExport), 0o644))

	out, err := run(t, dir, "", "import", file, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Done.")

	assert.Equal(t, 1, productCount(t, exportDoc(t, dir)))
}

func TestImport_Declined(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(t.TempDir(), "import.json")
	require.NoError(t, os.WriteFile(file, []byte(sampleExport), 0o644))

	out, err := run(t, dir, "n\n", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "1 products, 0 orders")
	assert.Contains(t, out, "Cancelled.")

	assert.Equal(t, 0, productCount(t, exportDoc(t, dir)))
}

func TestImport_InvalidFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(file, []byte("{not json"), 0o644))

	_, err := run(t, t.TempDir(), "", "import", file, "--yes")
	assert.Error(t, err)
}

func TestReset_Confirmed(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(t.TempDir(), "import.json")
	require.NoError(t, os.WriteFile(file, []byte(sampleExport), 0o644))
	_, err := run(t, dir, "", "import", file, "-y")
	require.NoError(t, err)

	out, err := run(t, dir, "yes\n", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Done.")

	assert.Equal(t, 0, productCount(t, exportDoc(t, dir)))
}

func TestAskYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" y \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			got, err := askYesNo(strings.NewReader(tt.input), &out, "Proceed?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Proceed? [y/N]: ", out.String())
		})
	}
}
