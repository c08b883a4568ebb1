package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userDoc = `{"Type":"User","Key":3,"Properties":{"Name":"x","Tags":["a","b"],"Ok":true,"Nothing":null,"BestFriend":{"Key":3}}}`

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the CLI with an isolated config directory.
func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, errOut bytes.Buffer
	root := New(strings.NewReader(stdin), &out, &errOut).RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConvert_RoundTrip(t *testing.T) {
	toYAML := run(t, userDoc, "convert", "--from", "json", "--to", "yaml")
	require.NoError(t, toYAML.err)
	assert.Contains(t, toYAML.stdout, "Type: User")

	back := run(t, toYAML.stdout, "convert", "--from", "yaml", "--to", "json")
	require.NoError(t, back.err)
	assert.Equal(t, userDoc+"\n", back.stdout)
}

func TestConvert_FileAndOutput(t *testing.T) {
	in := writeFile(t, "graph.json", userDoc)
	out := filepath.Join(t.TempDir(), "graph.yaml")

	res := run(t, "", "convert", in, "--to", "yaml", "-o", out)
	require.NoError(t, res.err)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "document written")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Key: 3")
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"unknown input format", userDoc, []string{"convert", "--from", "xml"}, "unknown format"},
		{"unknown output format", userDoc, []string{"convert", "--to", "toml"}, "unknown format"},
		{"malformed json", `{"Key":`, []string{"convert"}, "parse -"},
		{"missing file", "", []string{"convert", "does-not-exist.json"}, "read does-not-exist.json"},
		{"too many args", "", []string{"convert", "a", "b"}, "accepts at most 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.stdin, tt.args...)
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tt.want)
		})
	}
}

func TestShape(t *testing.T) {
	doc := `[{"Type":"User","Key":7,"Properties":{"BestFriend":{"Key":7}}},{"Key":7}]`
	res := run(t, doc, "shape")
	require.NoError(t, res.err)
	assert.Equal(t, `[{"Type":"User","Key":0,"Properties":{"BestFriend":{"Key":0}}},{"Key":0}]`+"\n", res.stdout)

	yamlIn := writeFile(t, "doc.yaml", "Type: User\nKey: 12\nProperties: {}\n")
	res = run(t, "", "shape", yamlIn)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Key: 0")
}

func TestDigest(t *testing.T) {
	a := writeFile(t, "a.json", `{"Type":"User","Key":0,"Properties":{"BestFriend":{"Key":0}}}`)
	b := writeFile(t, "b.yaml", "Type: User\nKey: 40\nProperties:\n  BestFriend:\n    Key: 40\n")
	c := writeFile(t, "c.json", `{"Type":"User","Key":0,"Properties":{}}`)

	res := run(t, "", "digest", a, b, c)
	require.NoError(t, res.err)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3)
	sums := make([]string, len(lines))
	for i, line := range lines {
		fields := strings.Fields(line)
		require.Len(t, fields, 2)
		assert.Len(t, fields[0], 64)
		sums[i] = fields[0]
	}
	assert.Equal(t, sums[0], sums[1])
	assert.NotEqual(t, sums[0], sums[2])
	assert.True(t, strings.HasSuffix(lines[1], b))

	stdin := run(t, userDoc, "digest")
	require.NoError(t, stdin.err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(stdin.stdout), "  -"))
}

func TestInspect(t *testing.T) {
	doc := `{"Type":"Student","Key":0,"Properties":{"User":{"Type":"User","Key":1,"Properties":{"BestFriend":{"Key":0}}}}}`
	res := run(t, doc, "inspect")
	require.NoError(t, res.err)

	assert.Regexp(t, `full nodes\s*│\s*2`, res.stdout)
	assert.Regexp(t, `back-references\s*│\s*1`, res.stdout)
	assert.Regexp(t, `max depth\s*│\s*3`, res.stdout)
	assert.Regexp(t, `type Student\s*│\s*1`, res.stdout)
	assert.Regexp(t, `type User\s*│\s*1`, res.stdout)
	assert.Regexp(t, `metric\s*│\s*value`, res.stdout)
}

func TestConfig(t *testing.T) {
	t.Run("defaults from file", func(t *testing.T) {
		cfg := writeFile(t, "config.toml", "log_level = \"debug\"\nformat = \"yaml\"\n")
		res := run(t, userDoc, "--config", cfg, "convert", "--from", "json")
		require.NoError(t, res.err)
		assert.Contains(t, res.stdout, "Type: User")
		assert.Contains(t, res.stderr, "configuration loaded")
	})

	t.Run("indent", func(t *testing.T) {
		cfg := writeFile(t, "config.toml", "indent = \"  \"\n")
		res := run(t, `{"Key":1}`, "--config", cfg, "convert")
		require.NoError(t, res.err)
		assert.Equal(t, "{\n  \"Key\": 1\n}\n", res.stdout)
	})

	t.Run("flag overrides file", func(t *testing.T) {
		cfg := writeFile(t, "config.toml", "format = \"yaml\"\n")
		res := run(t, userDoc, "--config", cfg, "convert", "--to", "json")
		require.NoError(t, res.err)
		assert.Equal(t, userDoc+"\n", res.stdout)
	})

	t.Run("default location", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, appName), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, appName, "config.toml"), []byte("format = \"yaml\"\n"), 0o644))

		var out bytes.Buffer
		t.Setenv("XDG_CONFIG_HOME", dir)
		root := New(strings.NewReader(userDoc), &out, &bytes.Buffer{}).RootCommand()
		root.SetArgs([]string{"convert", "--from", "json"})
		require.NoError(t, root.ExecuteContext(context.Background()))
		assert.Contains(t, out.String(), "Type: User")
	})

	errs := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "colour = \"red\"\n", "unknown key"},
		{"bad level", "log_level = \"loud\"\n", "log_level"},
		{"bad format", "format = \"xml\"\n", "unknown format"},
		{"bad toml", "format = \n", "parse config"},
	}
	for _, tt := range errs {
		t.Run(tt.name, func(t *testing.T) {
			cfg := writeFile(t, "config.toml", tt.content)
			res := run(t, userDoc, "--config", cfg, "convert")
			require.Error(t, res.err)
			assert.Contains(t, res.err.Error(), tt.want)
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		res := run(t, userDoc, "--config", filepath.Join(t.TempDir(), "nope.toml"), "convert")
		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "read config")
	})
}

func TestVerbose(t *testing.T) {
	quiet := run(t, userDoc, "inspect")
	require.NoError(t, quiet.err)
	assert.Empty(t, quiet.stderr)

	loud := run(t, userDoc, "-v", "inspect")
	require.NoError(t, loud.err)
	assert.Contains(t, loud.stderr, "document read")
	assert.Contains(t, loud.stderr, "inspected")
}

func TestVersion(t *testing.T) {
	SetVersion("v1.2.3", "abc123", "2026-01-01")
	t.Cleanup(func() { SetVersion("dev", "", "") })

	res := run(t, "", "--version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "skein v1.2.3")
	assert.Contains(t, res.stdout, "commit: abc123")
}
