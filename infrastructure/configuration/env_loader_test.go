package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvLine(t *testing.T) {
	tests := []struct {
		line string
		key  string
		val  string
		ok   bool
	}{
		{"A=1", "A", "1", true},
		{"export B = two", "B", "two", true},
		{`C="quoted # kept"`, "C", "quoted # kept", true},
		{"D='single'", "D", "single", true},
		{"E=plain # dropped", "E", "plain", true},
		{`F="unbalanced`, "F", `"unbalanced`, true},
		{"G=", "G", "", true},
		{"# comment", "", "", false},
		{"", "", "", false},
		{"no equals sign", "", "", false},
		{"=value", "", "", false},
		{"BAD KEY=1", "", "", false},
	}
	for _, tt := range tests {
		key, val, ok := parseEnvLine(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.key, key, tt.line)
		assert.Equal(t, tt.val, val, tt.line)
	}
}

func TestLoadEnvFromFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "config.env")
	second := filepath.Join(dir, ".env")
	missing := filepath.Join(dir, "absent.env")

	require.NoError(t, os.WriteFile(first, []byte("# portal\nLUSTROOM_TEST_A=from-config\nexport LUSTROOM_TEST_B=\"quoted\"\nLUSTROOM_TEST_OS=file\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("LUSTROOM_TEST_A=from-dotenv\nLUSTROOM_TEST_C=3\n"), 0o600))

	t.Setenv("LUSTROOM_TEST_OS", "process")
	for _, k := range []string{"LUSTROOM_TEST_A", "LUSTROOM_TEST_B", "LUSTROOM_TEST_C"} {
		// Register cleanup, then unset so the loader sees the key as absent.
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	loaded := LoadEnvFromFile(first, missing, second)

	require.Len(t, loaded, 2)
	assert.Equal(t, first, loaded[0].Path)
	assert.Equal(t, second, loaded[1].Path)
	assert.Equal(t, []string{"LUSTROOM_TEST_A", "LUSTROOM_TEST_B"}, loaded[0].Applied)
	assert.Equal(t, []string{"LUSTROOM_TEST_OS"}, loaded[0].Shadowed)
	assert.Equal(t, []string{"LUSTROOM_TEST_C"}, loaded[1].Applied)
	assert.Equal(t, []string{"LUSTROOM_TEST_A"}, loaded[1].Shadowed)

	assert.Equal(t, "from-config", os.Getenv("LUSTROOM_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("LUSTROOM_TEST_B"))
	assert.Equal(t, "3", os.Getenv("LUSTROOM_TEST_C"))
	assert.Equal(t, "process", os.Getenv("LUSTROOM_TEST_OS"))
}

func TestLoadEnvFromFile_NoFiles(t *testing.T) {
	assert.Empty(t, LoadEnvFromFile(filepath.Join(t.TempDir(), "nope.env")))
}
