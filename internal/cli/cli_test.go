// cli_test.go: End-to-end tests of the pfz command tree.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/agilira/pfz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profilesJSON = `[
  {"id": "p1", "name": "OpenAI", "apiKey": "sk-1", "baseUrl": "https://api.openai.com/v1", "pluginId": "openai"},
  {"id": "p2", "name": "Local", "apiKey": "k-2", "baseUrl": "http://localhost:11434", "pluginId": "ollama"}
]`

func testEnv() map[string]string {
	return map[string]string{
		"PFZ_PASSWORD":   "correct-horse",
		"PFZ_ITERATIONS": "10",
	}
}

func run(t *testing.T, environ map[string]string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(environ)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeProfiles(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "profiles.json")
	require.NoError(t, os.WriteFile(path, []byte(profilesJSON), 0o600))
	return path
}

func TestExportImport_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := writeProfiles(t, dir)
	archive := filepath.Join(dir, "providers.zip")

	stdout, _, err := run(t, testEnv(), "export", "--in", in, "--out", archive)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported 2 profiles")

	st, err := os.Stat(archive)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	stdout, _, err = run(t, testEnv(), "import", "--in", archive)
	require.NoError(t, err)

	var got []pfz.Profile
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "sk-1", got[0].APIKey)
	assert.Equal(t, "ollama", got[1].PluginID)
}

func TestImport_ToFile(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "providers.zip")
	out := filepath.Join(dir, "restored.json")

	_, _, err := run(t, testEnv(), "export", "--in", writeProfiles(t, dir), "--out", archive)
	require.NoError(t, err)

	stdout, _, err := run(t, testEnv(), "import", "--in", archive, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Imported 2 profiles")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	profiles, err := pfz.DecodeProfiles(data)
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
}

func TestExport_PasswordFileFlag(t *testing.T) {
	dir := t.TempDir()
	pwFile := filepath.Join(dir, "pw")
	require.NoError(t, os.WriteFile(pwFile, []byte("from-file\n"), 0o600))
	archive := filepath.Join(dir, "providers.zip")

	env := map[string]string{"PFZ_ITERATIONS": "10"}
	_, _, err := run(t, env, "export", "--password-file", pwFile, "--in", writeProfiles(t, dir), "--out", archive)
	require.NoError(t, err)

	data, err := os.ReadFile(archive)
	require.NoError(t, err)
	_, err = pfz.ImportProfiles(data, []byte("from-file"))
	assert.NoError(t, err)
}

func TestExport_FormatFlag(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "providers.zip")

	_, _, err := run(t, testEnv(), "export", "--in", writeProfiles(t, dir), "--out", archive, "--format", "pfz1", "--entry", "backup.pfz")
	require.NoError(t, err)

	stdout, _, err := run(t, testEnv(), "inspect", "--in", archive)
	require.NoError(t, err)
	assert.Contains(t, stdout, "'backup.pfz'")
	assert.Contains(t, stdout, "PFZ1")
	assert.Contains(t, stdout, "200000")
	assert.Contains(t, stdout, "(ok)")
}

func TestInspect_NeedsNoPassword(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "providers.zip")
	_, _, err := run(t, testEnv(), "export", "--in", writeProfiles(t, dir), "--out", archive, "--iterations", "42")
	require.NoError(t, err)

	stdout, _, err := run(t, map[string]string{}, "inspect", "--in", archive)
	require.NoError(t, err)
	assert.Contains(t, stdout, "'providers.pfz'")
	assert.Contains(t, stdout, "PFZ2")
	assert.Contains(t, stdout, "42")
}

func TestInspect_ReportsCRCMismatch(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "providers.zip")
	_, _, err := run(t, testEnv(), "export", "--in", writeProfiles(t, dir), "--out", archive)
	require.NoError(t, err)

	data, err := os.ReadFile(archive)
	require.NoError(t, err)
	data[14] ^= 0xff // recorded CRC-32
	require.NoError(t, os.WriteFile(archive, data, 0o600))

	stdout, stderr, err := run(t, testEnv(), "inspect", "--in", archive)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(mismatch)")
	assert.Contains(t, stderr, "container checksum mismatch")
}

func TestCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	profiles := writeProfiles(t, dir)
	archive := filepath.Join(dir, "providers.zip")
	_, _, err := run(t, testEnv(), "export", "--in", profiles, "--out", archive)
	require.NoError(t, err)

	incomplete := filepath.Join(dir, "incomplete.json")
	require.NoError(t, os.WriteFile(incomplete, []byte(`[{"id":"p1"}]`), 0o600))
	notZip := filepath.Join(dir, "not.zip")
	require.NoError(t, os.WriteFile(notZip, []byte("plain text"), 0o600))

	wrongPassword := testEnv()
	wrongPassword["PFZ_PASSWORD"] = "wrong"

	tests := []struct {
		name    string
		environ map[string]string
		args    []string
		wantErr error
	}{
		{"WrongPassword", wrongPassword, []string{"import", "--in", archive}, pfz.ErrAuthentication},
		{"NotAZip", testEnv(), []string{"import", "--in", notZip}, pfz.ErrFormat},
		{"IncompleteProfiles", testEnv(), []string{"export", "--in", incomplete, "--out", filepath.Join(dir, "x.zip")}, pfz.ErrSchema},
		{"NoPassword", map[string]string{}, []string{"import", "--in", archive}, nil},
		{"MissingInput", testEnv(), []string{"import", "--in", filepath.Join(dir, "missing.zip")}, nil},
		{"BadFormat", testEnv(), []string{"export", "--in", profiles, "--out", archive, "--format", "rar"}, nil},
		{"BadEnvironment", map[string]string{"PFZ_ITERATIONS": "-5"}, []string{"inspect", "--in", archive}, nil},
		{"MissingRequiredFlag", testEnv(), []string{"export", "--in", profiles}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.environ, tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLogLevelFlag(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "providers.zip")

	_, stderr, err := run(t, testEnv(), "--log-level", "debug", "export", "--in", writeProfiles(t, dir), "--out", archive)
	require.NoError(t, err)
	assert.Contains(t, stderr, "configuration loaded")
	assert.Contains(t, stderr, "archive written")
}

// Existing output files are rewritten with owner-only permissions.
func TestOutputFiles_TightenExistingMode(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "providers.zip")
	restored := filepath.Join(dir, "restored.json")
	for _, path := range []string{archive, restored} {
		require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))
		require.NoError(t, os.Chmod(path, 0o644))
	}

	_, _, err := run(t, testEnv(), "export", "--in", writeProfiles(t, dir), "--out", archive)
	require.NoError(t, err)
	st, err := os.Stat(archive)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	_, _, err = run(t, testEnv(), "import", "--in", archive, "--out", restored)
	require.NoError(t, err)
	st, err = os.Stat(restored)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	data, err := os.ReadFile(restored)
	require.NoError(t, err)
	profiles, err := pfz.DecodeProfiles(data)
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
}

func TestWritePrivateFile_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.WriteFile(path, []byte("a much longer previous content"), 0o644))

	require.NoError(t, writePrivateFile(path, []byte("short")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}
