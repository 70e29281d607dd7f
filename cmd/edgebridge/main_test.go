package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/edgebridge/pkg/adapters/file"
	"github.com/aretw0/edgebridge/pkg/catalog"
	"github.com/aretw0/edgebridge/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := run(t, "version")
	assert.True(t, strings.HasPrefix(out, "edgebridge version "))
}

func TestCatalogCommand_JSONInCallerUnits(t *testing.T) {
	out := run(t, "catalog", "--format", "json", "--units", "mm")

	var m catalog.Manifest
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, "mm", m.Units.Linear)
	assert.NotEmpty(t, m.Commands)
}

func TestSessionCommand_FileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sessions")
	t.Setenv("EDGEBRIDGE_STORE_PATH", dir)
	require.NoError(t, file.New(dir).Save(context.Background(), "bench", &domain.Snapshot{ID: "bench", Connected: true}))

	out := run(t, "session", "ls", "--store", "file")
	assert.Contains(t, out, "- bench")

	out = run(t, "session", "inspect", "bench", "--store", "file")
	assert.Contains(t, out, `"connected": true`)

	out = run(t, "session", "rm", "bench", "--store", "file")
	assert.Contains(t, out, "Removed session 'bench'")

	out = run(t, "session", "ls", "--store", "file")
	assert.Contains(t, out, "No stored sessions found.")
}
