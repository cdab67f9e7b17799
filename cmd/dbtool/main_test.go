package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCommand(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "trucks.json")
	require.NoError(t, os.WriteFile(seed, []byte(`[{"truck_id": "T1", "length": 6, "spot": "B1_F1_V1"}]`), 0o600))
	dsn := filepath.Join(dir, "app.db")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"seed", "--driver", "sqlite", "--dsn", dsn, "--file", seed})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Seeded 1 trucks")

	out.Reset()
	root = newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"seed", "--driver", "sqlite", "--dsn", dsn, "--file", seed, "--if-empty"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Seeded 0 trucks")
}

func TestUnknownDriver(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"init", "--driver", "mysql", "--dsn", "x"})
	assert.Error(t, root.ExecuteContext(context.Background()))
}
