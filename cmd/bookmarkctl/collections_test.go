package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmarkd/internal/repository"
	"bookmarkd/internal/seed"
)

func TestPrintTree(t *testing.T) {
	ctx := context.Background()
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	testStore, err := repository.OpenSQLite(ctx, ":memory:", "test_", testLogger)
	require.NoError(t, err)
	defer testStore.Close()

	fixture, err := seed.Parse([]byte(`
users:
  - {key: u, name: u}
collections:
  - {key: root, name: Root, owner: u}
  - {key: a, name: A, owner: u, parent: root}
  - {key: a1, name: A1, owner: u, parent: a}
  - {key: b, name: B, owner: u, parent: root}
  - {key: other, name: Other, owner: u}
`))
	require.NoError(t, err)
	ids, err := seed.NewSeeder(testStore, testLogger).Seed(ctx, fixture)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printTree(ctx, &out, testStore.Collections, ids.Collections["root"]))

	lines := []string{
		strconv.FormatInt(ids.Collections["root"], 10) + " Root",
		"  " + strconv.FormatInt(ids.Collections["a"], 10) + " A",
		"    " + strconv.FormatInt(ids.Collections["a1"], 10) + " A1",
		"  " + strconv.FormatInt(ids.Collections["b"], 10) + " B",
	}
	var want bytes.Buffer
	for _, l := range lines {
		want.WriteString(l + "\n")
	}
	assert.Equal(t, want.String(), out.String())
}

func TestPrintTreeMissingRoot(t *testing.T) {
	ctx := context.Background()
	testStore, err := repository.OpenSQLite(ctx, ":memory:", "test_", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer testStore.Close()

	var out bytes.Buffer
	assert.Error(t, printTree(ctx, &out, testStore.Collections, 42))
	assert.Empty(t, out.String())
}
