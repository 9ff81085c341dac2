package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library/cache"
	"library/config"
	"library/db"
	"library/library"
)

func TestRunDemo(t *testing.T) {
	var out bytes.Buffer
	cmd := &DemoCmd{Out: &out}

	require.NoError(t, cmd.Run())

	output := out.String()
	assert.Contains(t, output, "978-0001: The Little Prince by Antoine de Saint-Exupéry (Fiction) copies:2 borrowed:0")
	assert.Contains(t, output, "Alice info: id=M001 name=Alice email=alice@example.com borrowed=[978-0001]")
	assert.Contains(t, output, "Expected error: cannot delete a book that has borrowed copies (BookHasBorrowedCopies)")
	assert.Contains(t, output, "Bob info: id=M002 name=Bob email=bob@example.com borrowed=[]")

	books := output[bytes.LastIndex(out.Bytes(), []byte("Books now:")):]
	assert.Contains(t, books, "978-0001: The Little Prince")
	assert.NotContains(t, books, "978-0002")
}

func TestRunDemoFailsOnPopulatedCatalog(t *testing.T) {
	lib := library.New()
	require.NoError(t, lib.AddMember("M001", "Someone", "someone@example.com"))

	err := RunDemo(lib, &bytes.Buffer{})
	require.Error(t, err)
}

func TestNewLibraryAppliesSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
books:
  - isbn: "1"
    title: Dune
    author: Frank Herbert
    genre: Sci-Fi
members:
  - id: M1
    name: Paul
    borrowed: ["1"]
`), 0o600))

	lib, err := newLibrary(&config.Config{SeedFile: path})
	require.NoError(t, err)

	book, err := lib.BookInfo("1")
	require.NoError(t, err)
	assert.Equal(t, 1, book.BorrowedCount)

	_, err = newLibrary(&config.Config{SeedFile: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}

func TestSetupDefaultsWithoutBackends(t *testing.T) {
	cfg := &config.Config{ActivityMax: 3}

	index, err := setupIndex(t.Context(), cfg, library.New())
	require.NoError(t, err)
	assert.IsType(t, db.NopBookIndex{}, index)

	cacher, err := setupCache(cfg)
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryRequestCacher{}, cacher)
}

func TestSeedFlagBelongsToServe(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("library"))
	require.NoError(t, err)

	ctx, err := parser.Parse([]string{"serve", "--seed", "catalog.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "serve", ctx.Command())
	assert.Equal(t, "catalog.yaml", cli.Serve.Seed)

	_, err = parser.Parse([]string{"demo", "--seed", "catalog.yaml"})
	require.Error(t, err)

	_, err = parser.Parse([]string{"--seed", "catalog.yaml", "demo"})
	require.Error(t, err)
}
