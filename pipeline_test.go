package spritegen

import (
	"bytes"
	"context"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/bodgit/spritegen/crc32"
	"github.com/bodgit/spritegen/manifest"
	tpng "github.com/bodgit/spritegen/png"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(t *testing.T, opts ...Option) (*Generator, *bytes.Buffer) {
	db := newTestDB(t)
	_, err := db.Import(strings.NewReader(creaturesJSON), KindCreature)
	require.NoError(t, err)
	_, err = db.Import(strings.NewReader(`[{"id": 1, "name": "Sword", "level": 80}, {"id": "shield", "name": "Shield"}]`), KindItem)
	require.NoError(t, err)

	logs := new(bytes.Buffer)
	return New(db, log.New(logs, "", 0), opts...), logs
}

func listFiles(t *testing.T, dir string) []string {
	var files []string
	require.NoError(t, filepath.Walk(dir, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			rel, _ := filepath.Rel(dir, file)
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	}))
	sort.Strings(files)
	return files
}

func TestGenerate(t *testing.T) {
	g, _ := newTestGenerator(t, WithWorkers(3))
	dir := t.TempDir()

	report, err := g.Generate(context.Background(), dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, report.Written)
	assert.Equal(t, 0, report.Unchanged)
	assert.Empty(t, report.Failures)

	assert.Equal(t, []string{
		"creature/1.png",
		"creature/2.png",
		"creature/4.png",
		"creature/5.png",
		"creature/6.png",
		"creature/dragon-lord.png",
		"item/1.png",
		"item/shield.png",
		manifest.Filename,
	}, listFiles(t, dir))

	b, err := ioutil.ReadFile(filepath.Join(dir, "creature", "1.png"))
	require.NoError(t, err)
	want, err := g.Render(scout)
	require.NoError(t, err)
	assert.Equal(t, want, b)

	_, err = png.Decode(bytes.NewReader(b))
	require.NoError(t, err)

	chunks, err := tpng.ReadChunks(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Len(t, chunks, 3)

	idx, err := readManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, 8, idx.Length())
	crc, ok := idx.Get("creature/1")
	assert.True(t, ok)
	assert.Equal(t, crc32.Checksum(b), crc)
}

func TestGenerateIncremental(t *testing.T) {
	g, logs := newTestGenerator(t)
	dir := t.TempDir()

	_, err := g.Generate(context.Background(), dir, 0)
	require.NoError(t, err)

	// Damage one file, a second run rewrites only that one
	damaged := filepath.Join(dir, "creature", "4.png")
	require.NoError(t, ioutil.WriteFile(damaged, []byte("junk"), 0644))

	report, err := g.Generate(context.Background(), dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Written)
	assert.Equal(t, 7, report.Unchanged)
	assert.Contains(t, logs.String(), "Unchanged \"creature/1\"")

	b, err := ioutil.ReadFile(damaged)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(b))
	assert.NoError(t, err)
}

func TestGenerateKind(t *testing.T) {
	g, _ := newTestGenerator(t)
	dir := t.TempDir()

	_, err := g.Generate(context.Background(), dir, 0)
	require.NoError(t, err)

	report, err := g.Generate(context.Background(), dir, KindItem)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Unchanged)

	// Creature entries survive an item-only run
	idx, err := readManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, 8, idx.Length())
}

func TestGenerateCorruptManifest(t *testing.T) {
	g, logs := newTestGenerator(t)
	dir := t.TempDir()

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, manifest.Filename), []byte("garbage"), 0644))

	report, err := g.Generate(context.Background(), dir, KindItem)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Written)
	assert.Contains(t, logs.String(), "Ignoring manifest")
}

func TestGenerateStorageFailure(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}

	g, logs := newTestGenerator(t)
	dir := t.TempDir()

	// The item directory cannot be written to, creatures still succeed
	items := filepath.Join(dir, "item")
	require.NoError(t, os.Mkdir(items, 0555))
	t.Cleanup(func() { os.Chmod(items, 0755) })

	report, err := g.Generate(context.Background(), dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, report.Written)
	require.Len(t, report.Failures, 2)
	assert.Contains(t, logs.String(), "Failed \"item/")

	idx, err := readManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, 6, idx.Length())
}

func TestGenerateStorageFailureFile(t *testing.T) {
	g, _ := newTestGenerator(t)
	dir := t.TempDir()

	// A regular file where the item directory should be
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "item"), nil, 0644))

	report, err := g.Generate(context.Background(), dir, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, report.Written)
	require.Len(t, report.Failures, 2)
	for _, f := range report.Failures {
		assert.Equal(t, KindItem, f.Entity.Kind)
	}
}

func TestGenerateCompressionFailure(t *testing.T) {
	g, _ := newTestGenerator(t, WithCompressor(tpng.CompressorFunc(func([]byte) ([]byte, error) {
		return nil, errors.New("exhausted")
	})))
	dir := t.TempDir()

	report, err := g.Generate(context.Background(), dir, KindItem)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Written)
	require.Len(t, report.Failures, 2)
	assert.True(t, errors.Is(report.Failures[0], tpng.ErrCompression))

	// No partial files
	assert.Equal(t, []string{manifest.Filename}, listFiles(t, dir))
}

func TestGenerateCancelled(t *testing.T) {
	g, _ := newTestGenerator(t)
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := g.Generate(ctx, dir, 0)
	assert.Error(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 0, report.Written)

	// Manifest is still written, and no temporary files are left behind
	for _, f := range listFiles(t, dir) {
		assert.False(t, strings.HasPrefix(filepath.Base(f), "."), f)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a", "b.png")

	require.NoError(t, writeFileAtomic(file, []byte("one")))
	require.NoError(t, writeFileAtomic(file, []byte("two")))

	b, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), b)
	assert.Equal(t, []string{"a/b.png"}, listFiles(t, dir))

	crc, err := crcFile(file)
	require.NoError(t, err)
	assert.Equal(t, crc32.Checksum([]byte("two")), crc)
}
