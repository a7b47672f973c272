package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veridian-labs/corpusit/core"
)

func TestScan_CountsSupportedFilesOnly(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	dir := t.TempDir()

	writeFile(t, dir, "one.py", "print('one')")
	writeFile(t, dir, "two.py", "print('two')")
	writeFile(t, dir, "three.py", "print('three')")
	writeFile(t, dir, "photo.png", "fake image bytes")
	writeFile(t, dir, "logo.png", "fake image bytes")
	writeFile(t, dir, "tiny.pdf", "%PDF-1.4")

	report, err := p.Scan(context.Background(), dir, false)
	require.NoError(t, err)

	// Scan classifies by name only: the undersized PDF still counts here,
	// the images never do.
	assert.Equal(t, 4, report.TotalFiles)
	assert.Equal(t, dir, report.Directory)

	require.Contains(t, report.ByKind, core.KindSourceCode)
	assert.Equal(t, 3, report.ByKind[core.KindSourceCode].Count)
	assert.Equal(t, "Python Code", report.ByKind[core.KindSourceCode].Label)

	require.Contains(t, report.ByKind, core.KindPDF)
	assert.Equal(t, 1, report.ByKind[core.KindPDF].Count)

	assert.NotContains(t, report.ByKind, core.KindBinarySkip)
	assert.Greater(t, report.TotalSizeMB, 0.0)
}

func TestScan_Recursive(t *testing.T) {
	p, _, _ := newTestPipeline(t)
	dir := t.TempDir()
	writeFile(t, dir, "top.txt", "top level content")
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeFile(t, sub, "deep.txt", "nested content")

	flat, err := p.Scan(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, 1, flat.TotalFiles)

	deep, err := p.Scan(context.Background(), dir, true)
	require.NoError(t, err)
	assert.Equal(t, 2, deep.TotalFiles)
}

func TestScan_MissingRoot(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	_, err := p.Scan(context.Background(), "/nonexistent/directory", false)
	assert.Error(t, err)
}

func TestScan_EmptyDirectory(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	report, err := p.Scan(context.Background(), t.TempDir(), false)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalFiles)
	assert.Empty(t, report.ByKind)
}
