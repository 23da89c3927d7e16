package rardecode

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cbxthumb/cbxthumb/internal/archive/tool"
	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/cbxthumb/cbxthumb/internal/stream"
	"github.com/cbxthumb/cbxthumb/internal/testutil"
	"github.com/nwaples/rardecode/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memStager() *stream.Stager {
	return &stream.Stager{Fs: afero.NewMemMapFs()}
}

func stagedFiles(t *testing.T, s *stream.Stager) []string {
	t.Helper()
	infos, _ := afero.ReadDir(s.Fs, "/")
	var names []string
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names
}

func TestOpenStream_InvalidRemovesStaging(t *testing.T) {
	s := memStager()
	d := &RarDecoder{NewStager: func() *stream.Stager { return s }}

	_, err := d.OpenStream(strings.NewReader("this is not a rar archive at all"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ArchiveOpen)
	assert.Empty(t, stagedFiles(t, s))
}

func TestClose_RemovesStaging(t *testing.T) {
	s := memStager()
	name, _, err := s.CacheFullInTempFile(strings.NewReader("Rar!\x1a\x07\x00"), ".rar")
	require.NoError(t, err)
	require.True(t, s.Exists(name))

	a := &Archive{
		open: func() (*rardecode.ReadCloser, error) {
			return nil, errors.New("unreachable")
		},
		cleanup: func() { s.Remove(name) },
	}
	require.NoError(t, a.Close())
	assert.False(t, s.Exists(name))
	require.NoError(t, a.Close())

	_, err = a.FindFirstImage(true)
	assert.ErrorIs(t, err, errs.ArchiveOpen)
}

func TestExtractEntry_SizeGuardBeforeOpen(t *testing.T) {
	opened := false
	a := &Archive{open: func() (*rardecode.ReadCloser, error) {
		opened = true
		return nil, errors.New("should not open")
	}}
	_, err := a.ExtractEntry(model.ArchiveEntry{Name: "huge.jpg", Size: 32*1024*1024 + 1})
	assert.ErrorIs(t, err, errs.EntryTooLarge)
	assert.False(t, opened)
}

func TestOpenPath_Invalid(t *testing.T) {
	d := &RarDecoder{}
	_, err := d.OpenPath("testdata/does-not-exist.cbr")
	assert.ErrorIs(t, err, errs.ArchiveOpen)

	p := testutil.WriteFile(t, t.TempDir(), "bad.cbr", []byte("Rar? no, just text"))
	_, err = d.OpenPath(p)
	assert.ErrorIs(t, err, errs.ArchiveOpen)
}

func TestFilterPassword(t *testing.T) {
	testCases := []struct {
		err  error
		want error
	}{
		{errors.New("rardecode: archive encrypted, password required"), errs.PasswordProtected},
		{errors.New("rardecode: incorrect password"), errs.PasswordProtected},
		{errors.New("rardecode: archived files encrypted"), errs.PasswordProtected},
		{errors.New("rardecode: RAR signature not found"), errs.ArchiveOpen},
	}
	for _, tc := range testCases {
		if got := filterPassword(tc.err); !errors.Is(got, tc.want) {
			t.Errorf("filterPassword(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
	assert.NoError(t, filterPassword(nil))
}

func TestEntryOf(t *testing.T) {
	e := entryOf(&rardecode.FileHeader{Name: "dir/p1.jpg", UnPackedSize: 12})
	assert.Equal(t, model.ArchiveEntry{Name: "dir/p1.jpg", Size: 12}, e)
	e = entryOf(&rardecode.FileHeader{Name: "dir", IsDir: true, UnPackedSize: -1})
	assert.Equal(t, model.ArchiveEntry{Name: "dir", IsDir: true}, e)
}

func TestRegistered(t *testing.T) {
	for _, ext := range []string{"rar", "cbr"} {
		got, err := tool.GetArchiveTool(ext)
		require.NoError(t, err)
		assert.Equal(t, model.Rar, got.Type())
	}
}

var pngMagic = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func open(t *testing.T, name string) map[string]tool.Archive {
	t.Helper()
	p := filepath.Join("testdata", name)
	data, err := os.ReadFile(p)
	require.NoError(t, err)

	d := &RarDecoder{NewStager: memStager}
	byPath, err := d.OpenPath(p)
	require.NoError(t, err)
	byStream, err := d.OpenStream(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = byPath.Close()
		_ = byStream.Close()
	})
	return map[string]tool.Archive{"path": byPath, "stream": byStream}
}

func TestRar_FindAndExtract(t *testing.T) {
	for name, a := range open(t, "comic.cbr") {
		t.Run(name, func(t *testing.T) {
			sorted, err := a.FindFirstImage(true)
			require.NoError(t, err)
			assert.Equal(t, "page1.png", sorted.Name)
			assert.Equal(t, uint64(105), sorted.Size)

			unsorted, err := a.FindFirstImage(false)
			require.NoError(t, err)
			assert.Equal(t, "page10.png", unsorted.Name)

			data, err := a.ExtractEntry(sorted)
			require.NoError(t, err)
			assert.Len(t, data, 105)
			assert.Equal(t, pngMagic, data[:8])

			again, err := a.ExtractEntry(sorted)
			require.NoError(t, err)
			assert.Equal(t, data, again)
		})
	}
}

func TestRar_SingleImage(t *testing.T) {
	for name, a := range open(t, "single.cbr") {
		t.Run(name, func(t *testing.T) {
			sorted, err := a.FindFirstImage(true)
			require.NoError(t, err)
			unsorted, err := a.FindFirstImage(false)
			require.NoError(t, err)
			assert.Equal(t, sorted, unsorted)
			assert.Equal(t, model.ArchiveEntry{Name: "page2.png", Size: 72}, sorted)
		})
	}
}

func TestRar_GetMetadata(t *testing.T) {
	info, err := os.Stat(filepath.Join("testdata", "comic.cbr"))
	require.NoError(t, err)
	for name, a := range open(t, "comic.cbr") {
		t.Run(name, func(t *testing.T) {
			meta, err := a.GetMetadata()
			require.NoError(t, err)
			assert.Equal(t, 4, meta.TotalFiles)
			assert.Equal(t, 3, meta.ImageCount)
			assert.Equal(t, uint64(info.Size()), meta.CompressedSize)
			assert.Equal(t, model.Rar, meta.Type)
			assert.Equal(t, model.Rar, a.ArchiveType())
		})
	}
}

func TestRar_NoImage(t *testing.T) {
	for name, a := range open(t, "notes.rar") {
		t.Run(name, func(t *testing.T) {
			_, err := a.FindFirstImage(false)
			assert.ErrorIs(t, err, errs.NoImageFound)
		})
	}
}

func TestRar_ExtractErrors(t *testing.T) {
	for name, a := range open(t, "comic.cbr") {
		t.Run(name, func(t *testing.T) {
			_, err := a.ExtractEntry(model.ArchiveEntry{Name: "page3.png", Size: 10})
			assert.ErrorIs(t, err, errs.EntryNotFound)
		})
	}
}

func TestOpenStream_StagesUntilClose(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "comic.cbr"))
	require.NoError(t, err)
	s := memStager()
	d := &RarDecoder{NewStager: func() *stream.Stager { return s }}

	a, err := d.OpenStream(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, stagedFiles(t, s), 1)

	entry, err := a.FindFirstImage(true)
	require.NoError(t, err)
	got, err := a.ExtractEntry(entry)
	require.NoError(t, err)
	assert.Equal(t, pngMagic, got[:8])

	require.NoError(t, a.Close())
	assert.Empty(t, stagedFiles(t, s))
}
