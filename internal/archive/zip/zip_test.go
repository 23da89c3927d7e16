package zip

import (
	"bytes"
	"image/color"
	"testing"

	"github.com/cbxthumb/cbxthumb/internal/archive/tool"
	"github.com/cbxthumb/cbxthumb/internal/conf"
	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/cbxthumb/cbxthumb/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.NRGBA{R: 255, A: 255}

func comicZip(t *testing.T) []byte {
	return testutil.Zip(t,
		testutil.Entry{Name: "page10.jpg", Data: testutil.JPEG(t, 8, 8, red)},
		testutil.Entry{Name: "readme.txt", Data: []byte("hello")},
		testutil.Entry{Name: "page2.jpg", Data: testutil.JPEG(t, 8, 8, red)},
		testutil.Entry{Name: "page1.jpg", Data: testutil.JPEG(t, 8, 8, red)},
	)
}

// openBoth returns the path and the stream variant over the same bytes.
func openBoth(t *testing.T, data []byte) map[string]tool.Archive {
	t.Helper()
	z := &Zip{}
	p := testutil.WriteFile(t, t.TempDir(), "comic.cbz", data)
	byPath, err := z.OpenPath(p)
	require.NoError(t, err)
	byStream, err := z.OpenStream(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = byPath.Close()
		_ = byStream.Close()
	})
	return map[string]tool.Archive{"path": byPath, "stream": byStream}
}

func TestZip_FindFirstImage(t *testing.T) {
	for name, a := range openBoth(t, comicZip(t)) {
		t.Run(name, func(t *testing.T) {
			sorted, err := a.FindFirstImage(true)
			require.NoError(t, err)
			assert.Equal(t, "page1.jpg", sorted.Name)

			unsorted, err := a.FindFirstImage(false)
			require.NoError(t, err)
			assert.True(t, tool.IsImageName(unsorted.Name))

			data, err := a.ExtractEntry(sorted)
			require.NoError(t, err)
			assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, data[:3])
			assert.Equal(t, uint64(len(data)), sorted.Size)
			assert.Equal(t, model.Zip, a.ArchiveType())
		})
	}
}

func TestZip_GetMetadata(t *testing.T) {
	data := comicZip(t)
	for name, a := range openBoth(t, data) {
		t.Run(name, func(t *testing.T) {
			meta, err := a.GetMetadata()
			require.NoError(t, err)
			assert.Equal(t, 4, meta.TotalFiles)
			assert.Equal(t, 3, meta.ImageCount)
			assert.Equal(t, uint64(len(data)), meta.CompressedSize)
			assert.Equal(t, model.Zip, meta.Type)
		})
	}
}

func TestZip_ExtractErrors(t *testing.T) {
	for name, a := range openBoth(t, comicZip(t)) {
		t.Run(name, func(t *testing.T) {
			_, err := a.ExtractEntry(model.ArchiveEntry{Name: "missing.jpg", Size: 1})
			assert.ErrorIs(t, err, errs.EntryNotFound)

			_, err = a.ExtractEntry(model.ArchiveEntry{Name: "page1.jpg", Size: conf.MaxEntrySize + 1})
			assert.ErrorIs(t, err, errs.EntryTooLarge)
		})
	}
}

func TestZip_EmptyAndNoImage(t *testing.T) {
	for name, a := range openBoth(t, testutil.Zip(t)) {
		t.Run("empty "+name, func(t *testing.T) {
			_, err := a.FindFirstImage(false)
			assert.ErrorIs(t, err, errs.ArchiveEmpty)
		})
	}
	textOnly := testutil.Zip(t, testutil.Entry{Name: "notes.txt", Data: []byte("x")})
	for name, a := range openBoth(t, textOnly) {
		t.Run("text "+name, func(t *testing.T) {
			_, err := a.FindFirstImage(true)
			assert.ErrorIs(t, err, errs.NoImageFound)
		})
	}
}

func TestZip_SingleImageSortedMatchesUnsorted(t *testing.T) {
	data := testutil.Zip(t,
		testutil.Entry{Name: "a.txt", Data: []byte("a")},
		testutil.Entry{Name: "b/c.nfo", Data: []byte("c")},
		testutil.Entry{Name: "b/cover.png", Data: testutil.PNG(t, 2, 2, red)},
	)
	for name, a := range openBoth(t, data) {
		t.Run(name, func(t *testing.T) {
			sorted, err := a.FindFirstImage(true)
			require.NoError(t, err)
			unsorted, err := a.FindFirstImage(false)
			require.NoError(t, err)
			assert.Equal(t, sorted, unsorted)
		})
	}
}

func TestZip_Encrypted(t *testing.T) {
	data := testutil.Zip(t, testutil.Entry{Name: "cover.png", Data: testutil.PNG(t, 2, 2, red), Password: "secret"})
	for name, a := range openBoth(t, data) {
		t.Run(name, func(t *testing.T) {
			entry, err := a.FindFirstImage(false)
			require.NoError(t, err)
			_, err = a.ExtractEntry(entry)
			assert.ErrorIs(t, err, errs.PasswordProtected)
			assert.True(t, errs.IsSkippable(err))
		})
	}
}

func TestZip_OpenInvalid(t *testing.T) {
	z := &Zip{}
	_, err := z.OpenStream(bytes.NewReader([]byte("PK\x03\x04 definitely not a zip")))
	assert.ErrorIs(t, err, errs.ArchiveOpen)

	p := testutil.WriteFile(t, t.TempDir(), "bad.cbz", []byte("garbage"))
	_, err = z.OpenPath(p)
	assert.ErrorIs(t, err, errs.ArchiveOpen)

	_, err = z.OpenPath(p + ".missing")
	assert.ErrorIs(t, err, errs.ArchiveOpen)
}

func TestZip_Closed(t *testing.T) {
	a, err := (&Zip{}).OpenStream(bytes.NewReader(comicZip(t)))
	require.NoError(t, err)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
	_, err = a.FindFirstImage(true)
	assert.ErrorIs(t, err, errs.ArchiveOpen)
}

func TestDecodeName(t *testing.T) {
	old := conf.Conf
	t.Cleanup(func() { conf.Conf = old })

	sjis := "\x95\\\x8e\x86.jpg"
	conf.Conf = conf.DefaultConfig(t.TempDir())
	assert.Equal(t, sjis, decodeName(sjis, false))

	conf.Conf.NonEFSZipEncoding = "Shift_JIS"
	assert.Equal(t, "表紙.jpg", decodeName(sjis, false))
	assert.Equal(t, sjis, decodeName(sjis, true))

	conf.Conf.NonEFSZipEncoding = "no-such-charset"
	assert.Equal(t, sjis, decodeName(sjis, false))
}

func TestRegistered(t *testing.T) {
	for _, ext := range []string{"zip", "cbz", "epub", "phz"} {
		got, err := tool.GetArchiveTool(ext)
		require.NoError(t, err)
		assert.Equal(t, model.Zip, got.Type())
	}
}
