package tool

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/cbxthumb/cbxthumb/internal/conf"
	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectArchiveType(t *testing.T) {
	testCases := []struct {
		name   string
		prefix []byte
		want   model.ArchiveType
	}{
		{"zip local header", []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0, 0, 0}, model.Zip},
		{"zip empty", []byte{0x50, 0x4B, 0x05, 0x06, 0, 0, 0, 0}, model.Zip},
		{"zip spanned", []byte{0x50, 0x4B, 0x07, 0x08, 0, 0, 0, 0}, model.Zip},
		{"7z", []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C, 0, 4}, model.SevenZip},
		{"rar4", []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00, 0xCF}, model.Rar},
		{"rar5", []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}, model.Rar},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectArchiveType(tc.prefix)
			if err != nil || got != tc.want {
				t.Errorf("DetectArchiveType(% X) = %v, %v, want %v", tc.prefix, got, err, tc.want)
			}
		})
	}

	for _, bad := range [][]byte{
		nil,
		{0x50, 0x4B, 0x03, 0x04},
		[]byte("garbage!"),
		{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x02, 0x00},
	} {
		_, err := DetectArchiveType(bad)
		if !errors.Is(err, errs.UnsupportedFormat) {
			t.Errorf("DetectArchiveType(% X) error = %v, want UnsupportedFormat", bad, err)
		}
	}
}

func TestIsImageName(t *testing.T) {
	testCases := []struct {
		name string
		want bool
	}{
		{"cover.jpg", true},
		{"dir/Cover.JPEG", true},
		{"a.jpe", true},
		{"a.jfif", true},
		{"a.PNG", true},
		{"a.gif", true},
		{"a.bmp", true},
		{"a.ico", true},
		{"a.tif", true},
		{"a.tiff", true},
		{"a.webp", true},
		{"a.avif", true},
		{"readme.txt", false},
		{"jpg", false},
		{"archive.jpg.zip", false},
		{"", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsImageName(tc.name); got != tc.want {
				t.Errorf("IsImageName(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
	assert.Len(t, ImageExtensions(), 12)
}

func TestNaturalCompare(t *testing.T) {
	assert.Equal(t, -1, NaturalCompare("page2.x", "page10.x"))
	assert.Equal(t, 1, NaturalCompare("page10.x", "page2.x"))
	assert.Equal(t, 0, NaturalCompare("page2.x", "page2.x"))
	assert.Equal(t, -1, NaturalCompare("alpha", "beta"))
	assert.Equal(t, 1, NaturalCompare("beta", "alpha"))
	assert.True(t, NaturalLess("img9.png", "img10.png"))
	assert.False(t, NaturalLess("b", "a"))
}

func sliceWalker(entries []model.ArchiveEntry, visited *int) EntryWalker {
	return func(visit func(model.ArchiveEntry) bool) error {
		for _, e := range entries {
			if visited != nil {
				*visited++
			}
			if !visit(e) {
				return nil
			}
		}
		return nil
	}
}

func names(ns ...string) []model.ArchiveEntry {
	out := make([]model.ArchiveEntry, 0, len(ns))
	for _, n := range ns {
		out = append(out, model.ArchiveEntry{Name: n, Size: 10, IsDir: strings.HasSuffix(n, "/")})
	}
	return out
}

func TestFindFirstImage(t *testing.T) {
	entries := names("readme.txt", "page10.jpg", "page2.jpg", "page1.jpg")

	got, err := FindFirstImage(sliceWalker(entries, nil), true)
	require.NoError(t, err)
	assert.Equal(t, "page1.jpg", got.Name)

	visited := 0
	got, err = FindFirstImage(sliceWalker(entries, &visited), false)
	require.NoError(t, err)
	assert.Equal(t, "page10.jpg", got.Name)
	assert.Equal(t, 2, visited, "unsorted mode must stop at the first image")
}

func TestFindFirstImage_SkipsDirectories(t *testing.T) {
	got, err := FindFirstImage(sliceWalker(names("covers.jpg/", "covers.jpg/b.png"), nil), false)
	require.NoError(t, err)
	assert.Equal(t, "covers.jpg/b.png", got.Name)
}

func TestFindFirstImage_SingleImageAgrees(t *testing.T) {
	entries := names("a.txt", "b.xml", "dir/", "only.webp", "z.nfo")
	sorted, err := FindFirstImage(sliceWalker(entries, nil), true)
	require.NoError(t, err)
	unsorted, err := FindFirstImage(sliceWalker(entries, nil), false)
	require.NoError(t, err)
	assert.Equal(t, sorted, unsorted)
}

func TestFindFirstImage_Errors(t *testing.T) {
	for _, sort := range []bool{true, false} {
		_, err := FindFirstImage(sliceWalker(nil, nil), sort)
		assert.ErrorIs(t, err, errs.ArchiveEmpty)

		_, err = FindFirstImage(sliceWalker(names("readme.txt", "dir/"), nil), sort)
		assert.ErrorIs(t, err, errs.NoImageFound)

		boom := errors.New("boom")
		_, err = FindFirstImage(func(func(model.ArchiveEntry) bool) error { return boom }, sort)
		assert.ErrorIs(t, err, boom)
	}
}

func TestCountEntries(t *testing.T) {
	files, images, err := CountEntries(sliceWalker(names("dir/", "a.jpg", "b.txt", "dir/c.PNG"), nil))
	require.NoError(t, err)
	assert.Equal(t, 3, files)
	assert.Equal(t, 2, images)
}

type countingReader struct{ reads int }

func (c *countingReader) Read(p []byte) (int, error) {
	c.reads++
	return 0, errors.New("must not be read")
}

func TestReadEntry_SizeGuard(t *testing.T) {
	r := &countingReader{}
	entry := model.ArchiveEntry{Name: "huge.jpg", Size: 32*1024*1024 + 1}
	_, err := ReadEntry(r, entry)
	assert.ErrorIs(t, err, errs.EntryTooLarge)
	assert.Equal(t, 0, r.reads)
	assert.Contains(t, err.Error(), "huge.jpg")

	assert.NoError(t, CheckEntrySize(model.ArchiveEntry{Size: conf.MaxEntrySize}))
}

func TestReadEntry_LyingSize(t *testing.T) {
	data := bytes.Repeat([]byte{1}, conf.MaxEntrySize+10)
	_, err := ReadEntry(bytes.NewReader(data), model.ArchiveEntry{Name: "liar.png", Size: 1})
	assert.ErrorIs(t, err, errs.EntryTooLarge)

	got, err := ReadEntry(strings.NewReader("hello"), model.ArchiveEntry{Name: "a.png", Size: 5})
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

type chunkReader struct {
	chunks []string
	err    error
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.chunks) == 0 {
		return 0, c.err
	}
	n := copy(p, c.chunks[0])
	c.chunks = c.chunks[1:]
	if len(c.chunks) == 0 {
		return n, c.err
	}
	return n, nil
}

func TestReadEntry_PooledBuffers(t *testing.T) {
	readBuffers.Reset()
	got, err := ReadEntry(&chunkReader{chunks: []string{"he", "llo"}, err: io.EOF}, model.ArchiveEntry{Name: "a.png", Size: 5})
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
	assert.Equal(t, 1, readBuffers.Len())

	_, err = ReadEntry(&chunkReader{chunks: []string{"he"}, err: io.ErrUnexpectedEOF}, model.ArchiveEntry{Name: "b.png", Size: 5})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, 1, readBuffers.Len())
}
