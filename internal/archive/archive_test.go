package archive

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/cbxthumb/cbxthumb/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFile_IgnoresExtension(t *testing.T) {
	data := testutil.Zip(t, testutil.Entry{Name: "cover.png", Data: testutil.PNG(t, 2, 2, color.NRGBA{A: 255})})
	// named like a RAR, but the bytes are a zip
	p := testutil.WriteFile(t, t.TempDir(), "mislabeled.cbr", data)

	a, err := OpenFile(p)
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, model.Zip, a.ArchiveType())

	entry, err := a.FindFirstImage(true)
	require.NoError(t, err)
	assert.Equal(t, "cover.png", entry.Name)
}

func TestOpenStream(t *testing.T) {
	data := testutil.Zip(t, testutil.Entry{Name: "cover.png", Data: testutil.PNG(t, 2, 2, color.NRGBA{A: 255})})
	rs := bytes.NewReader(data)
	a, err := OpenStream(rs, "")
	require.NoError(t, err)
	defer a.Close()
	assert.Equal(t, model.Zip, a.ArchiveType())

	cb7, err := os.ReadFile(filepath.Join("sevenzip", "testdata", "comic.cb7"))
	require.NoError(t, err)
	b, err := OpenStream(bytes.NewReader(cb7), "comic.zip")
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, model.SevenZip, b.ArchiveType())
}

func TestOpen_Unsupported(t *testing.T) {
	_, err := OpenStream(bytes.NewReader([]byte("%PDF-1.7 not an archive")), "book.cbz")
	assert.ErrorIs(t, err, errs.UnsupportedFormat)

	_, err = OpenStream(bytes.NewReader([]byte("PK")), "")
	assert.ErrorIs(t, err, errs.UnsupportedFormat)

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing.cbz"))
	assert.ErrorIs(t, err, errs.ArchiveOpen)
}

func TestDetect_Rewinds(t *testing.T) {
	rs := bytes.NewReader([]byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00, 1, 2, 3})
	got, err := Detect(rs)
	require.NoError(t, err)
	assert.Equal(t, model.Rar, got)
	pos, _ := rs.Seek(0, 1)
	assert.Equal(t, int64(0), pos)
}
