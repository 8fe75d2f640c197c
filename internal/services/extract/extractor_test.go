package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/models"
)

func testExtractor() *Extractor {
	return NewExtractor(arbor.NewLogger())
}

func TestNewExtractor_CreatesStagingDir(t *testing.T) {
	e := testExtractor()

	info, err := os.Stat(e.tempDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExtract_Text(t *testing.T) {
	e := testExtractor()

	text, err := e.Extract(&models.SourceDocument{
		Name:      "notes.txt",
		MediaType: models.MediaTypeText,
		Data:      []byte("hello world"),
	})

	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestExtract_Markdown(t *testing.T) {
	e := testExtractor()

	text, err := e.Extract(&models.SourceDocument{
		Name:      "notes.md",
		MediaType: models.MediaTypeMarkdown,
		Data:      []byte("# Heading\n\nbody"),
	})

	require.NoError(t, err)
	assert.Equal(t, "# Heading\n\nbody", text)
}

func TestExtract_InvalidUTF8(t *testing.T) {
	e := testExtractor()

	_, err := e.Extract(&models.SourceDocument{
		Name:      "broken.txt",
		MediaType: models.MediaTypeText,
		Data:      []byte{0xff, 0xfe, 0x41},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDecodeFailure)
}

func TestExtract_UnsupportedType(t *testing.T) {
	e := testExtractor()

	_, err := e.Extract(&models.SourceDocument{
		Name:      "image.png",
		MediaType: models.MediaType("png"),
		Data:      []byte{0x89, 0x50},
	})

	require.Error(t, err)
	assert.True(t, models.IsUnsupportedType(err))
}

func TestExtract_InvalidPDF(t *testing.T) {
	e := testExtractor()

	_, err := e.Extract(&models.SourceDocument{
		Name:      "fake.pdf",
		MediaType: models.MediaTypePDF,
		Data:      []byte("this is not a pdf"),
	})

	assert.Error(t, err)
}

func TestExtractAll_SkipsBadDocuments(t *testing.T) {
	e := testExtractor()

	docs := []models.SourceDocument{
		{Name: "good.txt", MediaType: models.MediaTypeText, Data: []byte("usable text")},
		{Name: "broken.txt", MediaType: models.MediaTypeText, Data: []byte{0xff, 0xfe}},
		{Name: "also-good.md", MediaType: models.MediaTypeMarkdown, Data: []byte("more text")},
	}

	set, warnings, err := e.ExtractAll(docs)
	require.NoError(t, err)

	assert.Equal(t, []string{"good.txt", "also-good.md"}, set.Names())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "broken.txt")
}

func TestExtractAll_SkipsUnsupportedType(t *testing.T) {
	e := testExtractor()

	docs := []models.SourceDocument{
		{Name: "first.txt", MediaType: models.MediaTypeText, Data: []byte("alpha")},
		{Name: "image.png", MediaType: models.MediaType("png"), Data: []byte{0x89, 0x50}},
		{Name: "second.md", MediaType: models.MediaTypeMarkdown, Data: []byte("beta")},
	}

	set, warnings, err := e.ExtractAll(docs)
	require.NoError(t, err)

	assert.Equal(t, []string{"first.txt", "second.md"}, set.Names())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "image.png")
	assert.Contains(t, warnings[0], "unsupported document type")
}

func TestExtractAll_SkipsEmptyText(t *testing.T) {
	e := testExtractor()

	docs := []models.SourceDocument{
		{Name: "blank.txt", MediaType: models.MediaTypeText, Data: []byte("   \n\t ")},
		{Name: "real.txt", MediaType: models.MediaTypeText, Data: []byte("content")},
	}

	set, warnings, err := e.ExtractAll(docs)
	require.NoError(t, err)

	assert.Equal(t, []string{"real.txt"}, set.Names())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "blank.txt")
	assert.Contains(t, warnings[0], "no extractable text")
}

func TestExtractAll_AllInvalid(t *testing.T) {
	e := testExtractor()

	docs := []models.SourceDocument{
		{Name: "a.txt", MediaType: models.MediaTypeText, Data: []byte{0xff}},
		{Name: "b.txt", MediaType: models.MediaTypeText, Data: []byte("")},
	}

	set, warnings, err := e.ExtractAll(docs)

	assert.Nil(t, set)
	assert.Len(t, warnings, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestExtractAll_PreservesInputOrder(t *testing.T) {
	e := testExtractor()

	docs := []models.SourceDocument{
		{Name: "z.txt", MediaType: models.MediaTypeText, Data: []byte("z")},
		{Name: "a.txt", MediaType: models.MediaTypeText, Data: []byte("a")},
		{Name: "m.txt", MediaType: models.MediaTypeText, Data: []byte("m")},
	}

	set, _, err := e.ExtractAll(docs)
	require.NoError(t, err)

	assert.Equal(t, []string{"z.txt", "a.txt", "m.txt"}, set.Names())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("file contents"), 0644))

	doc, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "doc.txt", doc.Name)
	assert.Equal(t, models.MediaTypeText, doc.MediaType)
	assert.Equal(t, []byte("file contents"), doc.Data)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.txt"))

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrFileNotFound)
}

func TestLoadFile_Directory(t *testing.T) {
	_, err := LoadFile(t.TempDir())

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrFileNotFound)
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "image.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89}, 0644))

	_, err := LoadFile(path)

	require.Error(t, err)
	assert.True(t, models.IsUnsupportedType(err))
}
