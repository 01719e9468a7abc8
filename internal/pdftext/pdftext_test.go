package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/resumekit/internal/model"
)

// buildPDF writes a minimal uncompressed PDF with one page per entry in pages,
// each showing its text in Helvetica.
func buildPDF(pages []string) []byte {
	var buf bytes.Buffer
	var offsets []int

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, text := range pages {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		writeObj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefOffset)
	return buf.Bytes()
}

func TestExtract_ReadsAllPages(t *testing.T) {
	data := buildPDF([]string{"Jane Doe", "Experience"})

	text, err := NewExtractor(nil).Extract(context.Background(), data)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Experience")
}

func TestExtract_EmptyDocument(t *testing.T) {
	_, err := NewExtractor(nil).Extract(context.Background(), nil)

	var extErr *model.ExtractionError
	require.ErrorAs(t, err, &extErr)
}

func TestExtract_NotAPDF(t *testing.T) {
	_, err := NewExtractor(nil).Extract(context.Background(), []byte("definitely not a pdf document"))

	var extErr *model.ExtractionError
	require.ErrorAs(t, err, &extErr)
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor(nil).Extract(ctx, buildPDF([]string{"Jane Doe"}))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExtractFile(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "cv.txt")
	require.NoError(t, os.WriteFile(txt, []byte("  Skills\nGo, Rust\n\n"), 0644))
	pdfPath := filepath.Join(dir, "cv.PDF")
	require.NoError(t, os.WriteFile(pdfPath, buildPDF([]string{"Jane Doe"}), 0644))
	docx := filepath.Join(dir, "cv.docx")
	require.NoError(t, os.WriteFile(docx, []byte("PK"), 0644))
	broken := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(broken, []byte("garbage"), 0644))

	e := NewExtractor(nil)
	ctx := context.Background()

	got, err := e.ExtractFile(ctx, txt)
	require.NoError(t, err)
	assert.Equal(t, "Skills\nGo, Rust", got)

	got, err = e.ExtractFile(ctx, pdfPath)
	require.NoError(t, err)
	assert.Contains(t, got, "Jane Doe")

	var extErr *model.ExtractionError
	_, err = e.ExtractFile(ctx, docx)
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "cv.docx", extErr.Source)

	_, err = e.ExtractFile(ctx, broken)
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "broken.pdf", extErr.Source)

	_, err = e.ExtractFile(ctx, filepath.Join(dir, "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.pdf"))
	assert.True(t, Supported("b.TXT"))
	assert.True(t, Supported("c.md"))
	assert.False(t, Supported("d.docx"))
	assert.False(t, Supported("noext"))
}
