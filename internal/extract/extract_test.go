package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

const testDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Skills: </w:t></w:r><w:r><w:t>Go, Docker</w:t></w:r></w:p>
<w:p><w:r><w:t>Experience</w:t></w:r></w:p>
</w:body>
</w:document>`

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml":            documentXML,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// buildPDF writes a minimal PDF with one Helvetica text line per page.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	const fontObj = 3
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"", // page tree, filled once the kids are known
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	var kids []string
	for _, text := range pages {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
		contentObj := len(objects)
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontObj, contentObj))
		kids = append(kids, fmt.Sprintf("%d 0 R", len(objects)))
	}
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestFromBytesPDFKeepsPageOrder(t *testing.T) {
	data := buildPDF(t, "Python AWS Docker", "Skills Kubernetes")

	text, err := FromBytes(context.Background(), data, "cv.pdf")
	if err != nil {
		t.Fatalf("expected pdf text, got error: %v", err)
	}
	first := strings.Index(text, "Python AWS Docker")
	second := strings.Index(text, "Skills Kubernetes")
	if first < 0 || second < 0 {
		t.Fatalf("missing page text in %q", text)
	}
	if first > second {
		t.Fatalf("pages out of order: %q", text)
	}
}

func TestFromBytesPlainText(t *testing.T) {
	text, err := FromBytes(context.Background(), []byte("Python, AWS, Docker"), "resume.TXT")
	if err != nil {
		t.Fatalf("expected text, got error: %v", err)
	}
	if text != "Python, AWS, Docker" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestFromBytesDocxJoinsParagraphs(t *testing.T) {
	data := buildDocx(t, testDocumentXML)

	text, err := FromBytes(context.Background(), data, "cv.docx")
	if err != nil {
		t.Fatalf("expected docx text, got error: %v", err)
	}
	want := "Jane Doe\nSkills: Go, Docker\nExperience"
	if text != want {
		t.Fatalf("unexpected docx text:\n got %q\nwant %q", text, want)
	}
}

func TestFromBytesUnsupportedSuffix(t *testing.T) {
	for _, name := range []string{"resume.rtf", "resume", "resume.doc"} {
		_, err := FromBytes(context.Background(), []byte("{\\rtf1}"), name)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
		if KindOf(err) != KindUnsupported {
			t.Fatalf("%s: expected unsupported kind, got %q", name, KindOf(err))
		}
		if err.Error() != "Unsupported file format" {
			t.Fatalf("%s: unexpected message %q", name, err.Error())
		}
	}
}

func TestFromBytesFailuresAreExtractionErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		fileName string
	}{
		{name: "garbage pdf", data: []byte("not a pdf at all"), fileName: "cv.pdf"},
		{name: "empty pdf", data: nil, fileName: "cv.pdf"},
		{name: "garbage docx", data: []byte("not a zip"), fileName: "cv.docx"},
		{name: "invalid utf8", data: []byte{0xff, 0xfe, 0xfd}, fileName: "cv.txt"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromBytes(context.Background(), tt.data, tt.fileName)
			if err == nil {
				t.Fatal("expected extraction error")
			}
			if KindOf(err) != KindFailed {
				t.Fatalf("expected failed kind, got %q (%v)", KindOf(err), err)
			}
			if errors.Is(err, ErrUnsupportedFormat) {
				t.Fatalf("failure must not look like unsupported format: %v", err)
			}
			if !strings.HasPrefix(err.Error(), "Error extracting text") {
				t.Fatalf("unexpected message: %q", err.Error())
			}
		})
	}
}

func TestFromBytesHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := FromBytes(ctx, []byte("hello"), "a.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSupported(t *testing.T) {
	if !Supported("A.PDF") || !Supported("b.docx") || !Supported("c.txt") {
		t.Fatal("expected pdf, docx and txt to be supported")
	}
	if Supported("d.rtf") {
		t.Fatal("rtf must not be supported")
	}
}
