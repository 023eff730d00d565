package render

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/xuri/excelize/v2"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/services"
	"eventdesk/internal/textutil"
)

const maxFileStem = 60

// BlobStore persists generated files and reports their public URL
type BlobStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// FileGenerator implements services.FileService
type FileGenerator struct {
	store  BlobStore
	logger *slog.Logger
	now    func() time.Time
}

var _ services.FileService = (*FileGenerator)(nil)

// NewFileGenerator creates the generate_file backend
func NewFileGenerator(store BlobStore, logger *slog.Logger) *FileGenerator {
	return &FileGenerator{store: store, logger: logger, now: time.Now}
}

// Generate renders req in the requested format and stores the bytes
func (g *FileGenerator) Generate(ctx context.Context, req *services.GenerateFileRequest) (*models.GeneratedFile, error) {
	if !req.FileType.Valid() {
		return nil, fmt.Errorf("%q: %w", req.FileType, domain.ErrUnsupportedFileType)
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "documento"
	}
	fields := req.Fields
	if fields == nil {
		fields = models.Content{}
	}

	var (
		data []byte
		err  error
	)
	switch req.FileType {
	case models.FilePDF:
		data, err = fieldsPDF(title, fields)
	case models.FileDOCX:
		data, err = fieldsDOCX(title, fields)
	case models.FileCSV:
		data, err = fieldsCSV(fields)
	case models.FileXLSX:
		data, err = fieldsXLSX(fields)
	}
	if err != nil {
		return nil, &domain.UpstreamError{Service: "renderer", Err: fmt.Errorf("render %s: %w", req.FileType, err)}
	}

	name := g.fileName(title, req.FileType)
	url, err := g.store.Save(ctx, name, data)
	if err != nil {
		return nil, domain.WrapPersistence("Falha ao salvar arquivo", err)
	}

	g.logger.Info("file generated", "name", name, "type", req.FileType, "bytes", len(data))
	return &models.GeneratedFile{URL: url, Type: req.FileType, Name: name}, nil
}

func (g *FileGenerator) fileName(title string, ft models.FileType) string {
	stem := textutil.SafeFileName(title, maxFileStem)
	if stem == "" {
		stem = "arquivo"
	}
	return fmt.Sprintf("%s-%d-%s.%s", stem, g.now().UnixMilli(), shortuuid.New(), ft)
}

func fieldsPDF(title string, fields models.Content) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, k := range fields.SortedKeys() {
		fmt.Fprintf(&b, "%s: %s\n", k, models.FormatValue(fields[k]))
	}
	return MarkdownPDF(b.String())
}

func fieldsCSV(fields models.Content) ([]byte, error) {
	keys := fields.SortedKeys()
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = models.FormatValue(fields[k])
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(keys); err != nil {
		return nil, err
	}
	if err := w.Write(values); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func fieldsXLSX(fields models.Content) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Dados"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	for i, k := range fields.SortedKeys() {
		header, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		value, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, header, k); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, value, fields[k]); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`
	docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`
	docxDocumentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	docxDocumentTail = `</w:body></w:document>`
)

// fieldsDOCX writes a minimal WordprocessingML package: a bold title paragraph
// followed by one "key: value" paragraph per field with the key in bold.
func fieldsDOCX(title string, fields models.Content) ([]byte, error) {
	var body bytes.Buffer
	body.WriteString(docxDocumentHead)
	body.WriteString(`<w:p><w:r><w:rPr><w:b/><w:sz w:val="32"/></w:rPr><w:t xml:space="preserve">`)
	if err := xml.EscapeText(&body, []byte(title)); err != nil {
		return nil, err
	}
	body.WriteString(`</w:t></w:r></w:p>`)
	for _, k := range fields.SortedKeys() {
		body.WriteString(`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t xml:space="preserve">`)
		if err := xml.EscapeText(&body, []byte(k+": ")); err != nil {
			return nil, err
		}
		body.WriteString(`</w:t></w:r><w:r><w:t xml:space="preserve">`)
		if err := xml.EscapeText(&body, []byte(models.FormatValue(fields[k]))); err != nil {
			return nil, err
		}
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(docxDocumentTail)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxRels)},
		{"word/document.xml", body.Bytes()},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(p.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
