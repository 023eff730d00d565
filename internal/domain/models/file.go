package models

// FileType is a supported generated-file format
type FileType string

const (
	FilePDF  FileType = "pdf"
	FileDOCX FileType = "docx"
	FileCSV  FileType = "csv"
	FileXLSX FileType = "xlsx"
)

// Valid reports whether t is a supported format
func (t FileType) Valid() bool {
	switch t {
	case FilePDF, FileDOCX, FileCSV, FileXLSX:
		return true
	}
	return false
}

// ContentType returns the MIME type served for t
func (t FileType) ContentType() string {
	switch t {
	case FilePDF:
		return "application/pdf"
	case FileDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FileCSV:
		return "text/csv; charset=utf-8"
	case FileXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

// GeneratedFile points at a stored document
type GeneratedFile struct {
	URL  string   `json:"url"`
	Type FileType `json:"type"`
	Name string   `json:"name"`
}
