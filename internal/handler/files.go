package handler

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"eventdesk/internal/domain/models"
)

// FileOpener opens a stored generated file by bare name
type FileOpener interface {
	Open(name string) (*os.File, error)
}

// FileHandler serves generated documents
type FileHandler struct {
	files  FileOpener
	logger *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(files FileOpener, logger *slog.Logger) *FileHandler {
	return &FileHandler{files: files, logger: logger}
}

// Serve streams one generated file
// GET /files/{name}
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name, ok := PathParam(w, r, "name", "File name")
	if !ok {
		return
	}

	f, err := h.files.Open(name)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	ext := models.FileType(strings.TrimPrefix(filepath.Ext(name), "."))
	w.Header().Set("Content-Type", ext.ContentType())
	http.ServeContent(w, r, name, info.ModTime(), f)
}
