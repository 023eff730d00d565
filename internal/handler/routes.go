package handler

import (
	"net/http"

	"eventdesk/internal/cache"
	"eventdesk/internal/middleware"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Workspace *WorkspaceHandler
	Chat      *ChatHandler
	Reports   *ReportHandler
	Files     *FileHandler
}

// NewRouter registers all routes (Go 1.22+ enhanced patterns). Read routes go
// through the response cache when rc is non-nil.
func NewRouter(h Handlers, rc *cache.ResponseCache) *http.ServeMux {
	cached := func(fn http.HandlerFunc) http.Handler {
		if rc == nil {
			return fn
		}
		return middleware.Cache(rc)(fn)
	}

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", HealthCheck)

	// Chat routes
	mux.HandleFunc("POST /api/ai/chat", h.Chat.Chat)
	mux.Handle("GET /api/ai/conversations", cached(h.Chat.ListConversations))
	mux.Handle("GET /api/ai/conversations/{id}", cached(h.Chat.GetConversation))
	mux.HandleFunc("DELETE /api/ai/conversations/{id}", h.Chat.DeleteConversation)

	// Folder routes
	mux.Handle("GET /api/workspace/folders", cached(h.Workspace.ListFolders))
	mux.HandleFunc("POST /api/workspace/folders", h.Workspace.CreateFolder)
	mux.HandleFunc("POST /api/workspace/folders/path", h.Workspace.CreateFolderPath)
	mux.Handle("GET /api/workspace/folders/{id}", cached(h.Workspace.GetFolder))
	mux.HandleFunc("DELETE /api/workspace/folders/{id}", h.Workspace.DeleteFolder)
	mux.Handle("GET /api/workspace/tree", cached(h.Workspace.Tree))

	// Item routes
	mux.Handle("GET /api/workspace/items", cached(h.Workspace.ListItems))
	mux.HandleFunc("POST /api/workspace/items", h.Workspace.AddItem)
	mux.Handle("GET /api/workspace/items/{id}", cached(h.Workspace.GetItem))
	mux.HandleFunc("DELETE /api/workspace/items/{id}", h.Workspace.DeleteItem)

	// Report routes
	mux.HandleFunc("POST /api/reports/preview", h.Reports.Preview)
	mux.HandleFunc("POST /api/reports/generate-pdf", h.Reports.GeneratePDF)
	mux.HandleFunc("POST /api/reports/generate-from-html", h.Reports.GenerateFromHTML)

	// Generated files
	mux.HandleFunc("GET /files/{name}", h.Files.Serve)

	return mux
}
