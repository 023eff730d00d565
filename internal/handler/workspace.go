package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/services"
	"eventdesk/internal/httputil"
	"eventdesk/internal/service/workspace"
)

// WorkspaceHandler exposes folders and items over REST
type WorkspaceHandler struct {
	workspace services.WorkspaceService
	logger    *slog.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspace services.WorkspaceService, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspace: workspace,
		logger:    logger,
	}
}

// folderList is the body of GET /api/workspace/folders
type folderList struct {
	Folders []models.FolderSummary `json:"folders"`
	Total   int                    `json:"total"`
}

// itemList is the body of GET /api/workspace/items
type itemList struct {
	Items []models.FolderItem `json:"items"`
	Total int                 `json:"total"`
}

// ListFolders lists the user's folders with item counts
// GET /api/workspace/folders
func (h *WorkspaceHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	folders, err := h.workspace.ListFolders(r.Context(), userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folderList{Folders: folders, Total: len(folders)})
}

// CreateFolder creates one folder
// POST /api/workspace/folders
// Returns 201 if created, 409 with existing folder if a sibling has the same name
func (h *WorkspaceHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req services.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	folder, err := h.workspace.CreateFolder(r.Context(), userID, &req)
	if err != nil {
		HandleCreateConflict(w, h.logger, err, func(id string) (*models.FolderWithItems, error) {
			return h.workspace.GetFolder(r.Context(), userID, id)
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// createPathBody accepts the path as a slash string or a segment array
type createPathBody struct {
	Path  json.RawMessage `json:"path"`
	Icon  string          `json:"icon,omitempty"`
	Color string          `json:"color,omitempty"`
}

// CreateFolderPath resolves a folder path, creating missing segments
// POST /api/workspace/folders/path
func (h *WorkspaceHandler) CreateFolderPath(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var body createPathBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	segments, err := parsePath(body.Path)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	folder, err := h.workspace.CreateFolderPath(r.Context(), userID, &services.CreateFolderPathRequest{
		Path:  segments,
		Icon:  body.Icon,
		Color: body.Color,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolder returns a folder with its items
// GET /api/workspace/folders/{id}
func (h *WorkspaceHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	folderID, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	folder, err := h.workspace.GetFolder(r.Context(), httputil.GetUserID(r), folderID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder deletes a folder with its subfolders and items
// DELETE /api/workspace/folders/{id}
func (h *WorkspaceHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	folderID, ok := PathParam(w, r, "id", "Folder ID")
	if !ok {
		return
	}

	folder, err := h.workspace.DeleteFolder(r.Context(), httputil.GetUserID(r), folderID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"message": "Pasta deletada com sucesso",
		"folder":  folder,
	})
}

// Tree returns the nested folder tree
// GET /api/workspace/tree
func (h *WorkspaceHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.workspace.Tree(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{"tree": tree})
}

// ListItems lists items, optionally filtered by folder, type and text
// GET /api/workspace/items?folderId=&itemType=&search=
func (h *WorkspaceHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.workspace.ListItems(r.Context(), httputil.GetUserID(r), &services.ListItemsRequest{
		FolderID: httputil.QueryString(r, "folderId"),
		ItemType: httputil.QueryString(r, "itemType"),
		Query:    r.URL.Query().Get("search"),
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, itemList{Items: items, Total: len(items)})
}

// addItemBody names the destination folder in one of three ways
type addItemBody struct {
	FolderID   string          `json:"folderId,omitempty"`
	FolderPath json.RawMessage `json:"folderPath,omitempty"`
	FolderName string          `json:"folderName,omitempty"`
	services.AddItemRequest
}

// AddItem stores an item
// POST /api/workspace/items
func (h *WorkspaceHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var body addItemBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	target, err := body.target()
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	result, err := h.workspace.AddItem(r.Context(), userID, target, &body.AddItemRequest)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

func (b *addItemBody) target() (services.FolderTarget, error) {
	switch {
	case strings.TrimSpace(b.FolderID) != "":
		return services.FolderByID(strings.TrimSpace(b.FolderID)), nil
	case len(b.FolderPath) > 0 && string(b.FolderPath) != "null":
		segments, err := parsePath(b.FolderPath)
		if err != nil {
			return services.FolderTarget{}, err
		}
		return services.FolderByPath(segments...), nil
	case strings.TrimSpace(b.FolderName) != "":
		return services.FolderByLegacyName(strings.TrimSpace(b.FolderName)), nil
	default:
		return services.FolderTarget{}, domain.NewValidation("Informe folderId, folderPath ou folderName")
	}
}

// GetItem returns one item
// GET /api/workspace/items/{id}
func (h *WorkspaceHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := PathParam(w, r, "id", "Item ID")
	if !ok {
		return
	}

	item, err := h.workspace.GetItem(r.Context(), httputil.GetUserID(r), itemID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// DeleteItem deletes one item
// DELETE /api/workspace/items/{id}
func (h *WorkspaceHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, ok := PathParam(w, r, "id", "Item ID")
	if !ok {
		return
	}

	item, err := h.workspace.DeleteItem(r.Context(), httputil.GetUserID(r), itemID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"message": "Item deletado com sucesso",
		"item":    item,
	})
}

// parsePath accepts "A/B/C" or ["A","B","C"]
func parsePath(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, domain.ErrInvalidPath
	}
	var segments []string
	if err := json.Unmarshal(raw, &segments); err == nil {
		return workspace.CleanSegments(segments), nil
	}
	var path string
	if err := json.Unmarshal(raw, &path); err != nil {
		return nil, domain.ErrInvalidPath
	}
	return workspace.SplitPath(path), nil
}
