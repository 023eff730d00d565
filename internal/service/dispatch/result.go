package dispatch

import (
	"eventdesk/internal/domain/models"
)

// Result is the dual-channel outcome of one function call: Content goes into the
// transcript, the structured parts drive the client.
type Result struct {
	Content   string                `json:"content"`
	Workspace *WorkspacePayload     `json:"workspace,omitempty"`
	File      *models.GeneratedFile `json:"file,omitempty"`
	Report    *ReportPayload        `json:"report,omitempty"`
}

// WorkspacePayload describes what a workspace operation touched
type WorkspacePayload struct {
	Action  string                 `json:"action"`
	Folder  *models.Folder         `json:"folder,omitempty"`
	Item    *models.FolderItem     `json:"item,omitempty"`
	Folders []models.FolderSummary `json:"folders,omitempty"`
	Items   []models.FolderItem    `json:"items,omitempty"`
	Count   int                    `json:"count,omitempty"`
	Path    []string               `json:"path,omitempty"`
}

// ReportPayload carries a rendered report
type ReportPayload struct {
	HTML string             `json:"html"`
	Data *models.ReportData `json:"data"`
}

func message(content string) *Result {
	return &Result{Content: content}
}
