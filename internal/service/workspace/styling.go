package workspace

import (
	"strings"

	"eventdesk/internal/domain/models"
)

type folderStyle struct {
	Icon  string
	Color string
}

var itemTypeStyles = map[string]folderStyle{
	"compra":     {"🛒", "#10B981"},
	"evento":     {"🎉", "#8B5CF6"},
	"tarefa":     {"✅", "#3B82F6"},
	"nota":       {"📝", "#F59E0B"},
	"fornecedor": {"🏢", "#6366F1"},
	"pagamento":  {"💰", "#EF4444"},
	"contrato":   {"📄", "#06B6D4"},
}

// StyleFor returns the icon and color used for folders auto-created for an item type.
func StyleFor(itemType *string) (icon, color string) {
	if itemType != nil {
		if s, ok := itemTypeStyles[strings.ToLower(strings.TrimSpace(*itemType))]; ok {
			return s.Icon, s.Color
		}
	}
	return models.DefaultFolderIcon, models.DefaultFolderColor
}
