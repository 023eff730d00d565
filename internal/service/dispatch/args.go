package dispatch

import (
	"strings"

	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/services"
	"eventdesk/internal/service/workspace"
)

// args is the decoded argument object of a function call. Models send loosely
// typed values, so every accessor tolerates the wrong shape.
type args map[string]any

func (a args) str(key string) string {
	switch v := a[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(models.FormatValue(v))
	}
}

func (a args) optStr(key string) *string {
	if s := a.str(key); s != "" {
		return &s
	}
	return nil
}

func (a args) boolean(key string) bool {
	b, _ := a[key].(bool)
	return b
}

// list accepts a JSON array of strings or a single string
func (a args) list(key string) []string {
	switch v := a[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s := strings.TrimSpace(models.FormatValue(e)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return workspace.CleanSegments(v)
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	}
	return nil
}

// path accepts ["A","B"] or "A/B"
func (a args) path(key string) []string {
	switch v := a[key].(type) {
	case string:
		return workspace.SplitPath(v)
	case []any, []string:
		return workspace.CleanSegments(a.list(key))
	}
	return nil
}

func (a args) object(key string) map[string]any {
	m, _ := a[key].(map[string]any)
	return m
}

// normalizeTarget picks the folder target in priority order: folderPath, path,
// legacy folderName, folderId.
func normalizeTarget(a args) (services.FolderTarget, bool) {
	if segs := a.path("folderPath"); len(segs) > 0 {
		return services.FolderByPath(segs...), true
	}
	if segs := a.path("path"); len(segs) > 0 {
		return services.FolderByPath(segs...), true
	}
	if name := a.str("folderName"); name != "" {
		return services.FolderByLegacyName(name), true
	}
	if id := a.str("folderId"); id != "" {
		return services.FolderByID(id), true
	}
	return services.FolderTarget{}, false
}

// itemTitle falls back to content.title and then to a placeholder
func itemTitle(a args, content models.Content) string {
	if t := a.str("title"); t != "" {
		return t
	}
	if t := strings.TrimSpace(content.Text("title")); t != "" {
		return t
	}
	return "Sem título"
}
