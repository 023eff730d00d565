package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/services"
)

const (
	msgNotImplemented   = "Função não implementada."
	msgInvalidArguments = "Erro: argumentos da função inválidos."
	msgFolderNotFound   = "❌ Pasta não encontrada ou não pertence ao usuário"
	msgInvalidPath      = "❌ Caminho de pastas inválido."
	msgUnsupportedFile  = "Tipo de arquivo não suportado."
	msgReportGenerated  = "Relatório gerado com sucesso! Você pode visualizá-lo agora."
	msgReportFailed     = "Erro ao gerar relatório. Tente novamente."
)

// Dispatcher executes assistant function calls against the workspace, report and
// file services
type Dispatcher struct {
	workspace services.WorkspaceService
	reports   services.ReportService
	files     services.FileService
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher
func NewDispatcher(
	workspace services.WorkspaceService,
	reports services.ReportService,
	files services.FileService,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		workspace: workspace,
		reports:   reports,
		files:     files,
		logger:    logger,
	}
}

// Dispatch runs functionName with argsJSON for userID. Bad input and missing
// resources come back as Result content; only storage and upstream failures are errors.
func (d *Dispatcher) Dispatch(ctx context.Context, userID, functionName, argsJSON string) (*Result, error) {
	a := args{}
	if raw := strings.TrimSpace(argsJSON); raw != "" {
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			d.logger.Warn("invalid function arguments", "function", functionName, "error", err)
			return message(msgInvalidArguments), nil
		}
		if a == nil {
			a = args{}
		}
	}

	d.logger.Info("function call", "function", functionName, "user_id", userID)

	switch op := Operation(functionName); op {
	case OpGenerateFile:
		return d.generateFile(ctx, a)
	case OpGenerateReport:
		return d.generateReport(ctx, userID, a)
	case OpCreateFolder:
		return d.createFolder(ctx, userID, a)
	case OpCreateSubfolder:
		return d.createSubfolder(ctx, userID, a)
	case OpAddItemToFolder:
		return d.addItemToFolder(ctx, userID, a)
	case OpListFolders:
		return d.listFolders(ctx, userID)
	case OpSearchItems:
		return d.searchItems(ctx, userID, a)
	case OpDeleteFolder:
		return d.deleteFolder(ctx, userID, a)
	case OpCreateFolderPath:
		return d.createFolderPath(ctx, userID, a)
	case OpAddItemToPath:
		return d.addItemToPath(ctx, userID, a)
	default:
		d.logger.Warn("unknown function", "function", functionName)
		return message(msgNotImplemented), nil
	}
}

// userFacing turns expected failures into transcript content and passes the rest through
func userFacing(err error, notFound string) (*Result, error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPath):
		return message(msgInvalidPath), nil
	case errors.Is(err, domain.ErrNotFound):
		return message(notFound), nil
	case errors.Is(err, domain.ErrValidation):
		return message("❌ " + err.Error()), nil
	default:
		return nil, err
	}
}

func (d *Dispatcher) generateFile(ctx context.Context, a args) (*Result, error) {
	fileType := models.FileType(strings.ToLower(a.str("fileType")))
	if !fileType.Valid() {
		return message(msgUnsupportedFile), nil
	}

	file, err := d.files.Generate(ctx, &services.GenerateFileRequest{
		FileType: fileType,
		Title:    a.str("title"),
		Fields:   models.CoerceContent(a["fields"]),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFileType) {
			return message(msgUnsupportedFile), nil
		}
		return nil, err
	}

	return &Result{
		Content: fmt.Sprintf("✅ Arquivo %s gerado com sucesso!", strings.ToUpper(string(fileType))),
		File:    file,
	}, nil
}

func (d *Dispatcher) generateReport(ctx context.Context, userID string, a args) (*Result, error) {
	ref := a.str("folderId")
	if ref == "" {
		if segs := a.path("folderPath"); len(segs) > 0 {
			ref = strings.Join(segs, "/")
		}
	}

	var cfg models.ReportConfig
	if raw := a.object("config"); raw != nil {
		cfg = models.ReportConfig{
			PrimaryColor:   args(raw).str("primaryColor"),
			SecondaryColor: args(raw).str("secondaryColor"),
			AccentColor:    args(raw).str("accentColor"),
			FontFamily:     args(raw).str("fontFamily"),
			Logo:           args(raw).str("logo"),
		}
	}

	report, err := d.reports.Generate(ctx, userID, &services.GenerateReportRequest{
		FolderRef:    ref,
		Title:        a.str("title"),
		Subtitle:     a.str("subtitle"),
		Config:       cfg,
		IncludeCards: a.boolean("includeCards"),
	})
	if err != nil {
		if errors.Is(err, domain.ErrPersistence) {
			return nil, err
		}
		d.logger.Error("report generation failed", "user_id", userID, "folder", ref, "error", err)
		return message(msgReportFailed), nil
	}

	return &Result{
		Content: msgReportGenerated,
		Report:  &ReportPayload{HTML: report.HTML, Data: report.Data},
	}, nil
}

// createNamed creates name under parentID, returning the existing sibling on a name clash
func (d *Dispatcher) createNamed(ctx context.Context, userID string, req *services.CreateFolderRequest) (*models.Folder, bool, error) {
	folder, err := d.workspace.CreateFolder(ctx, userID, req)
	if err == nil {
		return folder, true, nil
	}

	var conflict *domain.ConflictError
	if errors.As(err, &conflict) && conflict.ResourceID != "" {
		existing, getErr := d.workspace.GetFolder(ctx, userID, conflict.ResourceID)
		if getErr != nil {
			return nil, false, getErr
		}
		return &existing.Folder, false, nil
	}
	return nil, false, err
}

func folderMessage(folder *models.Folder, created bool) string {
	if created {
		return fmt.Sprintf("✅ Pasta \"%s\" criada com sucesso!", folder.Name)
	}
	return fmt.Sprintf("📁 A pasta \"%s\" já existe.", folder.Name)
}

func (d *Dispatcher) createFolder(ctx context.Context, userID string, a args) (*Result, error) {
	folder, created, err := d.createNamed(ctx, userID, &services.CreateFolderRequest{
		Name:        a.str("name"),
		Description: a.optStr("description"),
		Icon:        a.str("icon"),
		Color:       a.str("color"),
		ParentID:    a.optStr("parentId"),
	})
	if err != nil {
		return userFacing(err, msgFolderNotFound)
	}

	return &Result{
		Content:   folderMessage(folder, created),
		Workspace: &WorkspacePayload{Action: ActionFolderCreated, Folder: folder},
	}, nil
}

func (d *Dispatcher) createSubfolder(ctx context.Context, userID string, a args) (*Result, error) {
	parentPath := a.path("folderPath")
	if len(parentPath) == 0 {
		return message("folderPath inválido para create_subfolder."), nil
	}

	parent, err := d.workspace.CreateFolderPath(ctx, userID, &services.CreateFolderPathRequest{Path: parentPath})
	if err != nil {
		return userFacing(err, msgFolderNotFound)
	}

	folder, created, err := d.createNamed(ctx, userID, &services.CreateFolderRequest{
		Name:     a.str("name"),
		Icon:     a.str("icon"),
		Color:    a.str("color"),
		ParentID: &parent.ID,
	})
	if err != nil {
		return userFacing(err, msgFolderNotFound)
	}

	return &Result{
		Content: folderMessage(folder, created),
		Workspace: &WorkspacePayload{
			Action: ActionSubfolderCreated,
			Folder: folder,
			Path:   append(parentPath, folder.Name),
		},
	}, nil
}

func (d *Dispatcher) addItemToFolder(ctx context.Context, userID string, a args) (*Result, error) {
	target, ok := normalizeTarget(a)
	if !ok {
		return message("add_item_to_folder requer folderPath ou folderName."), nil
	}

	res, err := d.addItem(ctx, userID, target, a)
	if err != nil {
		return userFacing(err, msgFolderNotFound)
	}

	return &Result{
		Content: fmt.Sprintf("✅ Item \"%s\" adicionado em \"%s\"", res.Item.Title, res.Folder.Name),
		Workspace: &WorkspacePayload{
			Action: ActionItemAdded,
			Folder: res.Folder,
			Item:   res.Item,
			Path:   res.Path,
		},
	}, nil
}

func (d *Dispatcher) addItemToPath(ctx context.Context, userID string, a args) (*Result, error) {
	segments := a.path("path")
	if len(segments) == 0 {
		segments = a.path("folderPath")
	}
	if len(segments) == 0 {
		return message("add_item_to_path requer path."), nil
	}

	res, err := d.addItem(ctx, userID, services.FolderByPath(segments...), a)
	if err != nil {
		return userFacing(err, msgFolderNotFound)
	}

	return &Result{
		Content: fmt.Sprintf("📝 Item \"%s\" adicionado em %s", res.Item.Title, strings.Join(segments, "/")),
		Workspace: &WorkspacePayload{
			Action: ActionItemAddedToPath,
			Folder: res.Folder,
			Item:   res.Item,
			Path:   res.Path,
		},
	}, nil
}

func (d *Dispatcher) addItem(ctx context.Context, userID string, target services.FolderTarget, a args) (*services.AddItemResult, error) {
	content := models.CoerceContent(a["content"])
	return d.workspace.AddItem(ctx, userID, target, &services.AddItemRequest{
		Title:    itemTitle(a, content),
		Content:  content,
		ItemType: a.optStr("itemType"),
		Tags:     a.list("tags"),
	})
}

func (d *Dispatcher) listFolders(ctx context.Context, userID string) (*Result, error) {
	folders, err := d.workspace.ListFolders(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(folders))
	for _, f := range folders {
		lines = append(lines, fmt.Sprintf("• %s %s (%d items)", f.Icon, f.Name, f.ItemCount))
	}
	body := strings.Join(lines, "\n")
	if body == "" {
		body = "Nenhuma pasta criada ainda."
	}

	return &Result{
		Content:   "📂 Suas pastas:\n\n" + body,
		Workspace: &WorkspacePayload{Action: ActionFoldersListed, Folders: folders},
	}, nil
}

func (d *Dispatcher) searchItems(ctx context.Context, userID string, a args) (*Result, error) {
	req := &services.SearchRequest{
		Query: a.str("query"),
		Tags:  a.list("tags"),
	}
	if target, ok := normalizeTarget(a); ok {
		req.Folder = &target
	}

	items, err := d.workspace.SearchItems(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(items))
	for _, it := range items {
		folderName := "sem pasta"
		if it.Folder != nil {
			folderName = it.Folder.Name
		}
		lines = append(lines, fmt.Sprintf("• %s (%s)", it.Title, folderName))
	}
	body := strings.Join(lines, "\n")
	if body == "" {
		body = "Nenhum item encontrado."
	}

	return &Result{
		Content: fmt.Sprintf("🔍 Encontrei %d item(s):\n\n%s", len(items), body),
		Workspace: &WorkspacePayload{
			Action: ActionItemsSearched,
			Items:  items,
			Count:  len(items),
		},
	}, nil
}

func (d *Dispatcher) deleteFolder(ctx context.Context, userID string, a args) (*Result, error) {
	folderID := a.str("folderId")
	if folderID == "" {
		return message(msgFolderNotFound), nil
	}

	folder, err := d.workspace.DeleteFolder(ctx, userID, folderID)
	if err != nil {
		return userFacing(err, msgFolderNotFound)
	}

	return &Result{
		Content:   fmt.Sprintf("✅ Pasta \"%s\" deletada com sucesso!", folder.Name),
		Workspace: &WorkspacePayload{Action: ActionFolderDeleted, Folder: folder},
	}, nil
}

func (d *Dispatcher) createFolderPath(ctx context.Context, userID string, a args) (*Result, error) {
	segments := a.path("path")
	if len(segments) == 0 {
		segments = a.path("folderPath")
	}

	folder, err := d.workspace.CreateFolderPath(ctx, userID, &services.CreateFolderPathRequest{
		Path:  segments,
		Icon:  a.str("icon"),
		Color: a.str("color"),
	})
	if err != nil {
		return userFacing(err, msgFolderNotFound)
	}

	return &Result{
		Content: fmt.Sprintf("📁 Estrutura criada: %s", strings.Join(segments, "/")),
		Workspace: &WorkspacePayload{
			Action: ActionFolderPathCreated,
			Folder: folder,
			Path:   segments,
		},
	}, nil
}
