package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"eventdesk/internal/config"
	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/repositories"
	"eventdesk/internal/domain/services"
	"eventdesk/internal/textutil"
)

// Store implements services.WorkspaceService
type Store struct {
	folderRepo repositories.FolderRepository
	itemRepo   repositories.ItemRepository
	resolver   services.PathResolver
	txManager  repositories.TransactionManager
	notifier   services.ChangeNotifier
	logger     *slog.Logger
}

var _ services.WorkspaceService = (*Store)(nil)

// NewStore creates the workspace store. notifier may be nil.
func NewStore(
	folderRepo repositories.FolderRepository,
	itemRepo repositories.ItemRepository,
	resolver services.PathResolver,
	txManager repositories.TransactionManager,
	notifier services.ChangeNotifier,
	logger *slog.Logger,
) *Store {
	return &Store{
		folderRepo: folderRepo,
		itemRepo:   itemRepo,
		resolver:   resolver,
		txManager:  txManager,
		notifier:   notifier,
		logger:     logger,
	}
}

func (s *Store) notify(ctx context.Context, action, userID, folderID, itemID string) {
	if s.notifier == nil {
		return
	}
	s.notifier.WorkspaceChanged(ctx, services.WorkspaceChange{
		Action:   action,
		UserID:   userID,
		FolderID: folderID,
		ItemID:   itemID,
	})
}

// toValidation turns ozzo errors into the domain validation error, keeping only
// the messages in field order
func toValidation(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for field := range verrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, verrs[field].Error())
	}
	return domain.NewValidation("%s", strings.Join(msgs, "; "))
}

// CreateFolder creates a single folder. Sibling names are not pre-checked; the
// repository reports a clash as a ConflictError.
func (s *Store) CreateFolder(ctx context.Context, userID string, req *CreateFolderRequest) (*models.Folder, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.ParentID != nil && strings.TrimSpace(*req.ParentID) == "" {
		req.ParentID = nil
	}

	if err := toValidation(validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required.Error("Nome da pasta é obrigatório"),
			validation.RuneLength(1, config.MaxFolderNameLength).Error(
				fmt.Sprintf("Nome da pasta deve ter no máximo %d caracteres", config.MaxFolderNameLength)),
		),
		validation.Field(&req.Icon, validation.RuneLength(0, 16).Error("Ícone deve ter no máximo 16 caracteres")),
		validation.Field(&req.Color, validation.RuneLength(0, 32).Error("Cor deve ter no máximo 32 caracteres")),
	)); err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.ParentID, userID); err != nil {
			return nil, fmt.Errorf("invalid parent: %w", err)
		}
	}

	folder := &models.Folder{
		UserID:      userID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		Description: req.Description,
		Icon:        orDefault(req.Icon, models.DefaultFolderIcon),
		Color:       orDefault(req.Color, models.DefaultFolderColor),
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"parent_id", folder.ParentID,
		"user_id", userID,
	)
	s.notify(ctx, services.ChangeFolderCreated, userID, folder.ID, "")

	return folder, nil
}

// CreateFolderPath resolves the path, creating whatever is missing
func (s *Store) CreateFolderPath(ctx context.Context, userID string, req *CreateFolderPathRequest) (*models.Folder, error) {
	folder, err := s.resolver.ResolvePath(ctx, userID, req.Path, req.Icon, req.Color)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, services.ChangeFolderCreated, userID, folder.ID, "")
	return folder, nil
}

// AddItem stores an item in the folder named by target. Path and legacy-name targets
// create missing folders styled after the item type.
func (s *Store) AddItem(ctx context.Context, userID string, target FolderTarget, req *AddItemRequest) (*AddItemResult, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Tags = cleanTags(req.Tags)

	if err := toValidation(validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required.Error("Título do item é obrigatório"),
			validation.RuneLength(1, config.MaxItemTitleLength).Error(
				fmt.Sprintf("Título do item deve ter no máximo %d caracteres", config.MaxItemTitleLength)),
		),
		validation.Field(&req.Tags, validation.Length(0, config.MaxTags).Error(
			fmt.Sprintf("Máximo de %d tags por item", config.MaxTags))),
	)); err != nil {
		return nil, err
	}

	var itemType *string
	if req.ItemType != nil {
		if t := strings.TrimSpace(*req.ItemType); t != "" {
			itemType = &t
		}
	}

	result := &AddItemResult{}
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		folder, err := s.resolveTarget(txCtx, userID, target, itemType)
		if err != nil {
			return err
		}

		item := &models.FolderItem{
			FolderID: folder.ID,
			UserID:   userID,
			Title:    req.Title,
			Content:  models.CoerceContent(req.Content),
			ItemType: itemType,
			Tags:     req.Tags,
		}
		if err := s.itemRepo.Create(txCtx, item); err != nil {
			return err
		}
		ref := folder.Ref()
		item.Folder = &ref

		result.Folder = folder
		result.Item = item
		if target.Kind() == services.TargetByPath {
			result.Path = CleanSegments(target.Segments())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item added",
		"id", result.Item.ID,
		"folder_id", result.Folder.ID,
		"target", target.String(),
		"user_id", userID,
	)
	s.notify(ctx, services.ChangeItemAdded, userID, result.Folder.ID, result.Item.ID)

	return result, nil
}

func (s *Store) resolveTarget(ctx context.Context, userID string, target FolderTarget, itemType *string) (*models.Folder, error) {
	icon, color := StyleFor(itemType)

	switch target.Kind() {
	case services.TargetByID:
		return s.folderRepo.GetByID(ctx, target.ID(), userID)
	case services.TargetByPath:
		return s.resolver.ResolvePath(ctx, userID, target.Segments(), icon, color)
	case services.TargetByLegacyName:
		name := strings.TrimSpace(target.Name())
		if name == "" {
			return nil, domain.ErrInvalidPath
		}
		return s.resolver.ResolvePath(ctx, userID, []string{name}, icon, color)
	default:
		return nil, domain.NewValidation("pasta de destino não informada")
	}
}

// lookupTarget resolves target without creating anything. A target that names
// nothing returns nil, nil.
func (s *Store) lookupTarget(ctx context.Context, userID string, target FolderTarget) (*models.Folder, error) {
	var folder *models.Folder
	var err error

	switch target.Kind() {
	case services.TargetByID:
		folder, err = s.folderRepo.GetByID(ctx, target.ID(), userID)
	case services.TargetByPath:
		folder, err = s.resolver.LookupPath(ctx, userID, target.Segments())
	case services.TargetByLegacyName:
		folder, err = s.resolver.LookupPath(ctx, userID, []string{target.Name()})
	default:
		return nil, nil
	}

	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		return nil, nil
	}
	return folder, err
}

// ListFolders returns every folder newest first with item counts and direct children
func (s *Store) ListFolders(ctx context.Context, userID string) ([]models.FolderSummary, error) {
	folders, err := s.folderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.folderRepo.CountItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	// folders are newest first; children are listed oldest first
	children := make(map[string][]models.FolderRef)
	for i := len(folders) - 1; i >= 0; i-- {
		f := folders[i]
		if f.ParentID != nil {
			children[*f.ParentID] = append(children[*f.ParentID], f.Ref())
		}
	}

	summaries := make([]models.FolderSummary, 0, len(folders))
	for _, f := range folders {
		subs := children[f.ID]
		if subs == nil {
			subs = []models.FolderRef{}
		}
		summaries = append(summaries, models.FolderSummary{
			Folder:     f,
			ItemCount:  counts[f.ID],
			SubFolders: subs,
		})
	}
	return summaries, nil
}

// SearchItems filters by folder (exact, non-creating), tags (any) and a case- and
// accent-insensitive substring over title and encoded content
func (s *Store) SearchItems(ctx context.Context, userID string, req *SearchRequest) ([]models.FolderItem, error) {
	filter := models.ItemFilter{Tags: cleanTags(req.Tags)}

	if req.Folder != nil {
		folder, err := s.lookupTarget(ctx, userID, *req.Folder)
		if err != nil {
			return nil, err
		}
		if folder == nil {
			return []models.FolderItem{}, nil
		}
		filter.FolderID = &folder.ID
	}

	items, err := s.itemRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	return filterByQuery(items, req.Query), nil
}

// DeleteFolder removes a folder, its descendants and all their items
func (s *Store) DeleteFolder(ctx context.Context, userID, folderID string) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.folderRepo.Delete(ctx, folderID, userID); err != nil {
		return nil, err
	}

	s.logger.Info("folder deleted", "id", folderID, "name", folder.Name, "user_id", userID)
	s.notify(ctx, services.ChangeFolderDeleted, userID, folderID, "")

	return folder, nil
}

// DeleteItem removes one item
func (s *Store) DeleteItem(ctx context.Context, userID, itemID string) (*models.FolderItem, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.itemRepo.Delete(ctx, itemID, userID); err != nil {
		return nil, err
	}

	s.logger.Info("item deleted", "id", itemID, "folder_id", item.FolderID, "user_id", userID)
	s.notify(ctx, services.ChangeItemDeleted, userID, item.FolderID, itemID)

	return item, nil
}

// GetFolder loads a folder with its items, oldest first
func (s *Store) GetFolder(ctx context.Context, userID, folderID string) (*models.FolderWithItems, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.itemRepo.ListByFolder(ctx, folderID, userID)
	if err != nil {
		return nil, err
	}
	return &models.FolderWithItems{Folder: *folder, Items: items, ItemCount: len(items)}, nil
}

// GetItem loads one item with its folder reference
func (s *Store) GetItem(ctx context.Context, userID, itemID string) (*models.FolderItem, error) {
	return s.itemRepo.GetByID(ctx, itemID, userID)
}

// ListItems lists items newest first, optionally narrowed by folder, type and text
func (s *Store) ListItems(ctx context.Context, userID string, req *ListItemsRequest) ([]models.FolderItem, error) {
	items, err := s.itemRepo.List(ctx, userID, models.ItemFilter{
		FolderID: req.FolderID,
		ItemType: req.ItemType,
	})
	if err != nil {
		return nil, err
	}
	return filterByQuery(items, req.Query), nil
}

// Tree nests all folders under their parents, siblings oldest first
func (s *Store) Tree(ctx context.Context, userID string) ([]*models.FolderTreeNode, error) {
	folders, err := s.folderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.folderRepo.CountItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(folders, func(i, j int) bool { return folders[i].CreatedAt.Before(folders[j].CreatedAt) })

	nodes := make(map[string]*models.FolderTreeNode, len(folders))
	for _, f := range folders {
		nodes[f.ID] = &models.FolderTreeNode{
			ID:        f.ID,
			Name:      f.Name,
			Icon:      f.Icon,
			Color:     f.Color,
			ParentID:  f.ParentID,
			ItemCount: counts[f.ID],
			CreatedAt: f.CreatedAt,
			Folders:   []*models.FolderTreeNode{},
		}
	}

	roots := []*models.FolderTreeNode{}
	for _, f := range folders {
		node := nodes[f.ID]
		if f.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*f.ParentID]; ok {
			parent.Folders = append(parent.Folders, node)
		}
	}
	return roots, nil
}

func filterByQuery(items []models.FolderItem, query string) []models.FolderItem {
	q := textutil.Fold(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	out := []models.FolderItem{}
	for _, it := range items {
		if strings.Contains(textutil.Fold(it.Title), q) || strings.Contains(textutil.Fold(it.Content.JSON()), q) {
			out = append(out, it)
		}
	}
	return out
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func orDefault(v, d string) string {
	if strings.TrimSpace(v) == "" {
		return d
	}
	return v
}
