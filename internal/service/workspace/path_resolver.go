package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"eventdesk/internal/config"
	"eventdesk/internal/domain"
	"eventdesk/internal/domain/models"
	"eventdesk/internal/domain/repositories"
)

// PathResolver turns folder paths into folders, creating missing levels on demand
type PathResolver struct {
	folderRepo repositories.FolderRepository
	txManager  repositories.TransactionManager
	locks      *keyedMutex
	logger     *slog.Logger
}

// NewPathResolver creates a new path resolver
func NewPathResolver(
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *PathResolver {
	return &PathResolver{
		folderRepo: folderRepo,
		txManager:  txManager,
		locks:      newKeyedMutex(),
		logger:     logger,
	}
}

// CleanSegments trims every segment and drops the empty ones.
func CleanSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SplitPath splits "A/B/C" into cleaned segments
func SplitPath(path string) []string {
	return CleanSegments(strings.Split(path, "/"))
}

func validateSegments(segments []string) error {
	if len(segments) == 0 {
		return domain.ErrInvalidPath
	}
	if len(segments) > config.MaxFolderDepth {
		return domain.NewValidation("caminho excede a profundidade máxima de %d pastas", config.MaxFolderDepth)
	}
	if n := utf8.RuneCountInString(strings.Join(segments, "/")); n > config.MaxFolderPathLength {
		return domain.NewValidation("caminho excede o tamanho máximo de %d caracteres", config.MaxFolderPathLength)
	}
	for _, s := range segments {
		if utf8.RuneCountInString(s) > config.MaxFolderNameLength {
			return domain.NewValidation("nome de pasta '%s' excede o tamanho máximo de %d caracteres", s, config.MaxFolderNameLength)
		}
	}
	return nil
}

// ResolvePath returns the deepest folder of segments, creating every missing level.
// Hints style only the folders this call creates. Existing paths are returned as is.
func (r *PathResolver) ResolvePath(ctx context.Context, userID string, segments []string, iconHint, colorHint string) (*models.Folder, error) {
	segments = CleanSegments(segments)
	if err := validateSegments(segments); err != nil {
		return nil, err
	}

	if iconHint == "" {
		iconHint = models.DefaultFolderIcon
	}
	if colorHint == "" {
		colorHint = models.DefaultFolderColor
	}

	unlock := r.locks.Lock(userID)
	defer unlock()

	var current *models.Folder
	err := r.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var parentID *string
		for _, name := range segments {
			folder, created, err := r.folderRepo.CreateIfNotExists(txCtx, &models.Folder{
				UserID:   userID,
				ParentID: parentID,
				Name:     name,
				Icon:     iconHint,
				Color:    colorHint,
			})
			if err != nil {
				return fmt.Errorf("resolve folder '%s': %w", name, err)
			}
			if created {
				r.logger.Debug("folder created by path",
					"id", folder.ID,
					"name", folder.Name,
					"parent_id", parentID,
					"user_id", userID,
				)
			}
			current = folder
			parentID = &folder.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return current, nil
}

// LookupPath walks segments without creating folders
func (r *PathResolver) LookupPath(ctx context.Context, userID string, segments []string) (*models.Folder, error) {
	segments = CleanSegments(segments)
	if len(segments) == 0 {
		return nil, domain.ErrInvalidPath
	}

	var current *models.Folder
	var parentID *string
	for _, name := range segments {
		folder, err := r.folderRepo.FindChildByName(ctx, userID, parentID, name)
		if err != nil {
			return nil, err
		}
		if folder == nil {
			return nil, domain.NewNotFound("folder", strings.Join(segments, "/"))
		}
		current = folder
		parentID = &folder.ID
	}
	return current, nil
}
