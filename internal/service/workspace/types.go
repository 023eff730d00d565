package workspace

import "eventdesk/internal/domain/services"

// Local aliases keep call sites in this package short.
type (
	CreateFolderRequest     = services.CreateFolderRequest
	CreateFolderPathRequest = services.CreateFolderPathRequest
	AddItemRequest          = services.AddItemRequest
	AddItemResult           = services.AddItemResult
	SearchRequest           = services.SearchRequest
	ListItemsRequest        = services.ListItemsRequest
	FolderTarget            = services.FolderTarget
)
