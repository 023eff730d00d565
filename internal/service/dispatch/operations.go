package dispatch

// Operation names a function the assistant may call
type Operation string

const (
	OpGenerateFile     Operation = "generate_file"
	OpGenerateReport   Operation = "generate_report"
	OpCreateFolder     Operation = "create_folder"
	OpCreateSubfolder  Operation = "create_subfolder"
	OpAddItemToFolder  Operation = "add_item_to_folder"
	OpListFolders      Operation = "list_folders"
	OpSearchItems      Operation = "search_items"
	OpDeleteFolder     Operation = "delete_folder"
	OpCreateFolderPath Operation = "create_folder_path"
	OpAddItemToPath    Operation = "add_item_to_path"
)

// Operations lists every operation the dispatcher handles, in catalog order
func Operations() []Operation {
	return []Operation{
		OpGenerateFile,
		OpGenerateReport,
		OpCreateFolder,
		OpCreateSubfolder,
		OpAddItemToFolder,
		OpListFolders,
		OpSearchItems,
		OpDeleteFolder,
		OpCreateFolderPath,
		OpAddItemToPath,
	}
}

// Workspace payload actions
const (
	ActionFolderCreated     = "folder_created"
	ActionSubfolderCreated  = "subfolder_created"
	ActionItemAdded         = "item_added"
	ActionFoldersListed     = "folders_listed"
	ActionItemsSearched     = "items_searched"
	ActionFolderDeleted     = "folder_deleted"
	ActionFolderPathCreated = "folder_path_created"
	ActionItemAddedToPath   = "item_added_to_path"
)
