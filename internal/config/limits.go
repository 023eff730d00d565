package config

const (
	// MaxFolderNameLength is the maximum length for a single folder name.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxFolderPathLength bounds a slash-joined folder path. Longer paths indicate
	// overly deep hierarchies.
	MaxFolderPathLength = 500

	// MaxFolderDepth is the deepest path the resolver will walk or create.
	MaxFolderDepth = 10

	// MaxItemTitleLength is the maximum length for item titles.
	MaxItemTitleLength = 255

	// MaxTags caps the number of tags on one item.
	MaxTags = 20

	// MaxMessageLength is the maximum length of a user chat message.
	MaxMessageLength = 8000

	// DefaultConversationListLimit is used when the caller gives no limit.
	DefaultConversationListLimit = 10

	// MaxConversationListLimit caps list requests.
	MaxConversationListLimit = 100
)
