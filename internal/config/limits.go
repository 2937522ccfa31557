package config

// Validation limits shared by the service layer.
const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxDocumentTitleLength is the maximum length for document titles.
	// Same bound as folder names for consistency.
	MaxDocumentTitleLength = 255

	// MaxTagNameLength is the maximum length for tag names.
	MaxTagNameLength = 100

	// MaxDescriptionLength bounds folder and document descriptions.
	MaxDescriptionLength = 2000

	// MaxCommentLength bounds comment bodies.
	MaxCommentLength = 5000

	// MaxUploadBytes caps a single uploaded file (50 MB).
	MaxUploadBytes = 50 << 20

	// MaxShareBatch caps how many user IDs one share/unshare request may name.
	MaxShareBatch = 100
)
