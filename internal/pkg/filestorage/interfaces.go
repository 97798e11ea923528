package filestorage

import "mime/multipart"

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveUpload stores an uploaded file namespaced by its owner and returns
	// the stored path.
	SaveUpload(ownerID int64, fileHeader *multipart.FileHeader) (string, error)

	// DeleteFile removes a stored file. Missing files are not an error.
	DeleteFile(filePath string) error

	// Exists reports whether a stored path still points at a file.
	Exists(filePath string) bool
}
