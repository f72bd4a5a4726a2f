package documents

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("document not found")
	ErrStorageWrite  = errors.New("storage write failed")
	ErrStorageRead   = errors.New("storage read failed")
	ErrMetadataWrite = errors.New("metadata write failed")
)
