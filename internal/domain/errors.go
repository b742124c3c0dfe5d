package domain

import "errors"

var (
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrItemNotFound        = errors.New("invoice item not found")
	ErrBoxCountNotFound    = errors.New("box count not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrImageLoad           = errors.New("source image unreadable")

	// ErrExtractionEmpty marks an image from which no text at all was
	// recognized. Terminal for that image; never retried.
	ErrExtractionEmpty = errors.New("no text recognized in image")
)
