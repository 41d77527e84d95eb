// Package extract turns uploaded receipt files into structured receipts.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/theirongolddev/moneymate/internal/model"
)

var (
	// ErrUnsupportedFileType is returned for uploads that are not JPG, PNG or PDF.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrCorruptFile is returned when the bytes do not decode as the claimed type.
	ErrCorruptFile = errors.New("corrupt file")
	// ErrNoText is returned for PDFs without an extractable text layer.
	ErrNoText = errors.New("pdf has no text layer")
	// ErrExtraction wraps failures talking to the extraction model.
	ErrExtraction = errors.New("extraction failed")
	// ErrInvalidReceipt is returned when the model output is not a valid receipt.
	ErrInvalidReceipt = errors.New("invalid receipt")
)

// Upload is a file submitted for extraction.
type Upload struct {
	Filename string
	Data     []byte
}

// Extractor produces a Receipt from an uploaded file.
type Extractor interface {
	Extract(ctx context.Context, up Upload) (model.Receipt, error)
}

// Classify returns the file type for filename, or ErrUnsupportedFileType.
func Classify(filename string) (model.FileType, error) {
	ft := model.FileTypeFromFilename(filename)
	if !ft.Supported() {
		return ft, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filename)
	}
	return ft, nil
}
